package integrity

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"ppe-manager/core/database"
	"ppe-manager/core/storage"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// Status classifies a check result.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result is the outcome of a single check run.
type Result struct {
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Check inspects one aspect of the deployment.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// Fixer is implemented by checks that can repair what they detect.
type Fixer interface {
	Fix(ctx context.Context) error
}

func result(name string, status Status, detail string) Result {
	return Result{Name: name, Status: status, Detail: detail, CheckedAt: time.Now()}
}

// SchemaCheck verifies the required tables exist and are not empty of
// columns. Tables created by a partial migration show up here.
type SchemaCheck struct {
	db     *gorm.DB
	tables []string
}

// NewSchemaCheck creates a schema check over the given tables.
func NewSchemaCheck(db *gorm.DB, tables []string) *SchemaCheck {
	return &SchemaCheck{db: db, tables: tables}
}

// Name returns the check name.
func (c *SchemaCheck) Name() string { return "schema" }

// Run inspects each required table.
func (c *SchemaCheck) Run(ctx context.Context) Result {
	var missing []string
	for _, table := range c.tables {
		cols, err := database.GetTableColumns(c.db.WithContext(ctx), table)
		if err != nil || len(cols) == 0 {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return result(c.Name(), StatusFail,
			fmt.Sprintf("missing tables: %s", strings.Join(missing, ", ")))
	}
	return result(c.Name(), StatusOK, "")
}

// StorageCheck verifies the object storage bucket and its expected
// prefixes exist. Its Fix creates the bucket and seeds missing prefixes
// with a placeholder object.
type StorageCheck struct {
	client   storage.Client
	bucket   string
	prefixes []string
}

// NewStorageCheck creates a storage check for the given bucket.
func NewStorageCheck(client storage.Client, bucket string, prefixes ...string) *StorageCheck {
	return &StorageCheck{client: client, bucket: bucket, prefixes: prefixes}
}

// Name returns the check name.
func (c *StorageCheck) Name() string { return "storage" }

// Run checks the bucket and its prefixes.
func (c *StorageCheck) Run(ctx context.Context) Result {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return result(c.Name(), StatusFail, fmt.Sprintf("storage unreachable: %v", err))
	}
	if !exists {
		return result(c.Name(), StatusFail, fmt.Sprintf("bucket %q does not exist", c.bucket))
	}

	var empty []string
	for _, prefix := range c.prefixes {
		if !c.prefixExists(ctx, prefix) {
			empty = append(empty, prefix)
		}
	}
	if len(empty) > 0 {
		return result(c.Name(), StatusWarn,
			fmt.Sprintf("empty prefixes: %s", strings.Join(empty, ", ")))
	}
	return result(c.Name(), StatusOK, "")
}

func (c *StorageCheck) prefixExists(ctx context.Context, prefix string) bool {
	objects := c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:  prefix + "/",
		MaxKeys: 1,
	})
	for obj := range objects {
		if obj.Err == nil {
			return true
		}
	}
	return false
}

// Fix creates the missing bucket and seeds the missing prefixes.
func (c *StorageCheck) Fix(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("storage unreachable: %w", err)
	}
	if !exists {
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %q: %w", c.bucket, err)
		}
	}

	for _, prefix := range c.prefixes {
		if c.prefixExists(ctx, prefix) {
			continue
		}
		key := prefix + "/.keep"
		_, err := c.client.PutObject(ctx, c.bucket, key,
			bytes.NewReader(nil), 0, minio.PutObjectOptions{})
		if err != nil {
			return fmt.Errorf("failed to seed prefix %q: %w", prefix, err)
		}
	}
	return nil
}

// StockCheck scans the stock counters. A negative counter means the
// non-negative invariant was bypassed, most likely by a manual edit;
// items below their minimum are only worth a warning.
type StockCheck struct {
	db *gorm.DB
}

// NewStockCheck creates a stock counter check.
func NewStockCheck(db *gorm.DB) *StockCheck {
	return &StockCheck{db: db}
}

// Name returns the check name.
func (c *StockCheck) Name() string { return "stock" }

// Run scans the counters.
func (c *StockCheck) Run(ctx context.Context) Result {
	var negative []string
	err := c.db.WithContext(ctx).
		Table("items").
		Where("stock < 0").
		Pluck("code", &negative).Error
	if err != nil {
		return result(c.Name(), StatusFail, fmt.Sprintf("scan failed: %v", err))
	}
	if len(negative) > 0 {
		return result(c.Name(), StatusFail,
			fmt.Sprintf("negative stock: %s", strings.Join(negative, ", ")))
	}

	var below int64
	err = c.db.WithContext(ctx).
		Table("items").
		Where("active = ? AND stock < min_stock", true).
		Count(&below).Error
	if err != nil {
		return result(c.Name(), StatusFail, fmt.Sprintf("scan failed: %v", err))
	}
	if below > 0 {
		return result(c.Name(), StatusWarn,
			fmt.Sprintf("%d items below minimum stock", below))
	}
	return result(c.Name(), StatusOK, "")
}
