package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"ppe-manager/core/storage"
	catalogModels "ppe-manager/feature/catalog/models"
	loanModels "ppe-manager/feature/loans/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// archivePrefix is where archived reports live inside the bucket.
const archivePrefix = "reports"

// Service renders CSV reports over the loan and stock data and archives
// snapshots of them in the object storage bucket.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new reports service.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// LoansFilter narrows the loans report.
type LoansFilter struct {
	Status   string
	WorkerID uint
	// From and To bound the issue date (inclusive).
	From *time.Time
	To   *time.Time
}

var loansHeader = []string{
	"id", "badge", "worker", "item_code", "item", "quantity",
	"status", "issued_at", "due_at", "returned_at", "note", "return_note",
}

// LoansCSV streams the loans report into w, newest first.
func (s *Service) LoansCSV(ctx context.Context, w io.Writer, f LoansFilter) error {
	q := s.db.WithContext(ctx).Model(&loanModels.Loan{}).
		Preload("Worker").
		Preload("Item")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.WorkerID != 0 {
		q = q.Where("worker_id = ?", f.WorkerID)
	}
	if f.From != nil {
		q = q.Where("issued_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("issued_at <= ?", *f.To)
	}

	var loans []loanModels.Loan
	if err := q.Order("issued_at DESC").Find(&loans).Error; err != nil {
		return fmt.Errorf("failed to load loans: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(loansHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, l := range loans {
		if err := cw.Write(loanRow(l)); err != nil {
			return fmt.Errorf("failed to write loan %d: %w", l.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func loanRow(l loanModels.Loan) []string {
	var badge, worker, code, item string
	if l.Worker != nil {
		badge = l.Worker.Badge
		worker = l.Worker.Name
	}
	if l.Item != nil {
		code = l.Item.Code
		item = l.Item.Name
	}
	return []string{
		strconv.FormatUint(uint64(l.ID), 10),
		badge,
		worker,
		code,
		item,
		strconv.Itoa(l.Quantity),
		string(l.Status),
		l.IssuedAt.Format(time.RFC3339),
		formatTime(l.DueAt),
		formatTime(l.ReturnedAt),
		l.Note,
		l.ReturnNote,
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

var stockHeader = []string{"code", "name", "category", "stock", "min_stock", "below_minimum"}

// StockCSV streams the current stock position of every active item into w.
func (s *Service) StockCSV(ctx context.Context, w io.Writer) error {
	var items []catalogModels.Item
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("active = ?", true).
		Order("code").
		Find(&items).Error
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(stockHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, item := range items {
		var category string
		if item.Category != nil {
			category = item.Category.Name
		}
		row := []string{
			item.Code,
			item.Name,
			category,
			strconv.Itoa(item.Stock),
			strconv.Itoa(item.MinStock),
			strconv.FormatBool(item.BelowMinimum()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write item %s: %w", item.Code, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ArchiveLoans renders the full loans report and stores the snapshot in
// the bucket. It returns the object key.
func (s *Service) ArchiveLoans(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	if err := s.LoansCSV(ctx, &buf, LoansFilter{}); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/loans-%s.csv", archivePrefix, uuid.NewString())
	_, err := s.client.PutObject(ctx, s.bucket, key, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive loans report: %w", err)
	}

	s.logger.Info("Loans report archived", zap.String("key", key))
	return key, nil
}

// Archive is a stored report snapshot.
type Archive struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListArchives returns the stored report snapshots.
func (s *Service) ListArchives(ctx context.Context) ([]Archive, error) {
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    archivePrefix + "/",
		Recursive: true,
	})

	archives := []Archive{}
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archives: %w", obj.Err)
		}
		archives = append(archives, Archive{
			Key:       obj.Key,
			Size:      obj.Size,
			UpdatedAt: obj.LastModified,
		})
	}
	return archives, nil
}

// Download streams a stored report snapshot.
func (s *Service) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
}
