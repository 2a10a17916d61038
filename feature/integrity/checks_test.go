package integrity

import (
	"context"
	"fmt"
	"testing"

	"ppe-manager/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupIntegrityDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.Exec(`CREATE TABLE items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT true,
		stock INTEGER NOT NULL DEFAULT 0,
		min_stock INTEGER NOT NULL DEFAULT 0
	)`).Error
	assert.NoError(t, err)
	return db
}

func TestSchemaCheck(t *testing.T) {
	db := setupIntegrityDB(t, "integrity_schema")
	ctx := context.Background()

	t.Run("all tables present", func(t *testing.T) {
		check := NewSchemaCheck(db, []string{"items"})
		res := check.Run(ctx)
		assert.Equal(t, StatusOK, res.Status)
		assert.Equal(t, "schema", res.Name)
	})

	t.Run("missing table", func(t *testing.T) {
		check := NewSchemaCheck(db, []string{"items", "loans", "workers"})
		res := check.Run(ctx)
		assert.Equal(t, StatusFail, res.Status)
		assert.Contains(t, res.Detail, "loans")
		assert.Contains(t, res.Detail, "workers")
		assert.NotContains(t, res.Detail, "items")
	})
}

func TestSchemaCheckMySQL(t *testing.T) {
	sqlDB, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	assert.NoError(t, err)

	dbMock.ExpectQuery("SHOW COLUMNS FROM `items`").WillReturnRows(
		sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
			AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment").
			AddRow("code", "varchar(50)", "NO", "UNI", nil, "").
			AddRow("stock", "bigint", "NO", "", "0", ""),
	)

	check := NewSchemaCheck(db, []string{"items"})
	res := check.Run(context.Background())
	assert.Equal(t, StatusOK, res.Status)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestStorageCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket present", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("BucketExists", mock.Anything, "ppe-assets").Return(true, nil)

		res := NewStorageCheck(client, "ppe-assets").Run(ctx)
		assert.Equal(t, StatusOK, res.Status)
	})

	t.Run("bucket missing", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("BucketExists", mock.Anything, "ppe-assets").Return(false, nil)

		res := NewStorageCheck(client, "ppe-assets").Run(ctx)
		assert.Equal(t, StatusFail, res.Status)
		assert.Contains(t, res.Detail, "ppe-assets")
	})

	t.Run("fix creates the bucket", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("BucketExists", mock.Anything, "ppe-assets").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "ppe-assets", mock.Anything).Return(nil)

		err := NewStorageCheck(client, "ppe-assets").Fix(ctx)
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("fix is a no-op when present", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("BucketExists", mock.Anything, "ppe-assets").Return(true, nil)

		err := NewStorageCheck(client, "ppe-assets").Fix(ctx)
		assert.NoError(t, err)
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty prefix warns", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("BucketExists", mock.Anything, "ppe-assets").Return(true, nil)

		empty := make(chan minio.ObjectInfo)
		close(empty)
		client.On("ListObjects", mock.Anything, "ppe-assets", mock.Anything).
			Return((<-chan minio.ObjectInfo)(empty))

		res := NewStorageCheck(client, "ppe-assets", "photos").Run(ctx)
		assert.Equal(t, StatusWarn, res.Status)
		assert.Contains(t, res.Detail, "photos")
	})

	t.Run("fix seeds missing prefixes", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("BucketExists", mock.Anything, "ppe-assets").Return(true, nil)

		empty := make(chan minio.ObjectInfo)
		close(empty)
		client.On("ListObjects", mock.Anything, "ppe-assets", mock.Anything).
			Return((<-chan minio.ObjectInfo)(empty))
		client.On("PutObject", mock.Anything, "ppe-assets", "photos/.keep",
			mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

		err := NewStorageCheck(client, "ppe-assets", "photos").Fix(ctx)
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})
}

func TestStockCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("clean counters", func(t *testing.T) {
		db := setupIntegrityDB(t, "integrity_stock_clean")
		db.Exec("INSERT INTO items (code, name, active, stock, min_stock) VALUES ('GLOVE', 'Gloves', true, 10, 2)")

		res := NewStockCheck(db).Run(ctx)
		assert.Equal(t, StatusOK, res.Status)
	})

	t.Run("below minimum warns", func(t *testing.T) {
		db := setupIntegrityDB(t, "integrity_stock_below")
		db.Exec("INSERT INTO items (code, name, active, stock, min_stock) VALUES ('HELMET', 'Helmet', true, 1, 5)")

		res := NewStockCheck(db).Run(ctx)
		assert.Equal(t, StatusWarn, res.Status)
		assert.Contains(t, res.Detail, "below minimum")
	})

	t.Run("negative stock fails", func(t *testing.T) {
		db := setupIntegrityDB(t, "integrity_stock_negative")
		db.Exec("INSERT INTO items (code, name, active, stock, min_stock) VALUES ('BOOTS', 'Boots', true, -2, 0)")

		res := NewStockCheck(db).Run(ctx)
		assert.Equal(t, StatusFail, res.Status)
		assert.Contains(t, res.Detail, "BOOTS")
	})

	t.Run("inactive items do not warn", func(t *testing.T) {
		db := setupIntegrityDB(t, "integrity_stock_inactive")
		db.Exec("INSERT INTO items (code, name, active, stock, min_stock) VALUES ('OLD', 'Retired', false, 0, 5)")

		res := NewStockCheck(db).Run(ctx)
		assert.Equal(t, StatusOK, res.Status)
	})
}

func TestServiceRunAll(t *testing.T) {
	db := setupIntegrityDB(t, "integrity_service")
	db.Exec("INSERT INTO items (code, name, active, stock, min_stock) VALUES ('GLOVE', 'Gloves', true, 1, 5)")

	client := &mocks.Client{}
	client.On("BucketExists", mock.Anything, "ppe-assets").Return(true, nil)

	svc := NewService(zap.NewNop(),
		NewSchemaCheck(db, []string{"items"}),
		NewStorageCheck(client, "ppe-assets"),
		NewStockCheck(db),
	)

	results, worst := svc.RunAll(context.Background())
	assert.Len(t, results, 3)
	assert.Equal(t, StatusWarn, worst)
}

func TestServiceFindAndFix(t *testing.T) {
	svc := NewService(zap.NewNop(), NewStockCheck(setupIntegrityDB(t, "integrity_find")))
	ctx := context.Background()

	_, err := svc.Run(ctx, "nope")
	assert.Error(t, err)

	// The stock check has no automatic repair.
	err = svc.Fix(ctx, "stock")
	assert.Error(t, err)
}
