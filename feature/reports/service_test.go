package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"ppe-manager/core/stock"
	"ppe-manager/core/storage/mocks"
	catalogModels "ppe-manager/feature/catalog/models"
	loanModels "ppe-manager/feature/loans/models"
	workerModels "ppe-manager/feature/workers/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testBucket = "ppe-assets"

func setupReportsDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&workerModels.Worker{},
		&catalogModels.Category{},
		&catalogModels.Item{},
		&loanModels.Request{},
		&loanModels.Loan{},
	)
	assert.NoError(t, err)
	return db
}

func seedReportData(t *testing.T, db *gorm.DB) (workerModels.Worker, catalogModels.Item) {
	w := workerModels.Worker{Name: "Ana Souza", Badge: "B100", Email: "ana@example.com", Active: true}
	assert.NoError(t, db.Create(&w).Error)

	cat := catalogModels.Category{Name: "Hand protection"}
	assert.NoError(t, db.Create(&cat).Error)

	item := catalogModels.Item{
		Code:       "GLOVE-M",
		Name:       "Nitrile gloves M",
		CategoryID: cat.ID,
		Active:     true,
		Stock:      4,
		MinStock:   5,
	}
	assert.NoError(t, db.Create(&item).Error)

	loan := loanModels.Loan{
		WorkerID: w.ID,
		ItemID:   item.ID,
		Quantity: 2,
		Status:   stock.StatusIssued,
		IssuedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, db.Create(&loan).Error)
	return w, item
}

func TestLoansCSV(t *testing.T) {
	db := setupReportsDB(t, "reports_loans_csv")
	svc := NewService(db, &mocks.Client{}, testBucket, zap.NewNop())
	seedReportData(t, db)

	var buf bytes.Buffer
	err := svc.LoansCSV(context.Background(), &buf, LoansFilter{})
	assert.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, loansHeader, rows[0])
	assert.Equal(t, "B100", rows[1][1])
	assert.Equal(t, "GLOVE-M", rows[1][3])
	assert.Equal(t, "2", rows[1][5])
	assert.Equal(t, string(stock.StatusIssued), rows[1][6])
	// Open loans have no returned_at.
	assert.Equal(t, "", rows[1][9])
}

func TestLoansCSVStatusFilter(t *testing.T) {
	db := setupReportsDB(t, "reports_loans_filter")
	svc := NewService(db, &mocks.Client{}, testBucket, zap.NewNop())
	seedReportData(t, db)

	var buf bytes.Buffer
	err := svc.LoansCSV(context.Background(), &buf, LoansFilter{Status: string(stock.StatusReturned)})
	assert.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 1) // header only
}

func TestStockCSV(t *testing.T) {
	db := setupReportsDB(t, "reports_stock_csv")
	svc := NewService(db, &mocks.Client{}, testBucket, zap.NewNop())
	seedReportData(t, db)

	inactive := catalogModels.Item{Code: "OLD-HELMET", Name: "Retired helmet", Active: false, Stock: 1}
	assert.NoError(t, db.Create(&inactive).Error)

	var buf bytes.Buffer
	err := svc.StockCSV(context.Background(), &buf)
	assert.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, stockHeader, rows[0])
	assert.Equal(t, "GLOVE-M", rows[1][0])
	assert.Equal(t, "Hand protection", rows[1][2])
	assert.Equal(t, "4", rows[1][3])
	assert.Equal(t, "5", rows[1][4])
	assert.Equal(t, "true", rows[1][5])
}

func TestArchiveLoans(t *testing.T) {
	db := setupReportsDB(t, "reports_archive")
	client := &mocks.Client{}
	svc := NewService(db, client, testBucket, zap.NewNop())
	seedReportData(t, db)

	client.On("PutObject",
		mock.Anything, testBucket,
		mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "reports/loans-") && strings.HasSuffix(key, ".csv")
		}),
		mock.Anything, mock.Anything, mock.Anything,
	).Return(minio.UploadInfo{}, nil)

	key, err := svc.ArchiveLoans(context.Background())
	assert.NoError(t, err)
	assert.Contains(t, key, "reports/loans-")
	assert.Contains(t, key, ".csv")
	client.AssertExpectations(t)
}

func TestListArchives(t *testing.T) {
	db := setupReportsDB(t, "reports_list_archives")
	client := &mocks.Client{}
	svc := NewService(db, client, testBucket, zap.NewNop())

	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "reports/loans-a.csv", Size: 120}
	ch <- minio.ObjectInfo{Key: "reports/loans-b.csv", Size: 340}
	close(ch)

	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))

	archives, err := svc.ListArchives(context.Background())
	assert.NoError(t, err)
	assert.Len(t, archives, 2)
	assert.Equal(t, "reports/loans-a.csv", archives[0].Key)
	assert.Equal(t, int64(340), archives[1].Size)
}
