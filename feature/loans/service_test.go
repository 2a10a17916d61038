package loans

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ppe-manager/core/stock"
	catalogModels "ppe-manager/feature/catalog/models"
	"ppe-manager/feature/loans/models"
	workerModels "ppe-manager/feature/workers/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLoansDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&workerModels.Worker{},
		&catalogModels.Category{},
		&catalogModels.Item{},
		&models.Request{},
		&models.Loan{},
	)
	assert.NoError(t, err)
	return db
}

func seedWorker(t *testing.T, db *gorm.DB, badge string) workerModels.Worker {
	w := workerModels.Worker{
		Name:   "Worker " + badge,
		Badge:  badge,
		Email:  badge + "@example.com",
		Active: true,
	}
	assert.NoError(t, db.Create(&w).Error)
	return w
}

func seedItem(t *testing.T, db *gorm.DB, code string, initialStock int) catalogModels.Item {
	item := catalogModels.Item{
		Code:   code,
		Name:   "Item " + code,
		Active: true,
		Stock:  initialStock,
	}
	assert.NoError(t, db.Create(&item).Error)
	return item
}

func newTestService(db *gorm.DB) *Service {
	reconciler := stock.NewReconciler(stock.NewLedger(0))
	return NewService(db, reconciler, zap.NewNop())
}

func itemStock(t *testing.T, db *gorm.DB, itemID uint) int {
	var item catalogModels.Item
	assert.NoError(t, db.Take(&item, itemID).Error)
	return item.Stock
}

func TestCreateAndReturn(t *testing.T) {
	db := setupLoansDB(t, "loans_create_return")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B001")
	item := seedItem(t, db, "GLOVE-M", 10)

	loan, err := svc.Create(ctx, CreateLoanInput{
		WorkerID: w.ID,
		ItemID:   item.ID,
		Quantity: 3,
	})
	assert.NoError(t, err)
	assert.Equal(t, stock.StatusIssued, loan.Status)
	assert.Equal(t, 7, itemStock(t, db, item.ID))

	returned, err := svc.MarkReturned(ctx, loan.ID, "intact")
	assert.NoError(t, err)
	assert.Equal(t, stock.StatusReturned, returned.Status)
	assert.NotNil(t, returned.ReturnedAt)
	assert.Equal(t, "intact", returned.ReturnNote)
	assert.Equal(t, 10, itemStock(t, db, item.ID))
}

func TestCreateInsufficientStockRollsBack(t *testing.T) {
	db := setupLoansDB(t, "loans_create_insufficient")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B002")
	item := seedItem(t, db, "HELMET", 2)

	_, err := svc.Create(ctx, CreateLoanInput{
		WorkerID: w.ID,
		ItemID:   item.ID,
		Quantity: 3,
	})
	assert.ErrorIs(t, err, stock.ErrInsufficientStock)

	// The rejected movement must roll the loan insert back with it.
	var count int64
	assert.NoError(t, db.Model(&models.Loan{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 2, itemStock(t, db, item.ID))
}

func TestCreateValidation(t *testing.T) {
	db := setupLoansDB(t, "loans_create_validation")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B003")
	item := seedItem(t, db, "BOOTS", 5)

	t.Run("zero quantity", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateLoanInput{WorkerID: w.ID, ItemID: item.ID, Quantity: 0})
		assert.Error(t, err)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateLoanInput{
			WorkerID: w.ID, ItemID: item.ID, Quantity: 1, Status: "BORROWED",
		})
		assert.Error(t, err)
	})

	t.Run("inactive worker", func(t *testing.T) {
		inactive := workerModels.Worker{Name: "Gone", Badge: "B004", Email: "gone@example.com", Active: false}
		assert.NoError(t, db.Create(&inactive).Error)

		_, err := svc.Create(ctx, CreateLoanInput{WorkerID: inactive.ID, ItemID: item.ID, Quantity: 1})
		assert.Error(t, err)
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateLoanInput{WorkerID: w.ID, ItemID: 9999, Quantity: 1})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	assert.Equal(t, 5, itemStock(t, db, item.ID))
}

func TestUpdateQuantityAppliesNetDifference(t *testing.T) {
	db := setupLoansDB(t, "loans_update_quantity")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B005")
	item := seedItem(t, db, "GOGGLES", 10)

	loan, err := svc.Create(ctx, CreateLoanInput{WorkerID: w.ID, ItemID: item.ID, Quantity: 3})
	assert.NoError(t, err)
	assert.Equal(t, 7, itemStock(t, db, item.ID))

	qty := 5
	_, err = svc.Update(ctx, loan.ID, UpdateLoanInput{Quantity: &qty})
	assert.NoError(t, err)
	assert.Equal(t, 5, itemStock(t, db, item.ID))

	qty = 1
	_, err = svc.Update(ctx, loan.ID, UpdateLoanInput{Quantity: &qty})
	assert.NoError(t, err)
	assert.Equal(t, 9, itemStock(t, db, item.ID))
}

func TestUpdateItemChangeMovesTheDebit(t *testing.T) {
	db := setupLoansDB(t, "loans_update_item_change")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B006")
	gloves := seedItem(t, db, "GLOVE-L", 10)
	masks := seedItem(t, db, "MASK", 10)

	loan, err := svc.Create(ctx, CreateLoanInput{WorkerID: w.ID, ItemID: gloves.ID, Quantity: 4})
	assert.NoError(t, err)
	assert.Equal(t, 6, itemStock(t, db, gloves.ID))

	_, err = svc.Update(ctx, loan.ID, UpdateLoanInput{ItemID: &masks.ID})
	assert.NoError(t, err)
	assert.Equal(t, 10, itemStock(t, db, gloves.ID))
	assert.Equal(t, 6, itemStock(t, db, masks.ID))
}

func TestUpdateItemChangeInsufficientTargetRollsBack(t *testing.T) {
	db := setupLoansDB(t, "loans_update_item_insufficient")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B007")
	source := seedItem(t, db, "VEST", 10)
	target := seedItem(t, db, "HARNESS", 1)

	loan, err := svc.Create(ctx, CreateLoanInput{WorkerID: w.ID, ItemID: source.ID, Quantity: 4})
	assert.NoError(t, err)

	_, err = svc.Update(ctx, loan.ID, UpdateLoanInput{ItemID: &target.ID})
	assert.ErrorIs(t, err, stock.ErrInsufficientStock)

	// Both counters and the loan record keep their previous state.
	assert.Equal(t, 6, itemStock(t, db, source.ID))
	assert.Equal(t, 1, itemStock(t, db, target.ID))

	var persisted models.Loan
	assert.NoError(t, db.Take(&persisted, loan.ID).Error)
	assert.Equal(t, source.ID, persisted.ItemID)
}

func TestDeleteReversesLastEffect(t *testing.T) {
	db := setupLoansDB(t, "loans_delete")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B008")
	item := seedItem(t, db, "EARMUFFS", 5)

	loan, err := svc.Create(ctx, CreateLoanInput{WorkerID: w.ID, ItemID: item.ID, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, 3, itemStock(t, db, item.ID))

	assert.NoError(t, svc.Delete(ctx, loan.ID))
	assert.Equal(t, 5, itemStock(t, db, item.ID))

	var count int64
	assert.NoError(t, db.Model(&models.Loan{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestMarkLostKeepsTheDebit(t *testing.T) {
	db := setupLoansDB(t, "loans_lost")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B009")
	item := seedItem(t, db, "RESPIRATOR", 5)

	loan, err := svc.Create(ctx, CreateLoanInput{WorkerID: w.ID, ItemID: item.ID, Quantity: 2})
	assert.NoError(t, err)

	lost, err := svc.MarkLost(ctx, loan.ID, "left on site")
	assert.NoError(t, err)
	assert.Equal(t, stock.StatusLost, lost.Status)
	assert.Equal(t, 3, itemStock(t, db, item.ID))

	// Deleting a lost loan reverses the outbound effect it still carries.
	assert.NoError(t, svc.Delete(ctx, loan.ID))
	assert.Equal(t, 5, itemStock(t, db, item.ID))
}

func TestCloseTwiceFails(t *testing.T) {
	db := setupLoansDB(t, "loans_double_close")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B010")
	item := seedItem(t, db, "GLOVES-XL", 5)

	loan, err := svc.Create(ctx, CreateLoanInput{WorkerID: w.ID, ItemID: item.ID, Quantity: 1})
	assert.NoError(t, err)

	_, err = svc.MarkReturned(ctx, loan.ID, "")
	assert.NoError(t, err)

	_, err = svc.MarkDamaged(ctx, loan.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 5, itemStock(t, db, item.ID))
}

func TestRequestWorkflow(t *testing.T) {
	db := setupLoansDB(t, "loans_request_workflow")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B011")
	item := seedItem(t, db, "APRON", 10)

	req, err := svc.CreateRequest(ctx, CreateRequestInput{
		WorkerID: w.ID,
		ItemID:   item.ID,
		Quantity: 2,
		Note:     "welding shift",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	// Pending requests do not move stock.
	assert.Equal(t, 10, itemStock(t, db, item.ID))

	req, err = svc.ApproveRequest(ctx, req.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestApproved, req.Status)
	assert.Equal(t, 10, itemStock(t, db, item.ID))

	loan, err := svc.FulfillRequest(ctx, req.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, stock.StatusIssued, loan.Status)
	assert.NotNil(t, loan.RequestID)
	assert.Equal(t, req.ID, *loan.RequestID)
	assert.Equal(t, 8, itemStock(t, db, item.ID))

	fulfilled, err := svc.GetRequest(ctx, req.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestFulfilled, fulfilled.Status)

	_, err = svc.FulfillRequest(ctx, req.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 8, itemStock(t, db, item.ID))
}

func TestFulfillInsufficientStockKeepsRequestApproved(t *testing.T) {
	db := setupLoansDB(t, "loans_fulfill_insufficient")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B012")
	item := seedItem(t, db, "FACESHIELD", 1)

	req, err := svc.CreateRequest(ctx, CreateRequestInput{WorkerID: w.ID, ItemID: item.ID, Quantity: 3})
	assert.NoError(t, err)
	_, err = svc.ApproveRequest(ctx, req.ID)
	assert.NoError(t, err)

	_, err = svc.FulfillRequest(ctx, req.ID, nil)
	assert.ErrorIs(t, err, stock.ErrInsufficientStock)

	persisted, err := svc.GetRequest(ctx, req.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestApproved, persisted.Status)

	var count int64
	assert.NoError(t, db.Model(&models.Loan{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 1, itemStock(t, db, item.ID))
}

func TestRequestTransitions(t *testing.T) {
	db := setupLoansDB(t, "loans_request_transitions")
	svc := newTestService(db)
	ctx := context.Background()

	w := seedWorker(t, db, "B013")
	item := seedItem(t, db, "HARDHAT", 5)

	newRequest := func(t *testing.T) *models.Request {
		req, err := svc.CreateRequest(ctx, CreateRequestInput{WorkerID: w.ID, ItemID: item.ID, Quantity: 1})
		assert.NoError(t, err)
		return req
	}

	t.Run("reject pending", func(t *testing.T) {
		req := newRequest(t)
		rejected, err := svc.RejectRequest(ctx, req.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.RequestRejected, rejected.Status)

		_, err = svc.ApproveRequest(ctx, req.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cancel pending", func(t *testing.T) {
		req := newRequest(t)
		cancelled, err := svc.CancelRequest(ctx, req.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.RequestCancelled, cancelled.Status)
	})

	t.Run("cancel approved", func(t *testing.T) {
		req := newRequest(t)
		_, err := svc.ApproveRequest(ctx, req.ID)
		assert.NoError(t, err)

		cancelled, err := svc.CancelRequest(ctx, req.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.RequestCancelled, cancelled.Status)

		_, err = svc.FulfillRequest(ctx, req.ID, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("fulfill pending fails", func(t *testing.T) {
		req := newRequest(t)
		_, err := svc.FulfillRequest(ctx, req.ID, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	assert.Equal(t, 5, itemStock(t, db, item.ID))
}

func TestListFilters(t *testing.T) {
	db := setupLoansDB(t, "loans_list_filters")
	svc := newTestService(db)
	ctx := context.Background()

	alice := seedWorker(t, db, "B014")
	bob := seedWorker(t, db, "B015")
	item := seedItem(t, db, "OVERALLS", 20)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, CreateLoanInput{WorkerID: alice.ID, ItemID: item.ID, Quantity: 1})
		assert.NoError(t, err)
	}
	loan, err := svc.Create(ctx, CreateLoanInput{WorkerID: bob.ID, ItemID: item.ID, Quantity: 1})
	assert.NoError(t, err)
	_, err = svc.MarkReturned(ctx, loan.ID, "")
	assert.NoError(t, err)

	t.Run("by worker", func(t *testing.T) {
		ls, err := svc.List(ctx, ListFilter{WorkerID: alice.ID})
		assert.NoError(t, err)
		assert.Len(t, ls, 3)
	})

	t.Run("by status", func(t *testing.T) {
		ls, err := svc.List(ctx, ListFilter{Status: stock.StatusReturned})
		assert.NoError(t, err)
		assert.Len(t, ls, 1)
		assert.Equal(t, bob.ID, ls[0].WorkerID)
	})

	t.Run("free text over worker badge", func(t *testing.T) {
		ls, err := svc.List(ctx, ListFilter{Query: "B014"})
		assert.NoError(t, err)
		assert.Len(t, ls, 3)
	})

	t.Run("free text over item code", func(t *testing.T) {
		ls, err := svc.List(ctx, ListFilter{Query: "OVERALLS"})
		assert.NoError(t, err)
		assert.Len(t, ls, 4)
	})

	t.Run("stock reflects open loans only", func(t *testing.T) {
		got, err := svc.Stock(ctx, item.ID)
		assert.NoError(t, err)
		assert.Equal(t, 17, got)
	})
}

func TestConcurrentCreatesRespectTheCounter(t *testing.T) {
	db := setupLoansDB(t, "loans_concurrent")
	svc := newTestService(db)
	ctx := context.Background()

	// One pooled connection keeps the two transactions from fighting over
	// sqlite's file lock; the stock counter still decides who wins.
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	w := seedWorker(t, db, "B016")
	item := seedItem(t, db, "KNEEPADS", 5)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.Create(ctx, CreateLoanInput{WorkerID: w.ID, ItemID: item.ID, Quantity: 3})
			errs <- err
		}()
	}

	var failures int
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			assert.True(t, errors.Is(err, stock.ErrInsufficientStock))
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.Equal(t, 2, itemStock(t, db, item.ID))
}
