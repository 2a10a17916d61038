package stock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupStockDB creates an in-memory SQLite DB with the items table.
func setupStockDB(t *testing.T, dbName string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.Exec(`CREATE TABLE items (
		id INTEGER PRIMARY KEY,
		code VARCHAR(30),
		name VARCHAR(120),
		stock INTEGER NOT NULL DEFAULT 0,
		min_stock INTEGER NOT NULL DEFAULT 0
	)`).Error
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func seedItem(t *testing.T, db *gorm.DB, id uint, stock int) {
	t.Helper()
	err := db.Exec("INSERT INTO items (id, code, name, stock) VALUES (?, ?, ?, ?)",
		id, fmt.Sprintf("EPI-%03d", id), "Safety Helmet", stock).Error
	if err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
}

func TestLedger_ApplyDelta(t *testing.T) {
	db := setupStockDB(t, "ledger_apply")
	seedItem(t, db, 1, 10)

	ledger := NewLedger(0)
	ctx := context.Background()

	t.Run("NegativeDelta", func(t *testing.T) {
		got, err := ledger.ApplyDelta(ctx, db, 1, -3)
		assert.NoError(t, err)
		assert.Equal(t, 7, got)
	})

	t.Run("PositiveDelta", func(t *testing.T) {
		got, err := ledger.ApplyDelta(ctx, db, 1, 3)
		assert.NoError(t, err)
		assert.Equal(t, 10, got)
	})

	t.Run("ZeroDeltaIsReadOnly", func(t *testing.T) {
		got, err := ledger.ApplyDelta(ctx, db, 1, 0)
		assert.NoError(t, err)
		assert.Equal(t, 10, got)
	})

	t.Run("DrainToZero", func(t *testing.T) {
		got, err := ledger.ApplyDelta(ctx, db, 1, -10)
		assert.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("MissingItem", func(t *testing.T) {
		_, err := ledger.ApplyDelta(ctx, db, 99, -1)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})
}

func TestLedger_InsufficientStock(t *testing.T) {
	db := setupStockDB(t, "ledger_insufficient")
	seedItem(t, db, 1, 1)

	ledger := NewLedger(0)

	_, err := ledger.ApplyDelta(context.Background(), db, 1, -5)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientStock))

	// No mutation happened.
	stock, err := ledger.Stock(context.Background(), db, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, stock)
}

func TestLedger_ConcurrentSameItem(t *testing.T) {
	db := setupStockDB(t, "ledger_concurrent")
	seedItem(t, db, 1, 5)

	ledger := NewLedger(0)
	ctx := context.Background()

	// Two writers race for combined quantity 6 against stock 5: exactly one
	// must succeed and one must fail, and the counter must never go
	// negative.
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = ledger.ApplyDelta(ctx, db, 1, -3)
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range results {
		if err != nil {
			assert.True(t, errors.Is(err, ErrInsufficientStock))
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one writer should be rejected")

	stock, err := ledger.Stock(ctx, db, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, stock)
}

func TestLedger_DifferentItemsDoNotContend(t *testing.T) {
	db := setupStockDB(t, "ledger_parallel")
	seedItem(t, db, 1, 10)
	seedItem(t, db, 2, 10)

	ledger := NewLedger(50 * time.Millisecond)
	ctx := context.Background()

	// Hold the lock on item 1.
	release, err := ledger.locks.acquire(ctx, 1, time.Second)
	assert.NoError(t, err)
	defer release()

	// Item 2 proceeds despite item 1 being held.
	got, err := ledger.ApplyDelta(ctx, db, 2, -4)
	assert.NoError(t, err)
	assert.Equal(t, 6, got)

	// Item 1 times out.
	_, err = ledger.ApplyDelta(ctx, db, 1, -1)
	assert.True(t, errors.Is(err, ErrLockTimeout))
}
