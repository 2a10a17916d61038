package stock

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	itemsTable  = "items"
	stockColumn = "stock"
)

// DefaultLockTimeout bounds how long ApplyDelta waits for the item lock.
const DefaultLockTimeout = 5 * time.Second

// Ledger is the only component allowed to mutate the per-item stock
// counter. It serializes concurrent read-modify-write cycles on the same
// item while leaving different items free to proceed in parallel.
type Ledger struct {
	locks   *lockTable
	timeout time.Duration
}

// NewLedger creates a ledger with the given lock acquisition timeout.
// A non-positive timeout selects DefaultLockTimeout.
func NewLedger(timeout time.Duration) *Ledger {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &Ledger{
		locks:   newLockTable(),
		timeout: timeout,
	}
}

// ApplyDelta atomically applies a signed delta to one item's stock counter
// and returns the new value. A negative delta that would drive the counter
// below zero fails with ErrInsufficientStock and performs no mutation.
//
// tx is the caller's transaction handle; the write becomes durable only
// when the caller commits.
func (l *Ledger) ApplyDelta(ctx context.Context, tx *gorm.DB, itemID uint, delta int) (int, error) {
	if delta == 0 {
		return l.Stock(ctx, tx, itemID)
	}

	release, err := l.locks.acquire(ctx, itemID, l.timeout)
	if err != nil {
		return 0, err
	}
	defer release()

	current, err := l.read(ctx, tx, itemID)
	if err != nil {
		return 0, err
	}

	if delta < 0 && current < -delta {
		return 0, fmt.Errorf("item %d: have %d, need %d: %w", itemID, current, -delta, ErrInsufficientStock)
	}

	// The SQL guard repeats the pre-check so a writer outside this process
	// can never push the counter below zero either.
	res := tx.WithContext(ctx).
		Table(itemsTable).
		Where("id = ? AND "+stockColumn+" + ? >= 0", itemID, delta).
		UpdateColumn(stockColumn, gorm.Expr(stockColumn+" + ?", delta))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update stock for item %d: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("item %d: concurrent writer consumed stock: %w", itemID, ErrInsufficientStock)
	}

	updated, err := l.read(ctx, tx, itemID)
	if err != nil {
		return 0, err
	}
	// Should be unreachable given the guard above; asserted anyway because
	// a negative counter means a lost movement somewhere.
	if updated < 0 {
		return updated, fmt.Errorf("item %d: stock is %d: %w", itemID, updated, ErrNegativeStock)
	}

	return updated, nil
}

// Stock returns the current counter without locking. Display use only;
// mutation decisions must go through ApplyDelta.
func (l *Ledger) Stock(ctx context.Context, db *gorm.DB, itemID uint) (int, error) {
	return l.read(ctx, db, itemID)
}

func (l *Ledger) read(ctx context.Context, db *gorm.DB, itemID uint) (int, error) {
	var row struct {
		Stock int
	}
	err := db.WithContext(ctx).
		Table(itemsTable).
		Select(stockColumn).
		Where("id = ?", itemID).
		Take(&row).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read stock for item %d: %w", itemID, err)
	}
	return row.Stock, nil
}
