package stock

import (
	"context"

	"gorm.io/gorm"
)

// Movement captures the stock-relevant fields of a loan record: which item
// it references and the effect its current status and quantity carry.
type Movement struct {
	ItemID   uint
	Status   Status
	Quantity int
}

func (m Movement) effect() int {
	return Effect(m.Status, m.Quantity)
}

// Reconciler translates loan record lifecycle events into ledger deltas.
// For updates only the difference between the old and new effect is
// applied, so a completed borrow/return cycle nets out to zero.
type Reconciler struct {
	ledger *Ledger
}

// NewReconciler creates a reconciler on top of the given ledger.
func NewReconciler(ledger *Ledger) *Reconciler {
	return &Reconciler{ledger: ledger}
}

// Created applies the effect of a freshly created loan record.
func (r *Reconciler) Created(ctx context.Context, tx *gorm.DB, rec Movement) error {
	delta := rec.effect()
	if delta == 0 {
		return nil
	}
	_, err := r.ledger.ApplyDelta(ctx, tx, rec.ItemID, delta)
	return err
}

// Updated applies the net change between the persisted state of a record
// (before) and the state being written (after). When the record moved to a
// different item, the old effect is reversed on the old item and the new
// effect applied on the new one; both run on the caller's transaction so
// either both persist or neither does.
func (r *Reconciler) Updated(ctx context.Context, tx *gorm.DB, before, after Movement) error {
	oldDelta := before.effect()
	newDelta := after.effect()

	if before.ItemID == after.ItemID {
		net := newDelta - oldDelta
		if net == 0 {
			return nil
		}
		_, err := r.ledger.ApplyDelta(ctx, tx, after.ItemID, net)
		return err
	}

	if oldDelta != 0 {
		if _, err := r.ledger.ApplyDelta(ctx, tx, before.ItemID, -oldDelta); err != nil {
			return err
		}
	}
	if newDelta != 0 {
		if _, err := r.ledger.ApplyDelta(ctx, tx, after.ItemID, newDelta); err != nil {
			return err
		}
	}
	return nil
}

// Deleted undoes whatever effect the record last contributed.
func (r *Reconciler) Deleted(ctx context.Context, tx *gorm.DB, rec Movement) error {
	delta := rec.effect()
	if delta == 0 {
		return nil
	}
	_, err := r.ledger.ApplyDelta(ctx, tx, rec.ItemID, -delta)
	return err
}

// Stock exposes the ledger's unlocked display read.
func (r *Reconciler) Stock(ctx context.Context, db *gorm.DB, itemID uint) (int, error) {
	return r.ledger.Stock(ctx, db, itemID)
}
