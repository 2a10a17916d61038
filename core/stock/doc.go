// Package stock implements the inventory reconciliation engine.
//
// Every loan record contributes a signed effect to the stock counter of the
// item it references, determined solely by its status and quantity. This
// package owns the three pieces that keep those counters consistent:
//
//   - Effect: the pure status -> signed delta mapping.
//   - Ledger: the only writer of the per-item stock counter. It serializes
//     read-modify-write cycles per item and enforces that stock never goes
//     negative.
//   - Reconciler: computes the delta difference between the old and new
//     state of a loan record (create, update, delete) and applies it
//     through the Ledger.
//
// # Transaction Boundary
//
// The Reconciler entry points take the caller's *gorm.DB transaction
// handle. Callers must invoke them inside the same transaction as the loan
// row write itself, so that a failed reconciliation rolls back the record
// and vice versa. The engine never commits or rolls back on its own.
//
// # Concurrency
//
// Operations on the same item are serialized by an item-scoped lock with a
// bounded acquisition time; operations on different items proceed in
// parallel. There is no global lock.
//
// # Usage
//
//	rec := stock.NewReconciler(stock.NewLedger(0))
//	err := db.Transaction(func(tx *gorm.DB) error {
//	    if err := tx.Create(&loan).Error; err != nil {
//	        return err
//	    }
//	    return rec.Created(ctx, tx, stock.Movement{
//	        ItemID:   loan.ItemID,
//	        Status:   loan.Status,
//	        Quantity: loan.Quantity,
//	    })
//	})
package stock
