package loans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ppe-manager/core/stock"
	catalogModels "ppe-manager/feature/catalog/models"
	"ppe-manager/feature/loans/models"
	workerModels "ppe-manager/feature/workers/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidTransition is returned when a request workflow action does not
// apply to the request's current status.
var ErrInvalidTransition = errors.New("invalid request status transition")

// Service handles loan and request operations. Every write that changes a
// loan's stock effect runs inside one transaction together with its
// reconciliation, so a rejected stock movement rolls the record write back.
type Service struct {
	db         *gorm.DB
	reconciler *stock.Reconciler
	logger     *zap.Logger
}

// NewService creates a new loans service.
func NewService(db *gorm.DB, reconciler *stock.Reconciler, logger *zap.Logger) *Service {
	return &Service{
		db:         db,
		reconciler: reconciler,
		logger:     logger,
	}
}

// CreateLoanInput carries the fields for a new loan record.
type CreateLoanInput struct {
	WorkerID uint         `json:"worker_id"`
	ItemID   uint         `json:"item_id"`
	Quantity int          `json:"quantity"`
	Status   stock.Status `json:"status"`
	DueAt    *time.Time   `json:"due_at"`
	Note     string       `json:"note"`
}

// UpdateLoanInput carries the mutable loan fields. Status, quantity and
// item may all change; the reconciler applies only the net difference.
type UpdateLoanInput struct {
	ItemID   *uint         `json:"item_id"`
	Quantity *int          `json:"quantity"`
	Status   *stock.Status `json:"status"`
	DueAt    *time.Time    `json:"due_at"`
	Note     *string       `json:"note"`
}

// ListFilter narrows the loan listing.
type ListFilter struct {
	WorkerID uint
	ItemID   uint
	Status   stock.Status
	// Query matches worker name/badge and item code/name.
	Query   string
	Page    int
	PerPage int
}

// reportStockFault logs loudly when a write surfaces a broken counter.
// ErrNegativeStock means the non-negative invariant was bypassed and
// needs operator attention, unlike the routine business rejections.
func (s *Service) reportStockFault(err error, loanID uint) {
	if errors.Is(err, stock.ErrNegativeStock) {
		s.logger.Error("Stock invariant violated",
			zap.Uint("loan_id", loanID),
			zap.Error(err),
		)
	}
}

func (s *Service) validate(ctx context.Context, workerID, itemID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	var worker workerModels.Worker
	if err := s.db.WithContext(ctx).Take(&worker, workerID).Error; err != nil {
		return fmt.Errorf("worker %d: %w", workerID, err)
	}
	if !worker.Active {
		return fmt.Errorf("worker %d is inactive", workerID)
	}

	var item catalogModels.Item
	if err := s.db.WithContext(ctx).Take(&item, itemID).Error; err != nil {
		return fmt.Errorf("item %d: %w", itemID, err)
	}
	if !item.Active {
		return fmt.Errorf("item %d is inactive", itemID)
	}
	return nil
}

// Create persists a new loan and applies its stock effect atomically.
func (s *Service) Create(ctx context.Context, in CreateLoanInput) (*models.Loan, error) {
	status := in.Status
	if status == "" {
		status = stock.StatusIssued
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	if err := s.validate(ctx, in.WorkerID, in.ItemID, in.Quantity); err != nil {
		return nil, err
	}

	loan := models.Loan{
		WorkerID: in.WorkerID,
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Status:   status,
		IssuedAt: time.Now(),
		DueAt:    in.DueAt,
		Note:     in.Note,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&loan).Error; err != nil {
			return fmt.Errorf("failed to create loan: %w", err)
		}
		return s.reconciler.Created(ctx, tx, loan.Movement())
	})
	if err != nil {
		s.reportStockFault(err, loan.ID)
		return nil, err
	}

	s.logger.Info("Loan created",
		zap.Uint("loan_id", loan.ID),
		zap.Uint("item_id", loan.ItemID),
		zap.String("status", string(loan.Status)),
		zap.Int("quantity", loan.Quantity),
	)
	return &loan, nil
}

// Update modifies a loan and reconciles the difference between its
// persisted and new state, including moves to a different item.
func (s *Service) Update(ctx context.Context, id uint, in UpdateLoanInput) (*models.Loan, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q", *in.Status)
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	var loan models.Loan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Read the persisted state inside the transaction; it is the
		// "before" half of the reconciliation pair.
		if err := tx.Take(&loan, id).Error; err != nil {
			return fmt.Errorf("loan %d: %w", id, err)
		}
		before := loan.Movement()

		if in.ItemID != nil {
			loan.ItemID = *in.ItemID
		}
		if in.Quantity != nil {
			loan.Quantity = *in.Quantity
		}
		if in.Status != nil {
			loan.Status = *in.Status
		}
		if in.DueAt != nil {
			loan.DueAt = in.DueAt
		}
		if in.Note != nil {
			loan.Note = *in.Note
		}

		if err := tx.Save(&loan).Error; err != nil {
			return fmt.Errorf("failed to update loan %d: %w", id, err)
		}
		return s.reconciler.Updated(ctx, tx, before, loan.Movement())
	})
	if err != nil {
		s.reportStockFault(err, id)
		return nil, err
	}
	return &loan, nil
}

// Delete removes a loan record and reverses its last stock effect.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.Take(&loan, id).Error; err != nil {
			return fmt.Errorf("loan %d: %w", id, err)
		}
		if err := tx.Delete(&loan).Error; err != nil {
			return fmt.Errorf("failed to delete loan %d: %w", id, err)
		}
		return s.reconciler.Deleted(ctx, tx, loan.Movement())
	})
	if err != nil {
		s.reportStockFault(err, id)
		return err
	}

	s.logger.Info("Loan deleted", zap.Uint("loan_id", id))
	return nil
}

// MarkReturned closes the borrow cycle: the stock comes back via the
// issued -> returned net effect.
func (s *Service) MarkReturned(ctx context.Context, id uint, note string) (*models.Loan, error) {
	return s.close(ctx, id, stock.StatusReturned, note)
}

// MarkLost records that the equipment will never return; the outbound
// effect stays in place.
func (s *Service) MarkLost(ctx context.Context, id uint, note string) (*models.Loan, error) {
	return s.close(ctx, id, stock.StatusLost, note)
}

// MarkDamaged records equipment returned unusable.
func (s *Service) MarkDamaged(ctx context.Context, id uint, note string) (*models.Loan, error) {
	return s.close(ctx, id, stock.StatusDamaged, note)
}

func (s *Service) close(ctx context.Context, id uint, status stock.Status, note string) (*models.Loan, error) {
	var loan models.Loan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&loan, id).Error; err != nil {
			return fmt.Errorf("loan %d: %w", id, err)
		}
		if loan.ReturnedAt != nil {
			return fmt.Errorf("loan %d is already closed: %w", id, ErrInvalidTransition)
		}
		before := loan.Movement()

		now := time.Now()
		loan.Status = status
		loan.ReturnedAt = &now
		loan.ReturnNote = note

		if err := tx.Save(&loan).Error; err != nil {
			return fmt.Errorf("failed to close loan %d: %w", id, err)
		}
		return s.reconciler.Updated(ctx, tx, before, loan.Movement())
	})
	if err != nil {
		s.reportStockFault(err, id)
		return nil, err
	}

	s.logger.Info("Loan closed",
		zap.Uint("loan_id", id),
		zap.String("status", string(status)),
	)
	return &loan, nil
}

// Get returns one loan with worker and item preloaded.
func (s *Service) Get(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := s.db.WithContext(ctx).
		Preload("Worker").
		Preload("Item").
		Preload("Item.Category").
		Take(&loan, id).Error
	if err != nil {
		return nil, fmt.Errorf("loan %d: %w", id, err)
	}
	return &loan, nil
}

// List returns a filtered page of loans, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Loan, error) {
	q := s.db.WithContext(ctx).Model(&models.Loan{}).Preload("Worker").Preload("Item")

	if f.WorkerID != 0 {
		q = q.Where("worker_id = ?", f.WorkerID)
	}
	if f.ItemID != 0 {
		q = q.Where("item_id = ?", f.ItemID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where(
			"worker_id IN (SELECT id FROM workers WHERE name LIKE ? OR badge LIKE ?) OR "+
				"item_id IN (SELECT id FROM items WHERE code LIKE ? OR name LIKE ?)",
			like, like, like, like,
		)
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	if f.Page > 0 {
		q = q.Offset((f.Page - 1) * perPage)
	}

	var loans []models.Loan
	if err := q.Order("issued_at DESC").Limit(perPage).Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

// Stock exposes the unlocked display read of an item's counter.
func (s *Service) Stock(ctx context.Context, itemID uint) (int, error) {
	return s.reconciler.Stock(ctx, s.db, itemID)
}
