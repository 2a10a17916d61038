package loans

import (
	"context"
	"fmt"
	"time"

	"ppe-manager/core/stock"
	"ppe-manager/feature/loans/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateRequestInput carries the fields for a new equipment request.
type CreateRequestInput struct {
	WorkerID uint   `json:"worker_id"`
	ItemID   uint   `json:"item_id"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

// RequestFilter narrows the request listing.
type RequestFilter struct {
	WorkerID uint
	Status   models.RequestStatus
	Page     int
	PerPage  int
}

// CreateRequest records a pending equipment request. No stock moves yet.
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (*models.Request, error) {
	if err := s.validate(ctx, in.WorkerID, in.ItemID, in.Quantity); err != nil {
		return nil, err
	}

	req := models.Request{
		WorkerID: in.WorkerID,
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Note:     in.Note,
		Status:   models.RequestPending,
	}
	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.logger.Info("Request created",
		zap.Uint("request_id", req.ID),
		zap.Uint("worker_id", req.WorkerID),
		zap.Uint("item_id", req.ItemID),
	)
	return &req, nil
}

// ApproveRequest moves a pending request to approved.
func (s *Service) ApproveRequest(ctx context.Context, id uint) (*models.Request, error) {
	return s.transitionRequest(ctx, id, models.RequestPending, models.RequestApproved)
}

// RejectRequest moves a pending request to rejected.
func (s *Service) RejectRequest(ctx context.Context, id uint) (*models.Request, error) {
	return s.transitionRequest(ctx, id, models.RequestPending, models.RequestRejected)
}

// CancelRequest lets the requester withdraw a pending or approved request.
func (s *Service) CancelRequest(ctx context.Context, id uint) (*models.Request, error) {
	var req models.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&req, id).Error; err != nil {
			return fmt.Errorf("request %d: %w", id, err)
		}
		if req.Status != models.RequestPending && req.Status != models.RequestApproved {
			return fmt.Errorf("request %d is %s: %w", id, req.Status, ErrInvalidTransition)
		}
		req.Status = models.RequestCancelled
		return tx.Save(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FulfillRequest turns an approved request into an issued loan. The loan
// insert, its stock effect, and the request status flip share one
// transaction: insufficient stock leaves the request approved and
// untouched.
func (s *Service) FulfillRequest(ctx context.Context, id uint, dueAt *time.Time) (*models.Loan, error) {
	var loan models.Loan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.Request
		if err := tx.Take(&req, id).Error; err != nil {
			return fmt.Errorf("request %d: %w", id, err)
		}
		if req.Status != models.RequestApproved {
			return fmt.Errorf("request %d is %s, want %s: %w",
				id, req.Status, models.RequestApproved, ErrInvalidTransition)
		}

		loan = models.Loan{
			WorkerID:  req.WorkerID,
			ItemID:    req.ItemID,
			RequestID: &req.ID,
			Quantity:  req.Quantity,
			Status:    stock.StatusIssued,
			IssuedAt:  time.Now(),
			DueAt:     dueAt,
			Note:      req.Note,
		}
		if err := tx.Create(&loan).Error; err != nil {
			return fmt.Errorf("failed to create loan for request %d: %w", id, err)
		}
		if err := s.reconciler.Created(ctx, tx, loan.Movement()); err != nil {
			return err
		}

		req.Status = models.RequestFulfilled
		return tx.Save(&req).Error
	})
	if err != nil {
		s.reportStockFault(err, loan.ID)
		return nil, err
	}

	s.logger.Info("Request fulfilled",
		zap.Uint("request_id", id),
		zap.Uint("loan_id", loan.ID),
	)
	return &loan, nil
}

// GetRequest returns one request with worker and item preloaded.
func (s *Service) GetRequest(ctx context.Context, id uint) (*models.Request, error) {
	var req models.Request
	err := s.db.WithContext(ctx).Preload("Worker").Preload("Item").Take(&req, id).Error
	if err != nil {
		return nil, fmt.Errorf("request %d: %w", id, err)
	}
	return &req, nil
}

// ListRequests returns a filtered page of requests, newest first.
func (s *Service) ListRequests(ctx context.Context, f RequestFilter) ([]models.Request, error) {
	q := s.db.WithContext(ctx).Model(&models.Request{}).Preload("Worker").Preload("Item")

	if f.WorkerID != 0 {
		q = q.Where("worker_id = ?", f.WorkerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	if f.Page > 0 {
		q = q.Offset((f.Page - 1) * perPage)
	}

	var reqs []models.Request
	if err := q.Order("created_at DESC").Limit(perPage).Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return reqs, nil
}

func (s *Service) transitionRequest(ctx context.Context, id uint, from, to models.RequestStatus) (*models.Request, error) {
	var req models.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&req, id).Error; err != nil {
			return fmt.Errorf("request %d: %w", id, err)
		}
		if req.Status != from {
			return fmt.Errorf("request %d is %s, want %s: %w", id, req.Status, from, ErrInvalidTransition)
		}
		req.Status = to
		return tx.Save(&req).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Request transitioned",
		zap.Uint("request_id", id),
		zap.String("status", string(to)),
	)
	return &req, nil
}
