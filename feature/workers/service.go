package workers

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"ppe-manager/core/storage"
	"ppe-manager/feature/workers/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// photoPrefix is where worker photos live inside the bucket.
const photoPrefix = "photos"

// Service handles worker operations.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new workers service.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// CreateWorkerInput carries the fields for a new worker.
type CreateWorkerInput struct {
	Name       string `json:"name"`
	Badge      string `json:"badge"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

// UpdateWorkerInput carries the mutable worker fields.
type UpdateWorkerInput struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
	Active     *bool   `json:"active"`
}

// ListFilter narrows the worker listing.
type ListFilter struct {
	Query      string
	ActiveOnly bool
	Page       int
	PerPage    int
}

// Create validates and persists a new worker.
func (s *Service) Create(ctx context.Context, in CreateWorkerInput) (*models.Worker, error) {
	if in.Name == "" || in.Badge == "" || in.Email == "" {
		return nil, fmt.Errorf("name, badge and email are required")
	}

	w := models.Worker{
		Name:       in.Name,
		Badge:      in.Badge,
		Email:      in.Email,
		Role:       in.Role,
		Department: in.Department,
		Phone:      in.Phone,
		Active:     true,
	}
	if err := s.db.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}

	s.logger.Info("Worker created", zap.Uint("worker_id", w.ID), zap.String("badge", w.Badge))
	return &w, nil
}

// Update applies the provided fields.
func (s *Service) Update(ctx context.Context, id uint, in UpdateWorkerInput) (*models.Worker, error) {
	var w models.Worker
	if err := s.db.WithContext(ctx).Take(&w, id).Error; err != nil {
		return nil, fmt.Errorf("worker %d: %w", id, err)
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Role != nil {
		updates["role"] = *in.Role
	}
	if in.Department != nil {
		updates["department"] = *in.Department
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if len(updates) == 0 {
		return &w, nil
	}

	if err := s.db.WithContext(ctx).Model(&w).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update worker %d: %w", id, err)
	}
	return &w, nil
}

// Get returns one worker.
func (s *Service) Get(ctx context.Context, id uint) (*models.Worker, error) {
	var w models.Worker
	if err := s.db.WithContext(ctx).Take(&w, id).Error; err != nil {
		return nil, fmt.Errorf("worker %d: %w", id, err)
	}
	return &w, nil
}

// List returns a filtered page of workers.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Worker, error) {
	q := s.db.WithContext(ctx).Model(&models.Worker{})

	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("name LIKE ? OR email LIKE ? OR badge LIKE ?", like, like, like)
	}
	if f.ActiveOnly {
		q = q.Where("active = ?", true)
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	if f.Page > 0 {
		q = q.Offset((f.Page - 1) * perPage)
	}

	var ws []models.Worker
	if err := q.Order("name").Limit(perPage).Find(&ws).Error; err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return ws, nil
}

// Deactivate marks a worker inactive. Workers are never hard-deleted
// because loan history references them.
func (s *Service) Deactivate(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).
		Model(&models.Worker{}).
		Where("id = ?", id).
		Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate worker %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("worker %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// UploadPhoto stores a worker's photo in the bucket and records its key.
// A previously stored photo is removed afterwards.
func (s *Service) UploadPhoto(ctx context.Context, id uint, filename, contentType string, reader io.Reader, size int64) (string, error) {
	w, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("%s/%d/%s%s", photoPrefix, id, uuid.NewString(), ext)

	_, err = s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo for worker %d: %w", id, err)
	}

	old := w.PhotoKey
	if err := s.db.WithContext(ctx).Model(w).Update("photo_key", key).Error; err != nil {
		return "", fmt.Errorf("failed to record photo for worker %d: %w", id, err)
	}

	if old != "" {
		// Best effort; an orphaned object is not worth failing the upload.
		if err := s.client.RemoveObject(ctx, s.bucket, old, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warn("Failed to remove previous photo",
				zap.Uint("worker_id", id),
				zap.String("key", old),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Photo uploaded", zap.Uint("worker_id", id), zap.String("key", key))
	return key, nil
}

// Photo streams the worker's stored photo.
func (s *Service) Photo(ctx context.Context, id uint) (io.ReadCloser, error) {
	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.PhotoKey == "" {
		return nil, fmt.Errorf("worker %d has no photo: %w", id, gorm.ErrRecordNotFound)
	}
	return s.client.GetObject(ctx, s.bucket, w.PhotoKey, minio.GetObjectOptions{})
}
