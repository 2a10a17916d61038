package catalog

import (
	"context"
	"errors"
	"fmt"

	"ppe-manager/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrItemInUse is returned when deleting an item that loan records still
// reference.
var ErrItemInUse = errors.New("item is referenced by loan records")

// Service handles catalog operations.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CreateItemInput carries the fields for a new catalog item.
type CreateItemInput struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	CategoryID uint   `json:"category_id"`
	Size       string `json:"size"`
	// Stock is the initial counter value; later changes go through the
	// reconciliation engine only.
	Stock    int `json:"stock"`
	MinStock int `json:"min_stock"`
}

// UpdateItemInput carries the mutable fields of an item. Stock is absent
// on purpose.
type UpdateItemInput struct {
	Name       *string `json:"name"`
	CategoryID *uint   `json:"category_id"`
	Size       *string `json:"size"`
	Active     *bool   `json:"active"`
	MinStock   *int    `json:"min_stock"`
}

// ListFilter narrows the item listing.
type ListFilter struct {
	Query      string
	CategoryID uint
	ActiveOnly bool
	Page       int
	PerPage    int
}

// CreateItem validates and persists a new item.
func (s *Service) CreateItem(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	if in.Code == "" || in.Name == "" {
		return nil, fmt.Errorf("code and name are required")
	}
	if in.Stock < 0 || in.MinStock < 0 {
		return nil, fmt.Errorf("stock and min_stock must not be negative")
	}

	item := models.Item{
		Code:       in.Code,
		Name:       in.Name,
		CategoryID: in.CategoryID,
		Size:       in.Size,
		Active:     true,
		Stock:      in.Stock,
		MinStock:   in.MinStock,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info("Item created",
		zap.Uint("item_id", item.ID),
		zap.String("code", item.Code),
		zap.Int("stock", item.Stock),
	)
	return &item, nil
}

// UpdateItem applies the provided fields. The stock counter is never
// touched here.
func (s *Service) UpdateItem(ctx context.Context, id uint, in UpdateItemInput) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).Take(&item, id).Error; err != nil {
		return nil, fmt.Errorf("item %d: %w", id, err)
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	if in.Size != nil {
		updates["size"] = *in.Size
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, fmt.Errorf("min_stock must not be negative")
		}
		updates["min_stock"] = *in.MinStock
	}
	if len(updates) == 0 {
		return &item, nil
	}

	if err := s.db.WithContext(ctx).Model(&item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update item %d: %w", id, err)
	}
	return &item, nil
}

// DeleteItem removes an item that no loan record references.
func (s *Service) DeleteItem(ctx context.Context, id uint) error {
	var item models.Item
	if err := s.db.WithContext(ctx).Take(&item, id).Error; err != nil {
		return fmt.Errorf("item %d: %w", id, err)
	}

	// Loan records protect their item (the original schema uses FK
	// PROTECT); counted raw to avoid importing the loans feature.
	var refs int64
	if err := s.db.WithContext(ctx).Table("loans").Where("item_id = ?", id).Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to count loans for item %d: %w", id, err)
	}
	if refs > 0 {
		return fmt.Errorf("item %d has %d loan(s): %w", id, refs, ErrItemInUse)
	}

	if err := s.db.WithContext(ctx).Delete(&item).Error; err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	s.logger.Info("Item deleted", zap.Uint("item_id", id), zap.String("code", item.Code))
	return nil
}

// GetItem returns one item with its category preloaded.
func (s *Service) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).Preload("Category").Take(&item, id).Error
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", id, err)
	}
	return &item, nil
}

// ListItems returns a filtered page of items.
func (s *Service) ListItems(ctx context.Context, f ListFilter) ([]models.Item, error) {
	q := s.db.WithContext(ctx).Model(&models.Item{}).Preload("Category")

	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("code LIKE ? OR name LIKE ?", like, like)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
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

	var items []models.Item
	if err := q.Order("name").Limit(perPage).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// LowStock returns active items whose stock fell below their minimum.
func (s *Service) LowStock(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("active = ? AND stock < min_stock", true).
		Order("name").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low-stock items: %w", err)
	}
	return items, nil
}

// CreateCategory persists a new category.
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	cat := models.Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &cat, nil
}

// ListCategories returns all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return cats, nil
}
