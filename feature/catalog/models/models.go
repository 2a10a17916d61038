package models

import "time"

// Category groups equipment items (head protection, gloves, boots...).
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:80;uniqueIndex;not null" json:"name"`
}

// TableName overrides the table name.
func (Category) TableName() string {
	return "categories"
}

// Item is one protective-equipment entry in the catalog.
//
// Stock is the shared counter the reconciliation engine maintains; nothing
// outside core/stock may write it after creation.
type Item struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name       string    `gorm:"size:120;not null" json:"name"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   *Category `json:"category,omitempty"`
	// Size is the garment size (PP, P, M, G, GG or U for one-size).
	Size      string    `gorm:"size:3" json:"size"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
	MinStock  int       `gorm:"not null;default:0" json:"min_stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name.
func (Item) TableName() string {
	return "items"
}

// BelowMinimum reports whether the item needs restocking.
func (i Item) BelowMinimum() bool {
	return i.Stock < i.MinStock
}
