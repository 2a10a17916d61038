package models

import "time"

// Worker is an employee who can request and borrow equipment.
type Worker struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:120;not null" json:"name"`
	// Badge is the employee registration number.
	Badge      string `gorm:"size:30;uniqueIndex;not null" json:"badge"`
	Email      string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Role       string `gorm:"size:80" json:"role"`
	Department string `gorm:"size:80" json:"department"`
	Phone      string `gorm:"size:20" json:"phone"`
	Active     bool   `gorm:"not null;default:true" json:"active"`
	// PhotoKey is the storage object key of the worker's photo, empty when
	// none was uploaded.
	PhotoKey  string    `gorm:"size:255" json:"photo_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name.
func (Worker) TableName() string {
	return "workers"
}
