package models

import (
	"time"

	"ppe-manager/core/stock"
	catalog "ppe-manager/feature/catalog/models"
	workers "ppe-manager/feature/workers/models"
)

// RequestStatus tracks an equipment request through its approval workflow.
// Requests never touch stock; only the loan created at fulfillment does.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestFulfilled RequestStatus = "FULFILLED"
	RequestCancelled RequestStatus = "CANCELLED"
)

// Request is a worker's ask for equipment, awaiting warehouse action.
type Request struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	WorkerID  uint            `gorm:"not null;index" json:"worker_id"`
	Worker    *workers.Worker `json:"worker,omitempty"`
	ItemID    uint            `gorm:"not null;index" json:"item_id"`
	Item      *catalog.Item   `json:"item,omitempty"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	Note      string          `gorm:"size:255" json:"note"`
	Status    RequestStatus   `gorm:"size:12;not null;default:PENDING" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName overrides the table name.
func (Request) TableName() string {
	return "requests"
}

// Loan records equipment leaving or cycling through a worker's custody.
// Status and Quantity determine its effect on the item's stock counter.
type Loan struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	WorkerID  uint            `gorm:"not null;index" json:"worker_id"`
	Worker    *workers.Worker `json:"worker,omitempty"`
	ItemID    uint            `gorm:"not null;index" json:"item_id"`
	Item      *catalog.Item   `json:"item,omitempty"`
	RequestID *uint           `gorm:"index" json:"request_id,omitempty"`

	IssuedAt   time.Time  `gorm:"not null" json:"issued_at"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`

	Quantity   int          `gorm:"not null;default:1" json:"quantity"`
	Status     stock.Status `gorm:"size:20;not null;default:ISSUED" json:"status"`
	Note       string       `gorm:"size:255" json:"note"`
	ReturnNote string       `gorm:"size:255" json:"return_note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name.
func (Loan) TableName() string {
	return "loans"
}

// Movement maps the loan onto the reconciliation engine's view of it.
func (l Loan) Movement() stock.Movement {
	return stock.Movement{
		ItemID:   l.ItemID,
		Status:   l.Status,
		Quantity: l.Quantity,
	}
}
