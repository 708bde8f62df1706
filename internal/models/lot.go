package models

import (
	"time"

	"stockfolio/internal/uuid"

	"gorm.io/gorm"
)

// Lot represents one discrete purchase of shares. Each buy creates a new
// lot; lots are never merged, so every purchase keeps its own date and
// cost for historical reconstruction. A lot whose quantity reaches zero
// is deleted outright, so there is no Base embed and no soft delete.
type Lot struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string  `gorm:"type:uuid;not null;index:idx_lots_user_ticker" json:"user_id"`
	Ticker      string  `gorm:"not null;index:idx_lots_user_ticker" json:"ticker"`
	CompanyName string  `json:"company_name"`
	Quantity    float64 `gorm:"not null" json:"quantity"`
	// UnitCost is the purchase price per share in cents, immutable once created.
	UnitCost     int64     `gorm:"type:bigint;not null" json:"unit_cost"`
	PurchaseDate time.Time `gorm:"not null" json:"purchase_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (l *Lot) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New()
	}
	return nil
}
