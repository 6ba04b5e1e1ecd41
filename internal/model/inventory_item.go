package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is a sellable product. Stock is decremented one unit per cart
// line and never allowed below zero by the purchase path.
type InventoryItem struct {
	ID        uuid.UUID       `gorm:"type:varchar(36);primaryKey"`
	Name      string          `gorm:"index;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock     int             `gorm:"not null;default:0"`
	Barcode   string          `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the table name the kiosk front end and reports expect.
func (InventoryItem) TableName() string { return "inventory" }

func (i *InventoryItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
