package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is the immutable summary row written once per purchase.
type Transaction struct {
	ID        string          `gorm:"type:varchar(16);primaryKey"`
	TotalCost decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ItemCount int             `gorm:"not null"`
	CreatedAt time.Time       `gorm:"index"`

	Items []SalesLogEntry `gorm:"foreignKey:TransactionID"`
}

// SalesLogEntry records one sold unit. Rows are never modified after insert.
type SalesLogEntry struct {
	ID            uuid.UUID       `gorm:"type:varchar(36);primaryKey"`
	TransactionID string          `gorm:"type:varchar(16);index;not null"`
	InventoryID   *uuid.UUID      `gorm:"type:varchar(36);index"`
	ItemName      string          `gorm:"index;not null"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SoldAt        time.Time
}

func (SalesLogEntry) TableName() string { return "sales_log" }

func (e *SalesLogEntry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
