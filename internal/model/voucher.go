package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Voucher is a single-use bearer note. It is created unused, flips to used
// exactly once when a settlement consumes it, and is never deleted or split.
// UserID only records who the note was issued to; anyone holding the ID can
// spend it.
type Voucher struct {
	ID        string          `gorm:"type:varchar(16);primaryKey"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsUsed    bool            `gorm:"not null;default:false;index"`
	UserID    *uuid.UUID      `gorm:"type:varchar(36);index"`
	CreatedAt time.Time       `gorm:"index"`
	UsedAt    *time.Time

	User *User `gorm:"foreignKey:UserID"`
}
