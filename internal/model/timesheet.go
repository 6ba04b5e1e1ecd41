package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Timesheet is one clock-in/clock-out shift. It is open while ClockOut is nil.
// Closed, unpaid shifts are picked up by the payroll run, which flips IsPaid
// permanently.
type Timesheet struct {
	ID         uuid.UUID        `gorm:"type:varchar(36);primaryKey"`
	UserID     uuid.UUID        `gorm:"type:varchar(36);index;not null"`
	ClockIn    time.Time        `gorm:"not null"`
	ClockOut   *time.Time       `gorm:"index"`
	TotalHours *decimal.Decimal `gorm:"type:decimal(8,2)"`
	IsPaid     bool             `gorm:"not null;default:false;index"`

	User *User `gorm:"foreignKey:UserID"`
}

func (t *Timesheet) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
