package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Printer assignments. Purchases and transfers print at POS, mint and payroll
// at PAYROLL.
const (
	AssignmentPOS     = "POS"
	AssignmentPayroll = "PAYROLL"
)

// Printer maps a station assignment to a thermal printer on the LAN.
type Printer struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	Name       string    `gorm:"not null"`
	IPAddress  string    `gorm:"column:ip_address;not null"`
	Assignment string    `gorm:"type:varchar(20);index;not null"`
	CreatedAt  time.Time
}

func (p *Printer) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
