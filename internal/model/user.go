package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Role values stored in users.role.
const (
	RoleAdmin    = "Admin"
	RoleEmployee = "Employee"
)

// User is a student or staff member. PINHash is a bcrypt hash of the PIN the
// user types at the kiosk; the PIN itself is never stored.
type User struct {
	ID         uuid.UUID       `gorm:"type:varchar(36);primaryKey"`
	Name       string          `gorm:"index;not null"`
	Role       string          `gorm:"type:varchar(20);not null"`
	PINHash    string          `gorm:"column:pin_hash;not null"`
	HourlyRate decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Email receives payroll slips when set
	Email     *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
