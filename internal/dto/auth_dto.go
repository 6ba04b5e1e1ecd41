package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	PIN string `json:"pin" validate:"required,numeric,min=4,max=12"`
}

type ClockRequest struct {
	PIN string `json:"pin" validate:"required,numeric,min=4,max=12"`
}

type CreateUserRequest struct {
	Name       string           `json:"name"        validate:"required,min=1,max=100"`
	Role       string           `json:"role"        validate:"required,oneof=Admin Employee"`
	PIN        string           `json:"pin"         validate:"required,numeric,min=4,max=12"`
	HourlyRate *decimal.Decimal `json:"hourly_rate" validate:"omitempty,min=0"`
	Email      *string          `json:"email"       validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Email      *string         `json:"email"`
	Active     bool            `json:"active"`
	CreatedAt  string          `json:"created_at"`
}

type LoginResponse struct {
	Success     bool         `json:"success"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // seconds
	User        UserResponse `json:"user"`
}

type ClockResponse struct {
	Success bool             `json:"success"`
	Action  string           `json:"action"` // IN | OUT
	User    string           `json:"user"`
	Hours   *decimal.Decimal `json:"hours,omitempty"`
}

type TimesheetResponse struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	ClockIn    string           `json:"clock_in"`
	ClockOut   *string          `json:"clock_out"`
	TotalHours *decimal.Decimal `json:"total_hours"`
	IsPaid     bool             `json:"is_paid"`
}

type UserDetailsResponse struct {
	User           UserResponse        `json:"user"`
	Balance        decimal.Decimal     `json:"balance"`
	ActiveVouchers []VoucherResponse   `json:"activeVouchers"`
	UsedVouchers   []VoucherResponse   `json:"usedVouchers"`
	Timesheets     []TimesheetResponse `json:"timesheets"`
}
