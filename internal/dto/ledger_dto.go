package dto

import "github.com/shopspring/decimal"

// Field names follow the kiosk front end (camelCase), not the snake_case used
// by the admin endpoints.

// ─── Purchase ────────────────────────────────────────────────────────────────

type CartItemRequest struct {
	ID    string          `json:"id"    validate:"required,uuid"`
	Name  string          `json:"name"  validate:"required,max=120"`
	Price decimal.Decimal `json:"price" validate:"min=0"`
}

type PurchaseRequest struct {
	VoucherIDs []string          `json:"voucherIds" validate:"required,min=1,dive,required,max=16"`
	TotalCost  decimal.Decimal   `json:"totalCost"  validate:"min=0"`
	CartItems  []CartItemRequest `json:"cartItems"  validate:"required,min=1,dive"`
}

type PurchaseResponse struct {
	Success       bool            `json:"success"`
	TransactionID string          `json:"transactionId"`
	Change        decimal.Decimal `json:"change"`
	ChangeID      *string         `json:"changeId"`
	Printable     string          `json:"printable,omitempty"`
}

// ─── Transfer ────────────────────────────────────────────────────────────────

type TransferRequest struct {
	SenderID   string          `json:"senderId"   validate:"required,uuid"`
	ReceiverID string          `json:"receiverId" validate:"required,uuid"`
	Amount     decimal.Decimal `json:"amount"     validate:"gt=0"`
}

type TransferResponse struct {
	Success   bool            `json:"success"`
	VoucherID string          `json:"voucherId"`
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
	Change    decimal.Decimal `json:"change"`
	ChangeID  *string         `json:"changeId"`
	Printable string          `json:"printable,omitempty"`
}

// ─── Mint ────────────────────────────────────────────────────────────────────

type MintRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	UserID *string         `json:"userId" validate:"omitempty,uuid"`
}

type MintResponse struct {
	Success   bool            `json:"success"`
	VoucherID string          `json:"voucherId"`
	Amount    decimal.Decimal `json:"amount"`
	Printable string          `json:"printable,omitempty"`
}

// ─── Payroll ─────────────────────────────────────────────────────────────────

type PayrollResult struct {
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Hours     decimal.Decimal `json:"hours"`
	Amount    decimal.Decimal `json:"amount"`
	VoucherID string          `json:"voucher_id,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type PayrollResponse struct {
	Success   bool            `json:"success"`
	Count     int             `json:"count"`
	Results   []PayrollResult `json:"results"`
	Printable string          `json:"printable,omitempty"`
}

type UnpaidTimesheetResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	TotalHours decimal.Decimal `json:"total_hours"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

// ─── Vouchers ────────────────────────────────────────────────────────────────

type VoucherResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	IsUsed    bool            `json:"is_used"`
	UserID    *string         `json:"user_id"`
	OwnerName string          `json:"owner_name,omitempty"`
	CreatedAt string          `json:"created_at"`
	UsedAt    *string         `json:"used_at,omitempty"`
}

type PrintableResponse struct {
	Printable string `json:"printable"`
}
