package service

import "errors"

// Sentinel errors returned by the ledger operations. Handlers match them with
// errors.Is; the wrapped message carries the detail shown to the client.
var (
	ErrInvalidVoucherSet = errors.New("invalid voucher set")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOutOfStock        = errors.New("out of stock")
	ErrNotFound          = errors.New("not found")
	ErrCartTotalMismatch = errors.New("cart total mismatch")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrSelfTransfer      = errors.New("sender and receiver are the same user")
	ErrInvalidPIN        = errors.New("invalid PIN")
	ErrPINTaken          = errors.New("PIN already in use")
)
