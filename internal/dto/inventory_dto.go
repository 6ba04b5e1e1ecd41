package dto

import "github.com/shopspring/decimal"

type CreateInventoryItemRequest struct {
	Name    string          `json:"name"    validate:"required,min=1,max=120"`
	Price   decimal.Decimal `json:"price"   validate:"min=0"`
	Stock   int             `json:"stock"   validate:"min=0"`
	Barcode string          `json:"barcode" validate:"omitempty,max=64"`
}

type InventoryItemResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Stock   int             `json:"stock"`
	Barcode string          `json:"barcode"`
}

// ─── Printers ────────────────────────────────────────────────────────────────

type CreatePrinterRequest struct {
	Name       string `json:"name"       validate:"required,min=1,max=60"`
	IPAddress  string `json:"ip_address" validate:"required,ip"`
	Assignment string `json:"assignment" validate:"required,oneof=POS PAYROLL"`
}

type PrinterResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IPAddress  string `json:"ip_address"`
	Assignment string `json:"assignment"`
}

type TestPrintRequest struct {
	IP string `json:"ip" validate:"required,ip"`
}
