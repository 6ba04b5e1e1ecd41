package infra

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherPrint is what a printed voucher shows. An empty OwnerName prints as
// a bearer note.
type VoucherPrint struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	OwnerName string          `json:"owner_name,omitempty"`
	Title     string          `json:"title,omitempty"`
}

type ReceiptLine struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ReceiptPrint struct {
	TransactionID string          `json:"transaction_id"`
	Lines         []ReceiptLine   `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	At            time.Time       `json:"at"`
}

const (
	DefaultVoucherTitle = "OFFICIAL CHANGE"
	bearerLabel         = "BEARER NOTE"
)

const pageTmpl = `<!DOCTYPE html>
<html>
<head>
<title>Print</title>
<style>
body { font-family: 'Courier New', monospace; width: 300px; margin: 0 auto; color: #000; font-size: 14px; }
.bold { font-weight: bold; }
.center { text-align: center; }
.row { display: flex; justify-content: space-between; }
.divider { border-top: 1px dashed #000; margin: 10px 0; }
.cut { page-break-after: always; padding-bottom: 20px; border-bottom: 1px dotted #ccc; margin-bottom: 20px; }
</style>
<script src="https://cdn.jsdelivr.net/npm/jsbarcode@3.11.5/dist/JsBarcode.all.min.js"></script>
</head>
<body>
{{range .}}{{.}}{{end}}
<script>
try { JsBarcode(".barcode").init(); } catch(e) {}
window.onload = function() { window.print(); };
</script>
</body>
</html>
`

const voucherTmpl = `<div class="cut">
<h1 class="center bold">E-BUCKS</h1>
<div class="center">{{.Title}}</div>
<div class="divider"></div>
<h2 class="center bold" style="font-size: 24px;">${{money .Amount}}</h2>
<div class="center">Owner: {{.Owner}}</div>
<div class="center"><svg class="barcode" jsbarcode-format="CODE39" jsbarcode-value="{{.ID}}" jsbarcode-width="2" jsbarcode-height="60" jsbarcode-displayValue="true"></svg></div>
</div>
`

const receiptTmpl = `<div class="cut">
<h2 class="center bold">{{.Store}}</h2>
<div class="divider"></div>
{{range .Lines}}<div class="row"><span>{{.Name}}</span><span>${{money .Price}}</span></div>
{{end}}<div class="divider"></div>
<div class="row bold"><span>TOTAL:</span><span>${{money .Total}}</span></div>
<div class="center" style="font-size:10px;">{{.At}} &middot; {{.TransactionID}}</div>
<div class="center">Thank you!</div>
</div>
`

// HTMLPrinter renders vouchers and receipts as a self-printing HTML page
// sized for 80mm thermal paper. Fragments from Voucher and Receipt are joined
// into one page by Combine.
type HTMLPrinter struct {
	storeName string
	page      *template.Template
	voucher   *template.Template
	receipt   *template.Template
}

func NewHTMLPrinter(storeName string) *HTMLPrinter {
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}
	return &HTMLPrinter{
		storeName: storeName,
		page:      template.Must(template.New("page").Parse(pageTmpl)),
		voucher:   template.Must(template.New("voucher").Funcs(funcs).Parse(voucherTmpl)),
		receipt:   template.Must(template.New("receipt").Funcs(funcs).Parse(receiptTmpl)),
	}
}

func (p *HTMLPrinter) Voucher(v VoucherPrint) (string, error) {
	title := v.Title
	if title == "" {
		title = DefaultVoucherTitle
	}
	owner := v.OwnerName
	if owner == "" {
		owner = bearerLabel
	}
	var buf bytes.Buffer
	err := p.voucher.Execute(&buf, struct {
		ID, Title, Owner string
		Amount           decimal.Decimal
	}{v.ID, title, owner, v.Amount})
	if err != nil {
		return "", fmt.Errorf("printout: voucher %s: %w", v.ID, err)
	}
	return buf.String(), nil
}

func (p *HTMLPrinter) Receipt(r ReceiptPrint) (string, error) {
	var buf bytes.Buffer
	err := p.receipt.Execute(&buf, struct {
		Store         string
		Lines         []ReceiptLine
		Total         decimal.Decimal
		At            string
		TransactionID string
	}{p.storeName, r.Lines, r.Total, r.At.Local().Format("2006-01-02 15:04"), r.TransactionID})
	if err != nil {
		return "", fmt.Errorf("printout: receipt %s: %w", r.TransactionID, err)
	}
	return buf.String(), nil
}

// Combine wraps fragments into one page. Empty fragments are skipped and an
// empty result is returned when nothing is left.
func (p *HTMLPrinter) Combine(parts ...string) (string, error) {
	frags := make([]template.HTML, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		// Fragments come from Voucher and Receipt, which already escaped
		// every field.
		frags = append(frags, template.HTML(part)) //nolint:gosec
	}
	if len(frags) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	if err := p.page.Execute(&buf, frags); err != nil {
		return "", fmt.Errorf("printout: page: %w", err)
	}
	return buf.String(), nil
}
