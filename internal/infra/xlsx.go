package infra

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// FinancialsRow is one purchase line of the financials export.
type FinancialsRow struct {
	TransactionID string
	CreatedAt     time.Time
	ItemCount     int
	Total         decimal.Decimal
	Items         []string
}

const financialsSheet = "Financials"

// WriteFinancialsXLSX writes one sheet with a row per purchase and a total
// row at the bottom.
func WriteFinancialsXLSX(w io.Writer, rows []FinancialsRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), financialsSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	header := []interface{}{"Transaction", "Date", "Items", "Total", "Sold"}
	if err := f.SetSheetRow(financialsSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}
	_ = f.SetRowStyle(financialsSheet, 1, 1, bold)

	revenue := decimal.Zero
	for i, r := range rows {
		total, _ := r.Total.Float64()
		row := []interface{}{
			r.TransactionID,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.ItemCount,
			total,
			strings.Join(r.Items, ", "),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(financialsSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
		revenue = revenue.Add(r.Total)
	}

	sum, _ := revenue.Float64()
	totalRow := []interface{}{"TOTAL", "", "", sum}
	cell, _ := excelize.CoordinatesToCellName(1, len(rows)+2)
	if err := f.SetSheetRow(financialsSheet, cell, &totalRow); err != nil {
		return fmt.Errorf("xlsx: total row: %w", err)
	}
	_ = f.SetRowStyle(financialsSheet, len(rows)+2, len(rows)+2, bold)
	_ = f.SetColWidth(financialsSheet, "A", "B", 18)
	_ = f.SetColWidth(financialsSheet, "E", "E", 48)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}
