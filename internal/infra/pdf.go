package infra

// pdf.go: PDF copies of printed vouchers and receipts using go-pdf/fpdf.
// Pages are 74mm × 105mm, close to thermal paper. Files land in
// storagePath as voucher_{id}.pdf and receipt_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

func newTicketPDF() (*fpdf.Fpdf, float64) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	return pdf, pageW - 8
}

func writePDF(pdf *fpdf.Fpdf, storagePath, fileName string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fileName)
	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// GenerateVoucherPDF writes a one-page voucher and returns the file path.
func GenerateVoucherPDF(v VoucherPrint, storagePath string) (string, error) {
	pdf, contentW := newTicketPDF()
	pageW, _ := pdf.GetPageSize()

	title := v.Title
	if title == "" {
		title = DefaultVoucherTitle
	}
	owner := v.OwnerName
	if owner == "" {
		owner = bearerLabel
	}

	pdf.SetFont("Courier", "B", 16)
	pdf.CellFormat(contentW, 8, "E-BUCKS", "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 8)
	pdf.CellFormat(contentW, 5, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(4)

	pdf.SetFont("Courier", "B", 20)
	pdf.CellFormat(contentW, 10, "$"+v.Amount.StringFixed(2), "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 8)
	pdf.CellFormat(contentW, 5, "Owner: "+owner, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// The id is what the scanner reads, print it big.
	pdf.SetFont("Courier", "B", 14)
	pdf.CellFormat(contentW, 8, "*"+v.ID+"*", "1", 1, "C", false, 0, "")

	return writePDF(pdf, storagePath, fmt.Sprintf("voucher_%s.pdf", v.ID))
}

// GenerateReceiptPDF writes the purchase receipt and returns the file path.
func GenerateReceiptPDF(r ReceiptPrint, storeName, storagePath string) (string, error) {
	pdf, contentW := newTicketPDF()
	pageW, _ := pdf.GetPageSize()

	pdf.SetFont("Courier", "B", 12)
	pdf.CellFormat(contentW, 7, storeName, "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 7)
	pdf.CellFormat(contentW, 4, r.At.Local().Format("02/01/2006  15:04")+"  #"+r.TransactionID, "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	nameW := contentW * 0.68
	priceW := contentW - nameW
	pdf.SetFont("Courier", "", 7)
	for _, line := range r.Lines {
		name := line.Name
		if len(name) > 24 {
			name = name[:23] + "."
		}
		pdf.CellFormat(nameW, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(priceW, 5, "$"+line.Price.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Courier", "B", 9)
	pdf.CellFormat(nameW, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(priceW, 6, "$"+r.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Courier", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you!", "", 1, "C", false, 0, "")

	return writePDF(pdf, storagePath, fmt.Sprintf("receipt_%s.pdf", r.TransactionID))
}
