package worker

// print_worker.go
// Processes print jobs from QueuePrint. Each job is rendered to PDF files in
// the print archive and attributed to the printer assigned to its station.
// There is no network transport to the thermal printer itself; the kiosk
// prints the HTML it got back from the API.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ebucks/internal/infra"
	"ebucks/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PrintJobPayload is the job envelope sent to QueuePrint.
type PrintJobPayload struct {
	Assignment string `json:"assignment"`
	// PrinterIP overrides the assignment lookup (test prints).
	PrinterIP string              `json:"printer_ip,omitempty"`
	Vouchers  []infra.VoucherPrint `json:"vouchers,omitempty"`
	Receipt   *infra.ReceiptPrint  `json:"receipt,omitempty"`
}

type PrintWorker struct {
	printers    repository.PrinterRepository
	storagePath string
	storeName   string
}

func NewPrintWorker(printers repository.PrinterRepository, storagePath, storeName string) *PrintWorker {
	return &PrintWorker{printers: printers, storagePath: storagePath, storeName: storeName}
}

func (w *PrintWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload PrintJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// a malformed payload will never succeed; do not dead-letter it
		log.Error().Err(err).Msg("print_worker: invalid payload")
		return nil
	}

	ip := payload.PrinterIP
	if ip == "" {
		p, err := w.printers.FindByAssignment(ctx, payload.Assignment)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Warn().Str("assignment", payload.Assignment).Msg("print_worker: no printer assigned, archiving only")
		case err != nil:
			return fmt.Errorf("print_worker: printer lookup: %w", err)
		default:
			ip = p.IPAddress
		}
	}

	files, err := w.render(payload)
	if err != nil {
		return err
	}
	log.Info().
		Str("assignment", payload.Assignment).
		Str("printer_ip", ip).
		Strs("files", files).
		Msg("print_worker: job rendered")
	return nil
}

func (w *PrintWorker) render(payload PrintJobPayload) ([]string, error) {
	files := make([]string, 0, len(payload.Vouchers)+1)
	for _, v := range payload.Vouchers {
		path, err := infra.GenerateVoucherPDF(v, w.storagePath)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}
	if payload.Receipt != nil {
		path, err := infra.GenerateReceiptPDF(*payload.Receipt, w.storeName, w.storagePath)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}
