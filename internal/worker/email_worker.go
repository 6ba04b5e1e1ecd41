package worker

// email_worker.go
// Processes email jobs from QueueEmail: renders the payroll slip PDF and
// mails it, retrying with backoff before the job is dead-lettered.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ebucks/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	// Slip is rendered to PDF and attached when present.
	Slip *infra.VoucherPrint `json:"slip,omitempty"`
}

// SlipSender is satisfied by *infra.Mailer.
type SlipSender interface {
	SendSlip(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer      SlipSender
	storagePath string
	backoff     time.Duration
}

func NewEmailWorker(mailer SlipSender, storagePath string) *EmailWorker {
	return &EmailWorker{mailer: mailer, storagePath: storagePath, backoff: time.Second}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	var pdfPath string
	if payload.Slip != nil {
		path, err := infra.GenerateVoucherPDF(*payload.Slip, w.storagePath)
		if err != nil {
			return fmt.Errorf("email_worker: render slip: %w", err)
		}
		pdfPath = path
	}

	err := withRetry(ctx, maxAttempts, w.backoff, func(attempt int) error {
		if err := w.mailer.SendSlip(payload.ToEmail, payload.Subject, payload.Body, pdfPath); err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("to", payload.ToEmail).
				Msg("email_worker: send failed")
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("email_worker: %d attempts: %w", maxAttempts, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: slip sent")
	return nil
}
