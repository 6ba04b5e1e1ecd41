package service

import (
	"context"

	"ebucks/internal/infra"
	"ebucks/internal/repository"
	"ebucks/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ArtifactGenerator renders printable vouchers and receipts. The result is
// opaque to the ledger and returned to the client verbatim.
type ArtifactGenerator interface {
	Voucher(v infra.VoucherPrint) (string, error)
	Receipt(r infra.ReceiptPrint) (string, error)
	Combine(parts ...string) (string, error)
}

// JobDispatcher queues background work. *worker.Dispatcher implements it.
type JobDispatcher interface {
	EnqueuePrint(ctx context.Context, p worker.PrintJobPayload) error
	EnqueueEmail(ctx context.Context, p worker.EmailJobPayload) error
}

// printout renders the given vouchers and receipt into one printable and
// queues the matching print job. It runs after commit: failures are logged
// and an empty or partial printable is returned instead of an error.
func printout(ctx context.Context, gen ArtifactGenerator, jobs JobDispatcher, assignment string,
	vouchers []infra.VoucherPrint, receipt *infra.ReceiptPrint) string {

	var parts []string
	if gen != nil {
		for _, v := range vouchers {
			html, err := gen.Voucher(v)
			if err != nil {
				log.Warn().Err(err).Str("voucher_id", v.ID).Msg("printout: voucher render failed")
				continue
			}
			parts = append(parts, html)
		}
		if receipt != nil {
			html, err := gen.Receipt(*receipt)
			if err != nil {
				log.Warn().Err(err).Str("transaction_id", receipt.TransactionID).Msg("printout: receipt render failed")
			} else {
				parts = append(parts, html)
			}
		}
	}

	if jobs != nil && (len(vouchers) > 0 || receipt != nil) {
		payload := worker.PrintJobPayload{Assignment: assignment, Vouchers: vouchers, Receipt: receipt}
		if err := jobs.EnqueuePrint(ctx, payload); err != nil {
			log.Warn().Err(err).Str("assignment", assignment).Msg("printout: enqueue print job failed")
		}
	}

	if len(parts) == 0 {
		return ""
	}
	page, err := gen.Combine(parts...)
	if err != nil {
		log.Warn().Err(err).Msg("printout: combine failed")
		return ""
	}
	return page
}

// ownerName resolves a voucher owner for printing. Unknown or missing owners
// print as bearer notes.
func ownerName(ctx context.Context, users repository.UserRepository, id *uuid.UUID) string {
	if id == nil || users == nil {
		return ""
	}
	u, err := users.FindByID(ctx, *id)
	if err != nil {
		return ""
	}
	return u.Name
}
