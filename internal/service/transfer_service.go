package service

import (
	"context"
	"errors"
	"fmt"

	"ebucks/internal/dto"
	"ebucks/internal/infra"
	"ebucks/internal/model"
	"ebucks/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransferService interface {
	Transfer(ctx context.Context, req dto.TransferRequest) (*dto.TransferResponse, error)
}

type transferService struct {
	ledger   LedgerService
	vouchers repository.VoucherRepository
	users    repository.UserRepository
	printer  ArtifactGenerator
	jobs     JobDispatcher
	fee      decimal.Decimal
}

func NewTransferService(
	ledger LedgerService,
	vouchers repository.VoucherRepository,
	users repository.UserRepository,
	printer ArtifactGenerator,
	jobs JobDispatcher,
	fee decimal.Decimal,
) TransferService {
	return &transferService{ledger: ledger, vouchers: vouchers, users: users, printer: printer, jobs: jobs, fee: fee}
}

// Transfer moves amount from sender to receiver. The sender pays amount plus
// the fee out of their oldest unused vouchers; the fee is destroyed and any
// excess comes back to the sender as change.
func (s *transferService) Transfer(ctx context.Context, req dto.TransferRequest) (*dto.TransferResponse, error) {
	if !req.Amount.IsPositive() || !isMoney(req.Amount) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, req.Amount)
	}
	senderID, err := uuid.Parse(req.SenderID)
	if err != nil {
		return nil, fmt.Errorf("%w: sender %q", ErrNotFound, req.SenderID)
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: receiver %q", ErrNotFound, req.ReceiverID)
	}
	if senderID == receiverID {
		return nil, ErrSelfTransfer
	}
	sender, err := s.findUser(ctx, senderID, "sender")
	if err != nil {
		return nil, err
	}
	receiver, err := s.findUser(ctx, receiverID, "receiver")
	if err != nil {
		return nil, err
	}

	totalNeeded := req.Amount.Add(s.fee)

	var (
		settlement *SettlementResult
		sent       *model.Voucher
	)
	txErr := runTx(ctx, s.vouchers.DB(), func(tx *gorm.DB) error {
		unused, err := s.vouchers.ListUnusedByUserTx(ctx, tx, senderID)
		if err != nil {
			return err
		}
		balance := decimal.Zero
		for _, v := range unused {
			balance = balance.Add(v.Amount)
		}
		if balance.LessThan(totalNeeded) {
			return fmt.Errorf("%w: balance %s, need %s (incl. %s fee)", ErrInsufficientFunds,
				balance.StringFixed(2), totalNeeded.StringFixed(2), s.fee.StringFixed(2))
		}

		// Greedy, oldest first
		var gathered []string
		sum := decimal.Zero
		for _, v := range unused {
			if sum.GreaterThanOrEqual(totalNeeded) {
				break
			}
			gathered = append(gathered, v.ID)
			sum = sum.Add(v.Amount)
		}

		res, err := s.ledger.Settle(ctx, tx, gathered, totalNeeded, &senderID)
		if err != nil {
			return err
		}
		settlement = res

		v, err := s.ledger.Mint(ctx, tx, req.Amount, &receiverID)
		if err != nil {
			return err
		}
		sent = v
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("sender_id", senderID.String()).
		Str("receiver_id", receiverID.String()).
		Str("amount", req.Amount.StringFixed(2)).
		Str("fee", s.fee.StringFixed(2)).
		Str("voucher_id", sent.ID).
		Msg("transfer settled")

	vouchers := []infra.VoucherPrint{{ID: sent.ID, Amount: sent.Amount, OwnerName: receiver.Name, Title: "TRANSFER"}}
	if settlement.ChangeVoucherID != nil {
		vouchers = append(vouchers, infra.VoucherPrint{
			ID: *settlement.ChangeVoucherID, Amount: settlement.ChangeAmount, OwnerName: sender.Name,
		})
	}
	printable := printout(ctx, s.printer, s.jobs, model.AssignmentPOS, vouchers, nil)

	return &dto.TransferResponse{
		Success:   true,
		VoucherID: sent.ID,
		Amount:    req.Amount,
		Fee:       s.fee,
		Change:    settlement.ChangeAmount,
		ChangeID:  settlement.ChangeVoucherID,
		Printable: printable,
	}, nil
}

func (s *transferService) findUser(ctx context.Context, id uuid.UUID, role string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, role, id)
		}
		return nil, err
	}
	return u, nil
}
