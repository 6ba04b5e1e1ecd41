package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ebucks/internal/dto"
	"ebucks/internal/infra"
	"ebucks/internal/model"
	"ebucks/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementResult describes a successful Settle call.
type SettlementResult struct {
	Supplied        decimal.Decimal
	ChangeAmount    decimal.Decimal
	ChangeVoucherID *string
	ChangeOwnerID   *uuid.UUID
	ConsumedIDs     []string
}

// LedgerService owns the voucher ledger. Settle and Mint run on the caller's
// transaction so a purchase or transfer commits or rolls back as one unit.
type LedgerService interface {
	// Settle consumes every voucher in ids against required. The whole set is
	// rejected if any id is unknown, already used or repeated. Any excess is
	// re-issued as one change voucher owned by ownerHint, or by the owner of
	// ids[0] when ownerHint is nil.
	Settle(ctx context.Context, tx *gorm.DB, ids []string, required decimal.Decimal, ownerHint *uuid.UUID) (*SettlementResult, error)
	// Mint issues a new unused voucher.
	Mint(ctx context.Context, tx *gorm.DB, amount decimal.Decimal, ownerID *uuid.UUID) (*model.Voucher, error)

	GetVoucher(ctx context.Context, id string) (*dto.VoucherResponse, error)
	Reprint(ctx context.Context, id string) (string, error)
}

type ledgerService struct {
	vouchers repository.VoucherRepository
	users    repository.UserRepository
	printer  ArtifactGenerator
	now      func() time.Time
}

func NewLedgerService(vouchers repository.VoucherRepository, users repository.UserRepository, printer ArtifactGenerator) LedgerService {
	return &ledgerService{vouchers: vouchers, users: users, printer: printer, now: time.Now}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *ledgerService) Settle(ctx context.Context, tx *gorm.DB, ids []string, required decimal.Decimal, ownerHint *uuid.UUID) (*SettlementResult, error) {
	if !isMoney(required) {
		return nil, fmt.Errorf("%w: required amount %s", ErrInvalidAmount, required)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no vouchers supplied", ErrInvalidVoucherSet)
	}

	// 1. Whole-set validation. Duplicates collapse in the IN clause, so any
	//    unknown, used or repeated id shows up as a count mismatch.
	found, err := s.vouchers.FindUnusedByIDsTx(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, fmt.Errorf("%w: %d of %d vouchers are unknown, already used or repeated",
			ErrInvalidVoucherSet, len(ids)-len(found), len(ids))
	}

	byID := make(map[string]model.Voucher, len(found))
	supplied := decimal.Zero
	for _, v := range found {
		byID[v.ID] = v
		supplied = supplied.Add(v.Amount)
	}

	// 2. Balance check
	if supplied.LessThan(required) {
		return nil, fmt.Errorf("%w: short by %s", ErrInsufficientFunds, required.Sub(supplied).StringFixed(2))
	}

	// 3. Consume. Fewer rows than ids means a concurrent settlement got
	//    there first; the caller's transaction rolls everything back.
	n, err := s.vouchers.MarkUsedTx(ctx, tx, ids, s.now())
	if err != nil {
		return nil, err
	}
	if n != int64(len(ids)) {
		return nil, fmt.Errorf("%w: vouchers were spent concurrently", ErrInvalidVoucherSet)
	}

	res := &SettlementResult{
		Supplied:     supplied,
		ChangeAmount: supplied.Sub(required),
		ConsumedIDs:  append([]string(nil), ids...),
	}

	// 4. Change
	if res.ChangeAmount.IsPositive() {
		owner := ownerHint
		if owner == nil {
			owner = byID[ids[0]].UserID
		}
		change, err := s.Mint(ctx, tx, res.ChangeAmount, owner)
		if err != nil {
			return nil, err
		}
		res.ChangeVoucherID = &change.ID
		res.ChangeOwnerID = owner
	}
	return res, nil
}

func (s *ledgerService) Mint(ctx context.Context, tx *gorm.DB, amount decimal.Decimal, ownerID *uuid.UUID) (*model.Voucher, error) {
	if !amount.IsPositive() || !isMoney(amount) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	v := &model.Voucher{
		ID:        newToken(),
		Amount:    amount,
		UserID:    ownerID,
		CreatedAt: s.now(),
	}
	if err := s.vouchers.CreateTx(ctx, tx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *ledgerService) GetVoucher(ctx context.Context, id string) (*dto.VoucherResponse, error) {
	v, err := s.vouchers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: voucher %s", ErrNotFound, id)
		}
		return nil, err
	}
	resp := voucherResponse(*v)
	return &resp, nil
}

// Reprint renders an unused voucher again, e.g. after a paper jam.
func (s *ledgerService) Reprint(ctx context.Context, id string) (string, error) {
	v, err := s.vouchers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: voucher %s", ErrNotFound, id)
		}
		return "", err
	}
	if v.IsUsed {
		return "", fmt.Errorf("%w: voucher %s is already used", ErrInvalidVoucherSet, id)
	}
	name := ""
	if v.User != nil {
		name = v.User.Name
	}
	return printout(ctx, s.printer, nil, model.AssignmentPOS,
		[]infra.VoucherPrint{{ID: v.ID, Amount: v.Amount, OwnerName: name}}, nil), nil
}

func voucherResponse(v model.Voucher) dto.VoucherResponse {
	resp := dto.VoucherResponse{
		ID:        v.ID,
		Amount:    v.Amount,
		IsUsed:    v.IsUsed,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
	if v.UserID != nil {
		uid := v.UserID.String()
		resp.UserID = &uid
	}
	if v.User != nil {
		resp.OwnerName = v.User.Name
	}
	if v.UsedAt != nil {
		at := v.UsedAt.Format(time.RFC3339)
		resp.UsedAt = &at
	}
	return resp
}
