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
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseService interface {
	Purchase(ctx context.Context, req dto.PurchaseRequest) (*dto.PurchaseResponse, error)
}

type purchaseService struct {
	ledger    LedgerService
	vouchers  repository.VoucherRepository
	inventory repository.InventoryRepository
	sales     repository.SalesRepository
	users     repository.UserRepository
	printer   ArtifactGenerator
	jobs      JobDispatcher
	now       func() time.Time
}

func NewPurchaseService(
	ledger LedgerService,
	vouchers repository.VoucherRepository,
	inventory repository.InventoryRepository,
	sales repository.SalesRepository,
	users repository.UserRepository,
	printer ArtifactGenerator,
	jobs JobDispatcher,
) PurchaseService {
	return &purchaseService{
		ledger: ledger, vouchers: vouchers, inventory: inventory, sales: sales,
		users: users, printer: printer, jobs: jobs, now: time.Now,
	}
}

type resolvedLine struct {
	id    uuid.UUID
	name  string
	price decimal.Decimal
}

// ── Purchase ──────────────────────────────────────────────────────────────────
//   1. Resolve every cart line against inventory and recompute the total
//   2. Reject a declared total that does not match the shelf prices
//   3. BEGIN TX: settle vouchers, write transaction row, decrement stock and
//      append one sales log entry per line
//   4. COMMIT
//   5. Render change voucher + receipt and queue the POS print job

func (s *purchaseService) Purchase(ctx context.Context, req dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	if !isMoney(req.TotalCost) {
		return nil, fmt.Errorf("%w: total %s", ErrInvalidAmount, req.TotalCost)
	}
	if len(req.CartItems) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidAmount)
	}

	// 1. Resolve
	lines := make([]resolvedLine, 0, len(req.CartItems))
	cache := make(map[uuid.UUID]*model.InventoryItem)
	computed := decimal.Zero
	for _, ci := range req.CartItems {
		id, err := uuid.Parse(ci.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: inventory item %q", ErrNotFound, ci.ID)
		}
		item, ok := cache[id]
		if !ok {
			item, err = s.inventory.FindByID(ctx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, fmt.Errorf("%w: inventory item %s", ErrNotFound, id)
				}
				return nil, err
			}
			cache[id] = item
		}
		lines = append(lines, resolvedLine{id: id, name: item.Name, price: item.Price})
		computed = computed.Add(item.Price)
	}

	// 2. Declared vs. shelf total
	if !computed.Equal(req.TotalCost) {
		return nil, fmt.Errorf("%w: declared %s, items add up to %s",
			ErrCartTotalMismatch, req.TotalCost.StringFixed(2), computed.StringFixed(2))
	}

	// 3 + 4. Settle and record
	now := s.now()
	txn := model.Transaction{
		ID:        newToken(),
		TotalCost: req.TotalCost,
		ItemCount: len(lines),
		CreatedAt: now,
	}
	var settlement *SettlementResult
	txErr := runTx(ctx, s.vouchers.DB(), func(tx *gorm.DB) error {
		res, err := s.ledger.Settle(ctx, tx, req.VoucherIDs, req.TotalCost, nil)
		if err != nil {
			return err
		}
		settlement = res

		if err := s.sales.CreateTransactionTx(ctx, tx, &txn); err != nil {
			return err
		}
		for _, l := range lines {
			n, err := s.inventory.DecrementStockTx(ctx, tx, l.id)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: %s", ErrOutOfStock, l.name)
			}
			invID := l.id
			entry := &model.SalesLogEntry{
				TransactionID: txn.ID,
				InventoryID:   &invID,
				ItemName:      l.name,
				Price:         l.price,
				SoldAt:        now,
			}
			if err := s.sales.CreateEntryTx(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("transaction_id", txn.ID).
		Str("total", txn.TotalCost.StringFixed(2)).
		Int("items", txn.ItemCount).
		Str("change", settlement.ChangeAmount.StringFixed(2)).
		Msg("purchase settled")

	// 5. Print (best effort)
	var vouchers []infra.VoucherPrint
	if settlement.ChangeVoucherID != nil {
		vouchers = append(vouchers, infra.VoucherPrint{
			ID:        *settlement.ChangeVoucherID,
			Amount:    settlement.ChangeAmount,
			OwnerName: ownerName(ctx, s.users, settlement.ChangeOwnerID),
		})
	}
	receipt := &infra.ReceiptPrint{TransactionID: txn.ID, Total: txn.TotalCost, At: now}
	for _, l := range lines {
		receipt.Lines = append(receipt.Lines, infra.ReceiptLine{Name: l.name, Price: l.price})
	}
	printable := printout(ctx, s.printer, s.jobs, model.AssignmentPOS, vouchers, receipt)

	return &dto.PurchaseResponse{
		Success:       true,
		TransactionID: txn.ID,
		Change:        settlement.ChangeAmount,
		ChangeID:      settlement.ChangeVoucherID,
		Printable:     printable,
	}, nil
}
