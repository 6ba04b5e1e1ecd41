package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ebucks/internal/dto"
	"ebucks/internal/infra"
	"ebucks/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	topItemsLimit   = 5
	userSheetsLimit = 20
)

// ReportService answers the admin dashboard queries. Nothing here writes.
type ReportService interface {
	Financials(ctx context.Context) ([]dto.FinancialsEntry, error)
	ExportFinancials(ctx context.Context, w io.Writer) error
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	UserDetails(ctx context.Context, id uuid.UUID) (*dto.UserDetailsResponse, error)
}

type reportService struct {
	vouchers   repository.VoucherRepository
	users      repository.UserRepository
	sales      repository.SalesRepository
	timesheets repository.TimesheetRepository
}

func NewReportService(
	vouchers repository.VoucherRepository,
	users repository.UserRepository,
	sales repository.SalesRepository,
	timesheets repository.TimesheetRepository,
) ReportService {
	return &reportService{vouchers: vouchers, users: users, sales: sales, timesheets: timesheets}
}

func (s *reportService) Financials(ctx context.Context) ([]dto.FinancialsEntry, error) {
	txs, err := s.sales.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.FinancialsEntry, len(txs))
	for i, t := range txs {
		items := make([]string, len(t.Items))
		for j, it := range t.Items {
			items[j] = it.ItemName
		}
		resp[i] = dto.FinancialsEntry{
			ID:        t.ID,
			TotalCost: t.TotalCost,
			ItemCount: t.ItemCount,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
			Items:     items,
		}
	}
	return resp, nil
}

func (s *reportService) ExportFinancials(ctx context.Context, w io.Writer) error {
	txs, err := s.sales.List(ctx, 0)
	if err != nil {
		return err
	}
	rows := make([]infra.FinancialsRow, len(txs))
	for i, t := range txs {
		rows[i] = infra.FinancialsRow{
			TransactionID: t.ID,
			CreatedAt:     t.CreatedAt,
			ItemCount:     t.ItemCount,
			Total:         t.TotalCost,
		}
		for _, it := range t.Items {
			rows[i].Items = append(rows[i].Items, it.ItemName)
		}
	}
	return infra.WriteFinancialsXLSX(w, rows)
}

func (s *reportService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	circulation, err := s.vouchers.SumUnused(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.sales.TopItems(ctx, topItemsLimit)
	if err != nil {
		return nil, err
	}
	revenue, err := s.sales.Revenue(ctx)
	if err != nil {
		return nil, err
	}

	// An empty class still averages over one person.
	divisor := users
	if divisor < 1 {
		divisor = 1
	}
	resp := &dto.StatsResponse{
		Circulation:     circulation,
		UserCount:       users,
		AvgPerPerson:    circulation.Div(decimal.NewFromInt(divisor)).Round(2),
		TopItems:        make([]dto.TopItem, len(top)),
		LifetimeRevenue: revenue,
	}
	for i, t := range top {
		resp.TopItems[i] = dto.TopItem{ItemName: t.ItemName, Count: t.Count}
	}
	return resp, nil
}

func (s *reportService) UserDetails(ctx context.Context, id uuid.UUID) (*dto.UserDetailsResponse, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, err
	}
	vouchers, err := s.vouchers.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	sheets, err := s.timesheets.ListByUser(ctx, id, userSheetsLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.UserDetailsResponse{
		User:           userResponse(*u),
		Balance:        decimal.Zero,
		ActiveVouchers: []dto.VoucherResponse{},
		UsedVouchers:   []dto.VoucherResponse{},
		Timesheets:     make([]dto.TimesheetResponse, len(sheets)),
	}
	for _, v := range vouchers {
		if v.IsUsed {
			resp.UsedVouchers = append(resp.UsedVouchers, voucherResponse(v))
			continue
		}
		resp.ActiveVouchers = append(resp.ActiveVouchers, voucherResponse(v))
		resp.Balance = resp.Balance.Add(v.Amount)
	}
	for i, t := range sheets {
		ts := dto.TimesheetResponse{
			ID:         t.ID.String(),
			UserID:     t.UserID.String(),
			ClockIn:    t.ClockIn.Format(time.RFC3339),
			TotalHours: t.TotalHours,
			IsPaid:     t.IsPaid,
		}
		if t.ClockOut != nil {
			out := t.ClockOut.Format(time.RFC3339)
			ts.ClockOut = &out
		}
		resp.Timesheets[i] = ts
	}
	return resp, nil
}
