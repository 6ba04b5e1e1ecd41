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
	"ebucks/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const payrollSuffix = " (PAYROLL)"

// PayrollService issues new money: admin mints, the payroll run over closed
// timesheets, and the clock in/out that produces those timesheets.
type PayrollService interface {
	Mint(ctx context.Context, req dto.MintRequest) (*dto.MintResponse, error)
	ProcessPayroll(ctx context.Context) (*dto.PayrollResponse, error)
	ListUnpaid(ctx context.Context) ([]dto.UnpaidTimesheetResponse, error)
	Clock(ctx context.Context, pin string) (*dto.ClockResponse, error)
}

type payrollService struct {
	ledger     LedgerService
	vouchers   repository.VoucherRepository
	users      repository.UserRepository
	timesheets repository.TimesheetRepository
	printer    ArtifactGenerator
	jobs       JobDispatcher
	storeName  string
	now        func() time.Time
}

func NewPayrollService(
	ledger LedgerService,
	vouchers repository.VoucherRepository,
	users repository.UserRepository,
	timesheets repository.TimesheetRepository,
	printer ArtifactGenerator,
	jobs JobDispatcher,
	storeName string,
) PayrollService {
	return &payrollService{
		ledger: ledger, vouchers: vouchers, users: users, timesheets: timesheets,
		printer: printer, jobs: jobs, storeName: storeName, now: time.Now,
	}
}

func (s *payrollService) Mint(ctx context.Context, req dto.MintRequest) (*dto.MintResponse, error) {
	if !req.Amount.IsPositive() || !isMoney(req.Amount) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, req.Amount)
	}

	var (
		owner *uuid.UUID
		name  string
	)
	if req.UserID != nil && *req.UserID != "" {
		id, err := uuid.Parse(*req.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, *req.UserID)
		}
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
			}
			return nil, err
		}
		owner, name = &id, u.Name
	}

	var v *model.Voucher
	txErr := runTx(ctx, s.vouchers.DB(), func(tx *gorm.DB) error {
		var err error
		v, err = s.ledger.Mint(ctx, tx, req.Amount, owner)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	log.Info().Str("voucher_id", v.ID).Str("amount", v.Amount.StringFixed(2)).Msg("voucher minted")

	printable := printout(ctx, s.printer, s.jobs, model.AssignmentPayroll,
		[]infra.VoucherPrint{{ID: v.ID, Amount: v.Amount, OwnerName: name, Title: "OFFICIAL VOUCHER"}}, nil)

	return &dto.MintResponse{Success: true, VoucherID: v.ID, Amount: v.Amount, Printable: printable}, nil
}

type payGroup struct {
	user     model.User
	sheetIDs []uuid.UUID
	hours    decimal.Decimal
	pay      decimal.Decimal
}

// groupUnpaid folds the unpaid shifts into one entry per user, keeping the
// order in which users first appear.
func groupUnpaid(sheets []model.Timesheet) []*payGroup {
	var groups []*payGroup
	byUser := make(map[uuid.UUID]*payGroup)
	for _, t := range sheets {
		if t.User == nil {
			continue
		}
		g, ok := byUser[t.UserID]
		if !ok {
			g = &payGroup{user: *t.User}
			byUser[t.UserID] = g
			groups = append(groups, g)
		}
		hours := decimal.Zero
		if t.TotalHours != nil {
			hours = *t.TotalHours
		}
		g.sheetIDs = append(g.sheetIDs, t.ID)
		g.hours = g.hours.Add(hours)
		g.pay = g.pay.Add(hours.Mul(t.User.HourlyRate))
	}
	for _, g := range groups {
		g.pay = g.pay.Round(2)
	}
	return groups
}

// ── ProcessPayroll ────────────────────────────────────────────────────────────
// Each user is paid in a separate transaction: one voucher for the whole
// amount and exactly the selected shifts marked paid. A failure for one user
// is reported in its result and does not stop the others.

func (s *payrollService) ProcessPayroll(ctx context.Context) (*dto.PayrollResponse, error) {
	sheets, err := s.timesheets.ListUnpaidClosed(ctx)
	if err != nil {
		return nil, err
	}
	groups := groupUnpaid(sheets)

	resp := &dto.PayrollResponse{Success: true, Results: make([]dto.PayrollResult, 0, len(groups))}
	var prints []infra.VoucherPrint

	for _, g := range groups {
		uid := g.user.ID
		result := dto.PayrollResult{UserID: uid.String(), Name: g.user.Name, Hours: g.hours, Amount: g.pay}

		var v *model.Voucher
		txErr := runTx(ctx, s.vouchers.DB(), func(tx *gorm.DB) error {
			// Shifts shorter than a cent of pay are closed out without a voucher.
			if g.pay.IsPositive() {
				var err error
				if v, err = s.ledger.Mint(ctx, tx, g.pay, &uid); err != nil {
					return err
				}
			}
			n, err := s.timesheets.MarkPaidTx(ctx, tx, g.sheetIDs)
			if err != nil {
				return err
			}
			if n != int64(len(g.sheetIDs)) {
				return fmt.Errorf("payroll: %d of %d timesheets were already paid", int64(len(g.sheetIDs))-n, len(g.sheetIDs))
			}
			return nil
		})
		if txErr != nil {
			log.Error().Err(txErr).Str("user_id", uid.String()).Msg("payroll: user skipped")
			result.Error = txErr.Error()
			resp.Results = append(resp.Results, result)
			continue
		}

		resp.Count++
		if v == nil {
			resp.Results = append(resp.Results, result)
			continue
		}
		result.VoucherID = v.ID
		resp.Results = append(resp.Results, result)

		slip := infra.VoucherPrint{ID: v.ID, Amount: v.Amount, OwnerName: g.user.Name + payrollSuffix}
		prints = append(prints, slip)
		s.mailSlip(ctx, g.user, slip, g.hours)
	}

	log.Info().Int("paid", resp.Count).Int("users", len(groups)).Msg("payroll processed")
	resp.Printable = printout(ctx, s.printer, s.jobs, model.AssignmentPayroll, prints, nil)
	return resp, nil
}

func (s *payrollService) mailSlip(ctx context.Context, u model.User, slip infra.VoucherPrint, hours decimal.Decimal) {
	if u.Email == nil || *u.Email == "" || s.jobs == nil {
		return
	}
	payload := worker.EmailJobPayload{
		ToEmail: *u.Email,
		Subject: fmt.Sprintf("%s payroll: $%s", s.storeName, slip.Amount.StringFixed(2)),
		Body: fmt.Sprintf("Hi %s,\n\nYou were paid $%s for %s hours. Your voucher id is %s.\n",
			u.Name, slip.Amount.StringFixed(2), hours.StringFixed(2), slip.ID),
		Slip: &slip,
	}
	if err := s.jobs.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("payroll: enqueue email failed")
	}
}

func (s *payrollService) ListUnpaid(ctx context.Context) ([]dto.UnpaidTimesheetResponse, error) {
	sheets, err := s.timesheets.ListUnpaidClosed(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UnpaidTimesheetResponse, 0, len(sheets))
	for _, t := range sheets {
		r := dto.UnpaidTimesheetResponse{ID: t.ID.String(), UserID: t.UserID.String()}
		if t.TotalHours != nil {
			r.TotalHours = *t.TotalHours
		}
		if t.User != nil {
			r.Name = t.User.Name
			r.HourlyRate = t.User.HourlyRate
		}
		resp = append(resp, r)
	}
	return resp, nil
}

// Clock closes the user's open shift, or opens one when none is open.
func (s *payrollService) Clock(ctx context.Context, pin string) (*dto.ClockResponse, error) {
	u, err := findByPIN(ctx, s.users, pin)
	if err != nil {
		return nil, err
	}
	now := s.now()

	open, err := s.timesheets.FindOpen(ctx, u.ID)
	switch {
	case err == nil:
		hours := decimal.NewFromFloat(now.Sub(open.ClockIn).Hours()).Round(2)
		if hours.IsNegative() {
			hours = decimal.Zero
		}
		if err := s.timesheets.Close(ctx, open.ID, now, hours); err != nil {
			return nil, err
		}
		log.Info().Str("user_id", u.ID.String()).Str("hours", hours.StringFixed(2)).Msg("clock out")
		return &dto.ClockResponse{Success: true, Action: "OUT", User: u.Name, Hours: &hours}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.timesheets.Create(ctx, &model.Timesheet{UserID: u.ID, ClockIn: now}); err != nil {
			return nil, err
		}
		log.Info().Str("user_id", u.ID.String()).Msg("clock in")
		return &dto.ClockResponse{Success: true, Action: "IN", User: u.Name}, nil
	default:
		return nil, err
	}
}
