package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"ebucks/internal/infra"
	"ebucks/internal/model"
	"ebucks/internal/repository"
	"ebucks/internal/service"
	"ebucks/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubVoucherRepo is an in-memory VoucherRepository. DB() is nil so services
// run their transaction bodies directly.
type stubVoucherRepo struct {
	mu       sync.Mutex
	vouchers map[string]*model.Voucher
	seq      int
}

func newStubVoucherRepo() *stubVoucherRepo {
	return &stubVoucherRepo{vouchers: make(map[string]*model.Voucher)}
}

// seed adds an unused voucher created one second after the previous one.
func (r *stubVoucherRepo) seed(id string, amount string, owner *uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.vouchers[id] = &model.Voucher{
		ID:        id,
		Amount:    decimal.RequireFromString(amount),
		UserID:    owner,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, r.seq, 0, time.UTC),
	}
}

func (r *stubVoucherRepo) CreateTx(_ context.Context, _ *gorm.DB, v *model.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.vouchers[v.ID] = &cp
	return nil
}

func (r *stubVoucherRepo) FindUnusedByIDsTx(_ context.Context, _ *gorm.DB, ids []string) ([]model.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var out []model.Voucher
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if v, ok := r.vouchers[id]; ok && !v.IsUsed {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVoucherRepo) MarkUsedTx(_ context.Context, _ *gorm.DB, ids []string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if v, ok := r.vouchers[id]; ok && !v.IsUsed {
			v.IsUsed = true
			t := at
			v.UsedAt = &t
			n++
		}
	}
	return n, nil
}

func (r *stubVoucherRepo) ListUnusedByUserTx(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]model.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Voucher
	for _, v := range r.vouchers {
		if !v.IsUsed && v.UserID != nil && *v.UserID == userID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *stubVoucherRepo) FindByID(_ context.Context, id string) (*model.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVoucherRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Voucher
	for _, v := range r.vouchers {
		if v.UserID != nil && *v.UserID == userID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVoucherRepo) SumUnused(_ context.Context) (decimal.Decimal, error) {
	return r.balanceWhere(func(*model.Voucher) bool { return true }), nil
}

func (r *stubVoucherRepo) DB() *gorm.DB { return nil }

// balance sums the unused vouchers owned by id.
func (r *stubVoucherRepo) balance(id uuid.UUID) decimal.Decimal {
	return r.balanceWhere(func(v *model.Voucher) bool { return v.UserID != nil && *v.UserID == id })
}

func (r *stubVoucherRepo) balanceWhere(keep func(*model.Voucher) bool) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, v := range r.vouchers {
		if !v.IsUsed && keep(v) {
			sum = sum.Add(v.Amount)
		}
	}
	return sum
}

func (r *stubVoucherRepo) get(id string) model.Voucher {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.vouchers[id]
}

var _ repository.VoucherRepository = (*stubVoucherRepo)(nil)

// stubUserRepo keeps users in insertion order.
type stubUserRepo struct {
	users []*model.User
}

func (r *stubUserRepo) add(name, pin string, rate string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	u := &model.User{
		ID:         uuid.New(),
		Name:       name,
		Role:       model.RoleEmployee,
		PINHash:    string(hash),
		HourlyRate: decimal.RequireFromString(rate),
		Active:     true,
	}
	r.users = append(r.users, u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users = append(r.users, u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	all, _ := r.List(context.Background())
	return int64(len(all)), nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	for _, u := range r.users {
		if u.ID == id && u.Active {
			u.Active = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubInventoryRepo struct {
	items map[uuid.UUID]*model.InventoryItem
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{items: make(map[uuid.UUID]*model.InventoryItem)}
}

func (r *stubInventoryRepo) add(name, price string, stock int) *model.InventoryItem {
	it := &model.InventoryItem{ID: uuid.New(), Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	r.items[it.ID] = it
	return it
}

func (r *stubInventoryRepo) Create(_ context.Context, item *model.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubInventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *stubInventoryRepo) FindByBarcode(_ context.Context, barcode string) (*model.InventoryItem, error) {
	for _, it := range r.items {
		if it.Barcode == barcode {
			cp := *it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) List(_ context.Context) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	for _, it := range r.items {
		out = append(out, *it)
	}
	return out, nil
}

func (r *stubInventoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubInventoryRepo) DecrementStockTx(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	it, ok := r.items[id]
	if !ok || it.Stock <= 0 {
		return 0, nil
	}
	it.Stock--
	return 1, nil
}

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

type stubSalesRepo struct {
	txs     []model.Transaction
	entries []model.SalesLogEntry
}

func (r *stubSalesRepo) CreateTransactionTx(_ context.Context, _ *gorm.DB, t *model.Transaction) error {
	r.txs = append(r.txs, *t)
	return nil
}

func (r *stubSalesRepo) CreateEntryTx(_ context.Context, _ *gorm.DB, e *model.SalesLogEntry) error {
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubSalesRepo) List(_ context.Context, _ int) ([]model.Transaction, error) {
	out := make([]model.Transaction, len(r.txs))
	for i, t := range r.txs {
		t.Items = nil
		for _, e := range r.entries {
			if e.TransactionID == t.ID {
				t.Items = append(t.Items, e)
			}
		}
		out[i] = t
	}
	return out, nil
}

func (r *stubSalesRepo) TopItems(_ context.Context, n int) ([]repository.ItemCount, error) {
	counts := make(map[string]int64)
	for _, e := range r.entries {
		counts[e.ItemName]++
	}
	var out []repository.ItemCount
	for name, c := range counts {
		out = append(out, repository.ItemCount{ItemName: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *stubSalesRepo) Revenue(_ context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.txs {
		sum = sum.Add(t.TotalCost)
	}
	return sum, nil
}

var _ repository.SalesRepository = (*stubSalesRepo)(nil)

type stubTimesheetRepo struct {
	sheets []*model.Timesheet
	users  *stubUserRepo
}

// closed adds a finished, unpaid shift of hours for u.
func (r *stubTimesheetRepo) closed(u *model.User, hours string) *model.Timesheet {
	h := decimal.RequireFromString(hours)
	in := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	out := in.Add(time.Hour)
	t := &model.Timesheet{ID: uuid.New(), UserID: u.ID, ClockIn: in, ClockOut: &out, TotalHours: &h}
	r.sheets = append(r.sheets, t)
	return t
}

func (r *stubTimesheetRepo) Create(_ context.Context, t *model.Timesheet) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.sheets = append(r.sheets, t)
	return nil
}

func (r *stubTimesheetRepo) FindOpen(_ context.Context, userID uuid.UUID) (*model.Timesheet, error) {
	for _, t := range r.sheets {
		if t.UserID == userID && t.ClockOut == nil {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTimesheetRepo) Close(_ context.Context, id uuid.UUID, out time.Time, hours decimal.Decimal) error {
	for _, t := range r.sheets {
		if t.ID == id {
			t.ClockOut = &out
			t.TotalHours = &hours
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubTimesheetRepo) ListUnpaidClosed(ctx context.Context) ([]model.Timesheet, error) {
	var out []model.Timesheet
	for _, t := range r.sheets {
		if t.IsPaid || t.ClockOut == nil {
			continue
		}
		cp := *t
		if u, err := r.users.FindByID(ctx, t.UserID); err == nil {
			cp.User = u
		} else {
			continue
		}
		out = append(out, cp)
	}
	return out, nil
}

func (r *stubTimesheetRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]model.Timesheet, error) {
	var out []model.Timesheet
	for _, t := range r.sheets {
		if t.UserID == userID && len(out) < limit {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTimesheetRepo) MarkPaidTx(_ context.Context, _ *gorm.DB, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		for _, t := range r.sheets {
			if t.ID == id && !t.IsPaid {
				t.IsPaid = true
				n++
			}
		}
	}
	return n, nil
}

var _ repository.TimesheetRepository = (*stubTimesheetRepo)(nil)

type stubPrinterRepo struct {
	printers []model.Printer
}

func (r *stubPrinterRepo) Create(_ context.Context, p *model.Printer) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.printers = append(r.printers, *p)
	return nil
}

func (r *stubPrinterRepo) List(_ context.Context) ([]model.Printer, error) { return r.printers, nil }

func (r *stubPrinterRepo) FindByAssignment(_ context.Context, assignment string) (*model.Printer, error) {
	for i := range r.printers {
		if r.printers[i].Assignment == assignment {
			return &r.printers[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPrinterRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, p := range r.printers {
		if p.ID == id {
			r.printers = append(r.printers[:i], r.printers[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.PrinterRepository = (*stubPrinterRepo)(nil)

// fakeJobs records every job instead of queueing it.
type fakeJobs struct {
	prints []worker.PrintJobPayload
	emails []worker.EmailJobPayload
}

func (f *fakeJobs) EnqueuePrint(_ context.Context, p worker.PrintJobPayload) error {
	f.prints = append(f.prints, p)
	return nil
}

func (f *fakeJobs) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	f.emails = append(f.emails, p)
	return nil
}

var _ service.JobDispatcher = (*fakeJobs)(nil)

// brokenJobs fails every enqueue, as a down Redis would.
type brokenJobs struct{}

func (brokenJobs) EnqueuePrint(context.Context, worker.PrintJobPayload) error {
	return errors.New("redis: connection refused")
}

func (brokenJobs) EnqueueEmail(context.Context, worker.EmailJobPayload) error {
	return errors.New("redis: connection refused")
}

// brokenPrinter fails every render.
type brokenPrinter struct{}

func (brokenPrinter) Voucher(infra.VoucherPrint) (string, error) { return "", errors.New("render failed") }
func (brokenPrinter) Receipt(infra.ReceiptPrint) (string, error) { return "", errors.New("render failed") }
func (brokenPrinter) Combine(...string) (string, error) { return "", errors.New("render failed") }

var (
	_ service.JobDispatcher     = brokenJobs{}
	_ service.ArtifactGenerator = brokenPrinter{}
)

// ── Fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	vouchers   *stubVoucherRepo
	users      *stubUserRepo
	inventory  *stubInventoryRepo
	sales      *stubSalesRepo
	timesheets *stubTimesheetRepo
	jobs       *fakeJobs

	ledger   service.LedgerService
	purchase service.PurchaseService
	transfer service.TransferService
	payroll  service.PayrollService
	reports  service.ReportService
}

func newFixture() *fixture {
	return newFixtureWith(infra.NewHTMLPrinter("TEST STORE"), nil)
}

// newFixtureWith wires the services to gen and jobs. A nil jobs keeps the
// recording fakeJobs.
func newFixtureWith(gen service.ArtifactGenerator, jobs service.JobDispatcher) *fixture {
	f := &fixture{
		vouchers:  newStubVoucherRepo(),
		users:     &stubUserRepo{},
		inventory: newStubInventoryRepo(),
		sales:     &stubSalesRepo{},
		jobs:      &fakeJobs{},
	}
	f.timesheets = &stubTimesheetRepo{users: f.users}
	if jobs == nil {
		jobs = f.jobs
	}
	f.ledger = service.NewLedgerService(f.vouchers, f.users, gen)
	f.purchase = service.NewPurchaseService(f.ledger, f.vouchers, f.inventory, f.sales, f.users, gen, jobs)
	f.transfer = service.NewTransferService(f.ledger, f.vouchers, f.users, gen, jobs, decimal.NewFromInt(5))
	f.payroll = service.NewPayrollService(f.ledger, f.vouchers, f.users, f.timesheets, gen, jobs, "TEST STORE")
	f.reports = service.NewReportService(f.vouchers, f.users, f.sales, f.timesheets)
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var fixedNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
