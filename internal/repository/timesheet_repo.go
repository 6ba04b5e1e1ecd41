package repository

import (
	"context"
	"time"

	"ebucks/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TimesheetRepository interface {
	Create(ctx context.Context, t *model.Timesheet) error
	// FindOpen returns the user's shift that has no clock-out yet.
	FindOpen(ctx context.Context, userID uuid.UUID) (*model.Timesheet, error)
	Close(ctx context.Context, id uuid.UUID, out time.Time, hours decimal.Decimal) error
	ListUnpaidClosed(ctx context.Context) ([]model.Timesheet, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Timesheet, error)

	MarkPaidTx(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

type timesheetRepo struct{ db *gorm.DB }

func NewTimesheetRepository(db *gorm.DB) TimesheetRepository { return &timesheetRepo{db: db} }

func (r *timesheetRepo) Create(ctx context.Context, t *model.Timesheet) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *timesheetRepo) FindOpen(ctx context.Context, userID uuid.UUID) (*model.Timesheet, error) {
	var t model.Timesheet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND clock_out IS NULL", userID).
		Order("clock_in DESC").
		First(&t).Error
	return &t, err
}

func (r *timesheetRepo) Close(ctx context.Context, id uuid.UUID, out time.Time, hours decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Timesheet{}).
		Where("id = ? AND clock_out IS NULL", id).
		Updates(map[string]interface{}{"clock_out": out, "total_hours": hours}).Error
}

// ListUnpaidClosed returns finished, unpaid shifts of active users, grouped
// by user in a stable order.
func (r *timesheetRepo) ListUnpaidClosed(ctx context.Context) ([]model.Timesheet, error) {
	var sheets []model.Timesheet
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = timesheets.user_id AND users.active = ?", true).
		Where("timesheets.is_paid = ? AND timesheets.clock_out IS NOT NULL", false).
		Order("timesheets.user_id ASC, timesheets.clock_in ASC").
		Find(&sheets).Error
	return sheets, err
}

func (r *timesheetRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Timesheet, error) {
	var sheets []model.Timesheet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("clock_in DESC").
		Limit(limit).
		Find(&sheets).Error
	return sheets, err
}

func (r *timesheetRepo) MarkPaidTx(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	res := tx.WithContext(ctx).Model(&model.Timesheet{}).
		Where("id IN ? AND is_paid = ?", ids, false).
		Update("is_paid", true)
	return res.RowsAffected, res.Error
}
