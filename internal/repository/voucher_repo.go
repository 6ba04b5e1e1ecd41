package repository

import (
	"context"
	"time"

	"ebucks/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VoucherRepository is the voucher store. Methods with a Tx suffix run on the
// caller's transaction handle.
type VoucherRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, v *model.Voucher) error
	FindUnusedByIDsTx(ctx context.Context, tx *gorm.DB, ids []string) ([]model.Voucher, error)
	// MarkUsedTx flips every listed voucher that is still unused and returns
	// how many rows changed. A count below len(ids) means another settlement
	// consumed one of them first.
	MarkUsedTx(ctx context.Context, tx *gorm.DB, ids []string, at time.Time) (int64, error)
	ListUnusedByUserTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]model.Voucher, error)

	FindByID(ctx context.Context, id string) (*model.Voucher, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Voucher, error)
	SumUnused(ctx context.Context) (decimal.Decimal, error)

	DB() *gorm.DB
}

type voucherRepo struct{ db *gorm.DB }

func NewVoucherRepository(db *gorm.DB) VoucherRepository { return &voucherRepo{db: db} }

func (r *voucherRepo) DB() *gorm.DB { return r.db }

func (r *voucherRepo) CreateTx(ctx context.Context, tx *gorm.DB, v *model.Voucher) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *voucherRepo) FindUnusedByIDsTx(ctx context.Context, tx *gorm.DB, ids []string) ([]model.Voucher, error) {
	var vouchers []model.Voucher
	if len(ids) == 0 {
		return vouchers, nil
	}
	err := tx.WithContext(ctx).
		Where("id IN ? AND is_used = ?", ids, false).
		Find(&vouchers).Error
	return vouchers, err
}

func (r *voucherRepo) MarkUsedTx(ctx context.Context, tx *gorm.DB, ids []string, at time.Time) (int64, error) {
	res := tx.WithContext(ctx).Model(&model.Voucher{}).
		Where("id IN ? AND is_used = ?", ids, false).
		Updates(map[string]interface{}{"is_used": true, "used_at": at})
	return res.RowsAffected, res.Error
}

func (r *voucherRepo) ListUnusedByUserTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]model.Voucher, error) {
	var vouchers []model.Voucher
	err := tx.WithContext(ctx).
		Where("user_id = ? AND is_used = ?", userID, false).
		Order("created_at ASC, id ASC").
		Find(&vouchers).Error
	return vouchers, err
}

func (r *voucherRepo) FindByID(ctx context.Context, id string) (*model.Voucher, error) {
	var v model.Voucher
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *voucherRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Voucher, error) {
	var vouchers []model.Voucher
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&vouchers).Error
	return vouchers, err
}

func (r *voucherRepo) SumUnused(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Voucher{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("is_used = ?", false).
		Row().Scan(&sum)
	return sum, err
}
