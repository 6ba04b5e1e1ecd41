package repository

import (
	"context"

	"ebucks/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemCount is one row of the best-seller ranking.
type ItemCount struct {
	ItemName string
	Count    int64
}

// SalesRepository stores purchase transactions and the per-unit sales log.
type SalesRepository interface {
	CreateTransactionTx(ctx context.Context, tx *gorm.DB, t *model.Transaction) error
	CreateEntryTx(ctx context.Context, tx *gorm.DB, e *model.SalesLogEntry) error

	List(ctx context.Context, limit int) ([]model.Transaction, error)
	TopItems(ctx context.Context, n int) ([]ItemCount, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
}

type salesRepo struct{ db *gorm.DB }

func NewSalesRepository(db *gorm.DB) SalesRepository { return &salesRepo{db: db} }

func (r *salesRepo) CreateTransactionTx(ctx context.Context, tx *gorm.DB, t *model.Transaction) error {
	// Items are written one by one through CreateEntryTx.
	return tx.WithContext(ctx).Omit("Items").Create(t).Error
}

func (r *salesRepo) CreateEntryTx(ctx context.Context, tx *gorm.DB, e *model.SalesLogEntry) error {
	return tx.WithContext(ctx).Create(e).Error
}

// List returns the newest transactions first with their sold items. A
// non-positive limit returns all of them.
func (r *salesRepo) List(ctx context.Context, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction
	q := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sold_at ASC") }).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&txs).Error
	return txs, err
}

func (r *salesRepo) TopItems(ctx context.Context, n int) ([]ItemCount, error) {
	var rows []ItemCount
	err := r.db.WithContext(ctx).Model(&model.SalesLogEntry{}).
		Select("item_name, COUNT(*) AS count").
		Group("item_name").
		Order("count DESC, item_name ASC").
		Limit(n).
		Scan(&rows).Error
	return rows, err
}

func (r *salesRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COALESCE(SUM(total_cost), 0)").
		Row().Scan(&sum)
	return sum, err
}
