package repository

import (
	"context"

	"ebucks/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.InventoryItem, error)
	List(ctx context.Context) ([]model.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStockTx takes one unit off the item only while stock is
	// positive. It reports the rows changed: 0 means unknown id or sold out.
	DecrementStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	return &item, err
}

func (r *inventoryRepo) FindByBarcode(ctx context.Context, barcode string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&item).Error
	return &item, err
}

func (r *inventoryRepo) List(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inventoryRepo) DecrementStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.WithContext(ctx).Model(&model.InventoryItem{}).
		Where("id = ? AND stock > 0", id).
		Update("stock", gorm.Expr("stock - 1"))
	return res.RowsAffected, res.Error
}
