package repository

import (
	"context"

	"ebucks/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrinterRepository interface {
	Create(ctx context.Context, p *model.Printer) error
	List(ctx context.Context) ([]model.Printer, error)
	FindByAssignment(ctx context.Context, assignment string) (*model.Printer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type printerRepo struct{ db *gorm.DB }

func NewPrinterRepository(db *gorm.DB) PrinterRepository { return &printerRepo{db: db} }

func (r *printerRepo) Create(ctx context.Context, p *model.Printer) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *printerRepo) List(ctx context.Context) ([]model.Printer, error) {
	var printers []model.Printer
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&printers).Error
	return printers, err
}

// FindByAssignment returns the most recently added printer for a station.
func (r *printerRepo) FindByAssignment(ctx context.Context, assignment string) (*model.Printer, error) {
	var p model.Printer
	err := r.db.WithContext(ctx).
		Where("assignment = ?", assignment).
		Order("created_at DESC").
		First(&p).Error
	return &p, err
}

func (r *printerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Printer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
