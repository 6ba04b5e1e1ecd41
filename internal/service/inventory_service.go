package service

import (
	"context"
	"errors"
	"fmt"

	"ebucks/internal/dto"
	"ebucks/internal/model"
	"ebucks/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryService interface {
	List(ctx context.Context) ([]dto.InventoryItemResponse, error)
	Create(ctx context.Context, req dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error)
	// Delete removes the item and returns it so callers can evict caches.
	Delete(ctx context.Context, id uuid.UUID) (*dto.InventoryItemResponse, error)
	FindByBarcode(ctx context.Context, barcode string) (*dto.InventoryItemResponse, error)
}

type inventoryService struct {
	repo repository.InventoryRepository
}

func NewInventoryService(repo repository.InventoryRepository) InventoryService {
	return &inventoryService{repo: repo}
}

func (s *inventoryService) List(ctx context.Context) ([]dto.InventoryItemResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.InventoryItemResponse, len(items))
	for i, it := range items {
		resp[i] = inventoryResponse(it)
	}
	return resp, nil
}

func (s *inventoryService) Create(ctx context.Context, req dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if !isMoney(req.Price) {
		return nil, fmt.Errorf("%w: price %s", ErrInvalidAmount, req.Price)
	}
	item := &model.InventoryItem{Name: req.Name, Price: req.Price, Stock: req.Stock, Barcode: req.Barcode}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := inventoryResponse(*item)
	return &resp, nil
}

func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) (*dto.InventoryItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err == nil {
		err = s.repo.Delete(ctx, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: inventory item %s", ErrNotFound, id)
		}
		return nil, err
	}
	resp := inventoryResponse(*item)
	return &resp, nil
}

func (s *inventoryService) FindByBarcode(ctx context.Context, barcode string) (*dto.InventoryItemResponse, error) {
	item, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: barcode %s", ErrNotFound, barcode)
		}
		return nil, err
	}
	resp := inventoryResponse(*item)
	return &resp, nil
}

func inventoryResponse(it model.InventoryItem) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:      it.ID.String(),
		Name:    it.Name,
		Price:   it.Price,
		Stock:   it.Stock,
		Barcode: it.Barcode,
	}
}
