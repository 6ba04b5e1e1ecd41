package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ebucks/internal/dto"
	"ebucks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const barcodeCacheTTL = 10 * time.Minute

func barcodeKey(barcode string) string { return "inventory:barcode:" + barcode }

// InventoryHandler serves the catalogue. Scanner lookups by barcode are
// cached in Redis; a nil client disables the cache.
type InventoryHandler struct {
	svc service.InventoryService
	rdb *redis.Client
}

func NewInventoryHandler(svc service.InventoryService, rdb *redis.Client) *InventoryHandler {
	return &InventoryHandler{svc: svc, rdb: rdb}
}

// List godoc
// @Summary List inventory
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.InventoryItemResponse
// @Router /v1/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ByBarcode godoc
// @Summary Look up an item by barcode
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param barcode path string true "Barcode"
// @Success 200 {object} dto.InventoryItemResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventory/barcode/{barcode} [get]
func (h *InventoryHandler) ByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	ctx := c.Request.Context()

	// 1. Try Redis cache
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, barcodeKey(barcode)).Bytes(); err == nil {
			var resp dto.InventoryItemResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	// 2. Cache miss: query DB
	resp, err := h.svc.FindByBarcode(ctx, barcode)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// 3. Populate cache: best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), barcodeKey(barcode), b, barcodeCacheTTL).Err()
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Add an inventory item
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateInventoryItemRequest true "Item"
// @Success 201 {object} dto.InventoryItemResponse
// @Router /v1/inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.CreateInventoryItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	h.evict(resp.Barcode)
	c.JSON(http.StatusCreated, resp)
}

// Delete godoc
// @Summary Remove an inventory item
// @Tags inventory
// @Security BearerAuth
// @Param id path string true "Item UUID"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	item, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	h.evict(item.Barcode)
	c.Status(http.StatusNoContent)
}

func (h *InventoryHandler) evict(barcode string) {
	if h.rdb == nil || barcode == "" {
		return
	}
	if err := h.rdb.Del(context.Background(), barcodeKey(barcode)).Err(); err != nil {
		log.Warn().Err(err).Str("barcode", barcode).Msg("barcode cache evict failed")
	}
}
