package handler

import (
	"net/http"

	"ebucks/internal/dto"
	"ebucks/internal/service"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves the spending side of the ledger: purchases, transfers
// and voucher lookups.
type LedgerHandler struct {
	ledger   service.LedgerService
	purchase service.PurchaseService
	transfer service.TransferService
}

func NewLedgerHandler(ledger service.LedgerService, purchase service.PurchaseService, transfer service.TransferService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, purchase: purchase, transfer: transfer}
}

// Purchase godoc
// @Summary      Pay for a cart with vouchers
// @Description  Consumes every supplied voucher, records the sale and issues one change voucher for any excess.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PurchaseRequest true "Vouchers and cart"
// @Success      200  {object} dto.PurchaseResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/purchase [post]
func (h *LedgerHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.purchase.Purchase(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transfer godoc
// @Summary      Send money to another user
// @Description  Spends the sender's oldest vouchers for amount plus the transfer fee. Change goes back to the sender.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.TransferRequest true "Transfer"
// @Success      200  {object} dto.TransferResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/transfer [post]
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.transfer.Transfer(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetVoucher godoc
// @Summary Look up a voucher
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Voucher id"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/vouchers/{id} [get]
func (h *LedgerHandler) GetVoucher(c *gin.Context) {
	resp, err := h.ledger.GetVoucher(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reprint godoc
// @Summary Print an unused voucher again
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Voucher id"
// @Success 200 {object} dto.PrintableResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/vouchers/{id}/print [get]
func (h *LedgerHandler) Reprint(c *gin.Context) {
	printable, err := h.ledger.Reprint(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PrintableResponse{Printable: printable})
}
