package handler

import (
	"net/http"

	"ebucks/internal/dto"
	"ebucks/internal/service"

	"github.com/gin-gonic/gin"
)

type PrintersHandler struct{ svc service.PrinterService }

func NewPrintersHandler(svc service.PrinterService) *PrintersHandler {
	return &PrintersHandler{svc: svc}
}

// List godoc
// @Summary List printer assignments
// @Tags printers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PrinterResponse
// @Router /v1/printers [get]
func (h *PrintersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Assign a printer to a station
// @Tags printers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreatePrinterRequest true "Printer"
// @Success 201 {object} dto.PrinterResponse
// @Router /v1/printers [post]
func (h *PrintersHandler) Create(c *gin.Context) {
	var req dto.CreatePrinterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Delete godoc
// @Summary Remove a printer
// @Tags printers
// @Security BearerAuth
// @Param id path string true "Printer UUID"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/printers/{id} [delete]
func (h *PrintersHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Test godoc
// @Summary Send a test page to a printer
// @Tags printers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.TestPrintRequest true "Printer IP"
// @Success 200 {object} dto.PrintableResponse
// @Router /v1/printers/test [post]
func (h *PrintersHandler) Test(c *gin.Context) {
	var req dto.TestPrintRequest
	if !bindAndValidate(c, &req) {
		return
	}
	printable, err := h.svc.TestPrint(c.Request.Context(), req.IP)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PrintableResponse{Printable: printable})
}
