package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"ebucks/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler { return &ReportsHandler{svc: svc} }

// Financials godoc
// @Summary Every purchase, newest first, with the items sold
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.FinancialsEntry
// @Router /v1/financials [get]
func (h *ReportsHandler) Financials(c *gin.Context) {
	resp, err := h.svc.Financials(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportFinancials godoc
// @Summary Download the financials as an Excel workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /v1/financials/export [get]
func (h *ReportsHandler) ExportFinancials(c *gin.Context) {
	// Buffer first so a failure can still become a JSON error.
	var buf bytes.Buffer
	if err := h.svc.ExportFinancials(c.Request.Context(), &buf); err != nil {
		writeServiceError(c, err)
		return
	}
	name := fmt.Sprintf("financials_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Stats godoc
// @Summary Money in circulation and best sellers
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatsResponse
// @Router /v1/stats [get]
func (h *ReportsHandler) Stats(c *gin.Context) {
	resp, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
