package handler

import (
	"net/http"

	"ebucks/internal/dto"
	"ebucks/internal/service"

	"github.com/gin-gonic/gin"
)

type PayrollHandler struct{ svc service.PayrollService }

func NewPayrollHandler(svc service.PayrollService) *PayrollHandler { return &PayrollHandler{svc: svc} }

// Mint godoc
// @Summary Issue a new voucher
// @Tags payroll
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MintRequest true "Amount and optional owner"
// @Success 200 {object} dto.MintResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/mint [post]
func (h *PayrollHandler) Mint(c *gin.Context) {
	var req dto.MintRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Mint(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Process godoc
// @Summary Pay every closed, unpaid timesheet
// @Tags payroll
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PayrollResponse
// @Router /v1/payroll/process [post]
func (h *PayrollHandler) Process(c *gin.Context) {
	resp, err := h.svc.ProcessPayroll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListUnpaid godoc
// @Summary Closed timesheets waiting for payroll
// @Tags payroll
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UnpaidTimesheetResponse
// @Router /v1/payroll/unpaid [get]
func (h *PayrollHandler) ListUnpaid(c *gin.Context) {
	resp, err := h.svc.ListUnpaid(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Clock godoc
// @Summary Clock in or out with a PIN
// @Tags payroll
// @Accept json
// @Produce json
// @Param body body dto.ClockRequest true "PIN"
// @Success 200 {object} dto.ClockResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/clock [post]
func (h *PayrollHandler) Clock(c *gin.Context) {
	var req dto.ClockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Clock(c.Request.Context(), req.PIN)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
