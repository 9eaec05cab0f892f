package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	portssvc "github.com/sproutworks/nursery_erp_backend/internal/core/ports/services"
	"github.com/sproutworks/nursery_erp_backend/internal/dto"
	"github.com/sproutworks/nursery_erp_backend/internal/middleware"
)

// payrollHandler handles HTTP requests for the payroll subsystem.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

// newPayrollHandler creates a new payrollHandler.
func newPayrollHandler(payrollService portssvc.PayrollSvcFacade) *payrollHandler {
	return &payrollHandler{payrollService: payrollService}
}

// respondServiceError translates the error taxonomy into HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("State conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPosting):
		logger.Error("Posting failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// generatePayroll handles POST /payrolls/generate. This is an irreversible
// bulk write: the confirming dialog lives in the UI, the duplicate guard in
// the storage layer.
func (h *payrollHandler) generatePayroll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GeneratePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for generatePayroll", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.payrollService.GeneratePayroll(c.Request.Context(), req, actorUserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listPayrolls handles GET /payrolls?status=&month=&year=.
func (h *payrollHandler) listPayrolls(c *gin.Context) {
	var params dto.ListPayrollsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.payrollService.ListPayrolls(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getPayrollDetails handles GET /payrolls/:payrollID.
func (h *payrollHandler) getPayrollDetails(c *gin.Context) {
	resp, err := h.payrollService.GetPayrollDetails(c.Request.Context(), c.Param("payrollID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// approvePayroll handles PUT /payrolls/:payrollID/approve. Status transition
// and voucher posting commit together; a Conflict means the record was not
// DRAFT.
func (h *payrollHandler) approvePayroll(c *gin.Context) {
	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.payrollService.ApprovePayroll(c.Request.Context(), c.Param("payrollID"), actorUserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// payPayroll handles PUT /payrolls/:payrollID/pay, recording disbursement.
func (h *payrollHandler) payPayroll(c *gin.Context) {
	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.payrollService.MarkPayrollPaid(c.Request.Context(), c.Param("payrollID"), actorUserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// holdPayroll handles PUT /payrolls/:payrollID/hold.
func (h *payrollHandler) holdPayroll(c *gin.Context) {
	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.payrollService.HoldPayroll(c.Request.Context(), c.Param("payrollID"), actorUserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// reactivatePayroll handles PUT /payrolls/:payrollID/reactivate.
func (h *payrollHandler) reactivatePayroll(c *gin.Context) {
	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.payrollService.ReactivatePayroll(c.Request.Context(), c.Param("payrollID"), actorUserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getVoucher handles GET /vouchers/*voucherNo. The wildcard keeps the slashes
// of the voucher number intact; its leading slash is stripped here.
func (h *payrollHandler) getVoucher(c *gin.Context) {
	voucherNo := strings.TrimPrefix(c.Param("voucherNo"), "/")
	resp, err := h.payrollService.GetVoucher(c.Request.Context(), voucherNo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
