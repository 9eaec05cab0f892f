package services

import (
	"context"

	"github.com/sproutworks/nursery_erp_backend/internal/dto"
)

// PayrollSvcFacade is the only entry point the HTTP layer consumes for
// payroll. It orchestrates computation, lifecycle transitions and ledger
// posting.
type PayrollSvcFacade interface {
	// GeneratePayroll computes one DRAFT record per active employee for the
	// period. Per-employee failures are collected in the response, not fatal
	// to the batch; invalid month/year fails the whole call with
	// apperrors.ErrValidation before any write.
	GeneratePayroll(ctx context.Context, req dto.GeneratePayrollRequest, actorUserID string) (*dto.GeneratePayrollResponse, error)

	// ListPayrolls returns record summaries matching the filter.
	ListPayrolls(ctx context.Context, params dto.ListPayrollsParams) (*dto.ListPayrollsResponse, error)

	// GetPayrollDetails returns one record with its component lines.
	GetPayrollDetails(ctx context.Context, payrollID string) (*dto.PayrollDetailsResponse, error)

	// ApprovePayroll transitions DRAFT -> APPROVED and posts the balanced
	// journal voucher in the same database transaction. Non-DRAFT records fail
	// with apperrors.ErrConflict; posting failures leave the record DRAFT.
	ApprovePayroll(ctx context.Context, payrollID string, actorUserID string) (*dto.ApprovePayrollResponse, error)

	// MarkPayrollPaid records the external disbursement, APPROVED -> PAID.
	MarkPayrollPaid(ctx context.Context, payrollID string, actorUserID string) (*dto.PayPayrollResponse, error)

	// HoldPayroll parks a DRAFT or APPROVED record (administrative exception).
	HoldPayroll(ctx context.Context, payrollID string, actorUserID string) (*dto.PayrollSummaryResponse, error)

	// ReactivatePayroll is the only way back from HOLD, returning to DRAFT.
	ReactivatePayroll(ctx context.Context, payrollID string, actorUserID string) (*dto.PayrollSummaryResponse, error)

	// GetVoucher returns a posted voucher with its entries.
	GetVoucher(ctx context.Context, voucherNo string) (*dto.VoucherResponse, error)
}
