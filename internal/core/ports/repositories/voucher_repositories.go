package repositories

import (
	"context"

	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
)

// VoucherRepositoryFacade persists journal vouchers. The ledger is append-only:
// there is no update or delete surface.
type VoucherRepositoryFacade interface {
	// PostVoucherAndApprove commits, in one database transaction: the payroll
	// record's DRAFT -> APPROVED transition, the allocation of a voucher number
	// for the voucher's fiscal year, and the voucher with its entries. The
	// returned voucher carries the allocated number.
	//
	// When the record is not in DRAFT the call fails with apperrors.ErrConflict.
	// A numbering collision under concurrent approvals fails with
	// apperrors.ErrPosting and leaves the record in DRAFT; the caller may retry.
	PostVoucherAndApprove(ctx context.Context, payrollID string, voucher domain.JournalVoucher) (*domain.JournalVoucher, error)

	// FindVoucherByNo returns a posted voucher with its entries, or
	// apperrors.ErrNotFound.
	FindVoucherByNo(ctx context.Context, voucherNo string) (*domain.JournalVoucher, error)
}
