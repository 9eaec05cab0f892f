package repositories

import (
	"context"
	"time"

	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
)

// ListPayrollsFilter narrows a payroll listing. Zero values mean "no filter".
type ListPayrollsFilter struct {
	Status domain.PayrollStatus
	Month  int
	Year   int
}

// PayrollRepositoryFacade persists payroll records and their component lines.
type PayrollRepositoryFacade interface {
	// SavePayroll inserts the record and its lines atomically. A concurrent or
	// prior record for the same (employee, month, year) in a non-HOLD status
	// surfaces as apperrors.ErrDuplicate.
	SavePayroll(ctx context.Context, record domain.PayrollRecord) error

	// FindPayrollByID returns the record without lines; apperrors.ErrNotFound
	// when no row matches.
	FindPayrollByID(ctx context.Context, payrollID string) (*domain.PayrollRecord, error)

	// FindComponentLines returns the record's lines in insertion order.
	FindComponentLines(ctx context.Context, payrollID string) ([]domain.PayrollComponentLine, error)

	// FindActiveByEmployeePeriod returns the non-HOLD record for the key, or
	// apperrors.ErrNotFound when none exists.
	FindActiveByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (*domain.PayrollRecord, error)

	// ListPayrolls returns record summaries (no lines) matching the filter,
	// newest period first.
	ListPayrolls(ctx context.Context, filter ListPayrollsFilter) ([]domain.PayrollRecord, error)

	// UpdateStatus moves a record from one lifecycle status to another with an
	// optimistic guard: when the record is no longer in `from`, it returns
	// apperrors.ErrConflict and writes nothing.
	UpdateStatus(ctx context.Context, payrollID string, from, to domain.PayrollStatus, updatedBy string, updatedAt time.Time) error

	// MarkPaid transitions APPROVED -> PAID recording the disbursement moment.
	MarkPaid(ctx context.Context, payrollID string, paidBy string, paidAt time.Time) error
}
