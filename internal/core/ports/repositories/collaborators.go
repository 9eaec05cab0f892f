package repositories

import (
	"context"

	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
)

// The wider ERP owns attendance marking, leave workflow and the employee
// master. Payroll consumes them through these read-only ports; none of the
// methods has side effects.

// EmployeeReader exposes the employee master.
type EmployeeReader interface {
	ListActiveEmployees(ctx context.Context) ([]domain.Employee, error)
}

// AttendanceReader exposes per-employee monthly day counts. An employee with
// no attendance rows for the month yields all-zero counts, not an error.
type AttendanceReader interface {
	GetMonthlyAttendance(ctx context.Context, employeeID string, month, year int) (domain.MonthlyAttendance, error)
}

// SalaryStructureReader exposes an employee's configured salary components.
type SalaryStructureReader interface {
	GetComponents(ctx context.Context, employeeID string) ([]domain.SalaryComponent, error)
}
