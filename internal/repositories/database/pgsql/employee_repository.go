package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
	portsrepo "github.com/sproutworks/nursery_erp_backend/internal/core/ports/repositories"
)

type PgxEmployeeRepository struct {
	BaseRepository
}

// NewEmployeeRepository creates a read-only view over the employee master
// owned by the wider ERP.
func NewEmployeeRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.EmployeeReader {
	return &PgxEmployeeRepository{
		BaseRepository: BaseRepository{Pool: pool, QueryTimeout: queryTimeout},
	}
}

var _ portsrepo.EmployeeReader = (*PgxEmployeeRepository)(nil)

// ListActiveEmployees returns all employees eligible for payroll generation.
func (r *PgxEmployeeRepository) ListActiveEmployees(ctx context.Context) ([]domain.Employee, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `
		SELECT employee_id, name, designation, basic_salary, is_active
		FROM employees
		WHERE is_active
		ORDER BY employee_id;
	`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query active employees", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.EmployeeID, &e.Name, &e.Designation, &e.BasicSalary, &e.IsActive); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan employee row", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating employee rows", err)
	}
	return employees, nil
}
