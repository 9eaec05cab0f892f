package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
	portsrepo "github.com/sproutworks/nursery_erp_backend/internal/core/ports/repositories"
)

type PgxSalaryStructureRepository struct {
	BaseRepository
}

// NewSalaryStructureRepository creates a read-only resolver over the salary
// component configuration.
func NewSalaryStructureRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.SalaryStructureReader {
	return &PgxSalaryStructureRepository{
		BaseRepository: BaseRepository{Pool: pool, QueryTimeout: queryTimeout},
	}
}

var _ portsrepo.SalaryStructureReader = (*PgxSalaryStructureRepository)(nil)

// GetComponents returns the employee's configured components. An employee with
// no configuration gets an empty slice, not an error.
func (r *PgxSalaryStructureRepository) GetComponents(ctx context.Context, employeeID string) ([]domain.SalaryComponent, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `
		SELECT component_id, employee_id, name, component_type, rule_kind, amount, percent, day_basis
		FROM salary_components
		WHERE employee_id = $1
		ORDER BY component_id;
	`, employeeID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query salary components for employee "+employeeID, err)
	}
	defer rows.Close()

	comps := []domain.SalaryComponent{}
	for rows.Next() {
		var c domain.SalaryComponent
		if err := rows.Scan(
			&c.ComponentID,
			&c.EmployeeID,
			&c.Name,
			&c.Type,
			&c.Rule.Kind,
			&c.Rule.Amount,
			&c.Rule.Percent,
			&c.Rule.DayBasis,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan salary component for employee "+employeeID, err)
		}
		comps = append(comps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating salary components for employee "+employeeID, err)
	}
	return comps, nil
}
