package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
	portsrepo "github.com/sproutworks/nursery_erp_backend/internal/core/ports/repositories"
)

type PgxAttendanceRepository struct {
	BaseRepository
}

// NewAttendanceRepository creates a read-only aggregator over the attendance
// table owned by the wider ERP.
func NewAttendanceRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.AttendanceReader {
	return &PgxAttendanceRepository{
		BaseRepository: BaseRepository{Pool: pool, QueryTimeout: queryTimeout},
	}
}

var _ portsrepo.AttendanceReader = (*PgxAttendanceRepository)(nil)

// GetMonthlyAttendance aggregates per-day marks into monthly counts. An
// employee without rows for the month yields all-zero counts; the FILTER
// aggregates make that the natural result of an empty scan.
func (r *PgxAttendanceRepository) GetMonthlyAttendance(ctx context.Context, employeeID string, month, year int) (domain.MonthlyAttendance, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	att := domain.MonthlyAttendance{EmployeeID: employeeID, Month: month, Year: year}

	err := r.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PRESENT'),
			COUNT(*) FILTER (WHERE status = 'ABSENT'),
			COUNT(*) FILTER (WHERE status = 'HALF_DAY'),
			COUNT(*) FILTER (WHERE status = 'LEAVE'),
			COUNT(*) FILTER (WHERE status = 'HOLIDAY'),
			COUNT(*) FILTER (WHERE status = 'WEEK_OFF')
		FROM attendance
		WHERE employee_id = $1
		  AND EXTRACT(MONTH FROM att_date) = $2
		  AND EXTRACT(YEAR FROM att_date) = $3;
	`, employeeID, month, year).Scan(
		&att.Present,
		&att.Absent,
		&att.HalfDay,
		&att.Leave,
		&att.Holiday,
		&att.WeekOff,
	)
	if err != nil {
		return domain.MonthlyAttendance{}, apperrors.NewAppError(500, "failed to aggregate attendance for employee "+employeeID, err)
	}
	return att, nil
}
