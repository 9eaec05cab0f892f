package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
	portsrepo "github.com/sproutworks/nursery_erp_backend/internal/core/ports/repositories"
)

// uniqueViolation is the PostgreSQL error code raised when the partial unique
// index on (employee_id, period_month, period_year) rejects a second non-HOLD
// record for the same period.
const uniqueViolation = "23505"

type PgxPayrollRepository struct {
	BaseRepository
}

// NewPayrollRepository creates a new repository for payroll records and their
// component lines.
func NewPayrollRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.PayrollRepositoryFacade {
	return &PgxPayrollRepository{
		BaseRepository: BaseRepository{Pool: pool, QueryTimeout: queryTimeout},
	}
}

var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

// SavePayroll inserts the record and its component lines within one database
// transaction. First writer wins on the period key: a concurrent duplicate
// surfaces as apperrors.ErrDuplicate.
func (r *PgxPayrollRepository) SavePayroll(ctx context.Context, record domain.PayrollRecord) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	recordQuery := `
		INSERT INTO payrolls (
			payroll_id, employee_id, period_month, period_year,
			gross_salary, total_earnings, total_deductions, net_salary,
			status, voucher_no,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, recordQuery,
		record.PayrollID,
		record.EmployeeID,
		record.Month,
		record.Year,
		record.GrossSalary,
		record.TotalEarnings,
		record.TotalDeductions,
		record.NetSalary,
		record.Status,
		record.VoucherNo,
		record.CreatedAt,
		record.CreatedBy,
		record.LastUpdatedAt,
		record.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert payroll "+record.PayrollID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO payroll_component_lines (line_id, payroll_id, component_name, component_type, amount)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range record.Lines {
		batch.Queue(lineQuery,
			line.LineID,
			record.PayrollID,
			line.ComponentName,
			line.ComponentType,
			line.Amount,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert component lines for payroll "+record.PayrollID, err)
	}

	return r.Commit(ctx, tx)
}

const payrollColumns = `
	payroll_id, employee_id, period_month, period_year,
	gross_salary, total_earnings, total_deductions, net_salary,
	status, voucher_no, paid_at, paid_by,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPayroll(row pgx.Row) (*domain.PayrollRecord, error) {
	var p domain.PayrollRecord
	err := row.Scan(
		&p.PayrollID,
		&p.EmployeeID,
		&p.Month,
		&p.Year,
		&p.GrossSalary,
		&p.TotalEarnings,
		&p.TotalDeductions,
		&p.NetSalary,
		&p.Status,
		&p.VoucherNo,
		&p.PaidAt,
		&p.PaidBy,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPayrollByID retrieves a payroll record without its lines.
func (r *PgxPayrollRepository) FindPayrollByID(ctx context.Context, payrollID string) (*domain.PayrollRecord, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE payroll_id = $1;`
	record, err := scanPayroll(r.Pool.QueryRow(ctx, query, payrollID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payroll by ID "+payrollID, err)
	}
	return record, nil
}

// FindActiveByEmployeePeriod returns the non-HOLD record for the natural key.
func (r *PgxPayrollRepository) FindActiveByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (*domain.PayrollRecord, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3 AND status <> 'HOLD';`
	record, err := scanPayroll(r.Pool.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payroll for employee "+employeeID, err)
	}
	return record, nil
}

// FindComponentLines returns the record's lines in insertion order.
func (r *PgxPayrollRepository) FindComponentLines(ctx context.Context, payrollID string) ([]domain.PayrollComponentLine, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `
		SELECT line_id, payroll_id, component_name, component_type, amount
		FROM payroll_component_lines
		WHERE payroll_id = $1
		ORDER BY line_seq;
	`
	rows, err := r.Pool.Query(ctx, query, payrollID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query component lines for payroll "+payrollID, err)
	}
	defer rows.Close()

	lines := []domain.PayrollComponentLine{}
	for rows.Next() {
		var line domain.PayrollComponentLine
		if err := rows.Scan(&line.LineID, &line.PayrollID, &line.ComponentName, &line.ComponentType, &line.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan component line for payroll "+payrollID, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating component lines for payroll "+payrollID, err)
	}
	return lines, nil
}

// ListPayrolls returns record summaries matching the filter, newest period
// first.
func (r *PgxPayrollRepository) ListPayrolls(ctx context.Context, filter portsrepo.ListPayrollsFilter) ([]domain.PayrollRecord, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE 1=1`
	args := []interface{}{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.Month != 0 {
		args = append(args, filter.Month)
		query += ` AND period_month = $` + strconv.Itoa(len(args))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		query += ` AND period_year = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY period_year DESC, period_month DESC, employee_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payrolls", err)
	}
	defer rows.Close()

	records := []domain.PayrollRecord{}
	for rows.Next() {
		record, err := scanPayroll(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payroll row", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payroll rows", err)
	}
	return records, nil
}

// UpdateStatus moves a record between lifecycle states with an optimistic
// guard on the expected current status. Totals and lines are never touched.
func (r *PgxPayrollRepository) UpdateStatus(ctx context.Context, payrollID string, from, to domain.PayrollStatus, updatedBy string, updatedAt time.Time) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `
		UPDATE payrolls
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payroll_id = $1 AND status = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, payrollID, from, to, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for payroll "+payrollID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// row gone or already moved on by a concurrent request
		return apperrors.ErrConflict
	}
	return nil
}

// MarkPaid records the external disbursement, APPROVED -> PAID.
func (r *PgxPayrollRepository) MarkPaid(ctx context.Context, payrollID string, paidBy string, paidAt time.Time) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := `
		UPDATE payrolls
		SET status = 'PAID', paid_at = $2, paid_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE payroll_id = $1 AND status = 'APPROVED';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, payrollID, paidAt, paidBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark payroll "+payrollID+" paid", err)
	}
	if cmdTag.RowsAffected() == 0 {
		exists, checkErr := r.payrollExists(ctx, payrollID)
		if checkErr != nil {
			return checkErr
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}
	return nil
}

func (r *PgxPayrollRepository) payrollExists(ctx context.Context, payrollID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payrolls WHERE payroll_id = $1);`, payrollID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check payroll "+payrollID, err)
	}
	return exists, nil
}
