package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
	portsrepo "github.com/sproutworks/nursery_erp_backend/internal/core/ports/repositories"
)

type PgxVoucherRepository struct {
	BaseRepository
}

// NewVoucherRepository creates a new repository for the append-only voucher
// ledger.
func NewVoucherRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.VoucherRepositoryFacade {
	return &PgxVoucherRepository{
		BaseRepository: BaseRepository{Pool: pool, QueryTimeout: queryTimeout},
	}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

// payrollVoucherIdx is the unique index guaranteeing at most one voucher per
// payroll record (see migration 000003).
const payrollVoucherIdx = "journal_vouchers_payroll_idx"

// voucherInsertConflict words the ErrPosting detail for a unique violation on
// the voucher insert: a duplicate payroll_id means a voucher was already
// posted for this record and a retry is pointless, while a duplicate voucher
// number is a concurrent numbering collision the caller may retry.
func voucherInsertConflict(pgErr *pgconn.PgError, payrollID, voucherNo string) error {
	if pgErr.ConstraintName == payrollVoucherIdx {
		return fmt.Errorf("%w: a voucher is already posted for payroll %s", apperrors.ErrPosting, payrollID)
	}
	return fmt.Errorf("%w: voucher number %s already exists, retry the approval", apperrors.ErrPosting, voucherNo)
}

// PostVoucherAndApprove commits the payroll approval and the voucher as one
// transaction: number allocation, the DRAFT -> APPROVED flip and the entry
// rows all land together or not at all.
func (r *PgxVoucherRepository) PostVoucherAndApprove(ctx context.Context, payrollID string, voucher domain.JournalVoucher) (*domain.JournalVoucher, error) {
	// the accounting law holds by construction upstream; re-verify at the
	// transactional boundary and fail closed
	if !voucher.IsBalanced() {
		return nil, fmt.Errorf("%w: voucher for payroll %s is unbalanced (debits %s, credits %s)",
			apperrors.ErrPosting, payrollID, voucher.DebitTotal().String(), voucher.CreditTotal().String())
	}

	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Allocate the next number for the fiscal year. The upsert takes a row
	// lock, so concurrent approvals serialize here and never share a number.
	fiscalYear := voucher.VoucherDate.Year()
	var seq int64
	err = tx.QueryRow(ctx, `
		INSERT INTO voucher_sequences (fiscal_year, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (fiscal_year) DO UPDATE SET last_seq = voucher_sequences.last_seq + 1
		RETURNING last_seq;
	`, fiscalYear).Scan(&seq)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to allocate voucher number", err)
	}
	voucher.VoucherNo = fmt.Sprintf("JV/%04d/%06d", fiscalYear, seq)

	// Flip the payroll record under the same transaction. Zero rows means a
	// concurrent request moved it out of DRAFT first.
	cmdTag, err := tx.Exec(ctx, `
		UPDATE payrolls
		SET status = 'APPROVED', voucher_no = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payroll_id = $1 AND status = 'DRAFT';
	`, payrollID, voucher.VoucherNo, voucher.CreatedAt, voucher.CreatedBy)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to approve payroll "+payrollID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: payroll %s is no longer DRAFT", apperrors.ErrConflict, payrollID)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO journal_vouchers (voucher_no, payroll_id, voucher_date, narration, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, voucher.VoucherNo, voucher.PayrollID, voucher.VoucherDate, voucher.Narration,
		voucher.CreatedAt, voucher.CreatedBy, voucher.LastUpdatedAt, voucher.LastUpdatedBy)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// the whole approval rolls back either way; the detail steers retry
			return nil, voucherInsertConflict(pgErr, payrollID, voucher.VoucherNo)
		}
		return nil, apperrors.NewAppError(500, "failed to insert voucher "+voucher.VoucherNo, err)
	}

	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO journal_entries (entry_id, voucher_no, account, side, amount)
		VALUES ($1, $2, $3, $4, $5);
	`
	for i := range voucher.Entries {
		voucher.Entries[i].VoucherNo = voucher.VoucherNo
		entry := voucher.Entries[i]
		batch.Queue(entryQuery, entry.EntryID, entry.VoucherNo, entry.Account, entry.Side, entry.Amount)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert entries for voucher "+voucher.VoucherNo, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &voucher, nil
}

// FindVoucherByNo retrieves a posted voucher with its entries.
func (r *PgxVoucherRepository) FindVoucherByNo(ctx context.Context, voucherNo string) (*domain.JournalVoucher, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var v domain.JournalVoucher
	err := r.Pool.QueryRow(ctx, `
		SELECT voucher_no, payroll_id, voucher_date, narration, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_vouchers
		WHERE voucher_no = $1;
	`, voucherNo).Scan(
		&v.VoucherNo,
		&v.PayrollID,
		&v.VoucherDate,
		&v.Narration,
		&v.CreatedAt,
		&v.CreatedBy,
		&v.LastUpdatedAt,
		&v.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find voucher "+voucherNo, err)
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT entry_id, voucher_no, account, side, amount
		FROM journal_entries
		WHERE voucher_no = $1
		ORDER BY entry_seq;
	`, voucherNo)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for voucher "+voucherNo, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.EntryID, &e.VoucherNo, &e.Account, &e.Side, &e.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry for voucher "+voucherNo, err)
		}
		v.Entries = append(v.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entries for voucher "+voucherNo, err)
	}

	return &v, nil
}
