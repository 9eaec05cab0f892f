package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
)

// BuildPayrollVoucher converts an un-posted payroll record into a balanced
// journal voucher using the fixed salary posting template:
//
//	Debit  SALARY_EXPENSE      total earnings
//	Credit CASH_BANK           net salary
//	Credit STATUTORY_PAYABLES  total deductions (omitted when zero)
//
// The voucher number is left empty; the repository allocates it inside the
// approval transaction. The balance invariant is verified before returning:
// any mismatch fails closed with apperrors.ErrPosting and no voucher.
func BuildPayrollVoucher(record domain.PayrollRecord, now time.Time, actorUserID string) (*domain.JournalVoucher, error) {
	if !record.NetSalary.Equal(record.TotalEarnings.Sub(record.TotalDeductions)) {
		return nil, fmt.Errorf("%w: payroll %s totals are inconsistent (earnings %s, deductions %s, net %s)",
			apperrors.ErrPosting, record.PayrollID,
			record.TotalEarnings.String(), record.TotalDeductions.String(), record.NetSalary.String())
	}
	if record.TotalEarnings.IsNegative() || record.TotalDeductions.IsNegative() {
		return nil, fmt.Errorf("%w: payroll %s has negative totals", apperrors.ErrPosting, record.PayrollID)
	}

	entries := []domain.JournalEntry{
		{
			EntryID: uuid.NewString(),
			Account: domain.AccountSalaryExpense,
			Side:    domain.Debit,
			Amount:  record.TotalEarnings,
		},
		{
			EntryID: uuid.NewString(),
			Account: domain.AccountCashBank,
			Side:    domain.Credit,
			Amount:  record.NetSalary,
		},
	}
	// a zero-amount entry must never be emitted
	if record.TotalDeductions.IsPositive() {
		entries = append(entries, domain.JournalEntry{
			EntryID: uuid.NewString(),
			Account: domain.AccountStatutoryPayables,
			Side:    domain.Credit,
			Amount:  record.TotalDeductions,
		})
	}

	voucher := &domain.JournalVoucher{
		PayrollID:   record.PayrollID,
		VoucherDate: now,
		Narration:   fmt.Sprintf("Salary for %04d-%02d, employee %s", record.Year, record.Month, record.EmployeeID),
		Entries:     entries,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if !voucher.IsBalanced() {
		return nil, fmt.Errorf("%w: voucher for payroll %s does not balance (debits %s, credits %s)",
			apperrors.ErrPosting, record.PayrollID,
			voucher.DebitTotal().String(), voucher.CreditTotal().String())
	}

	return voucher, nil
}
