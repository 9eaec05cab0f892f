package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
	"github.com/sproutworks/nursery_erp_backend/internal/core/services"
)

var postingNow = time.Date(2025, 10, 5, 11, 30, 0, 0, time.UTC)

func draftRecord(earnings, deductions int64) domain.PayrollRecord {
	e := decimal.NewFromInt(earnings)
	d := decimal.NewFromInt(deductions)
	return domain.PayrollRecord{
		PayrollID:       "pay-123",
		EmployeeID:      "emp-001",
		Month:           9,
		Year:            2025,
		GrossSalary:     e,
		TotalEarnings:   e,
		TotalDeductions: d,
		NetSalary:       e.Sub(d),
		Status:          domain.PayrollDraft,
	}
}

func entryFor(t *testing.T, voucher *domain.JournalVoucher, account string) domain.JournalEntry {
	t.Helper()
	for _, e := range voucher.Entries {
		if e.Account == account {
			return e
		}
	}
	t.Fatalf("no entry for account %q", account)
	return domain.JournalEntry{}
}

func TestBuildPayrollVoucher_StandardTemplate(t *testing.T) {
	record := draftRecord(30000, 2800)

	voucher, err := services.BuildPayrollVoucher(record, postingNow, "user-1")
	require.NoError(t, err)

	require.Len(t, voucher.Entries, 3)
	assert.True(t, voucher.IsBalanced())
	assert.Empty(t, voucher.VoucherNo, "number allocation belongs to the repository")
	assert.Equal(t, record.PayrollID, voucher.PayrollID)
	assert.Equal(t, "Salary for 2025-09, employee emp-001", voucher.Narration)

	debit := entryFor(t, voucher, domain.AccountSalaryExpense)
	assert.Equal(t, domain.Debit, debit.Side)
	assert.True(t, decimal.NewFromInt(30000).Equal(debit.Amount))

	cash := entryFor(t, voucher, domain.AccountCashBank)
	assert.Equal(t, domain.Credit, cash.Side)
	assert.True(t, decimal.NewFromInt(27200).Equal(cash.Amount))

	payables := entryFor(t, voucher, domain.AccountStatutoryPayables)
	assert.Equal(t, domain.Credit, payables.Side)
	assert.True(t, decimal.NewFromInt(2800).Equal(payables.Amount))
}

// With no deductions the payables leg is omitted entirely rather than posted
// with a zero amount.
func TestBuildPayrollVoucher_NoDeductionsTwoEntries(t *testing.T) {
	record := draftRecord(27200, 0)

	voucher, err := services.BuildPayrollVoucher(record, postingNow, "user-1")
	require.NoError(t, err)

	require.Len(t, voucher.Entries, 2)
	assert.True(t, voucher.IsBalanced())
	assert.True(t, decimal.NewFromInt(27200).Equal(voucher.DebitTotal()))
	assert.True(t, decimal.NewFromInt(27200).Equal(voucher.CreditTotal()))
	for _, e := range voucher.Entries {
		assert.NotEqual(t, domain.AccountStatutoryPayables, e.Account)
		assert.True(t, e.Amount.IsPositive())
	}
}

func TestBuildPayrollVoucher_InconsistentTotalsRejected(t *testing.T) {
	record := draftRecord(30000, 2800)
	record.NetSalary = decimal.NewFromInt(27000) // disagrees with earnings - deductions

	voucher, err := services.BuildPayrollVoucher(record, postingNow, "user-1")
	assert.Nil(t, voucher)
	assert.ErrorIs(t, err, apperrors.ErrPosting)
}

func TestBuildPayrollVoucher_NegativeTotalsRejected(t *testing.T) {
	record := draftRecord(30000, 2800)
	record.TotalDeductions = decimal.NewFromInt(-100)
	record.NetSalary = record.TotalEarnings.Sub(record.TotalDeductions)

	_, err := services.BuildPayrollVoucher(record, postingNow, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrPosting)
}

func TestBuildPayrollVoucher_FractionalAmountsBalance(t *testing.T) {
	e := decimal.NewFromFloat(25750.33)
	d := decimal.NewFromFloat(1912.67)
	record := domain.PayrollRecord{
		PayrollID:       "pay-456",
		EmployeeID:      "emp-002",
		Month:           7,
		Year:            2025,
		TotalEarnings:   e,
		TotalDeductions: d,
		NetSalary:       e.Sub(d),
		Status:          domain.PayrollDraft,
	}

	voucher, err := services.BuildPayrollVoucher(record, postingNow, "user-1")
	require.NoError(t, err)
	assert.True(t, voucher.IsBalanced())
}
