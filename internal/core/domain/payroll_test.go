package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
)

func TestPayrollStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.PayrollStatus
		to   domain.PayrollStatus
		want bool
	}{
		{"draft to approved", domain.PayrollDraft, domain.PayrollApproved, true},
		{"draft to hold", domain.PayrollDraft, domain.PayrollHold, true},
		{"draft to paid skips approval", domain.PayrollDraft, domain.PayrollPaid, false},
		{"approved to paid", domain.PayrollApproved, domain.PayrollPaid, true},
		{"approved to hold", domain.PayrollApproved, domain.PayrollHold, true},
		{"approved back to draft", domain.PayrollApproved, domain.PayrollDraft, false},
		{"hold reactivates to draft", domain.PayrollHold, domain.PayrollDraft, true},
		{"hold to approved directly", domain.PayrollHold, domain.PayrollApproved, false},
		{"paid is terminal", domain.PayrollPaid, domain.PayrollDraft, false},
		{"paid to hold", domain.PayrollPaid, domain.PayrollHold, false},
		{"self transition", domain.PayrollDraft, domain.PayrollDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestMonthlyAttendance_UnpaidDays(t *testing.T) {
	att := domain.MonthlyAttendance{Absent: 2, HalfDay: 3, Present: 20, Leave: 1}
	assert.True(t, decimal.NewFromFloat(3.5).Equal(att.UnpaidDays()))

	none := domain.MonthlyAttendance{Present: 26}
	assert.True(t, none.UnpaidDays().IsZero())
}

func TestJournalVoucher_IsBalanced(t *testing.T) {
	voucher := domain.JournalVoucher{
		Entries: []domain.JournalEntry{
			{Account: domain.AccountSalaryExpense, Side: domain.Debit, Amount: decimal.NewFromInt(30000)},
			{Account: domain.AccountCashBank, Side: domain.Credit, Amount: decimal.NewFromInt(27200)},
			{Account: domain.AccountStatutoryPayables, Side: domain.Credit, Amount: decimal.NewFromInt(2800)},
		},
	}
	assert.True(t, voucher.IsBalanced())
	assert.True(t, decimal.NewFromInt(30000).Equal(voucher.DebitTotal()))
	assert.True(t, decimal.NewFromInt(30000).Equal(voucher.CreditTotal()))

	voucher.Entries[2].Amount = decimal.NewFromInt(2799)
	assert.False(t, voucher.IsBalanced())
}
