package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide indicates whether a journal entry is a Debit or a Credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// Ledger accounts the payroll posting template writes to.
const (
	AccountSalaryExpense     = "SALARY_EXPENSE"
	AccountCashBank          = "CASH_BANK"
	AccountStatutoryPayables = "STATUTORY_PAYABLES"
)

// JournalEntry is a single debit or credit line within a voucher.
type JournalEntry struct {
	EntryID   string          `json:"entryID"`
	VoucherNo string          `json:"voucherNo"`
	Account   string          `json:"account"`
	Side      EntrySide       `json:"side"`
	Amount    decimal.Decimal `json:"amount"` // positive value
}

// JournalVoucher is an atomic, balanced set of journal entries representing
// one financial event. Vouchers are append-only: once posted they are never
// mutated; corrections are posted as new compensating vouchers.
type JournalVoucher struct {
	VoucherNo   string         `json:"voucherNo"`
	PayrollID   string         `json:"payrollID"`
	VoucherDate time.Time      `json:"voucherDate"`
	Narration   string         `json:"narration"`
	Entries     []JournalEntry `json:"entries"`
	AuditFields
}

// DebitTotal sums the debit entries of the voucher.
func (v JournalVoucher) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range v.Entries {
		if e.Side == Debit {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// CreditTotal sums the credit entries of the voucher.
func (v JournalVoucher) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range v.Entries {
		if e.Side == Credit {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// IsBalanced reports whether debits equal credits exactly.
func (v JournalVoucher) IsBalanced() bool {
	return v.DebitTotal().Equal(v.CreditTotal())
}
