package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus is the lifecycle state of a payroll record.
type PayrollStatus string

const (
	PayrollDraft    PayrollStatus = "DRAFT"
	PayrollApproved PayrollStatus = "APPROVED"
	PayrollPaid     PayrollStatus = "PAID" // terminal
	PayrollHold     PayrollStatus = "HOLD"
)

// payrollTransitions enumerates the permitted lifecycle moves.
// HOLD -> DRAFT is the only way back into the normal flow.
var payrollTransitions = map[PayrollStatus][]PayrollStatus{
	PayrollDraft:    {PayrollApproved, PayrollHold},
	PayrollApproved: {PayrollPaid, PayrollHold},
	PayrollHold:     {PayrollDraft},
	PayrollPaid:     {},
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s PayrollStatus) CanTransitionTo(next PayrollStatus) bool {
	for _, allowed := range payrollTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ComponentType classifies a payroll component line.
type ComponentType string

const (
	Earning   ComponentType = "EARNING"
	Deduction ComponentType = "DEDUCTION"
)

// PayrollComponentLine is a single earning or deduction resolved for one
// payroll record. Lines are owned by their record and never edited once the
// record leaves DRAFT.
type PayrollComponentLine struct {
	LineID        string          `json:"lineID"`
	PayrollID     string          `json:"payrollID"`
	ComponentName string          `json:"componentName"`
	ComponentType ComponentType   `json:"componentType"`
	Amount        decimal.Decimal `json:"amount"` // always >= 0
}

// PayrollRecord is one employee's computed salary for a month. The natural key
// is (EmployeeID, Month, Year); at most one non-HOLD record may exist per key.
type PayrollRecord struct {
	PayrollID       string                 `json:"payrollID"`
	EmployeeID      string                 `json:"employeeID"`
	Month           int                    `json:"month"` // 1-12
	Year            int                    `json:"year"`
	GrossSalary     decimal.Decimal        `json:"grossSalary"` // basic before variable adjustment
	TotalEarnings   decimal.Decimal        `json:"totalEarnings"`
	TotalDeductions decimal.Decimal        `json:"totalDeductions"`
	NetSalary       decimal.Decimal        `json:"netSalary"` // TotalEarnings - TotalDeductions
	Status          PayrollStatus          `json:"status"`
	VoucherNo       *string                `json:"voucherNo,omitempty"` // set at approval, nil while DRAFT
	PaidAt          *time.Time             `json:"paidAt,omitempty"`
	PaidBy          *string                `json:"paidBy,omitempty"`
	Lines           []PayrollComponentLine `json:"lines,omitempty"`
	AuditFields
}

// Period returns the record's month anchored to its first day, UTC.
func (p PayrollRecord) Period() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}
