package domain

import "github.com/shopspring/decimal"

// RuleKind discriminates how a salary component's amount is computed.
type RuleKind string

const (
	RuleFixed          RuleKind = "FIXED"            // configured amount, unprorated
	RulePercentOfBasic RuleKind = "PERCENT_OF_BASIC" // basic * percent / 100
	RulePerDay         RuleKind = "PER_DAY"          // (basic / days in month) * applicable days
)

// DayBasis names the attendance count a PER_DAY rule scales with.
type DayBasis string

const (
	BasisUnpaidDays  DayBasis = "UNPAID_DAYS" // absent + 0.5 * half-day
	BasisPresentDays DayBasis = "PRESENT_DAYS"
)

// ComponentRule is the tagged computation rule of a salary component.
// Exactly the field matching Kind is meaningful; the rest are zero.
type ComponentRule struct {
	Kind     RuleKind        `json:"kind"`
	Amount   decimal.Decimal `json:"amount,omitempty"`   // FIXED
	Percent  decimal.Decimal `json:"percent,omitempty"`  // PERCENT_OF_BASIC
	DayBasis DayBasis        `json:"dayBasis,omitempty"` // PER_DAY
}

// SalaryComponent is one configured earning or deduction for an employee,
// as exposed by the salary structure resolver.
type SalaryComponent struct {
	ComponentID string        `json:"componentID"`
	EmployeeID  string        `json:"employeeID"`
	Name        string        `json:"name"`
	Type        ComponentType `json:"type"`
	Rule        ComponentRule `json:"rule"`
}
