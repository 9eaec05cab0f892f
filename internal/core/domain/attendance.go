package domain

import "github.com/shopspring/decimal"

// MonthlyAttendance holds per-employee day counts aggregated over one month.
// An employee with no marked days (e.g. joined mid-month) has all-zero counts;
// that is a valid value, not an error.
type MonthlyAttendance struct {
	EmployeeID string `json:"employeeID"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	HalfDay    int    `json:"halfDay"`
	Leave      int    `json:"leave"`
	Holiday    int    `json:"holiday"`
	WeekOff    int    `json:"weekOff"`
}

// UnpaidDays returns the absence count charged against pay: full absences plus
// half days counted at 0.5 each. Leave, holidays and week-offs are paid.
func (a MonthlyAttendance) UnpaidDays() decimal.Decimal {
	return decimal.NewFromInt(int64(a.Absent)).
		Add(decimal.NewFromInt(int64(a.HalfDay)).Div(decimal.NewFromInt(2)))
}
