package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
)

// lossOfPayComponent names the deduction the engine synthesizes from unpaid
// absence when the salary structure carries no per-day deduction of its own.
const lossOfPayComponent = "Loss of Pay"

var oneHundred = decimal.NewFromInt(100)

// daysInMonth returns the calendar length of the period.
func daysInMonth(month, year int) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// resolveComponentAmount turns one configured rule into a concrete amount,
// rounded to 2 decimal places. The switch is exhaustive over RuleKind.
func resolveComponentAmount(comp domain.SalaryComponent, basic decimal.Decimal, att domain.MonthlyAttendance, periodDays int) (decimal.Decimal, error) {
	switch comp.Rule.Kind {
	case domain.RuleFixed:
		return comp.Rule.Amount.Round(2), nil
	case domain.RulePercentOfBasic:
		return basic.Mul(comp.Rule.Percent).Div(oneHundred).Round(2), nil
	case domain.RulePerDay:
		dailyRate := basic.Div(decimal.NewFromInt(int64(periodDays)))
		var days decimal.Decimal
		switch comp.Rule.DayBasis {
		case domain.BasisUnpaidDays:
			days = att.UnpaidDays()
		case domain.BasisPresentDays:
			days = decimal.NewFromInt(int64(att.Present))
		default:
			return decimal.Zero, fmt.Errorf("unknown day basis %q for component %s", comp.Rule.DayBasis, comp.ComponentID)
		}
		return dailyRate.Mul(days).Round(2), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown rule kind %q for component %s", comp.Rule.Kind, comp.ComponentID)
	}
}

// ComputePayrollRecord resolves one employee's payroll for (month, year) from
// attendance counts and the configured salary structure. The result is a DRAFT
// record whose totals satisfy net = earnings - deductions by construction.
//
// A negative resolved component or a negative net salary fails with
// apperrors.ErrValidation; nothing is clamped silently.
func ComputePayrollRecord(emp domain.Employee, att domain.MonthlyAttendance, comps []domain.SalaryComponent, month, year int, now time.Time, actorUserID string) (*domain.PayrollRecord, error) {
	if emp.BasicSalary.IsNegative() {
		return nil, fmt.Errorf("%w: employee %s has negative basic salary", apperrors.ErrValidation, emp.EmployeeID)
	}

	payrollID := uuid.NewString()
	periodDays := daysInMonth(month, year)

	lines := []domain.PayrollComponentLine{{
		LineID:        uuid.NewString(),
		PayrollID:     payrollID,
		ComponentName: "Basic Salary",
		ComponentType: domain.Earning,
		Amount:        emp.BasicSalary.Round(2),
	}}

	hasPerDayDeduction := false
	for _, comp := range comps {
		amount, err := resolveComponentAmount(comp, emp.BasicSalary, att, periodDays)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: component %s resolved to negative amount %s for employee %s",
				apperrors.ErrValidation, comp.Name, amount.String(), emp.EmployeeID)
		}
		if comp.Type == domain.Deduction && comp.Rule.Kind == domain.RulePerDay {
			hasPerDayDeduction = true
		}
		lines = append(lines, domain.PayrollComponentLine{
			LineID:        uuid.NewString(),
			PayrollID:     payrollID,
			ComponentName: comp.Name,
			ComponentType: comp.Type,
			Amount:        amount,
		})
	}

	// Unpaid absence charges a loss-of-pay deduction unless the structure
	// already prorates pay through its own per-day deduction.
	if unpaidDays := att.UnpaidDays(); unpaidDays.IsPositive() && !hasPerDayDeduction {
		dailyRate := emp.BasicSalary.Div(decimal.NewFromInt(int64(periodDays)))
		lines = append(lines, domain.PayrollComponentLine{
			LineID:        uuid.NewString(),
			PayrollID:     payrollID,
			ComponentName: lossOfPayComponent,
			ComponentType: domain.Deduction,
			Amount:        dailyRate.Mul(unpaidDays).Round(2),
		})
	}

	totalEarnings := decimal.Zero
	totalDeductions := decimal.Zero
	for _, line := range lines {
		if line.ComponentType == domain.Earning {
			totalEarnings = totalEarnings.Add(line.Amount)
		} else {
			totalDeductions = totalDeductions.Add(line.Amount)
		}
	}

	netSalary := totalEarnings.Sub(totalDeductions)
	if netSalary.IsNegative() {
		return nil, fmt.Errorf("%w: net salary %s is negative for employee %s in %d-%02d",
			apperrors.ErrValidation, netSalary.String(), emp.EmployeeID, year, month)
	}

	return &domain.PayrollRecord{
		PayrollID:       payrollID,
		EmployeeID:      emp.EmployeeID,
		Month:           month,
		Year:            year,
		GrossSalary:     emp.BasicSalary.Round(2),
		TotalEarnings:   totalEarnings,
		TotalDeductions: totalDeductions,
		NetSalary:       netSalary,
		Status:          domain.PayrollDraft,
		Lines:           lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}, nil
}
