package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
)

// GeneratePayrollRequest triggers computation for one period. Totals are never
// accepted from the client; the server's computation is authoritative.
type GeneratePayrollRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,plausible_year"`
}

// GenerationFailure reports one employee that could not be processed.
type GenerationFailure struct {
	EmployeeID string `json:"employeeID"`
	Reason     string `json:"reason"`
}

// GeneratePayrollResponse is the partial-failure batch result: successes and
// per-employee failures side by side.
type GeneratePayrollResponse struct {
	Month          int                 `json:"month"`
	Year           int                 `json:"year"`
	GeneratedCount int                 `json:"generatedCount"`
	SkippedCount   int                 `json:"skippedCount"`
	Errors         []GenerationFailure `json:"errors"`
}

// ListPayrollsParams filters the payroll listing.
type ListPayrollsParams struct {
	Status string `form:"status" binding:"omitempty,oneof=DRAFT APPROVED PAID HOLD"`
	Month  int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year   int    `form:"year" binding:"omitempty,min=2000,max=2100"`
}

// PayrollSummaryResponse is one row of the payroll listing.
type PayrollSummaryResponse struct {
	PayrollID       string          `json:"payrollID"`
	EmployeeID      string          `json:"employeeID"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetSalary       decimal.Decimal `json:"netSalary"`
	Status          string          `json:"status"`
	VoucherNo       *string         `json:"voucherNo,omitempty"`
}

// ListPayrollsResponse wraps the listing rows.
type ListPayrollsResponse struct {
	Payrolls []PayrollSummaryResponse `json:"payrolls"`
}

// ComponentLineResponse is one resolved earning or deduction.
type ComponentLineResponse struct {
	ComponentName string          `json:"componentName"`
	ComponentType string          `json:"componentType"`
	Amount        decimal.Decimal `json:"amount"`
}

// PayrollDetailsResponse is a record together with its component lines.
type PayrollDetailsResponse struct {
	Record PayrollSummaryResponse  `json:"record"`
	Lines  []ComponentLineResponse `json:"componentLines"`
}

// ApprovePayrollResponse reports a successful approval.
type ApprovePayrollResponse struct {
	Record    PayrollSummaryResponse `json:"record"`
	VoucherNo string                 `json:"voucherNo"`
}

// PayPayrollResponse reports a recorded disbursement.
type PayPayrollResponse struct {
	Record PayrollSummaryResponse `json:"record"`
	PaidAt time.Time              `json:"paidAt"`
}

// ToPayrollSummaryResponse converts a domain.PayrollRecord to its summary DTO.
func ToPayrollSummaryResponse(p *domain.PayrollRecord) PayrollSummaryResponse {
	return PayrollSummaryResponse{
		PayrollID:       p.PayrollID,
		EmployeeID:      p.EmployeeID,
		Month:           p.Month,
		Year:            p.Year,
		GrossSalary:     p.GrossSalary,
		TotalEarnings:   p.TotalEarnings,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,
		Status:          string(p.Status),
		VoucherNo:       p.VoucherNo,
	}
}

// ToComponentLineResponses converts a slice of domain lines to DTOs.
func ToComponentLineResponses(lines []domain.PayrollComponentLine) []ComponentLineResponse {
	responses := make([]ComponentLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = ComponentLineResponse{
			ComponentName: line.ComponentName,
			ComponentType: string(line.ComponentType),
			Amount:        line.Amount,
		}
	}
	return responses
}
