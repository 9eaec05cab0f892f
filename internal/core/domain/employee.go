package domain

import "github.com/shopspring/decimal"

// Employee is the slice of the employee master this core consumes.
// Employee CRUD lives in the wider ERP; payroll reads it, never writes.
type Employee struct {
	EmployeeID  string          `json:"employeeID"`
	Name        string          `json:"name"`
	Designation string          `json:"designation"`
	BasicSalary decimal.Decimal `json:"basicSalary"` // monthly basic
	IsActive    bool            `json:"isActive"`
}
