package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the persisted payroll for one employee and one month. At most one
// exists per (EmployeeID, Year, Month).
type Record struct {
	ID             string
	EmployeeID     string
	Year           int
	Month          int
	BaseSalary     decimal.Decimal
	TotalWorkHours decimal.Decimal
	OvertimeHours  decimal.Decimal
	OvertimePay    decimal.Decimal
	Bonus          decimal.Decimal
	GrossSalary    decimal.Decimal
	Deductions     decimal.Decimal
	NetSalary      decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO
	EmployeeName *string
}

// Scale is the number of decimal places money and hour figures are stored
// with.
const Scale int32 = 6

// Policy holds the defaults used when a generation request leaves a
// parameter out.
type Policy struct {
	StandardMonthlyHours int
	OvertimeMultiplier   decimal.Decimal
	IncomeTaxRate        decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		StandardMonthlyHours: 160,
		OvertimeMultiplier:   decimal.RequireFromString("1.5"),
		IncomeTaxRate:        decimal.RequireFromString("0.15"),
	}
}

// Params is a fully resolved calculator input.
type Params struct {
	BaseSalary           decimal.Decimal
	StandardMonthlyHours int
	OvertimeMultiplier   decimal.Decimal
	IncomeTaxRate        decimal.Decimal
	Bonus                decimal.Decimal
	ExtraDeduction       decimal.Decimal
}

// Breakdown is the calculator output. Values are exact; nothing is rounded.
type Breakdown struct {
	TotalWorkHours decimal.Decimal
	RegularHours   decimal.Decimal
	OvertimeHours  decimal.Decimal
	HourlyRate     decimal.Decimal
	OvertimePay    decimal.Decimal
	GrossSalary    decimal.Decimal
	Deductions     decimal.Decimal
	NetSalary      decimal.Decimal
}
