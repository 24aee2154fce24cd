package payroll

import (
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// GeneratePayrollRequest carries the optional policy overrides as pointers so
// an omitted field falls back to the configured Policy.
type GeneratePayrollRequest struct {
	EmployeeID           string           `json:"employee_id"`
	Year                 int              `json:"year"`
	Month                int              `json:"month"`
	BaseSalary           decimal.Decimal  `json:"base_salary"`
	StandardMonthlyHours *int             `json:"standard_monthly_hours,omitempty"`
	OvertimeMultiplier   *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	IncomeTaxRate        *decimal.Decimal `json:"income_tax_rate,omitempty"`
	Bonus                *decimal.Decimal `json:"bonus,omitempty"`
	ExtraDeduction       *decimal.Decimal `json:"extra_deduction,omitempty"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if r.Year < 1970 || r.Year > 9999 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 1970 and 9999"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if !r.BaseSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must be greater than 0"})
	}
	if r.StandardMonthlyHours != nil && *r.StandardMonthlyHours < 0 {
		errs = append(errs, validator.ValidationError{Field: "standard_monthly_hours", Message: "standard_monthly_hours must not be negative"})
	}
	if r.OvertimeMultiplier != nil && r.OvertimeMultiplier.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_multiplier", Message: "overtime_multiplier must not be negative"})
	}
	if r.IncomeTaxRate != nil && (r.IncomeTaxRate.IsNegative() || r.IncomeTaxRate.GreaterThan(decimal.NewFromInt(1))) {
		errs = append(errs, validator.ValidationError{Field: "income_tax_rate", Message: "income_tax_rate must be between 0 and 1"})
	}
	if r.Bonus != nil && r.Bonus.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus", Message: "bonus must not be negative"})
	}
	if r.ExtraDeduction != nil && r.ExtraDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "extra_deduction", Message: "extra_deduction must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Resolve fills every omitted parameter from policy. A zero standard month is
// treated as omitted. Amounts are rounded to Scale places.
func (r *GeneratePayrollRequest) Resolve(policy Policy) Params {
	p := Params{
		BaseSalary:           r.BaseSalary.Round(Scale),
		StandardMonthlyHours: policy.StandardMonthlyHours,
		OvertimeMultiplier:   policy.OvertimeMultiplier,
		IncomeTaxRate:        policy.IncomeTaxRate,
		Bonus:                decimal.Zero,
		ExtraDeduction:       decimal.Zero,
	}
	if r.StandardMonthlyHours != nil && *r.StandardMonthlyHours > 0 {
		p.StandardMonthlyHours = *r.StandardMonthlyHours
	}
	if r.OvertimeMultiplier != nil {
		p.OvertimeMultiplier = *r.OvertimeMultiplier
	}
	if r.IncomeTaxRate != nil {
		p.IncomeTaxRate = *r.IncomeTaxRate
	}
	if r.Bonus != nil {
		p.Bonus = r.Bonus.Round(Scale)
	}
	if r.ExtraDeduction != nil {
		p.ExtraDeduction = r.ExtraDeduction.Round(Scale)
	}
	return p
}

type PayrollResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   *string         `json:"employee_name,omitempty"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	TotalWorkHours decimal.Decimal `json:"total_work_hours"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	OvertimePay    decimal.Decimal `json:"overtime_pay"`
	Bonus          decimal.Decimal `json:"bonus"`
	GrossSalary    decimal.Decimal `json:"gross_salary"`
	Deductions     decimal.Decimal `json:"deductions"`
	NetSalary      decimal.Decimal `json:"net_salary"`
	CreatedAt      string          `json:"created_at"`
}

func NewPayrollResponse(r Record) PayrollResponse {
	return PayrollResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		Year:           r.Year,
		Month:          r.Month,
		BaseSalary:     r.BaseSalary,
		TotalWorkHours: r.TotalWorkHours,
		OvertimeHours:  r.OvertimeHours,
		OvertimePay:    r.OvertimePay,
		Bonus:          r.Bonus,
		GrossSalary:    r.GrossSalary,
		Deductions:     r.Deductions,
		NetSalary:      r.NetSalary,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}

type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
