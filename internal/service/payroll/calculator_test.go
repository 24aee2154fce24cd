package payroll

import (
	"testing"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func completedDays(n int, hours float64) []attendance.Attendance {
	out := make([]attendance.Attendance, 0, n)
	for i := range n {
		in := time.Date(2025, 3, i+1, 9, 0, 0, 0, time.UTC)
		outAt := in.Add(time.Duration(hours * float64(time.Hour)))
		h := hours
		out = append(out, attendance.Attendance{CheckInAt: &in, CheckOutAt: &outAt, HoursWorked: &h})
	}
	return out
}

func defaultParams(base string) payroll.Params {
	policy := payroll.DefaultPolicy()
	return payroll.Params{
		BaseSalary:           decimal.RequireFromString(base),
		StandardMonthlyHours: policy.StandardMonthlyHours,
		OvertimeMultiplier:   policy.OvertimeMultiplier,
		IncomeTaxRate:        policy.IncomeTaxRate,
		Bonus:                decimal.Zero,
		ExtraDeduction:       decimal.Zero,
	}
}

func TestCalculate_WithOvertime(t *testing.T) {
	got := Calculate(defaultParams("10000"), completedDays(17, 10))

	assertDecimal(t, "170", got.TotalWorkHours, "total")
	assertDecimal(t, "160", got.RegularHours, "regular")
	assertDecimal(t, "62.5", got.HourlyRate, "hourly rate")
	assertDecimal(t, "10", got.OvertimeHours, "overtime hours")
	assertDecimal(t, "937.5", got.OvertimePay, "overtime pay")
	assertDecimal(t, "10937.5", got.GrossSalary, "gross")
	assertDecimal(t, "1640.625", got.Deductions, "deductions")
	assertDecimal(t, "9296.875", got.NetSalary, "net")
}

func TestCalculate_UnderStandardHours(t *testing.T) {
	got := Calculate(defaultParams("8000"), completedDays(10, 8))

	assertDecimal(t, "80", got.TotalWorkHours, "total")
	assertDecimal(t, "0", got.OvertimeHours, "overtime hours")
	assertDecimal(t, "0", got.OvertimePay, "overtime pay")
	assertDecimal(t, "8000", got.GrossSalary, "gross")
	assertDecimal(t, "1200", got.Deductions, "deductions")
	assertDecimal(t, "6800", got.NetSalary, "net")
}

func TestCalculate_IgnoresOpenRecords(t *testing.T) {
	records := completedDays(2, 8)
	in := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	records = append(records, attendance.Attendance{CheckInAt: &in})

	got := Calculate(defaultParams("1000"), records)
	assertDecimal(t, "16", got.TotalWorkHours, "total")
}

func TestCalculate_BonusAndExtraDeduction(t *testing.T) {
	p := defaultParams("1000")
	p.Bonus = decimal.NewFromInt(200)
	p.ExtraDeduction = decimal.NewFromInt(50)

	got := Calculate(p, nil)
	assertDecimal(t, "1200", got.GrossSalary, "gross")
	assertDecimal(t, "230", got.Deductions, "deductions")
	assertDecimal(t, "970", got.NetSalary, "net")
}

func TestCalculate_NetNeverNegative(t *testing.T) {
	p := defaultParams("1000")
	p.ExtraDeduction = decimal.NewFromInt(5000)

	got := Calculate(p, nil)
	assert.True(t, got.NetSalary.IsZero())
	assertDecimal(t, "5150", got.Deductions, "deductions")
}

func TestCalculate_ZeroStandardHoursFallsBack(t *testing.T) {
	p := defaultParams("16000")
	p.StandardMonthlyHours = 0

	got := Calculate(p, nil)
	assertDecimal(t, "100", got.HourlyRate, "hourly rate")
}

func TestCalculate_Deterministic(t *testing.T) {
	records := completedDays(21, 8.25)
	first := Calculate(defaultParams("12345.67"), records)
	second := Calculate(defaultParams("12345.67"), records)
	assert.True(t, first.NetSalary.Equal(second.NetSalary))
	assert.True(t, first.GrossSalary.Equal(second.GrossSalary))
}

func TestCalculate_NonTerminatingHourlyRate(t *testing.T) {
	p := defaultParams("1000")
	p.StandardMonthlyHours = 3

	t.Run("overtime pay divides last", func(t *testing.T) {
		got := Calculate(p, completedDays(1, 4))

		assertDecimal(t, "1", got.OvertimeHours, "overtime hours")
		assertDecimal(t, "333.333333", got.HourlyRate, "hourly rate")
		assertDecimal(t, "500", got.OvertimePay, "overtime pay")
		assertDecimal(t, "1500", got.GrossSalary, "gross")
		assertDecimal(t, "225", got.Deductions, "deductions")
		assertDecimal(t, "1275", got.NetSalary, "net")
	})

	t.Run("figures fit the stored scale", func(t *testing.T) {
		p := p
		p.OvertimeMultiplier = decimal.NewFromInt(1)
		got := Calculate(p, completedDays(1, 4))

		assertDecimal(t, "333.333333", got.OvertimePay, "overtime pay")
		assertDecimal(t, "1333.333333", got.GrossSalary, "gross")
		assertDecimal(t, "200", got.Deductions, "deductions")
		assertDecimal(t, "1133.333333", got.NetSalary, "net")
		for name, v := range map[string]decimal.Decimal{
			"total": got.TotalWorkHours, "overtime pay": got.OvertimePay,
			"gross": got.GrossSalary, "deductions": got.Deductions, "net": got.NetSalary,
		} {
			assert.Truef(t, v.Equal(v.Round(payroll.Scale)), "%s has more than %d places: %s", name, payroll.Scale, v)
		}
	})
}
