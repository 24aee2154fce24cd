package payroll

import (
	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Calculate derives a month's pay from its attendance. Only completed records
// count towards the worked hours. Divisions happen last and every figure is
// rounded half away from zero to payroll.Scale places, the precision records
// are stored with, so a generated payroll reads back unchanged. The net salary
// is floored at zero.
func Calculate(p payroll.Params, records []attendance.Attendance) payroll.Breakdown {
	standard := p.StandardMonthlyHours
	if standard <= 0 {
		standard = payroll.DefaultPolicy().StandardMonthlyHours
	}
	standardHours := decimal.NewFromInt(int64(standard))

	total := decimal.Zero
	for _, r := range records {
		if !r.IsCompleted() || r.HoursWorked == nil {
			continue
		}
		total = total.Add(decimal.NewFromFloat(*r.HoursWorked))
	}

	total = total.Round(payroll.Scale)

	overtime := decimal.Max(decimal.Zero, total.Sub(standardHours))
	regular := total.Sub(overtime)
	hourlyRate := p.BaseSalary.DivRound(standardHours, payroll.Scale)
	overtimePay := overtime.Mul(p.BaseSalary).Mul(p.OvertimeMultiplier).DivRound(standardHours, payroll.Scale)
	gross := p.BaseSalary.Add(overtimePay).Add(p.Bonus).Round(payroll.Scale)
	deductions := gross.Mul(p.IncomeTaxRate).Add(p.ExtraDeduction).Round(payroll.Scale)
	net := decimal.Max(decimal.Zero, gross.Sub(deductions))

	return payroll.Breakdown{
		TotalWorkHours: total,
		RegularHours:   regular,
		OvertimeHours:  overtime,
		HourlyRate:     hourlyRate,
		OvertimePay:    overtimePay,
		GrossSalary:    gross,
		Deductions:     deductions,
		NetSalary:      net,
	}
}
