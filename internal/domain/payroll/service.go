package payroll

import "context"

type PayrollService interface {
	// Generate computes and stores the month's payroll from the employee's
	// attendance, overwriting any earlier run for the same month.
	Generate(ctx context.Context, req GeneratePayrollRequest) (PayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	GetByEmployeeAndPeriod(ctx context.Context, employeeID string, year, month int) (PayrollResponse, error)
	ListByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]PayrollResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]PayrollResponse, error)
	Delete(ctx context.Context, id string) error
	// ExportYear renders an employee's payrolls for one year as an xlsx workbook.
	ExportYear(ctx context.Context, employeeID string, year int) (ExportFile, error)
}
