package payroll

import "context"

type PayrollRepository interface {
	// Upsert writes the record for (employee, year, month), overwriting the
	// figures of an existing one while keeping its id and created_at.
	Upsert(ctx context.Context, r Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	GetByEmployeeAndPeriod(ctx context.Context, employeeID string, year, month int) (Record, error)
	ListByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]Record, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Record, error)
	Delete(ctx context.Context, id string) error
}
