package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `p.id, p.employee_id, p.year, p.month, p.base_salary, p.total_work_hours,
		p.overtime_hours, p.overtime_pay, p.bonus, p.gross_salary, p.deductions, p.net_salary,
		p.created_at, p.updated_at, e.first_name || ' ' || e.last_name`

const payrollFrom = ` FROM payroll_records p JOIN employees e ON e.id = p.employee_id`

func scanPayroll(row pgx.Row) (payroll.Record, error) {
	var rec payroll.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Year, &rec.Month, &rec.BaseSalary, &rec.TotalWorkHours,
		&rec.OvertimeHours, &rec.OvertimePay, &rec.Bonus, &rec.GrossSalary, &rec.Deductions, &rec.NetSalary,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.EmployeeName,
	)
	return rec, err
}

// Upsert implements payroll.PayrollRepository. The returned record carries
// the amounts as stored.
func (r *payrollRepository) Upsert(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			employee_id, year, month, base_salary, total_work_hours, overtime_hours,
			overtime_pay, bonus, gross_salary, deductions, net_salary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (employee_id, year, month) DO UPDATE SET
			base_salary = EXCLUDED.base_salary,
			total_work_hours = EXCLUDED.total_work_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			overtime_pay = EXCLUDED.overtime_pay,
			bonus = EXCLUDED.bonus,
			gross_salary = EXCLUDED.gross_salary,
			deductions = EXCLUDED.deductions,
			net_salary = EXCLUDED.net_salary,
			updated_at = NOW()
		RETURNING id, base_salary, total_work_hours, overtime_hours, overtime_pay,
			bonus, gross_salary, deductions, net_salary, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID, rec.Year, rec.Month, rec.BaseSalary, rec.TotalWorkHours, rec.OvertimeHours,
		rec.OvertimePay, rec.Bonus, rec.GrossSalary, rec.Deductions, rec.NetSalary,
	).Scan(
		&rec.ID, &rec.BaseSalary, &rec.TotalWorkHours, &rec.OvertimeHours, &rec.OvertimePay,
		&rec.Bonus, &rec.GrossSalary, &rec.Deductions, &rec.NetSalary, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return payroll.Record{}, payroll.ErrUnknownEmployee
		}
		return payroll.Record{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}

	return rec, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollFrom + ` WHERE p.id = $1`

	rec, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

// GetByEmployeeAndPeriod implements payroll.PayrollRepository.
func (r *payrollRepository) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, year, month int) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollFrom + ` WHERE p.employee_id = $1 AND p.year = $2 AND p.month = $3`

	rec, err := scanPayroll(q.QueryRow(ctx, query, employeeID, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll for %d-%02d: %w", year, month, err)
	}
	return rec, nil
}

// ListByEmployeeAndYear implements payroll.PayrollRepository.
func (r *payrollRepository) ListByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]payroll.Record, error) {
	query := `SELECT ` + payrollColumns + payrollFrom + `
		WHERE p.employee_id = $1 AND p.year = $2
		ORDER BY p.month ASC`

	return r.list(ctx, query, employeeID, year)
}

// ListByEmployee implements payroll.PayrollRepository.
func (r *payrollRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Record, error) {
	query := `SELECT ` + payrollColumns + payrollFrom + `
		WHERE p.employee_id = $1
		ORDER BY p.year DESC, p.month DESC`

	return r.list(ctx, query, employeeID)
}

func (r *payrollRepository) list(ctx context.Context, query string, args ...any) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	records := make([]payroll.Record, 0)
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete implements payroll.PayrollRepository.
func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}
	return nil
}
