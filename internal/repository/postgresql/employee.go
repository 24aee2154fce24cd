package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, first_name, last_name, national_id, position, department, email, phone_number,
		password_hash, role, status, qr_code, qr_rotated_at, approved_at, approved_by, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.NationalID, &emp.Position, &emp.Department,
		&emp.Email, &emp.PhoneNumber, &emp.PasswordHash, &emp.Role, &emp.Status,
		&emp.QRCode, &emp.QRRotatedAt, &emp.ApprovedAt, &emp.ApprovedBy, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func mapEmployeeWriteError(err error) error {
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case "employees_email_key":
			return employee.ErrEmailExists
		case "employees_national_id_key":
			return employee.ErrNationalIDExists
		}
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			first_name, last_name, national_id, position, department, email, phone_number,
			password_hash, role, status, qr_code, qr_rotated_at, approved_at, approved_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		e.FirstName, e.LastName, e.NationalID, e.Position, e.Department, e.Email, e.PhoneNumber,
		e.PasswordHash, string(e.Role), string(e.Status), e.QRCode, e.QRRotatedAt, e.ApprovedAt, e.ApprovedBy,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", mapEmployeeWriteError(err))
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.getOne(ctx, "email = $1", strings.ToLower(email))
}

// GetByQRCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByQRCode(ctx context.Context, qrCode string) (employee.Employee, error) {
	return r.getOne(ctx, "qr_code = $1", qrCode)
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE ` + where

	emp, err := scanEmployee(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(first_name || ' ' || last_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET first_name = $1, last_name = $2, position = $3, department = $4, email = $5,
			phone_number = $6, password_hash = $7, role = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		e.FirstName, e.LastName, e.Position, e.Department, e.Email,
		e.PhoneNumber, e.PasswordHash, string(e.Role), e.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee %s: %w", e.ID, mapEmployeeWriteError(err))
	}
	return updated, nil
}

// UpdateStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateStatus(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET status = $1, qr_code = $2, qr_rotated_at = $3, approved_at = $4, approved_by = $5, updated_at = NOW()
		WHERE id = $6 AND status = 'PENDING'
	`

	tag, err := q.Exec(ctx, query, string(e.Status), e.QRCode, e.QRRotatedAt, e.ApprovedAt, e.ApprovedBy, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update status of employee %s: %w", e.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotPending
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ListApprovedWithQRCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListApprovedWithQRCode(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees
		WHERE status = 'APPROVED' AND qr_code IS NOT NULL
		ORDER BY id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees holding a qr code: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// UpdateQRCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateQRCode(ctx context.Context, id string, qrCode string, rotatedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET qr_code = $1, qr_rotated_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'APPROVED'
	`

	tag, err := q.Exec(ctx, query, qrCode, rotatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to rotate qr code of employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
