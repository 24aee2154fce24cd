package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `a.id, a.employee_id, a.date, a.check_in_at, a.check_out_at, a.hours_worked,
		a.status, a.source, a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row, withName bool) (attendance.Attendance, error) {
	var att attendance.Attendance
	dest := []any{
		&att.ID, &att.EmployeeID, &att.Date, &att.CheckInAt, &att.CheckOutAt, &att.HoursWorked,
		&att.Status, &att.Source, &att.CreatedAt, &att.UpdatedAt,
	}
	if withName {
		dest = append(dest, &att.EmployeeName)
	}
	err := row.Scan(dest...)
	return att, err
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `, e.first_name || ' ' || e.last_name
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a WHERE a.employee_id = $1 AND a.date = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance for %s: %w", date.Format(attendance.DateLayout), err)
	}
	return att, nil
}

// CreateCheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateCheckIn(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (employee_id, date, check_in_at, status, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		newAttendance.Date,
		newAttendance.CheckInAt,
		newAttendance.Status,
		string(newAttendance.Source),
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrConflictingWrite
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create check-in: %w", err)
	}
	return newAttendance, nil
}

// CompleteCheckOut implements attendance.AttendanceRepository.
// StartCheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) StartCheckIn(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in_at = $1, check_out_at = NULL, hours_worked = NULL, updated_at = NOW()
		WHERE id = $2 AND check_in_at IS NULL
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, att.CheckInAt, att.ID).Scan(&att.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrConflictingWrite
		}
		return attendance.Attendance{}, fmt.Errorf("failed to start check-in: %w", err)
	}
	return att, nil
}

func (a *attendanceRepository) CompleteCheckOut(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out_at = $1, hours_worked = $2, updated_at = NOW()
		WHERE id = $3 AND check_out_at IS NULL
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, att.CheckOutAt, att.HoursWorked, att.ID).Scan(&att.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrConflictingWrite
		}
		return attendance.Attendance{}, fmt.Errorf("failed to complete check-out: %w", err)
	}
	return att, nil
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (employee_id, date, check_in_at, check_out_at, hours_worked, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in_at = EXCLUDED.check_in_at,
			check_out_at = EXCLUDED.check_out_at,
			hours_worked = EXCLUDED.hours_worked,
			status = EXCLUDED.status,
			source = EXCLUDED.source,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.EmployeeID, att.Date, att.CheckInAt, att.CheckOutAt, att.HoursWorked, att.Status, string(att.Source),
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to save attendance: %w", err)
	}
	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET date = $1, check_in_at = $2, check_out_at = $3, hours_worked = $4, source = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		att.Date, att.CheckInAt, att.CheckOutAt, att.HoursWorked, string(att.Source), att.ID,
	).Scan(&att.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		if _, ok := uniqueConstraint(err); ok {
			return attendance.Attendance{}, attendance.ErrConflictingWrite
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance %s: %w", att.ID, err)
	}
	return att, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByEmployeeAndRange implements attendance.AttendanceRepository.
// Both bounds are inclusive calendar days.
func (a *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date ASC
	`

	return a.list(ctx, q, query, employeeID, from, to)
}

// ListRecent implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListRecent(ctx context.Context, employeeID string, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		ORDER BY a.date DESC
		LIMIT $2
	`

	return a.list(ctx, q, query, employeeID, limit)
}

func (a *attendanceRepository) list(ctx context.Context, q database.Querier, query string, args ...any) ([]attendance.Attendance, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Totals implements attendance.AttendanceRepository.
func (a *attendanceRepository) Totals(ctx context.Context, employeeID string) (attendance.Totals, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COALESCE(SUM(hours_worked), 0), COUNT(*)
		FROM attendances
		WHERE employee_id = $1
	`

	var totals attendance.Totals
	if err := q.QueryRow(ctx, query, employeeID).Scan(&totals.TotalHours, &totals.RecordCount); err != nil {
		return attendance.Totals{}, fmt.Errorf("failed to total attendance hours: %w", err)
	}
	return totals, nil
}
