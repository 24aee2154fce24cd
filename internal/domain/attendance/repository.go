package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	GetByID(ctx context.Context, id string) (Attendance, error)
	// GetByEmployeeAndDate returns ErrAttendanceNotFound when the day has no record.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)
	// CreateCheckIn inserts the day's record. It returns ErrConflictingWrite when
	// a record for (employee, date) already exists.
	CreateCheckIn(ctx context.Context, a Attendance) (Attendance, error)
	// StartCheckIn stamps the check-in on an existing record only while it has
	// none and returns ErrConflictingWrite otherwise.
	StartCheckIn(ctx context.Context, a Attendance) (Attendance, error)
	// CompleteCheckOut stamps the check-out only while the record is still open
	// and returns ErrConflictingWrite otherwise.
	CompleteCheckOut(ctx context.Context, a Attendance) (Attendance, error)
	// Upsert writes a record keyed by (employee, date), replacing any existing one.
	Upsert(ctx context.Context, a Attendance) (Attendance, error)
	Update(ctx context.Context, a Attendance) (Attendance, error)
	Delete(ctx context.Context, id string) error
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
	ListRecent(ctx context.Context, employeeID string, limit int) ([]Attendance, error)
	Totals(ctx context.Context, employeeID string) (Totals, error)
}
