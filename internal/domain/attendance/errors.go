package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrAlreadyCheckedIn      = errors.New("already checked in today")
	ErrNotCheckedIn          = errors.New("not checked in today")
	ErrAlreadyCompletedToday = errors.New("attendance for today is already completed")
	ErrInvalidTimeOrder      = errors.New("check-out time is before check-in time")
	ErrConflictingWrite      = errors.New("attendance record was changed by a concurrent request")
	ErrNotAuthorized         = errors.New("employee is not approved for attendance")

	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrForbidden          = errors.New("not allowed to access this attendance record")
)

// AttemptError is returned when a scan could be neither a check-in nor a
// check-out. errors.Is matches either cause.
type AttemptError struct {
	CheckIn  error
	CheckOut error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("check-in failed: %v; check-out failed: %v", e.CheckIn, e.CheckOut)
}

func (e *AttemptError) Unwrap() []error {
	return []error{e.CheckIn, e.CheckOut}
}
