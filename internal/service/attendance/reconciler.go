package attendance

import (
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
)

// Resolve decides what a scan at now does to today's record. today is nil
// when the employee has no record for the day.
func Resolve(now time.Time, today *attendance.Attendance) (attendance.Action, error) {
	switch {
	case today == nil || today.CheckInAt == nil:
		return attendance.ActionCheckIn, nil
	case today.CheckOutAt == nil:
		if now.Before(*today.CheckInAt) {
			return "", attendance.ErrInvalidTimeOrder
		}
		return attendance.ActionCheckOut, nil
	default:
		return "", attendance.ErrAlreadyCompletedToday
	}
}

// CanCheckIn reports why an explicit check-in is refused, if it is.
func CanCheckIn(today *attendance.Attendance) error {
	if today == nil || today.CheckInAt == nil {
		return nil
	}
	if today.CheckOutAt != nil {
		return attendance.ErrAlreadyCompletedToday
	}
	return attendance.ErrAlreadyCheckedIn
}

// CanCheckOut reports why an explicit check-out at now is refused, if it is.
func CanCheckOut(now time.Time, today *attendance.Attendance) error {
	if today == nil || today.CheckInAt == nil {
		return attendance.ErrNotCheckedIn
	}
	if today.CheckOutAt != nil {
		return attendance.ErrAlreadyCompletedToday
	}
	if now.Before(*today.CheckInAt) {
		return attendance.ErrInvalidTimeOrder
	}
	return nil
}

// HoursBetween returns the whole seconds between in and out as fractional
// hours. Sub-second remainders are dropped; minutes are rounded only when a
// duration is formatted for display. out before in is ErrInvalidTimeOrder; it
// is never clamped to zero.
func HoursBetween(in, out time.Time) (float64, error) {
	if out.Before(in) {
		return 0, attendance.ErrInvalidTimeOrder
	}
	seconds := int64(out.Sub(in) / time.Second)
	return float64(seconds) / 3600, nil
}

// ApplyCheckIn stamps a check-in on a copy of today, or on a new record.
func ApplyCheckIn(today *attendance.Attendance, employeeID string, date, now time.Time, source attendance.Source) attendance.Attendance {
	rec := attendance.Attendance{
		EmployeeID: employeeID,
		Date:       date,
		Status:     attendance.StatusPresent,
		Source:     source,
	}
	if today != nil {
		rec = *today
	}
	rec.CheckInAt = &now
	rec.CheckOutAt = nil
	rec.HoursWorked = nil
	return rec
}

// ApplyCheckOut stamps the check-out and worked hours on a copy of an open record.
func ApplyCheckOut(today attendance.Attendance, now time.Time) (attendance.Attendance, error) {
	hours, err := HoursBetween(*today.CheckInAt, now)
	if err != nil {
		return attendance.Attendance{}, err
	}
	today.CheckOutAt = &now
	today.HoursWorked = &hours
	return today, nil
}
