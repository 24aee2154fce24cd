package attendance

import (
	"time"
)

// Action is what a scan resolved to.
type Action string

const (
	ActionCheckIn  Action = "checkin"
	ActionCheckOut Action = "checkout"
)

// Source records how an attendance row was written.
type Source string

const (
	SourceSelf   Source = "SELF"
	SourceKiosk  Source = "KIOSK"
	SourceManual Source = "MANUAL"
)

const StatusPresent = "PRESENT"

// Attendance is one employee's record for one calendar day. Date is the
// calendar day in the company time zone, stored at midnight UTC.
type Attendance struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	CheckInAt   *time.Time
	CheckOutAt  *time.Time
	HoursWorked *float64
	Status      string
	Source      Source
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO
	EmployeeName *string
}

// IsOpen reports a check-in without a matching check-out.
func (a Attendance) IsOpen() bool {
	return a.CheckInAt != nil && a.CheckOutAt == nil
}

func (a Attendance) IsCompleted() bool {
	return a.CheckInAt != nil && a.CheckOutAt != nil
}

// Totals summarises an employee's lifetime attendance.
type Totals struct {
	TotalHours  float64
	RecordCount int
}

// CalendarDate returns the calendar day of t in loc, as midnight UTC.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthRange returns the first and last calendar day of a month.
func MonthRange(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// WeekRange returns Monday through Sunday of the week containing day.
func WeekRange(day time.Time) (time.Time, time.Time) {
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}
