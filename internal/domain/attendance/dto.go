package attendance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/pkg/validator"
)

const DateLayout = "2006-01-02"

// CheckRequest drives check-in, check-out and the combined scan. Identity is
// an employee id or a live QR token; Timestamp defaults to the server clock.
type CheckRequest struct {
	Identity  string     `json:"identity"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func (r *CheckRequest) Validate(identityRequired bool) error {
	var errs validator.ValidationErrors

	r.Identity = strings.TrimSpace(r.Identity)
	if identityRequired && r.Identity == "" {
		errs = append(errs, validator.ValidationError{Field: "identity", Message: "identity is required"})
	}
	if len(r.Identity) > 64 {
		errs = append(errs, validator.ValidationError{Field: "identity", Message: "identity must not exceed 64 characters"})
	}
	if r.Timestamp != nil && r.Timestamp.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "timestamp", Message: "timestamp must be a valid RFC3339 time"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckResponse struct {
	Action       Action             `json:"action"`
	Message      string             `json:"message"`
	EmployeeName string             `json:"employee_name"`
	QRCode       *string            `json:"qr_code,omitempty"`
	Record       AttendanceResponse `json:"record"`
}

type AttendanceResponse struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	EmployeeName   *string  `json:"employee_name,omitempty"`
	Date           string   `json:"date"`
	CheckInAt      *string  `json:"check_in_at"`
	CheckOutAt     *string  `json:"check_out_at"`
	HoursWorked    *float64 `json:"hours_worked"`
	WorkedDuration *string  `json:"worked_duration,omitempty"`
	Status         string   `json:"status"`
	Source         Source   `json:"source"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance, loc *time.Location) AttendanceResponse {
	if loc == nil {
		loc = time.UTC
	}
	resp := AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		Date:         a.Date.Format(DateLayout),
		HoursWorked:  a.HoursWorked,
		Status:       a.Status,
		Source:       a.Source,
		CreatedAt:    a.CreatedAt.In(loc).Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.In(loc).Format(time.RFC3339),
	}
	if a.CheckInAt != nil {
		s := a.CheckInAt.In(loc).Format(time.RFC3339)
		resp.CheckInAt = &s
	}
	if a.CheckOutAt != nil {
		s := a.CheckOutAt.In(loc).Format(time.RFC3339)
		resp.CheckOutAt = &s
	}
	if a.HoursWorked != nil {
		s := FormatDuration(*a.HoursWorked)
		resp.WorkedDuration = &s
	}
	return resp
}

// FormatDuration renders hours at minute precision, e.g. 8.5 -> "8h30m".
func FormatDuration(hours float64) string {
	minutes := int(math.Round(hours * 60))
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

type TotalHoursResponse struct {
	EmployeeID  string              `json:"employee_id"`
	TotalHours  float64             `json:"total_hours"`
	RecordCount int                 `json:"record_count"`
	LastRecord  *AttendanceResponse `json:"last_record,omitempty"`
}

// SaveRecordRequest writes a record for (employee, date) by hand, replacing
// any existing one. Times are "15:04[:05]" on Date or full RFC3339 stamps.
type SaveRecordRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	CheckIn    *string `json:"check_in,omitempty"`
	CheckOut   *string `json:"check_out,omitempty"`
}

func (r *SaveRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if r.CheckIn != nil && !isStamp(*r.CheckIn) {
		errs = append(errs, validator.ValidationError{Field: "check_in", Message: "check_in must be HH:MM[:SS] or an RFC3339 time"})
	}
	if r.CheckOut != nil && !isStamp(*r.CheckOut) {
		errs = append(errs, validator.ValidationError{Field: "check_out", Message: "check_out must be HH:MM[:SS] or an RFC3339 time"})
	}
	if r.CheckOut != nil && r.CheckIn == nil {
		errs = append(errs, validator.ValidationError{Field: "check_in", Message: "check_in is required when check_out is given"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRecordRequest struct {
	ID       string  `json:"-"`
	Date     *string `json:"date,omitempty"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
}

func (r *UpdateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}
	if r.CheckIn != nil && !isStamp(*r.CheckIn) {
		errs = append(errs, validator.ValidationError{Field: "check_in", Message: "check_in must be HH:MM[:SS] or an RFC3339 time"})
	}
	if r.CheckOut != nil && !isStamp(*r.CheckOut) {
		errs = append(errs, validator.ValidationError{Field: "check_out", Message: "check_out must be HH:MM[:SS] or an RFC3339 time"})
	}
	if r.Date == nil && r.CheckIn == nil && r.CheckOut == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "at least one of date, check_in, check_out is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isStamp(raw string) bool {
	if _, ok := validator.ParseClock(raw); ok {
		return true
	}
	_, ok := validator.IsValidDateTime(raw)
	return ok
}

// ParseStamp resolves a wall-clock time on date (a calendar day) in loc, or
// parses a full RFC3339 timestamp as is.
func ParseStamp(date time.Time, raw string, loc *time.Location) (time.Time, bool) {
	if offset, ok := validator.ParseClock(raw); ok {
		y, m, d := date.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(offset), true
	}
	return validator.IsValidDateTime(raw)
}

type MonthlyQuery struct {
	Year  int
	Month int
}

func (q MonthlyQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.Year < 1970 || q.Year > 9999 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 1970 and 9999"})
	}
	if q.Month < 1 || q.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
