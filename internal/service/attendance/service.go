package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/auth"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/metrics"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// IdentityResolver maps an employee id or QR token to an employee.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, identity string) (employee.Employee, error)
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	directory IdentityResolver
	metrics   *metrics.Metrics
	loc       *time.Location
	now       func() time.Time
}

// NewAttendanceService builds the attendance service. Calendar days are taken
// in loc.
func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	directory IdentityResolver,
	m *metrics.Metrics,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		directory:            directory,
		metrics:              m,
		loc:                  loc,
		now:                  time.Now,
	}
}

type mode int

const (
	modeCheckIn mode = iota
	modeCheckOut
	modeEither
)

// scan is one resolved attempt: who, when, and where it came from.
type scan struct {
	employee employee.Employee
	at       time.Time
	date     time.Time
	source   attendance.Source
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckRequest) (attendance.CheckResponse, error) {
	return a.selfService(ctx, req, modeCheckIn)
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckRequest) (attendance.CheckResponse, error) {
	return a.selfService(ctx, req, modeCheckOut)
}

// CheckInOrOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckInOrOut(ctx context.Context, req attendance.CheckRequest) (attendance.CheckResponse, error) {
	return a.selfService(ctx, req, modeEither)
}

// KioskScan implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) KioskScan(ctx context.Context, req attendance.CheckRequest) (attendance.CheckResponse, error) {
	if err := req.Validate(true); err != nil {
		return attendance.CheckResponse{}, err
	}

	at := a.now()
	if req.Timestamp != nil {
		at = *req.Timestamp
	}

	s, err := a.resolve(ctx, req.Identity, at, attendance.SourceKiosk)
	if err != nil {
		a.reject(err)
		return attendance.CheckResponse{}, err
	}
	return a.record(ctx, s, modeEither)
}

func (a *AttendanceServiceImpl) selfService(ctx context.Context, req attendance.CheckRequest, m mode) (attendance.CheckResponse, error) {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return attendance.CheckResponse{}, err
	}
	if err := req.Validate(false); err != nil {
		return attendance.CheckResponse{}, err
	}

	identity := req.Identity
	if identity == "" {
		identity = session.EmployeeID
	}

	// Employees always record against the server clock.
	at := a.now()
	if req.Timestamp != nil && session.Can(employee.PermissionAttendanceManage) {
		at = *req.Timestamp
	}

	s, err := a.resolve(ctx, identity, at, attendance.SourceSelf)
	if err != nil {
		a.reject(err)
		return attendance.CheckResponse{}, err
	}
	if s.employee.ID != session.EmployeeID {
		if !session.Can(employee.PermissionAttendanceManage) {
			return attendance.CheckResponse{}, attendance.ErrForbidden
		}
		s.source = attendance.SourceManual
	}

	return a.record(ctx, s, m)
}

func (a *AttendanceServiceImpl) resolve(ctx context.Context, identity string, at time.Time, source attendance.Source) (scan, error) {
	emp, err := a.directory.ResolveIdentity(ctx, identity)
	if err != nil {
		return scan{}, err
	}
	if !emp.IsApproved() {
		return scan{}, attendance.ErrNotAuthorized
	}
	return scan{
		employee: emp,
		at:       at,
		date:     attendance.CalendarDate(at, a.loc),
		source:   source,
	}, nil
}

func (a *AttendanceServiceImpl) today(ctx context.Context, s scan) (*attendance.Attendance, error) {
	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, s.employee.ID, s.date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (a *AttendanceServiceImpl) record(ctx context.Context, s scan, m mode) (attendance.CheckResponse, error) {
	today, err := a.today(ctx, s)
	if err != nil {
		return attendance.CheckResponse{}, err
	}

	var (
		rec    attendance.Attendance
		action attendance.Action
	)
	switch m {
	case modeCheckIn:
		action = attendance.ActionCheckIn
		rec, err = a.checkIn(ctx, s, today)
	case modeCheckOut:
		action = attendance.ActionCheckOut
		rec, err = a.checkOut(ctx, s, today)
	default:
		action, rec, err = a.checkInOrOut(ctx, s, today)
	}
	if err != nil {
		a.reject(err)
		return attendance.CheckResponse{}, err
	}

	a.metrics.AttendanceRecorded(string(action), string(s.source))
	slog.InfoContext(ctx, "attendance recorded",
		"employee_id", s.employee.ID,
		"action", action,
		"source", s.source,
		"date", s.date.Format(attendance.DateLayout),
	)

	message := "Checked in"
	if action == attendance.ActionCheckOut {
		message = "Checked out"
	}
	return attendance.CheckResponse{
		Action:       action,
		Message:      message,
		EmployeeName: s.employee.FullName(),
		QRCode:       s.employee.QRCode,
		Record:       attendance.NewAttendanceResponse(rec, a.loc),
	}, nil
}

// checkInOrOut lets Resolve pick the action from today's record. When neither
// action applies, the returned AttemptError carries why each one was refused.
// Storage failures and lost races are returned as is.
func (a *AttendanceServiceImpl) checkInOrOut(ctx context.Context, s scan, today *attendance.Attendance) (attendance.Action, attendance.Attendance, error) {
	action, err := Resolve(s.at, today)
	if err != nil {
		return "", attendance.Attendance{}, &attendance.AttemptError{
			CheckIn:  CanCheckIn(today),
			CheckOut: err,
		}
	}

	var rec attendance.Attendance
	switch action {
	case attendance.ActionCheckIn:
		rec, err = a.checkIn(ctx, s, today)
	default:
		rec, err = a.checkOut(ctx, s, today)
	}
	if err != nil {
		return "", attendance.Attendance{}, err
	}
	return action, rec, nil
}

func (a *AttendanceServiceImpl) checkIn(ctx context.Context, s scan, today *attendance.Attendance) (attendance.Attendance, error) {
	if err := CanCheckIn(today); err != nil {
		return attendance.Attendance{}, err
	}

	rec := ApplyCheckIn(today, s.employee.ID, s.date, s.at, s.source)

	var err error
	if today != nil {
		rec, err = a.AttendanceRepository.StartCheckIn(ctx, rec)
	} else {
		rec, err = a.AttendanceRepository.CreateCheckIn(ctx, rec)
	}
	if err != nil {
		return attendance.Attendance{}, conflict(err)
	}
	return rec, nil
}

func (a *AttendanceServiceImpl) checkOut(ctx context.Context, s scan, today *attendance.Attendance) (attendance.Attendance, error) {
	if err := CanCheckOut(s.at, today); err != nil {
		return attendance.Attendance{}, err
	}

	rec, err := ApplyCheckOut(*today, s.at)
	if err != nil {
		return attendance.Attendance{}, err
	}
	rec, err = a.AttendanceRepository.CompleteCheckOut(ctx, rec)
	if err != nil {
		return attendance.Attendance{}, conflict(err)
	}
	return rec, nil
}

// conflict makes a lost race match ErrAlreadyCompletedToday as well.
func conflict(err error) error {
	if errors.Is(err, attendance.ErrConflictingWrite) {
		return fmt.Errorf("%w: %w", attendance.ErrConflictingWrite, attendance.ErrAlreadyCompletedToday)
	}
	return err
}

func (a *AttendanceServiceImpl) reject(err error) {
	var reason string
	switch {
	case errors.Is(err, attendance.ErrConflictingWrite):
		reason = "conflicting_write"
	case errors.Is(err, attendance.ErrAlreadyCompletedToday):
		reason = "already_completed_today"
	case errors.Is(err, attendance.ErrInvalidTimeOrder):
		reason = "invalid_time_order"
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		reason = "already_checked_in"
	case errors.Is(err, attendance.ErrNotCheckedIn):
		reason = "not_checked_in"
	case errors.Is(err, employee.ErrUnknownIdentity):
		reason = "unknown_identity"
	case errors.Is(err, attendance.ErrNotAuthorized):
		reason = "not_authorized"
	default:
		return
	}
	a.metrics.AttendanceRejected(reason)
}

func (a *AttendanceServiceImpl) authorizeRead(ctx context.Context, employeeID string) error {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return err
	}
	if !session.CanAccess(employeeID, employee.PermissionAttendanceViewAll) {
		return attendance.ErrForbidden
	}
	return nil
}

func (a *AttendanceServiceImpl) authorizeWrite(ctx context.Context) error {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return err
	}
	if !session.Can(employee.PermissionAttendanceManage) {
		return attendance.ErrForbidden
	}
	return nil
}

func (a *AttendanceServiceImpl) responses(records []attendance.Attendance) []attendance.AttendanceResponse {
	out := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, attendance.NewAttendanceResponse(r, a.loc))
	}
	return out
}

// GetTodayStatus implements attendance.AttendanceService. It returns nil when
// the employee has no record today.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID string) (*attendance.AttendanceResponse, error) {
	if err := a.authorizeRead(ctx, employeeID); err != nil {
		return nil, err
	}

	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, attendance.CalendarDate(a.now(), a.loc))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	resp := attendance.NewAttendanceResponse(rec, a.loc)
	return &resp, nil
}

// GetWeeklyRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetWeeklyRecords(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error) {
	if err := a.authorizeRead(ctx, employeeID); err != nil {
		return nil, err
	}

	from, to := attendance.WeekRange(attendance.CalendarDate(a.now(), a.loc))
	records, err := a.AttendanceRepository.ListByEmployeeAndRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	return a.responses(records), nil
}

// GetMonthlyRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMonthlyRecords(ctx context.Context, employeeID string, q attendance.MonthlyQuery) ([]attendance.AttendanceResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := a.authorizeRead(ctx, employeeID); err != nil {
		return nil, err
	}

	from, to := attendance.MonthRange(q.Year, q.Month)
	records, err := a.AttendanceRepository.ListByEmployeeAndRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	return a.responses(records), nil
}

// GetRecentRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetRecentRecords(ctx context.Context, employeeID string, limit int) ([]attendance.AttendanceResponse, error) {
	if err := a.authorizeRead(ctx, employeeID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	records, err := a.AttendanceRepository.ListRecent(ctx, employeeID, limit)
	if err != nil {
		return nil, err
	}
	return a.responses(records), nil
}

// GetTotalHours implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTotalHours(ctx context.Context, employeeID string) (attendance.TotalHoursResponse, error) {
	if err := a.authorizeRead(ctx, employeeID); err != nil {
		return attendance.TotalHoursResponse{}, err
	}

	totals, err := a.AttendanceRepository.Totals(ctx, employeeID)
	if err != nil {
		return attendance.TotalHoursResponse{}, err
	}

	resp := attendance.TotalHoursResponse{
		EmployeeID:  employeeID,
		TotalHours:  totals.TotalHours,
		RecordCount: totals.RecordCount,
	}

	last, err := a.AttendanceRepository.ListRecent(ctx, employeeID, 1)
	if err != nil {
		return attendance.TotalHoursResponse{}, err
	}
	if len(last) > 0 {
		r := attendance.NewAttendanceResponse(last[0], a.loc)
		resp.LastRecord = &r
	}
	return resp, nil
}

// SaveRecord implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SaveRecord(ctx context.Context, req attendance.SaveRecordRequest) (attendance.AttendanceResponse, error) {
	if err := a.authorizeWrite(ctx); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.directory.ResolveIdentity(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse(attendance.DateLayout, req.Date)
	rec := attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       date,
		Status:     attendance.StatusPresent,
		Source:     attendance.SourceManual,
	}
	if err := a.applyStamps(&rec, req.CheckIn, req.CheckOut); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	saved, err := a.AttendanceRepository.Upsert(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	slog.InfoContext(ctx, "attendance record saved", "employee_id", emp.ID, "date", req.Date)
	return attendance.NewAttendanceResponse(saved, a.loc), nil
}

// UpdateRecord implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateRecord(ctx context.Context, req attendance.UpdateRecordRequest) (attendance.AttendanceResponse, error) {
	if err := a.authorizeWrite(ctx); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.Date != nil {
		rec.Date, _ = time.Parse(attendance.DateLayout, *req.Date)
	}
	if err := a.applyStamps(&rec, req.CheckIn, req.CheckOut); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	rec.Source = attendance.SourceManual

	updated, err := a.AttendanceRepository.Update(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(updated, a.loc), nil
}

// applyStamps sets the given times on rec and recomputes the worked hours.
func (a *AttendanceServiceImpl) applyStamps(rec *attendance.Attendance, checkIn, checkOut *string) error {
	if checkIn != nil {
		t, _ := attendance.ParseStamp(rec.Date, *checkIn, a.loc)
		rec.CheckInAt = &t
	}
	if checkOut != nil {
		t, _ := attendance.ParseStamp(rec.Date, *checkOut, a.loc)
		rec.CheckOutAt = &t
	}

	rec.HoursWorked = nil
	if rec.CheckOutAt != nil {
		if rec.CheckInAt == nil {
			return attendance.ErrNotCheckedIn
		}
		hours, err := HoursBetween(*rec.CheckInAt, *rec.CheckOutAt)
		if err != nil {
			return err
		}
		rec.HoursWorked = &hours
	}
	return nil
}

// DeleteRecord implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	if err := a.authorizeWrite(ctx); err != nil {
		return err
	}
	return a.AttendanceRepository.Delete(ctx, id)
}
