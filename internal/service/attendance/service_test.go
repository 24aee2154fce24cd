package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/auth"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	approvedID = "00000000-0000-0000-0000-000000000001"
	pendingID  = "00000000-0000-0000-0000-000000000002"
	otherID    = "00000000-0000-0000-0000-000000000003"
	hrID       = "00000000-0000-0000-0000-0000000000a1"
	qrCode     = "QR-0011AABB"
)

type memoryAttendance struct {
	attendance.AttendanceRepository

	mu      sync.Mutex
	records map[string]attendance.Attendance
	seq     int

	// createErr is returned by CreateCheckIn when set.
	createErr error
	// beforeStart runs inside StartCheckIn before the record is checked.
	beforeStart func(m *memoryAttendance)
}

func newMemoryAttendance() *memoryAttendance {
	return &memoryAttendance{records: make(map[string]attendance.Attendance)}
}

func (m *memoryAttendance) find(employeeID string, date time.Time) (attendance.Attendance, bool) {
	for _, r := range m.records {
		if r.EmployeeID == employeeID && r.Date.Equal(date) {
			return r, true
		}
	}
	return attendance.Attendance{}, false
}

func (m *memoryAttendance) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r, nil
}

func (m *memoryAttendance) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.find(employeeID, date)
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r, nil
}

func (m *memoryAttendance) CreateCheckIn(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return attendance.Attendance{}, m.createErr
	}
	if _, ok := m.find(a.EmployeeID, a.Date); ok {
		return attendance.Attendance{}, attendance.ErrConflictingWrite
	}
	m.seq++
	a.ID = fmt.Sprintf("att-%d", m.seq)
	m.records[a.ID] = a
	return a, nil
}

func (m *memoryAttendance) StartCheckIn(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeStart != nil {
		m.beforeStart(m)
	}
	existing, ok := m.records[a.ID]
	if !ok || existing.CheckInAt != nil {
		return attendance.Attendance{}, attendance.ErrConflictingWrite
	}
	m.records[a.ID] = a
	return a, nil
}

func (m *memoryAttendance) CompleteCheckOut(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.records[a.ID]
	if !ok || existing.CheckOutAt != nil {
		return attendance.Attendance{}, attendance.ErrConflictingWrite
	}
	m.records[a.ID] = a
	return a, nil
}

func (m *memoryAttendance) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.find(a.EmployeeID, a.Date); ok {
		a.ID = existing.ID
	} else {
		m.seq++
		a.ID = fmt.Sprintf("att-%d", m.seq)
	}
	m.records[a.ID] = a
	return a, nil
}

func (m *memoryAttendance) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[a.ID]; !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	m.records[a.ID] = a
	return a, nil
}

func (m *memoryAttendance) only(t *testing.T) attendance.Attendance {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.records, 1)
	for _, r := range m.records {
		return r
	}
	return attendance.Attendance{}
}

type directory map[string]employee.Employee

func (d directory) ResolveIdentity(ctx context.Context, identity string) (employee.Employee, error) {
	if e, ok := d[identity]; ok {
		return e, nil
	}
	for _, e := range d {
		if e.QRCode != nil && *e.QRCode == identity {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrUnknownIdentity
}

func newDirectory() directory {
	code := qrCode
	return directory{
		approvedID: {ID: approvedID, FirstName: "Ada", LastName: "Lovelace", Status: employee.StatusApproved, QRCode: &code},
		otherID:    {ID: otherID, FirstName: "Alan", LastName: "Turing", Status: employee.StatusApproved},
		pendingID:  {ID: pendingID, FirstName: "Grace", LastName: "Hopper", Status: employee.StatusPending},
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(loc *time.Location) (*AttendanceServiceImpl, *memoryAttendance, *clock) {
	repo := newMemoryAttendance()
	c := &clock{t: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)}
	svc := NewAttendanceService(repo, newDirectory(), nil, loc).(*AttendanceServiceImpl)
	svc.now = c.now
	return svc, repo, c
}

func session(id string, role employee.Role) context.Context {
	return auth.WithSession(context.Background(), auth.Session{EmployeeID: id, Role: role})
}

func TestKioskScan_FullDay(t *testing.T) {
	svc, repo, c := newTestService(time.UTC)
	ctx := context.Background()

	resp, err := svc.KioskScan(ctx, attendance.CheckRequest{Identity: qrCode})
	require.NoError(t, err)
	assert.Equal(t, attendance.ActionCheckIn, resp.Action)
	assert.Equal(t, "Ada Lovelace", resp.EmployeeName)
	require.NotNil(t, resp.QRCode)
	assert.Equal(t, qrCode, *resp.QRCode)
	assert.Equal(t, "2025-03-03", resp.Record.Date)
	assert.Equal(t, attendance.SourceKiosk, resp.Record.Source)

	c.t = time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)
	resp, err = svc.KioskScan(ctx, attendance.CheckRequest{Identity: qrCode})
	require.NoError(t, err)
	assert.Equal(t, attendance.ActionCheckOut, resp.Action)
	require.NotNil(t, resp.Record.HoursWorked)
	assert.Equal(t, 9.0, *resp.Record.HoursWorked)
	require.NotNil(t, resp.Record.WorkedDuration)
	assert.Equal(t, "9h00m", *resp.Record.WorkedDuration)

	completed := repo.only(t)

	c.t = time.Date(2025, 3, 3, 19, 0, 0, 0, time.UTC)
	_, err = svc.KioskScan(ctx, attendance.CheckRequest{Identity: qrCode})
	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCompletedToday)
	var attempt *attendance.AttemptError
	require.True(t, errors.As(err, &attempt))
	assert.ErrorIs(t, attempt.CheckIn, attendance.ErrAlreadyCompletedToday)
	assert.ErrorIs(t, attempt.CheckOut, attendance.ErrAlreadyCompletedToday)

	assert.Equal(t, completed, repo.only(t), "completed record must not change")
}

func TestKioskScan_TimestampBeforeCheckIn(t *testing.T) {
	svc, repo, _ := newTestService(time.UTC)
	ctx := context.Background()

	_, err := svc.KioskScan(ctx, attendance.CheckRequest{Identity: approvedID})
	require.NoError(t, err)

	earlier := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	_, err = svc.KioskScan(ctx, attendance.CheckRequest{Identity: approvedID, Timestamp: &earlier})
	assert.ErrorIs(t, err, attendance.ErrInvalidTimeOrder)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	var attempt *attendance.AttemptError
	require.True(t, errors.As(err, &attempt))
	assert.ErrorIs(t, attempt.CheckIn, attendance.ErrAlreadyCheckedIn)
	assert.ErrorIs(t, attempt.CheckOut, attendance.ErrInvalidTimeOrder)
	assert.True(t, repo.only(t).IsOpen(), "open record must not change")
}

func TestKioskScan_RejectsUnknownAndUnapproved(t *testing.T) {
	svc, repo, _ := newTestService(time.UTC)
	ctx := context.Background()

	_, err := svc.KioskScan(ctx, attendance.CheckRequest{Identity: "QR-DEADBEEF"})
	assert.ErrorIs(t, err, employee.ErrUnknownIdentity)

	_, err = svc.KioskScan(ctx, attendance.CheckRequest{Identity: pendingID})
	assert.ErrorIs(t, err, attendance.ErrNotAuthorized)

	_, err = svc.KioskScan(ctx, attendance.CheckRequest{})
	assert.Error(t, err)

	assert.Empty(t, repo.records)
}

func TestCheckIn_CompletedRecordUnchanged(t *testing.T) {
	svc, repo, c := newTestService(time.UTC)
	ctx := session(approvedID, employee.RoleEmployee)

	_, err := svc.CheckIn(ctx, attendance.CheckRequest{})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	c.t = time.Date(2025, 3, 3, 17, 0, 0, 0, time.UTC)
	_, err = svc.CheckOut(ctx, attendance.CheckRequest{})
	require.NoError(t, err)
	completed := repo.only(t)

	c.t = time.Date(2025, 3, 3, 17, 30, 0, 0, time.UTC)
	_, err = svc.CheckIn(ctx, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCompletedToday)
	_, err = svc.CheckOut(ctx, attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCompletedToday)

	assert.Equal(t, completed, repo.only(t))
	assert.Equal(t, 8.0, *completed.HoursWorked)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	svc, repo, _ := newTestService(time.UTC)

	_, err := svc.CheckOut(session(approvedID, employee.RoleEmployee), attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
	assert.Empty(t, repo.records)
}

func TestCheckInOrOut_NoRecordChecksIn(t *testing.T) {
	svc, repo, _ := newTestService(time.UTC)

	resp, err := svc.CheckInOrOut(session(approvedID, employee.RoleEmployee), attendance.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.ActionCheckIn, resp.Action)
	assert.True(t, repo.only(t).IsOpen())
}

func TestSelfService_EmployeeTimestampIgnored(t *testing.T) {
	svc, repo, c := newTestService(time.UTC)
	forged := time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC)

	_, err := svc.CheckIn(session(approvedID, employee.RoleEmployee), attendance.CheckRequest{Timestamp: &forged})
	require.NoError(t, err)
	assert.Equal(t, c.t, *repo.only(t).CheckInAt)
}

func TestSelfService_OtherEmployee(t *testing.T) {
	svc, repo, _ := newTestService(time.UTC)

	_, err := svc.CheckIn(session(approvedID, employee.RoleEmployee), attendance.CheckRequest{Identity: otherID})
	assert.ErrorIs(t, err, attendance.ErrForbidden)
	assert.Empty(t, repo.records)

	stamp := time.Date(2025, 3, 3, 8, 15, 0, 0, time.UTC)
	resp, err := svc.CheckIn(session(hrID, employee.RoleHR), attendance.CheckRequest{Identity: otherID, Timestamp: &stamp})
	require.NoError(t, err)
	assert.Equal(t, attendance.SourceManual, resp.Record.Source)
	assert.Equal(t, stamp, *repo.only(t).CheckInAt)
}

func TestCheckIn_LostRace(t *testing.T) {
	svc, repo, _ := newTestService(time.UTC)
	repo.createErr = attendance.ErrConflictingWrite

	_, err := svc.CheckInOrOut(session(approvedID, employee.RoleEmployee), attendance.CheckRequest{})
	assert.ErrorIs(t, err, attendance.ErrConflictingWrite)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCompletedToday)
	var attempt *attendance.AttemptError
	assert.False(t, errors.As(err, &attempt), "lost race must not fall back to check-out")
}

func TestCheckIn_RecordWithoutCheckIn(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	blank := attendance.Attendance{ID: "att-manual", EmployeeID: approvedID, Date: day, Source: attendance.SourceManual}

	t.Run("stamps the existing record", func(t *testing.T) {
		svc, repo, c := newTestService(time.UTC)
		repo.records[blank.ID] = blank

		resp, err := svc.KioskScan(context.Background(), attendance.CheckRequest{Identity: approvedID})
		require.NoError(t, err)
		assert.Equal(t, attendance.ActionCheckIn, resp.Action)
		rec := repo.only(t)
		assert.Equal(t, blank.ID, rec.ID)
		require.NotNil(t, rec.CheckInAt)
		assert.Equal(t, c.t, *rec.CheckInAt)
	})

	t.Run("concurrent check-in wins", func(t *testing.T) {
		svc, repo, _ := newTestService(time.UTC)
		repo.records[blank.ID] = blank
		first := time.Date(2025, 3, 3, 8, 59, 0, 0, time.UTC)
		repo.beforeStart = func(m *memoryAttendance) {
			won := m.records[blank.ID]
			won.CheckInAt = &first
			m.records[blank.ID] = won
		}

		_, err := svc.KioskScan(context.Background(), attendance.CheckRequest{Identity: approvedID})
		assert.ErrorIs(t, err, attendance.ErrConflictingWrite)
		assert.Equal(t, first, *repo.only(t).CheckInAt)
	})
}

func TestCheckIn_StorageFailure(t *testing.T) {
	svc, repo, _ := newTestService(time.UTC)
	boom := errors.New("connection reset")
	repo.createErr = boom

	_, err := svc.KioskScan(context.Background(), attendance.CheckRequest{Identity: approvedID})
	assert.ErrorIs(t, err, boom)
}

func TestCalendarDay_FollowsLocation(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	svc, _, c := newTestService(istanbul)
	c.t = time.Date(2025, 3, 3, 22, 30, 0, 0, time.UTC)

	resp, err := svc.KioskScan(context.Background(), attendance.CheckRequest{Identity: approvedID})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", resp.Record.Date)
	require.NotNil(t, resp.Record.CheckInAt)
	assert.Equal(t, "2025-03-04T01:30:00+03:00", *resp.Record.CheckInAt)
}

func TestSaveRecord(t *testing.T) {
	svc, repo, _ := newTestService(time.UTC)
	in, out := "09:00", "18:00"

	_, err := svc.SaveRecord(session(approvedID, employee.RoleEmployee), attendance.SaveRecordRequest{
		EmployeeID: approvedID, Date: "2025-03-01", CheckIn: &in, CheckOut: &out,
	})
	assert.ErrorIs(t, err, attendance.ErrForbidden)

	resp, err := svc.SaveRecord(session(hrID, employee.RoleHR), attendance.SaveRecordRequest{
		EmployeeID: approvedID, Date: "2025-03-01", CheckIn: &in, CheckOut: &out,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.HoursWorked)
	assert.Equal(t, 9.0, *resp.HoursWorked)
	assert.Equal(t, attendance.SourceManual, resp.Source)

	late := "20:00"
	resp, err = svc.SaveRecord(session(hrID, employee.RoleHR), attendance.SaveRecordRequest{
		EmployeeID: approvedID, Date: "2025-03-01", CheckIn: &in, CheckOut: &late,
	})
	require.NoError(t, err)
	assert.Equal(t, 11.0, *resp.HoursWorked)
	assert.Len(t, repo.records, 1, "saving the same day replaces the record")

	early := "08:00"
	_, err = svc.SaveRecord(session(hrID, employee.RoleHR), attendance.SaveRecordRequest{
		EmployeeID: approvedID, Date: "2025-03-01", CheckIn: &in, CheckOut: &early,
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidTimeOrder)
}

func TestUpdateRecord_RecomputesHours(t *testing.T) {
	svc, repo, _ := newTestService(time.UTC)
	in, out := "09:00", "17:00"
	saved, err := svc.SaveRecord(session(hrID, employee.RoleHR), attendance.SaveRecordRequest{
		EmployeeID: approvedID, Date: "2025-03-01", CheckIn: &in, CheckOut: &out,
	})
	require.NoError(t, err)

	newOut := "17:45"
	resp, err := svc.UpdateRecord(session(hrID, employee.RoleHR), attendance.UpdateRecordRequest{
		ID: "00000000-0000-0000-0000-00000000ffff", CheckOut: &newOut,
	})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	// swap the fake's generated id for a uuid so the request validates
	rec := repo.only(t)
	delete(repo.records, saved.ID)
	rec.ID = "00000000-0000-0000-0000-00000000beef"
	repo.records[rec.ID] = rec

	resp, err = svc.UpdateRecord(session(hrID, employee.RoleHR), attendance.UpdateRecordRequest{
		ID: rec.ID, CheckOut: &newOut,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.75, *resp.HoursWorked)
}

func TestReads_RequireAccess(t *testing.T) {
	svc, _, _ := newTestService(time.UTC)

	_, err := svc.GetTodayStatus(session(approvedID, employee.RoleEmployee), otherID)
	assert.ErrorIs(t, err, attendance.ErrForbidden)

	today, err := svc.GetTodayStatus(session(approvedID, employee.RoleEmployee), approvedID)
	require.NoError(t, err)
	assert.Nil(t, today)

	_, err = svc.GetMonthlyRecords(session(hrID, employee.RoleHR), approvedID, attendance.MonthlyQuery{Year: 2025, Month: 13})
	assert.Error(t, err)
}
