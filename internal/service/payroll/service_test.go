package payroll

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/auth"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	hrID     = "00000000-0000-0000-0000-0000000000a1"
	workerID = "00000000-0000-0000-0000-000000000002"
	otherID  = "00000000-0000-0000-0000-000000000003"
)

type memoryEmployees struct {
	employee.EmployeeRepository
	byID map[string]employee.Employee
}

func (m *memoryEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := m.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type memoryAttendance struct {
	attendance.AttendanceRepository
	records []attendance.Attendance
}

func (m *memoryAttendance) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range m.records {
		if r.EmployeeID == employeeID && !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memoryPayrolls struct {
	mu      sync.Mutex
	seq     int
	records map[string]payroll.Record
}

func newMemoryPayrolls() *memoryPayrolls {
	return &memoryPayrolls{records: make(map[string]payroll.Record)}
}

func (m *memoryPayrolls) Upsert(ctx context.Context, r payroll.Record) (payroll.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.records {
		if existing.EmployeeID == r.EmployeeID && existing.Year == r.Year && existing.Month == r.Month {
			r.ID = id
			r.CreatedAt = existing.CreatedAt
			m.records[id] = r
			return r, nil
		}
	}
	m.seq++
	r.ID = fmt.Sprintf("pay-%d", m.seq)
	r.CreatedAt = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	m.records[r.ID] = r
	return r, nil
}

func (m *memoryPayrolls) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return payroll.Record{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (m *memoryPayrolls) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, year, month int) (payroll.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.EmployeeID == employeeID && r.Year == year && r.Month == month {
			return r, nil
		}
	}
	return payroll.Record{}, payroll.ErrPayrollRecordNotFound
}

func (m *memoryPayrolls) ListByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]payroll.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.Record
	for month := 1; month <= 12; month++ {
		for _, r := range m.records {
			if r.EmployeeID == employeeID && r.Year == year && r.Month == month {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (m *memoryPayrolls) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.Record
	for _, r := range m.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryPayrolls) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	delete(m.records, id)
	return nil
}

func marchAttendance(employeeID string, days int, hours float64) []attendance.Attendance {
	out := make([]attendance.Attendance, 0, days)
	for i := range days {
		date := time.Date(2025, 3, i+1, 0, 0, 0, 0, time.UTC)
		in := date.Add(9 * time.Hour)
		outAt := in.Add(time.Duration(hours * float64(time.Hour)))
		h := hours
		out = append(out, attendance.Attendance{
			EmployeeID:  employeeID,
			Date:        date,
			CheckInAt:   &in,
			CheckOutAt:  &outAt,
			HoursWorked: &h,
		})
	}
	return out
}

func newTestService(records []attendance.Attendance) (*PayrollServiceImpl, *memoryPayrolls) {
	payrolls := newMemoryPayrolls()
	employees := &memoryEmployees{byID: map[string]employee.Employee{
		workerID: {ID: workerID, FirstName: "Budi", LastName: "Santoso", Role: employee.RoleEmployee, Status: employee.StatusApproved},
		otherID:  {ID: otherID, FirstName: "Sari", LastName: "Dewi", Role: employee.RoleEmployee, Status: employee.StatusApproved},
	}}
	svc := NewPayrollService(payrolls, &memoryAttendance{records: records}, employees, payroll.DefaultPolicy(), nil)
	return svc.(*PayrollServiceImpl), payrolls
}

func hrContext() context.Context {
	return auth.WithSession(context.Background(), auth.Session{EmployeeID: hrID, Name: "HR Staff", Role: employee.RoleHR})
}

func workerContext(id string) context.Context {
	return auth.WithSession(context.Background(), auth.Session{EmployeeID: id, Role: employee.RoleEmployee})
}

func marchRequest() payroll.GeneratePayrollRequest {
	return payroll.GeneratePayrollRequest{
		EmployeeID: workerID,
		Year:       2025,
		Month:      3,
		BaseSalary: decimal.NewFromInt(10000),
	}
}

func TestPayrollService_Generate(t *testing.T) {
	svc, _ := newTestService(marchAttendance(workerID, 17, 10))

	resp, err := svc.Generate(hrContext(), marchRequest())
	require.NoError(t, err)

	assert.Equal(t, workerID, resp.EmployeeID)
	require.NotNil(t, resp.EmployeeName)
	assert.Equal(t, "Budi Santoso", *resp.EmployeeName)
	assertDecimal(t, "170", resp.TotalWorkHours, "total")
	assertDecimal(t, "10", resp.OvertimeHours, "overtime hours")
	assertDecimal(t, "937.5", resp.OvertimePay, "overtime pay")
	assertDecimal(t, "10937.5", resp.GrossSalary, "gross")
	assertDecimal(t, "1640.625", resp.Deductions, "deductions")
	assertDecimal(t, "9296.875", resp.NetSalary, "net")
}

func TestPayrollService_GenerateIsIdempotent(t *testing.T) {
	svc, payrolls := newTestService(marchAttendance(workerID, 17, 10))

	first, err := svc.Generate(hrContext(), marchRequest())
	require.NoError(t, err)
	second, err := svc.Generate(hrContext(), marchRequest())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, payrolls.records, 1)
	assert.True(t, first.NetSalary.Equal(second.NetSalary))
}

func TestPayrollService_GenerateOverridesPolicy(t *testing.T) {
	svc, _ := newTestService(marchAttendance(workerID, 10, 8))

	req := marchRequest()
	rate := decimal.Zero
	bonus := decimal.NewFromInt(500)
	req.IncomeTaxRate = &rate
	req.Bonus = &bonus

	resp, err := svc.Generate(hrContext(), req)
	require.NoError(t, err)
	assertDecimal(t, "10500", resp.GrossSalary, "gross")
	assertDecimal(t, "0", resp.Deductions, "deductions")
	assertDecimal(t, "10500", resp.NetSalary, "net")
}

func TestPayrollService_GenerateRejections(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.Generate(workerContext(workerID), marchRequest())
	assert.ErrorIs(t, err, payroll.ErrForbidden)

	_, err = svc.Generate(context.Background(), marchRequest())
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	req := marchRequest()
	req.EmployeeID = "00000000-0000-0000-0000-00000000dead"
	_, err = svc.Generate(hrContext(), req)
	assert.ErrorIs(t, err, payroll.ErrUnknownEmployee)

	req = marchRequest()
	req.Month = 13
	req.BaseSalary = decimal.Zero
	_, err = svc.Generate(hrContext(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "month")
	assert.Contains(t, err.Error(), "base_salary")
}

func TestPayrollService_ReadAccess(t *testing.T) {
	svc, _ := newTestService(marchAttendance(workerID, 5, 8))
	generated, err := svc.Generate(hrContext(), marchRequest())
	require.NoError(t, err)

	own, err := svc.GetByID(workerContext(workerID), generated.ID)
	require.NoError(t, err)
	assert.Equal(t, generated.ID, own.ID)

	_, err = svc.GetByID(workerContext(otherID), generated.ID)
	assert.ErrorIs(t, err, payroll.ErrForbidden)

	_, err = svc.ListByEmployee(workerContext(otherID), workerID)
	assert.ErrorIs(t, err, payroll.ErrForbidden)

	list, err := svc.ListByEmployeeAndYear(hrContext(), workerID, 2025)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	period, err := svc.GetByEmployeeAndPeriod(workerContext(workerID), workerID, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, generated.ID, period.ID)

	_, err = svc.GetByEmployeeAndPeriod(hrContext(), workerID, 2025, 4)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestPayrollService_Delete(t *testing.T) {
	svc, payrolls := newTestService(nil)
	generated, err := svc.Generate(hrContext(), marchRequest())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(workerContext(workerID), generated.ID), payroll.ErrForbidden)
	require.NoError(t, svc.Delete(hrContext(), generated.ID))
	assert.Empty(t, payrolls.records)
	assert.ErrorIs(t, svc.Delete(hrContext(), generated.ID), payroll.ErrPayrollRecordNotFound)
}

func TestPayrollService_ExportYear(t *testing.T) {
	svc, _ := newTestService(marchAttendance(workerID, 17, 10))
	_, err := svc.Generate(hrContext(), marchRequest())
	require.NoError(t, err)

	file, err := svc.ExportYear(workerContext(workerID), workerID, 2025)
	require.NoError(t, err)
	assert.Equal(t, "payroll_budi_santoso_2025.xlsx", file.Filename)
	assert.Equal(t, exportContentType, file.ContentType)

	book, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{exportSheet}, book.GetSheetList())

	month, err := book.GetCellValue(exportSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "2025-03", month)

	net, err := book.GetCellValue(exportSheet, "I3")
	require.NoError(t, err)
	assert.Equal(t, "9296.875", net)

	total, err := book.GetCellValue(exportSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Total", total)

	_, err = svc.ExportYear(workerContext(otherID), workerID, 2025)
	assert.ErrorIs(t, err, payroll.ErrForbidden)
}
