package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/auth"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/metrics"
)

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	policy         payroll.Policy
	metrics        *metrics.Metrics
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	policy payroll.Policy,
	m *metrics.Metrics,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		policy:         policy,
		metrics:        m,
	}
}

func (s *PayrollServiceImpl) authorizeRead(ctx context.Context, employeeID string) error {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return err
	}
	if !session.CanAccess(employeeID, employee.PermissionPayrollViewAll) {
		return payroll.ErrForbidden
	}
	return nil
}

func (s *PayrollServiceImpl) authorizeWrite(ctx context.Context) error {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return err
	}
	if !session.Can(employee.PermissionPayrollGenerate) {
		return payroll.ErrForbidden
	}
	return nil
}

// Generate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.PayrollResponse, error) {
	if err := s.authorizeWrite(ctx); err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.PayrollResponse{}, payroll.ErrUnknownEmployee
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	from, to := attendance.MonthRange(req.Year, req.Month)
	records, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, emp.ID, from, to)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to list attendance for payroll: %w", err)
	}

	params := req.Resolve(s.policy)
	breakdown := Calculate(params, records)

	saved, err := s.payrollRepo.Upsert(ctx, payroll.Record{
		EmployeeID:     emp.ID,
		Year:           req.Year,
		Month:          req.Month,
		BaseSalary:     params.BaseSalary,
		TotalWorkHours: breakdown.TotalWorkHours,
		OvertimeHours:  breakdown.OvertimeHours,
		OvertimePay:    breakdown.OvertimePay,
		Bonus:          params.Bonus,
		GrossSalary:    breakdown.GrossSalary,
		Deductions:     breakdown.Deductions,
		NetSalary:      breakdown.NetSalary,
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	name := emp.FullName()
	saved.EmployeeName = &name

	s.metrics.PayrollGenerated()
	slog.InfoContext(ctx, "payroll generated",
		"employee_id", emp.ID,
		"year", req.Year,
		"month", req.Month,
		"net_salary", breakdown.NetSalary.String(),
	)
	return payroll.NewPayrollResponse(saved), nil
}

// GetByID implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetByID(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	rec, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := s.authorizeRead(ctx, rec.EmployeeID); err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(rec), nil
}

// GetByEmployeeAndPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, year, month int) (payroll.PayrollResponse, error) {
	if err := s.authorizeRead(ctx, employeeID); err != nil {
		return payroll.PayrollResponse{}, err
	}

	rec, err := s.payrollRepo.GetByEmployeeAndPeriod(ctx, employeeID, year, month)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(rec), nil
}

// ListByEmployeeAndYear implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]payroll.PayrollResponse, error) {
	if err := s.authorizeRead(ctx, employeeID); err != nil {
		return nil, err
	}

	records, err := s.payrollRepo.ListByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}
	return toResponses(records), nil
}

// ListByEmployee implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.PayrollResponse, error) {
	if err := s.authorizeRead(ctx, employeeID); err != nil {
		return nil, err
	}

	records, err := s.payrollRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toResponses(records), nil
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.authorizeWrite(ctx); err != nil {
		return err
	}
	return s.payrollRepo.Delete(ctx, id)
}

// ExportYear implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportYear(ctx context.Context, employeeID string, year int) (payroll.ExportFile, error) {
	if err := s.authorizeRead(ctx, employeeID); err != nil {
		return payroll.ExportFile{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.ExportFile{}, payroll.ErrUnknownEmployee
		}
		return payroll.ExportFile{}, err
	}

	records, err := s.payrollRepo.ListByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		return payroll.ExportFile{}, err
	}

	content, err := renderYear(emp.FullName(), year, records)
	if err != nil {
		return payroll.ExportFile{}, fmt.Errorf("failed to export payroll: %w", err)
	}

	return payroll.ExportFile{
		Filename:    fmt.Sprintf("payroll_%s_%d.xlsx", strings.ToLower(emp.FirstName+"_"+emp.LastName), year),
		ContentType: exportContentType,
		Content:     content,
	}, nil
}

func toResponses(records []payroll.Record) []payroll.PayrollResponse {
	out := make([]payroll.PayrollResponse, 0, len(records))
	for _, r := range records {
		out = append(out, payroll.NewPayrollResponse(r))
	}
	return out
}
