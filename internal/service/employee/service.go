package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/auth"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/database"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/metrics"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/sse"
	"golang.org/x/crypto/bcrypt"
)

// EventQRCodeRotated is published to an employee's stream after each rotation.
const EventQRCodeRotated = "qr_code.rotated"

type EmployeeServiceImpl struct {
	employeeRepo     employee.EmployeeRepository
	qrCache          employee.QRCodeCache
	hub              *sse.Hub
	transactor       database.Transactor
	metrics          *metrics.Metrics
	notifier         employee.DecisionNotifier
	rotationInterval time.Duration
	now              func() time.Time
}

// NewEmployeeService wires the employee directory. qrCache may be nil, in
// which case QR lookups always go to the database; a nil notifier sends
// nothing.
func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	qrCache employee.QRCodeCache,
	hub *sse.Hub,
	transactor database.Transactor,
	notifier employee.DecisionNotifier,
	m *metrics.Metrics,
	rotationInterval time.Duration,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:     employeeRepo,
		qrCache:          qrCache,
		hub:              hub,
		transactor:       transactor,
		notifier:         notifier,
		metrics:          m,
		rotationInterval: rotationInterval,
		now:              time.Now,
	}
}

// cacheTTL keeps a token resolvable slightly past its rotation.
func (s *EmployeeServiceImpl) cacheTTL() time.Duration {
	return 2 * s.rotationInterval
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !session.Can(employee.PermissionEmployeeViewAll) {
		return nil, employee.ErrForbidden
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}
	return responses, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !session.CanAccess(id, employee.PermissionEmployeeViewAll) {
		return employee.EmployeeResponse{}, employee.ErrForbidden
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !session.CanAccess(req.ID, employee.PermissionEmployeeManage) {
		return employee.EmployeeResponse{}, employee.ErrForbidden
	}
	if req.Role != nil && session.Role != employee.RoleAdmin {
		return employee.EmployeeResponse{}, employee.ErrForbidden
	}

	e, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// Credentials and administrator accounts are changed only by their owner or an ADMIN.
	if session.EmployeeID != req.ID && session.Role != employee.RoleAdmin {
		if e.Role == employee.RoleAdmin || req.Email != nil || req.Password != nil {
			return employee.EmployeeResponse{}, employee.ErrForbidden
		}
	}

	if req.FirstName != nil {
		e.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		e.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Position != nil {
		e.Position = *req.Position
	}
	if req.Department != nil {
		e.Department = *req.Department
	}
	if req.Email != nil {
		e.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		e.PhoneNumber = *req.PhoneNumber
	}
	if req.Role != nil {
		e.Role = employee.Role(*req.Role)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		e.PasswordHash = string(hash)
	}

	updated, err := s.employeeRepo.Update(ctx, e)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return err
	}
	if !session.Can(employee.PermissionEmployeeDelete) {
		return employee.ErrForbidden
	}
	if session.EmployeeID == id {
		return employee.ErrCannotDeleteSelf
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}

	if e.QRCode != nil {
		s.evictQRCode(ctx, *e.QRCode)
	}
	slog.InfoContext(ctx, "employee deleted", "employee_id", id, "deleted_by", session.EmployeeID)
	return nil
}

// Approve implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Approve(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !session.Can(employee.PermissionEmployeeApprove) {
		return employee.EmployeeResponse{}, employee.ErrForbidden
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := e.Approve(session.EmployeeID, employee.NewQRCode(), s.now()); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.employeeRepo.UpdateStatus(ctx, e); err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.cacheQRCode(ctx, *e.QRCode, e.ID)
	s.notifyDecision(ctx, e)
	slog.InfoContext(ctx, "employee approved", "employee_id", e.ID, "approved_by", session.EmployeeID)
	return employee.NewEmployeeResponse(e), nil
}

// Reject implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Reject(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !session.Can(employee.PermissionEmployeeApprove) {
		return employee.EmployeeResponse{}, employee.ErrForbidden
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := e.Reject(s.now()); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.employeeRepo.UpdateStatus(ctx, e); err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.notifyDecision(ctx, e)
	slog.InfoContext(ctx, "employee rejected", "employee_id", e.ID, "rejected_by", session.EmployeeID)
	return employee.NewEmployeeResponse(e), nil
}

// notifyDecision mails the registrant in the background; the decision is
// already committed, so a failed send is only logged.
func (s *EmployeeServiceImpl) notifyDecision(ctx context.Context, e employee.Employee) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.NotifyDecision(ctx, e); err != nil {
			slog.ErrorContext(ctx, "failed to send registration decision", "employee_id", e.ID, "error", err)
		}
	}()
}

// CurrentQRCode implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CurrentQRCode(ctx context.Context) (employee.QRCodeResponse, error) {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return employee.QRCodeResponse{}, err
	}

	e, err := s.employeeRepo.GetByID(ctx, session.EmployeeID)
	if err != nil {
		return employee.QRCodeResponse{}, err
	}
	if !e.IsApproved() || e.QRCode == nil || e.QRRotatedAt == nil {
		return employee.QRCodeResponse{}, employee.ErrQRCodeUnavailable
	}
	return s.qrCodeResponse(e.ID, *e.QRCode, *e.QRRotatedAt), nil
}

func (s *EmployeeServiceImpl) qrCodeResponse(employeeID, code string, rotatedAt time.Time) employee.QRCodeResponse {
	return employee.QRCodeResponse{
		EmployeeID:     employeeID,
		QRCode:         code,
		RotatedAt:      rotatedAt.Format(time.RFC3339),
		NextRotationAt: rotatedAt.Add(s.rotationInterval).Format(time.RFC3339),
	}
}

// SubscribeQRCode implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SubscribeQRCode(employeeID string) (<-chan sse.Event, func()) {
	return s.hub.Subscribe(employeeID)
}

type rotation struct {
	employeeID string
	oldCode    string
	newCode    string
}

// RotateQRCodes implements employee.EmployeeService.
func (s *EmployeeServiceImpl) RotateQRCodes(ctx context.Context) (int, error) {
	now := s.now()
	var rotations []rotation

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		holders, err := s.employeeRepo.ListApprovedWithQRCode(ctx)
		if err != nil {
			return err
		}
		for _, e := range holders {
			r := rotation{employeeID: e.ID, oldCode: *e.QRCode, newCode: employee.NewQRCode()}
			if err := s.employeeRepo.UpdateQRCode(ctx, e.ID, r.newCode, now); err != nil {
				if errors.Is(err, employee.ErrEmployeeNotFound) {
					continue
				}
				return err
			}
			rotations = append(rotations, r)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("rotate qr codes: %w", err)
	}

	for _, r := range rotations {
		s.evictQRCode(ctx, r.oldCode)
		s.cacheQRCode(ctx, r.newCode, r.employeeID)
		s.hub.Publish(sse.Event{
			Key:   r.employeeID,
			Event: EventQRCodeRotated,
			Data:  s.qrCodeResponse(r.employeeID, r.newCode, now),
		})
	}
	s.metrics.QRRotated(len(rotations))

	return len(rotations), nil
}

// ResolveIdentity implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ResolveIdentity(ctx context.Context, identity string) (employee.Employee, error) {
	identity = strings.TrimSpace(identity)

	if code := strings.ToUpper(identity); employee.IsQRCode(code) {
		return s.resolveQRCode(ctx, code)
	}

	if _, err := uuid.Parse(identity); err != nil {
		return employee.Employee{}, employee.ErrUnknownIdentity
	}
	e, err := s.employeeRepo.GetByID(ctx, identity)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrUnknownIdentity
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func (s *EmployeeServiceImpl) resolveQRCode(ctx context.Context, code string) (employee.Employee, error) {
	if s.qrCache != nil {
		employeeID, err := s.qrCache.Lookup(ctx, code)
		switch {
		case err == nil:
			e, err := s.employeeRepo.GetByID(ctx, employeeID)
			if err == nil && e.QRCode != nil && *e.QRCode == code {
				return e, nil
			}
			// stale entry; fall through to the database
		case !errors.Is(err, employee.ErrQRCodeCacheMiss):
			slog.WarnContext(ctx, "qr cache lookup failed", "error", err)
		}
	}

	e, err := s.employeeRepo.GetByQRCode(ctx, code)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrUnknownIdentity
		}
		return employee.Employee{}, err
	}
	s.cacheQRCode(ctx, code, e.ID)
	return e, nil
}

func (s *EmployeeServiceImpl) cacheQRCode(ctx context.Context, code, employeeID string) {
	if s.qrCache == nil {
		return
	}
	if err := s.qrCache.Put(ctx, code, employeeID, s.cacheTTL()); err != nil {
		slog.WarnContext(ctx, "failed to cache qr code", "employee_id", employeeID, "error", err)
	}
}

func (s *EmployeeServiceImpl) evictQRCode(ctx context.Context, code string) {
	if s.qrCache == nil {
		return
	}
	if err := s.qrCache.Evict(ctx, code); err != nil {
		slog.WarnContext(ctx, "failed to evict qr code", "error", err)
	}
}
