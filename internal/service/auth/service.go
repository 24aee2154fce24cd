package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/auth"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	employee.EmployeeRepository
	jwt.Service
}

func NewAuthService(employeeRepository employee.EmployeeRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (employee.EmployeeResponse, error) {
	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	nationalID := req.NationalID
	newEmployee := employee.Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		NationalID:   &nationalID,
		Position:     req.Position,
		Department:   req.Department,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hashed,
		Role:         employee.RoleEmployee,
		Status:       employee.StatusPending,
	}

	created, err := a.EmployeeRepository.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.InfoContext(ctx, "employee registered", "employee_id", created.ID, "email", created.Email)
	return employee.NewEmployeeResponse(created), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	emp, err := a.EmployeeRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	switch emp.Status {
	case employee.StatusPending:
		return auth.TokenResponse{}, auth.ErrAccountPending
	case employee.StatusRejected:
		return auth.TokenResponse{}, auth.ErrAccountRejected
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(emp.ID, emp.Email, emp.FullName(), emp.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Employee:    employee.NewEmployeeResponse(emp),
	}, nil
}

// IssueSSEToken implements auth.AuthService.
func (a *AuthServiceImpl) IssueSSEToken(ctx context.Context) (auth.SSETokenResponse, error) {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return auth.SSETokenResponse{}, err
	}

	token, expiresIn, err := a.Service.GenerateSSEToken(session.EmployeeID)
	if err != nil {
		return auth.SSETokenResponse{}, fmt.Errorf("failed to create sse token: %w", err)
	}
	return auth.SSETokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}

// EnsureAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := a.EmployeeRepository.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	hashed, err := a.hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := employee.Employee{
		FirstName:    "System",
		LastName:     "Administrator",
		Email:        email,
		PasswordHash: hashed,
		Role:         employee.RoleAdmin,
		Status:       employee.StatusApproved,
	}
	created, err := a.EmployeeRepository.Create(ctx, admin)
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	slog.InfoContext(ctx, "bootstrap admin created", "employee_id", created.ID, "email", created.Email)
	return nil
}
