package auth

import (
	"context"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
)

type AuthService interface {
	// Register creates a PENDING employee account; it cannot log in until approved.
	Register(ctx context.Context, req RegisterRequest) (employee.EmployeeResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// IssueSSEToken returns a short-lived token for the caller's event streams.
	IssueSSEToken(ctx context.Context) (SSETokenResponse, error)
	// EnsureAdmin creates an approved ADMIN with the given credentials if no
	// account uses that email yet.
	EnsureAdmin(ctx context.Context, email, password string) error
}
