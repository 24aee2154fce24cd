package employee

import (
	"context"

	"github.com/hrmanagement/hrm-backend-go/internal/pkg/sse"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// ListEmployees lists employees with filters (HR/ADMIN only)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// GetEmployee returns the caller's own record, or any record for HR/ADMIN
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes the employee and everything that belongs to them (ADMIN only)
	DeleteEmployee(ctx context.Context, id string) error

	Approve(ctx context.Context, id string) (EmployeeResponse, error)
	Reject(ctx context.Context, id string) (EmployeeResponse, error)

	// CurrentQRCode returns the caller's live kiosk token
	CurrentQRCode(ctx context.Context) (QRCodeResponse, error)

	// SubscribeQRCode streams rotation events for one employee
	SubscribeQRCode(employeeID string) (<-chan sse.Event, func())

	// RotateQRCodes replaces the token of every approved employee that holds one
	RotateQRCodes(ctx context.Context) (int, error)

	// ResolveIdentity maps an employee id or a live QR token to an employee
	ResolveIdentity(ctx context.Context, identity string) (Employee, error)
}
