package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	GetByQRCode(ctx context.Context, qrCode string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	// UpdateStatus persists an approval decision. It only touches rows that
	// are still PENDING and returns ErrEmployeeNotPending otherwise.
	UpdateStatus(ctx context.Context, e Employee) error
	Delete(ctx context.Context, id string) error
	ListApprovedWithQRCode(ctx context.Context) ([]Employee, error)
	UpdateQRCode(ctx context.Context, id string, qrCode string, rotatedAt time.Time) error
}

// QRCodeCache indexes live QR tokens to employee ids so kiosk scans skip the database.
type QRCodeCache interface {
	Put(ctx context.Context, qrCode string, employeeID string, ttl time.Duration) error
	// Lookup returns ErrQRCodeCacheMiss when the token is not cached.
	Lookup(ctx context.Context, qrCode string) (string, error)
	Evict(ctx context.Context, qrCode string) error
}

// DecisionNotifier tells a registrant that their account was approved or rejected.
type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, e Employee) error
}
