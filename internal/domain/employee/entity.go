package employee

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleHR       Role = "HR"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// CanManageEmployees reports whether the role may approve, reject and edit
// other employees.
func (r Role) CanManageEmployees() bool {
	return r == RoleHR || r == RoleAdmin
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Employee struct {
	ID           string
	FirstName    string
	LastName     string
	NationalID   *string
	Position     string
	Department   string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Role         Role
	Status       Status
	QRCode       *string
	QRRotatedAt  *time.Time
	ApprovedAt   *time.Time
	ApprovedBy   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employee) IsApproved() bool {
	return e.Status == StatusApproved
}

// Approve moves a PENDING employee to APPROVED and issues the first QR token.
func (e *Employee) Approve(approverID string, qrCode string, at time.Time) error {
	if e.Status != StatusPending {
		return ErrEmployeeNotPending
	}
	e.Status = StatusApproved
	e.ApprovedAt = &at
	e.ApprovedBy = &approverID
	e.QRCode = &qrCode
	e.QRRotatedAt = &at
	e.UpdatedAt = at
	return nil
}

// Reject moves a PENDING employee to REJECTED. Rejected employees never hold a QR token.
func (e *Employee) Reject(at time.Time) error {
	if e.Status != StatusPending {
		return ErrEmployeeNotPending
	}
	e.Status = StatusRejected
	e.QRCode = nil
	e.QRRotatedAt = nil
	e.UpdatedAt = at
	return nil
}

var qrCodeRegex = regexp.MustCompile(`^QR-[0-9A-F]{8}$`)

// NewQRCode mints a kiosk token of the form QR-XXXXXXXX.
func NewQRCode() string {
	return "QR-" + strings.ToUpper(uuid.NewString()[:8])
}

func IsQRCode(s string) bool {
	return qrCodeRegex.MatchString(s)
}
