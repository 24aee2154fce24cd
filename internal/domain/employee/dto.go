package employee

import (
	"strings"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	FullName    string  `json:"full_name"`
	NationalID  *string `json:"national_id,omitempty"`
	Position    string  `json:"position"`
	Department  string  `json:"department"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	Role        Role    `json:"role"`
	Status      Status  `json:"status"`
	ApprovedAt  *string `json:"approved_at,omitempty"`
	ApprovedBy  *string `json:"approved_by,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:          e.ID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		FullName:    e.FullName(),
		NationalID:  e.NationalID,
		Position:    e.Position,
		Department:  e.Department,
		Email:       e.Email,
		PhoneNumber: e.PhoneNumber,
		Role:        e.Role,
		Status:      e.Status,
		ApprovedBy:  e.ApprovedBy,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
	if e.ApprovedAt != nil {
		s := e.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	return resp
}

type QRCodeResponse struct {
	EmployeeID     string `json:"employee_id"`
	QRCode         string `json:"qr_code"`
	RotatedAt      string `json:"rotated_at"`
	NextRotationAt string `json:"next_rotation_at"`
}

type EmployeeFilter struct {
	Status     *Status
	Department *string
	Search     *string
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !f.Status.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of PENDING, APPROVED, REJECTED",
		})
	}
	if f.Search != nil && len(*f.Search) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "search",
			Message: "search must not exceed 100 characters",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest changes only the fields that are set. Role changes are
// restricted to ADMIN by the service.
type UpdateEmployeeRequest struct {
	ID          string  `json:"-"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Position    *string `json:"position,omitempty"`
	Department  *string `json:"department,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Password    *string `json:"password,omitempty"`
	Role        *string `json:"role,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil {
		if validator.IsEmpty(*r.FirstName) {
			errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name must not be empty"})
		} else if len(*r.FirstName) > 100 {
			errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name must not exceed 100 characters"})
		}
	}
	if r.LastName != nil {
		if validator.IsEmpty(*r.LastName) {
			errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name must not be empty"})
		} else if len(*r.LastName) > 100 {
			errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name must not exceed 100 characters"})
		}
	}
	if r.Position != nil && len(*r.Position) > 100 {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "position must not exceed 100 characters"})
	}
	if r.Department != nil && len(*r.Department) > 100 {
		errs = append(errs, validator.ValidationError{Field: "department", Message: "department must not exceed 100 characters"})
	}
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
		if !validator.IsValidEmail(*r.Email) {
			errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
		}
	}
	if r.PhoneNumber != nil && !validator.IsValidPhoneNumber(*r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{Field: "phone_number", Message: "phone_number must be 10-15 digits"})
	}
	if r.Password != nil && len(*r.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters long"})
	}
	if r.Role != nil && !Role(*r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of EMPLOYEE, HR, ADMIN"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpdateEmployeeRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Position == nil && r.Department == nil &&
		r.Email == nil && r.PhoneNumber == nil && r.Password == nil && r.Role == nil
}
