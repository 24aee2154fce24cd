package auth

import (
	"strings"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	NationalID      string `json:"national_id"`
	Position        string `json:"position"`
	Department      string `json:"department"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name is required"})
	} else if len(r.FirstName) > 100 {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name must not exceed 100 characters"})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name is required"})
	} else if len(r.LastName) > 100 {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name must not exceed 100 characters"})
	}

	if !validator.IsValidNationalID(r.NationalID) {
		errs = append(errs, validator.ValidationError{Field: "national_id", Message: "national_id must be 11 digits and not start with 0"})
	}

	if len(r.Position) > 100 {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "position must not exceed 100 characters"})
	}
	if len(r.Department) > 100 {
		errs = append(errs, validator.ValidationError{Field: "department", Message: "department must not exceed 100 characters"})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if len(r.Email) > 254 || !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}

	if !validator.IsEmpty(r.PhoneNumber) && !validator.IsValidPhoneNumber(r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{Field: "phone_number", Message: "phone_number must be 10-15 digits"})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters long"})
	} else if len(r.Password) > 72 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must not exceed 72 characters"})
	}
	if r.ConfirmPassword != r.Password {
		errs = append(errs, validator.ValidationError{Field: "confirm_password", Message: "confirm_password must match password"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	AccessToken string                    `json:"access_token"`
	TokenType   string                    `json:"token_type"`
	ExpiresAt   int64                     `json:"expires_at"`
	Employee    employee.EmployeeResponse `json:"employee"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
