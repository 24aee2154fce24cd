package payroll

import "errors"

var (
	ErrPayrollRecordNotFound = errors.New("payroll record not found")
	ErrUnknownEmployee       = errors.New("payroll employee does not exist")
	ErrForbidden             = errors.New("not allowed to access this payroll record")
)
