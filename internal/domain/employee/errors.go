package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrNationalIDExists   = errors.New("national id already registered")
	ErrEmployeeNotPending = errors.New("employee is not awaiting approval")
	ErrUnknownIdentity    = errors.New("identity does not match any employee")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own employee record")
	ErrForbidden          = errors.New("not allowed to access this employee")
	ErrQRCodeUnavailable  = errors.New("no QR code issued for this employee")
	ErrQRCodeCacheMiss    = errors.New("qr code not cached")
)
