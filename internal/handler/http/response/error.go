package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/auth"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/review"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/validator"
)

// attendanceCode names the rule an attendance request broke. Conflicting
// writes are checked first because they wrap the rule they lost to.
func attendanceCode(err error) (int, string, bool) {
	switch {
	case errors.Is(err, attendance.ErrConflictingWrite):
		return http.StatusConflict, "CONFLICTING_WRITE", true
	case errors.Is(err, attendance.ErrAlreadyCompletedToday):
		return http.StatusConflict, "ALREADY_COMPLETED_TODAY", true
	case errors.Is(err, attendance.ErrInvalidTimeOrder):
		return http.StatusUnprocessableEntity, "INVALID_TIME_ORDER", true
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		return http.StatusConflict, "ALREADY_CHECKED_IN", true
	case errors.Is(err, attendance.ErrNotCheckedIn):
		return http.StatusConflict, "NOT_CHECKED_IN", true
	case errors.Is(err, attendance.ErrNotAuthorized):
		return http.StatusForbidden, "NOT_AUTHORIZED", true
	}
	return 0, "", false
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A scan that was neither a check-in nor a check-out reports both causes
	var attempt *attendance.AttemptError
	if errors.As(err, &attempt) {
		status, code, ok := attendanceCode(err)
		if !ok {
			status, code = http.StatusConflict, "ATTENDANCE_REJECTED"
		}
		Error(w, status, code, "Attendance could not be recorded", map[string]string{
			"check_in":  attempt.CheckIn.Error(),
			"check_out": attempt.CheckOut.Error(),
		})
		return
	}

	if status, code, ok := attendanceCode(err); ok {
		Error(w, status, code, err.Error(), nil)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrAccountPending):
		Error(w, http.StatusForbidden, "ACCOUNT_PENDING", "Account is awaiting approval", nil)
	case errors.Is(err, auth.ErrAccountRejected):
		Error(w, http.StatusForbidden, "ACCOUNT_REJECTED", "Account registration was rejected", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUnknownIdentity):
		Error(w, http.StatusNotFound, "UNKNOWN_IDENTITY", "Identity does not match any employee", nil)
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrNationalIDExists):
		Conflict(w, "National ID already registered")
	case errors.Is(err, employee.ErrEmployeeNotPending):
		Conflict(w, "Employee is not awaiting approval")
	case errors.Is(err, employee.ErrCannotDeleteSelf):
		BadRequest(w, "Cannot delete your own employee record", nil)
	case errors.Is(err, employee.ErrQRCodeUnavailable):
		NotFound(w, "No QR code issued for this employee")
	case errors.Is(err, employee.ErrForbidden):
		Forbidden(w, "Not allowed to access this employee")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrForbidden):
		Forbidden(w, "Not allowed to access this attendance record")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrUnknownEmployee):
		Error(w, http.StatusNotFound, "UNKNOWN_EMPLOYEE", "Employee does not exist", nil)
	case errors.Is(err, payroll.ErrForbidden):
		Forbidden(w, "Not allowed to access this payroll record")

	// Review domain errors
	case errors.Is(err, review.ErrReviewNotFound):
		NotFound(w, "Review not found")
	case errors.Is(err, review.ErrForbidden):
		Forbidden(w, "Not allowed to access these reviews")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
