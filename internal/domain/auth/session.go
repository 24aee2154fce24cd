package auth

import (
	"context"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
)

// Session is the authenticated caller, resolved once by the HTTP middleware
// and carried through the request context.
type Session struct {
	EmployeeID string
	Email      string
	Name       string
	Role       employee.Role
}

// Can reports whether the session's role grants permission.
func (s Session) Can(permission employee.Permission) bool {
	return employee.HasPermission(s.Role, permission)
}

// CanAccess reports whether the caller may act on employeeID's data: either
// it is their own, or their role grants permission over everyone.
func (s Session) CanAccess(employeeID string, permission employee.Permission) bool {
	return s.EmployeeID == employeeID || s.Can(permission)
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns ErrUnauthenticated when no session was attached.
func SessionFromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	if !ok || s.EmployeeID == "" {
		return Session{}, ErrUnauthenticated
	}
	return s, nil
}
