package middleware

import (
	"fmt"
	"net/http"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/auth"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/handler/http/response"
)

// RequirePermission checks if the caller's role has a specific permission
func RequirePermission(permission employee.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := auth.SessionFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !session.Can(permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but role is '%s'", permission, session.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
