package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/auth"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/handler/http/response"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/jwt"
)

// AuthRequired accepts only verified access tokens and attaches the caller's
// auth.Session to the request context. It must run after jwtauth.Verifier.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TokenTypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			employeeID, _ := claims["employee_id"].(string)
			role, _ := claims["role"].(string)
			if employeeID == "" || !employee.Role(role).IsValid() {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			email, _ := claims["email"].(string)
			name, _ := claims["name"].(string)

			ctx := auth.WithSession(r.Context(), auth.Session{
				EmployeeID: employeeID,
				Email:      email,
				Name:       name,
				Role:       employee.Role(role),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// SSETokenRequired authenticates event-stream requests from the ?token=
// query parameter, since EventSource cannot send headers.
func SSETokenRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			employeeID, err := jwtService.ValidateSSEToken(r.URL.Query().Get("token"))
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			ctx := auth.WithSession(r.Context(), auth.Session{
				EmployeeID: employeeID,
				Role:       employee.RoleEmployee,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
