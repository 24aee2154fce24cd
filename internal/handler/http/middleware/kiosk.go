package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/hrmanagement/hrm-backend-go/internal/handler/http/response"
)

const KioskKeyHeader = "X-Kiosk-Key"

// KioskKeyRequired guards the scanner endpoint with a shared device key.
func KioskKeyRequired(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get(KioskKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
				response.Unauthorized(w, "Invalid kiosk key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
