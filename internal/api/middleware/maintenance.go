package middleware

import (
	"net/http"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
)

// MaintenanceMessage is the body of requests refused during maintenance.
const MaintenanceMessage = "The service is currently under maintenance."

// Maintenance refuses every mutating request with 503 while enabled.
// Reads keep working.
func Maintenance(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				shared.RespondWithError(w, r, http.StatusServiceUnavailable, MaintenanceMessage)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
