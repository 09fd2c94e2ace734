package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"bakery-backend/pkg/utils"
)

// PanicRecovery converts a handler panic into a 500 so one bad request
// cannot take the server down.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				log.Printf("[HTTP] panic on %s %s: %v\n%s", r.Method, r.URL.Path, v, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
