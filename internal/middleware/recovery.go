// In: internal/middleware/recovery.go

package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/iyunix/lexbrief/internal/dtos"
	"github.com/iyunix/lexbrief/internal/services"
)

// RecoverPanic turns a handler panic into a JSON 500 so the client always
// gets a parseable error body.
func RecoverPanic(logger services.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					w.Header().Set("Connection", "close")
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(dtos.ErrorResponseDTO{Error: "Something went wrong on our end."})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
