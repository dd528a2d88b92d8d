package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/utils"
)

// ErrorResponse standardized error response formatı
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      int    `json:"code"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

// RecoveryMiddleware panic recovery ve merkezi hata yanıtı.
// Panic durumunda stack trace loglanır, istemciye generic 500 döner.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error().
					Interface("panic", recovered).
					Str("stack", string(debug.Stack())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("client_ip", utils.GetClientIP(r)).
					Msg("🚨 Handler panikledi ama toparlandı")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(&ErrorResponse{
					Success:   false,
					Error:     "Beklenmeyen bir hata oluştu. Lütfen tekrar deneyin.",
					Code:      http.StatusInternalServerError,
					Timestamp: time.Now().Format(time.RFC3339),
					RequestID: w.Header().Get("X-Request-ID"),
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
