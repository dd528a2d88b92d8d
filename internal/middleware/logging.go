package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/utils"
)

// responseWriter status code ve response boyutunu yakalar
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	responseSize int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.responseSize += int64(size)
	return size, err
}

// Hijack WebSocket upgrade'inin wrapper arkasında da çalışmasını sağlar.
// gorilla/websocket bağlantıyı devralmak için Hijacker'a ihtiyaç duyar.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer hijack desteklemiyor")
	}
	return hj.Hijack()
}

// LoggingConfig request logging ayarları
type LoggingConfig struct {
	SkipPaths []string // log'lanmayacak path'ler
}

// DefaultLoggingConfig varsayılan ayarlar.
// /health gürültü yapar; /api/v1/ws uzun ömürlü bağlantıdır ve
// "completed" log'u ancak bağlantı koptuğunda düşer, o yüzden ikisi de atlanır.
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		SkipPaths: []string{
			"/health",
			"/api/v1/ws",
		},
	}
}

// RequestLoggingMiddleware her HTTP isteğini request ID ile loglar
func RequestLoggingMiddleware(config *LoggingConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultLoggingConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipLogging(r.URL.Path, config.SkipPaths) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			requestID := uuid.New().String()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			wrapped.Header().Set("X-Request-ID", requestID)

			clientIP := utils.GetClientIP(r)

			log.Info().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("client_ip", clientIP).
				Msg("İstek alındı")

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)

			completionEvent(wrapped.statusCode).
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("client_ip", clientIP).
				Int("status_code", wrapped.statusCode).
				Int64("response_size", wrapped.responseSize).
				Dur("duration", duration).
				Msg("İstek tamamlandı")
		})
	}
}

// completionEvent status code'a göre log seviyesini seçer
func completionEvent(status int) *zerolog.Event {
	switch {
	case status >= 500:
		return log.Error()
	case status >= 400:
		return log.Warn()
	default:
		return log.Info()
	}
}

// skipLogging path'in atlanacak listede olup olmadığına bakar.
// "prefix*" girdileri prefix eşleşmesi yapar.
func skipLogging(path string, skipPaths []string) bool {
	for _, skip := range skipPaths {
		if path == skip {
			return true
		}
		if prefix, ok := strings.CutSuffix(skip, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}
	return false
}

// RequestLoggingMiddlewareWithDefaults varsayılan ayarlarla logging middleware döner
func RequestLoggingMiddlewareWithDefaults() func(http.Handler) http.Handler {
	return RequestLoggingMiddleware(DefaultLoggingConfig())
}
