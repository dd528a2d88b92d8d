package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCORSMiddleware_Preflight, OPTIONS isteğinin 204 ile cevaplanıp
// handler'a geçmediğini test eder.
func TestCORSMiddleware_Preflight(t *testing.T) {
	// Arrange
	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	mw := CORSMiddleware(DefaultCORSConfig())(next)

	req := httptest.NewRequest("OPTIONS", "/api/v1/songs/7/bids", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()

	// Act
	mw.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, handlerCalled)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

// TestCORSMiddleware_UnknownOrigin, listede olmayan origin'e CORS header
// yazılmadığını test eder.
func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	// Arrange
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := CORSMiddleware(DefaultCORSConfig())(next)

	req := httptest.NewRequest("GET", "/api/v1/events/3/songs", nil)
	req.Header.Set("Origin", "http://kotu-site.example")
	rec := httptest.NewRecorder()

	// Act
	mw.ServeHTTP(rec, req)

	// Assert
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// TestOriginAllowed_Wildcard, "*.alan.com" girdisinin subdomain'leri
// kapsadığını test eder.
func TestOriginAllowed_Wildcard(t *testing.T) {
	allowed := []string{"*.songbid.app"}

	assert.True(t, originAllowed("https://event.songbid.app", allowed))
	assert.False(t, originAllowed("https://songbid.app.example", allowed))
	assert.False(t, originAllowed("https://other.example", allowed))
}

// TestSkipLogging, health ve websocket path'lerinin log dışı kaldığını test eder.
func TestSkipLogging(t *testing.T) {
	skip := DefaultLoggingConfig().SkipPaths

	assert.True(t, skipLogging("/health", skip))
	assert.True(t, skipLogging("/api/v1/ws", skip))
	assert.False(t, skipLogging("/api/v1/tokens/balance", skip))
}

// TestResponseWriter_ImplementsHijacker, logging wrapper'ının Hijacker
// olarak kullanılabildiğini test eder. WebSocket upgrade buna dayanır.
func TestResponseWriter_ImplementsHijacker(t *testing.T) {
	var w http.ResponseWriter = &responseWriter{ResponseWriter: httptest.NewRecorder()}

	_, ok := w.(http.Hijacker)
	assert.True(t, ok)
}

// TestRateLimitMiddleware_BurstExceeded, burst tüketilince isteklerin
// 429 ile reddedildiğini test eder.
func TestRateLimitMiddleware_BurstExceeded(t *testing.T) {
	// Arrange: küçük burst ile limiter
	cfg := DefaultRateLimitConfig()
	cfg.RequestsPerMinute = 60
	cfg.Burst = 2

	mw := NewRateLimitMiddleware(cfg).Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() int {
		req := httptest.NewRequest("POST", "/api/v1/songs/7/bids", nil)
		req.RemoteAddr = "10.0.0.9:54321"
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		return rec.Code
	}

	// Act & Assert: burst kadar istek geçer, sonrası reddedilir
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

// TestRateLimitMiddleware_SkipsHealth, health endpoint'inin sınırlamadan
// muaf olduğunu test eder.
func TestRateLimitMiddleware_SkipsHealth(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	cfg.Burst = 1

	mw := NewRateLimitMiddleware(cfg).Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/health", nil)
		req.RemoteAddr = "10.0.0.9:54321"
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
