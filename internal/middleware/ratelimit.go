package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/onerilhan/go-songbid-api/internal/utils"
)

// RateLimitConfig IP başına istek sınırlama ayarları
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	TrustedIPs        []string // sınırlamadan muaf IP'ler (LB health check vb.)
	SkipPaths         []string
	Message           string
}

// DefaultRateLimitConfig varsayılan ayarlar.
// Bid trafiği patlamalı gelir: bir şarkı öne geçtiğinde aynı telefondan
// saniyeler içinde art arda bid düşer. Burst bu yüzden dakikalık
// ortalamaya göre yüksek tutulur.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerMinute: 120,
		Burst:             30,
		TrustedIPs:        []string{},
		SkipPaths: []string{
			"/health",
			"/api/v1/ws",
		},
		Message: "Çok fazla istek gönderildi, lütfen biraz bekleyin.",
	}
}

// clientLimiter tek bir IP'nin token bucket'ı
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware IP bazlı token bucket rate limiter
type RateLimitMiddleware struct {
	config  *RateLimitConfig
	trusted map[string]struct{}
	clients map[string]*clientLimiter
	mu      sync.Mutex
}

// NewRateLimitMiddleware yeni rate limiter oluşturur ve temizlik
// goroutine'ini başlatır
func NewRateLimitMiddleware(config *RateLimitConfig) *RateLimitMiddleware {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	trusted := make(map[string]struct{}, len(config.TrustedIPs))
	for _, ip := range config.TrustedIPs {
		trusted[ip] = struct{}{}
	}

	rlm := &RateLimitMiddleware{
		config:  config,
		trusted: trusted,
		clients: make(map[string]*clientLimiter),
	}

	go rlm.evictIdleClients()

	return rlm
}

// Handler middleware fonksiyonunu döner
func (rlm *RateLimitMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rlm.pathSkipped(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := utils.GetClientIP(r)
			if _, ok := rlm.trusted[clientIP]; ok {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining := rlm.allow(clientIP)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rlm.config.RequestsPerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Msg("⛔ Rate limit aşıldı")
				rlm.reject(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allow IP'nin bucket'ından token düşmeyi dener
func (rlm *RateLimitMiddleware) allow(ip string) (bool, int) {
	rlm.mu.Lock()
	defer rlm.mu.Unlock()

	cl, ok := rlm.clients[ip]
	if !ok {
		perSecond := rate.Limit(float64(rlm.config.RequestsPerMinute) / 60.0)
		cl = &clientLimiter{
			limiter: rate.NewLimiter(perSecond, rlm.config.Burst),
		}
		rlm.clients[ip] = cl
	}
	cl.lastSeen = time.Now()

	allowed := cl.limiter.Allow()

	remaining := int(cl.limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	return allowed, remaining
}

func (rlm *RateLimitMiddleware) pathSkipped(path string) bool {
	for _, skip := range rlm.config.SkipPaths {
		if path == skip {
			return true
		}
	}
	return false
}

// reject 429 cevabını yazar
func (rlm *RateLimitMiddleware) reject(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   rlm.config.Message,
		"code":    http.StatusTooManyRequests,
	})
}

// evictIdleClients uzun süre istek atmayan IP'lerin bucket'larını siler.
// Etkinlik bitince yüzlerce katılımcı IP'si geride kalır, map büyümesin.
func (rlm *RateLimitMiddleware) evictIdleClients() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rlm.mu.Lock()
		cutoff := time.Now().Add(-15 * time.Minute)
		for ip, cl := range rlm.clients {
			if cl.lastSeen.Before(cutoff) {
				delete(rlm.clients, ip)
			}
		}
		log.Debug().Int("active_clients", len(rlm.clients)).Msg("Rate limiter temizliği yapıldı")
		rlm.mu.Unlock()
	}
}

// RateLimitMiddlewareWithDefaults varsayılan ayarlarla middleware döner
func RateLimitMiddlewareWithDefaults() func(http.Handler) http.Handler {
	return NewRateLimitMiddleware(DefaultRateLimitConfig()).Handler()
}
