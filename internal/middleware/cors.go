package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// CORSConfig tarayıcı kökenli istekler için CORS ayarları.
// Etkinlik katılımcıları sıralama ekranını telefonlarındaki web
// arayüzünden açar; API bu yüzden browser origin'lerine cevap vermek zorunda.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int // preflight cache süresi (saniye)
}

// DefaultCORSConfig development ayarları: lokal frontend portlarına izin verir
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins: []string{
			"http://localhost:3000", // katılımcı web arayüzü (dev)
			"http://127.0.0.1:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Authorization",
			"Content-Type",
			"Accept",
		},
		AllowCredentials: true,
		MaxAge:           3600,
	}
}

// ProductionCORSConfig sadece verilen origin'lere izin verir.
// Wildcard origin production'da asla kullanılmaz.
func ProductionCORSConfig(origins []string) *CORSConfig {
	c := DefaultCORSConfig()
	c.AllowedOrigins = origins
	c.MaxAge = 600
	return c
}

// CORSMiddleware CORS header'larını set eder ve preflight'ı cevaplar
func CORSMiddleware(config *CORSConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultCORSConfig()
	}

	// Header değerleri istek başına değişmez, bir kez hesapla
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && originAllowed(origin, config.AllowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				if config.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			// Preflight: header'ları yaz ve isteği burada bitir
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)

				log.Debug().
					Str("origin", origin).
					Str("requested_method", r.Header.Get("Access-Control-Request-Method")).
					Msg("CORS preflight cevaplandı")

				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed origin'in izinli listede olup olmadığına bakar.
// "*.alan.com" girdileri subdomain'leri kapsar.
func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == origin {
			return true
		}
		if suffix, ok := strings.CutPrefix(a, "*."); ok {
			if strings.HasSuffix(origin, "."+suffix) {
				return true
			}
		}
	}
	return false
}

// CORSMiddlewareWithDefaults varsayılan ayarlarla CORS middleware döner
func CORSMiddlewareWithDefaults() func(http.Handler) http.Handler {
	return CORSMiddleware(DefaultCORSConfig())
}
