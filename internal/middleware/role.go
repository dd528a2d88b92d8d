package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/auth"
)

// RequireRole belirtilen rollerden birine sahip kullanıcıları geçirir.
// AuthMiddleware'den sonra zincire eklenmelidir; claims context'te
// bulunamazsa 401 döner. Giriş kodu üretme/listeleme gibi organizatör
// aksiyonları bu middleware ile korunur.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles)+1)
	for _, role := range roles {
		allowed[role] = true
	}
	allowed["admin"] = true // admin her zaman geçer

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(UserContextKey).(*auth.Claims)
			if !ok {
				log.Warn().
					Str("path", r.URL.Path).
					Msg("Role kontrolü: claims bulunamadı")
				sendRoleError(w, http.StatusUnauthorized, "Yetkilendirme gerekli")
				return
			}

			if !allowed[claims.Role] {
				log.Warn().
					Int("user_id", claims.UserID).
					Str("role", claims.Role).
					Str("path", r.URL.Path).
					Msg("Role kontrolü: yetkisiz erişim denemesi")
				sendRoleError(w, http.StatusForbidden, "Bu işlem için yetkiniz yok")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// sendRoleError standardized JSON hata yanıtı
func sendRoleError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
		"code":    statusCode,
	})
}
