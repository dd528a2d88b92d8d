package handlers

import (
	"net/http"

	"github.com/onerilhan/go-songbid-api/internal/auth"
	"github.com/onerilhan/go-songbid-api/internal/middleware"
)

// userClaims context'ten JWT claims'i okur (AuthMiddleware sonrası)
func userClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*auth.Claims)
	return claims, ok
}
