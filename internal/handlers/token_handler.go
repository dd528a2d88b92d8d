package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/auth"
	"github.com/onerilhan/go-songbid-api/internal/middleware"
	"github.com/onerilhan/go-songbid-api/internal/models"
	"github.com/onerilhan/go-songbid-api/internal/services"
)

// TokenHandler jeton defteri HTTP isteklerini yönetir
type TokenHandler struct {
	balanceService *services.BalanceService
}

// NewTokenHandler yeni handler oluşturur
func NewTokenHandler(balanceService *services.BalanceService) *TokenHandler {
	return &TokenHandler{balanceService: balanceService}
}

// GetBalance kullanıcının mevcut jeton bakiyesini döner (protected)
func (h *TokenHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	// Sadece GET metoduna izin ver
	if r.Method != http.MethodGet {
		http.Error(w, "Geçersiz HTTP metodu", http.StatusMethodNotAllowed)
		return
	}

	// Context'ten user bilgilerini al
	claims, ok := r.Context().Value(middleware.UserContextKey).(*auth.Claims)
	if !ok {
		http.Error(w, "Yetkilendirme hatası. Lütfen tekrar giriş yapın.", http.StatusUnauthorized)
		return
	}

	// Kullanıcının bakiyesini getir
	balance, err := h.balanceService.GetBalance(claims.UserID)
	if err != nil {
		log.Error().Err(err).Int("user_id", claims.UserID).Msg("Bakiye getirilemedi")
		http.Error(w, "Bakiye bilgisi alınamadı. Lütfen tekrar deneyin.", http.StatusInternalServerError)
		return
	}

	// Standardized success response
	response := map[string]interface{}{
		"success": true,
		"data":    balance,
		"message": "Jeton bakiyesi başarıyla getirildi",
	}

	// Başarılı yanıt
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)

	log.Info().Int("user_id", claims.UserID).Int("balance", balance.Amount).Msg("Jeton bakiyesi getirildi")
}

// Purchase kullanıcının hesabına jeton yükler (protected)
func (h *TokenHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	// Sadece POST metoduna izin ver
	if r.Method != http.MethodPost {
		http.Error(w, "Sadece POST metoduna izin verilir", http.StatusMethodNotAllowed)
		return
	}

	// Context'ten user bilgilerini al
	claims, ok := r.Context().Value(middleware.UserContextKey).(*auth.Claims)
	if !ok {
		http.Error(w, "Yetkilendirme hatası. Lütfen tekrar giriş yapın.", http.StatusUnauthorized)
		return
	}

	// JSON'u parse et
	var req models.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Geçersiz JSON formatı", http.StatusBadRequest)
		return
	}

	// Jetonu yükle
	balance, err := h.balanceService.Credit(claims.UserID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrCreditLimit) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Int("user_id", claims.UserID).Int("amount", req.Amount).Msg("Jeton yükleme başarısız")
		http.Error(w, "Jeton yüklenemedi. Lütfen tekrar deneyin.", http.StatusInternalServerError)
		return
	}

	// Başarılı yanıt
	response := models.BalanceResponse{
		Success:    true,
		NewBalance: balance.Amount,
		Message:    "Jeton başarıyla yüklendi",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)

	log.Info().
		Int("user_id", claims.UserID).
		Int("amount", req.Amount).
		Int("new_balance", balance.Amount).
		Msg("💰 Jeton yüklendi")
}

// Debit kullanıcının hesabından jeton düşer (protected)
func (h *TokenHandler) Debit(w http.ResponseWriter, r *http.Request) {
	// Sadece POST metoduna izin ver
	if r.Method != http.MethodPost {
		http.Error(w, "Sadece POST metoduna izin verilir", http.StatusMethodNotAllowed)
		return
	}

	// Context'ten user bilgilerini al
	claims, ok := r.Context().Value(middleware.UserContextKey).(*auth.Claims)
	if !ok {
		http.Error(w, "Yetkilendirme hatası. Lütfen tekrar giriş yapın.", http.StatusUnauthorized)
		return
	}

	// JSON'u parse et
	var req models.DebitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Geçersiz JSON formatı", http.StatusBadRequest)
		return
	}

	// Jetonu düş
	balance, err := h.balanceService.Debit(claims.UserID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrInsufficientTokens) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Int("user_id", claims.UserID).Int("amount", req.Amount).Msg("Jeton düşme başarısız")
		http.Error(w, "Jeton düşülemedi. Lütfen tekrar deneyin.", http.StatusInternalServerError)
		return
	}

	// Başarılı yanıt
	response := models.BalanceResponse{
		Success:    true,
		NewBalance: balance.Amount,
		Message:    "Jeton başarıyla düşüldü",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)

	log.Info().
		Int("user_id", claims.UserID).
		Int("amount", req.Amount).
		Int("new_balance", balance.Amount).
		Msg("Jeton düşüldü")
}

// GetHistory kullanıcının jeton hareket geçmişi endpoint'i (protected)
func (h *TokenHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	// Sadece GET metoduna izin ver
	if r.Method != http.MethodGet {
		http.Error(w, "Geçersiz HTTP metodu", http.StatusMethodNotAllowed)
		return
	}

	// Context'ten user bilgilerini al
	claims, ok := r.Context().Value(middleware.UserContextKey).(*auth.Claims)
	if !ok {
		http.Error(w, "Yetkilendirme hatası. Lütfen tekrar giriş yapın.", http.StatusUnauthorized)
		return
	}

	// Query parameters (pagination)
	limit, offset := parsePagination(r)

	// Jeton geçmişini getir
	history, err := h.balanceService.GetHistory(claims.UserID, limit, offset)
	if err != nil {
		log.Error().Err(err).Int("user_id", claims.UserID).Msg("Jeton geçmişi getirilemedi")
		http.Error(w, "Jeton geçmişi alınamadı. Lütfen tekrar deneyin.", http.StatusInternalServerError)
		return
	}

	// Standardized success response
	response := map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"history": history,
			"limit":   limit,
			"offset":  offset,
			"count":   len(history),
		},
		"message": "Jeton geçmişi başarıyla getirildi",
	}

	// Başarılı yanıt
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)

	log.Info().
		Int("user_id", claims.UserID).
		Int("count", len(history)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("Jeton geçmişi getirildi")
}

// parsePagination limit/offset query parametrelerini parse eder
func parsePagination(r *http.Request) (int, int) {
	limit := 10
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset >= 0 {
			offset = parsedOffset
		}
	}

	return limit, offset
}
