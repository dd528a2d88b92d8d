package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// CodeHandler etkinlik giriş kodu HTTP isteklerini yönetir
type CodeHandler struct {
	codeService interfaces.CodeServiceInterface
}

// NewCodeHandler yeni handler oluşturur
func NewCodeHandler(codeService interfaces.CodeServiceInterface) *CodeHandler {
	return &CodeHandler{codeService: codeService}
}

// CreateCodes etkinlik için giriş kodu üretme endpoint'i (organizer)
func (h *CodeHandler) CreateCodes(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Yetkilendirme hatası. Lütfen tekrar giriş yapın.", http.StatusUnauthorized)
		return
	}

	eventID, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "Geçersiz etkinlik ID", http.StatusBadRequest)
		return
	}

	// JSON'u parse et
	var req models.CreateCodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Geçersiz JSON formatı", http.StatusBadRequest)
		return
	}

	codes, err := h.codeService.CreateCodes(eventID, req.Quantity, req.MaxUses, req.ExpiresAt, claims.UserID)
	if err != nil {
		log.Error().Err(err).Int("event_id", eventID).Int("quantity", req.Quantity).Msg("Kod üretimi başarısız")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Başarılı yanıt
	response := models.CodesResponse{
		Success: true,
		Codes:   codes,
		Message: "Giriş kodları başarıyla üretildi",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)

	log.Info().
		Int("event_id", eventID).
		Int("quantity", len(codes)).
		Int("actor_id", claims.UserID).
		Msg("🎟️ Giriş kodları üretildi (API)")
}

// ListCodes etkinliğin kodlarını listeler (organizer)
func (h *CodeHandler) ListCodes(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "Geçersiz etkinlik ID", http.StatusBadRequest)
		return
	}

	codes, err := h.codeService.ListCodes(eventID)
	if err != nil {
		log.Error().Err(err).Int("event_id", eventID).Msg("Kod listesi getirilemedi")
		http.Error(w, "Kod listesi alınamadı. Lütfen tekrar deneyin.", http.StatusInternalServerError)
		return
	}

	response := models.CodesResponse{
		Success: true,
		Codes:   codes,
		Message: "Kod listesi başarıyla getirildi",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)

	log.Debug().Int("event_id", eventID).Int("count", len(codes)).Msg("Kod listesi getirildi")
}

// ValidateCode giriş kodu doğrulama endpoint'i (public).
// Başarıda kodun kullanım sayısı artar.
func (h *CodeHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "Geçersiz etkinlik ID", http.StatusBadRequest)
		return
	}

	// JSON'u parse et
	var req models.ValidateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Geçersiz JSON formatı", http.StatusBadRequest)
		return
	}

	code := strings.TrimSpace(strings.ToUpper(req.Code))
	if code == "" {
		http.Error(w, "Giriş kodu gerekli", http.StatusBadRequest)
		return
	}

	valid, err := h.codeService.ValidateCode(eventID, code)
	if err != nil {
		log.Error().Err(err).Int("event_id", eventID).Msg("Kod doğrulama hatası")
		http.Error(w, "Kod doğrulanamadı. Lütfen tekrar deneyin.", http.StatusInternalServerError)
		return
	}

	response := models.ValidateCodeResponse{
		Success: true,
		Valid:   valid,
	}
	if valid {
		response.Message = "Giriş kodu geçerli"
	} else {
		response.Message = "Geçersiz veya süresi dolmuş giriş kodu"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)

	log.Info().
		Int("event_id", eventID).
		Bool("valid", valid).
		Msg("Giriş kodu doğrulandı")
}

// DeactivateCode kodu devre dışı bırakma endpoint'i (organizer, idempotent)
func (h *CodeHandler) DeactivateCode(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Yetkilendirme hatası. Lütfen tekrar giriş yapın.", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	codeID, exists := vars["id"]
	if !exists || codeID == "" {
		http.Error(w, "Kod ID parametresi gerekli", http.StatusBadRequest)
		return
	}

	ok, err := h.codeService.DeactivateCode(codeID, claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("code_id", codeID).Msg("Kod devre dışı bırakılamadı")
		http.Error(w, "Kod devre dışı bırakılamadı. Lütfen tekrar deneyin.", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"success": ok,
		"message": "Giriş kodu devre dışı bırakıldı",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)

	log.Info().
		Str("code_id", codeID).
		Int("actor_id", claims.UserID).
		Msg("Giriş kodu devre dışı bırakıldı")
}
