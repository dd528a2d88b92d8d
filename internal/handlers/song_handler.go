package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/auth"
	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// SongHandler şarkı isteği ve sıralama HTTP isteklerini yönetir
type SongHandler struct {
	rankingService interfaces.RankingServiceInterface
	codeService    interfaces.CodeServiceInterface
}

// NewSongHandler yeni handler oluşturur
func NewSongHandler(rankingService interfaces.RankingServiceInterface, codeService interfaces.CodeServiceInterface) *SongHandler {
	return &SongHandler{
		rankingService: rankingService,
		codeService:    codeService,
	}
}

// RequestSong yeni şarkı isteği endpoint'i (protected).
// Aynı etkinlikte aynı başlık zaten varsa mevcut kayıt döner.
func (h *SongHandler) RequestSong(w http.ResponseWriter, r *http.Request) {
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
	var req models.CreateSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Geçersiz JSON formatı", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, "Şarkı başlığı gerekli", http.StatusBadRequest)
		return
	}

	song, err := h.rankingService.RequestSong(eventID, claims.UserID, &req)
	if err != nil {
		log.Error().Err(err).Int("event_id", eventID).Str("title", req.Title).Msg("Şarkı isteği oluşturulamadı")
		http.Error(w, "Şarkı isteği oluşturulamadı. Lütfen tekrar deneyin.", http.StatusInternalServerError)
		return
	}

	// Başarılı yanıt
	response := map[string]interface{}{
		"success": true,
		"data":    song,
		"message": "Şarkı isteği başarıyla oluşturuldu",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)

	log.Info().
		Int("event_id", eventID).
		Int("song_id", song.ID).
		Str("title", song.Title).
		Int("user_id", claims.UserID).
		Msg("🎵 Şarkı isteği oluşturuldu")
}

// GetRanking etkinliğin şarkı sıralamasını döner.
// Giriş yapmış kullanıcılar doğrudan erişir; anonim erişim ?code= ile
// giriş kodu doğrulaması gerektirir (QR akışı).
func (h *SongHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "Geçersiz etkinlik ID", http.StatusBadRequest)
		return
	}

	// Bearer token varsa kapıdan geçmiş sayılır
	if !bearerAuthenticated(r) {
		code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("code")))
		if code == "" {
			http.Error(w, "Giriş kodu gerekli. ?code= parametresi ile gönderin.", http.StatusUnauthorized)
			return
		}

		valid, err := h.codeService.ValidateCode(eventID, code)
		if err != nil {
			log.Error().Err(err).Int("event_id", eventID).Msg("Giriş kodu doğrulanamadı")
			http.Error(w, "Giriş kodu doğrulanamadı. Lütfen tekrar deneyin.", http.StatusInternalServerError)
			return
		}
		if !valid {
			http.Error(w, "Geçersiz veya süresi dolmuş giriş kodu", http.StatusForbidden)
			return
		}
	}

	songs, err := h.rankingService.Rank(eventID)
	if err != nil {
		log.Error().Err(err).Int("event_id", eventID).Msg("Sıralama getirilemedi")
		http.Error(w, "Sıralama alınamadı. Lütfen tekrar deneyin.", http.StatusInternalServerError)
		return
	}

	response := models.RankingResponse{
		Success: true,
		EventID: eventID,
		Songs:   songs,
		Message: "Şarkı sıralaması başarıyla getirildi",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)

	log.Debug().
		Int("event_id", eventID).
		Int("song_count", len(songs)).
		Msg("Şarkı sıralaması getirildi")
}

// pathInt Gorilla Mux path parametresini int olarak parse eder
func pathInt(r *http.Request, name string) (int, error) {
	vars := mux.Vars(r)
	value, exists := vars[name]
	if !exists {
		return 0, errors.New("parametre eksik: " + name)
	}
	return strconv.Atoi(value)
}

// bearerAuthenticated Authorization header'ındaki JWT geçerli mi bakar.
// Opsiyonel auth için kullanılır; middleware zinciri dışındaki route'larda.
func bearerAuthenticated(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return false
	}
	_, err := auth.ValidateToken(parts[1])
	return err == nil
}
