package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
	"github.com/onerilhan/go-songbid-api/internal/services"
)

// BidHandler bid HTTP isteklerini yönetir
type BidHandler struct {
	bidQueue       *services.BidQueue
	bidRepo        interfaces.BidRepositoryInterface
	songRepo       interfaces.SongRepositoryInterface
	balanceService interfaces.BalanceServiceInterface
}

// NewBidHandler yeni handler oluşturur
func NewBidHandler(bidQueue *services.BidQueue, bidRepo interfaces.BidRepositoryInterface, songRepo interfaces.SongRepositoryInterface, balanceService interfaces.BalanceServiceInterface) *BidHandler {
	return &BidHandler{
		bidQueue:       bidQueue,
		bidRepo:        bidRepo,
		songRepo:       songRepo,
		balanceService: balanceService,
	}
}

// PlaceBid şarkıya bid verme endpoint'i (queue ile async, protected)
func (h *BidHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	// Context'ten user bilgilerini al
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Yetkilendirme hatası. Lütfen tekrar giriş yapın.", http.StatusUnauthorized)
		return
	}

	songID, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "Geçersiz şarkı ID", http.StatusBadRequest)
		return
	}

	// JSON'u parse et
	var req models.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Geçersiz JSON formatı", http.StatusBadRequest)
		return
	}

	// Job'ı queue'ya ekle (async) ve sonucu bekle
	resultChan := h.bidQueue.AddJob(claims.UserID, songID, req.Amount)
	result := <-resultChan

	if result.Error != nil {
		status := bidErrorStatus(result.Error)
		if status == http.StatusInternalServerError {
			log.Error().Err(result.Error).Int("user_id", claims.UserID).Int("song_id", songID).Msg("Bid başarısız")
			http.Error(w, "Bid işlenemedi. Lütfen tekrar deneyin.", status)
			return
		}
		http.Error(w, result.Error.Error(), status)
		return
	}

	// Güncel bakiyeyi oku (yanıt için; bid zaten commit edildi)
	newBalance := 0
	if balance, err := h.balanceService.GetBalance(claims.UserID); err == nil {
		newBalance = balance.Amount
	}

	// Başarılı yanıt
	response := models.BidResponse{
		Success:    true,
		Bid:        result.Bid,
		NewBalance: newBalance,
		Message:    "Bid başarıyla uygulandı",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)

	log.Info().
		Int("user_id", claims.UserID).
		Int("song_id", songID).
		Int("amount", req.Amount).
		Str("bid_id", result.Bid.ID).
		Msg("🎯 Bid queue ile başarılı")
}

// GetSongBids şarkının bid geçmişini döner
func (h *BidHandler) GetSongBids(w http.ResponseWriter, r *http.Request) {
	songID, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "Geçersiz şarkı ID", http.StatusBadRequest)
		return
	}

	limit, offset := parsePagination(r)

	bids, err := h.bidRepo.ListBySong(songID, limit, offset)
	if err != nil {
		log.Error().Err(err).Int("song_id", songID).Msg("Bid geçmişi getirilemedi")
		http.Error(w, "Bid geçmişi alınamadı. Lütfen tekrar deneyin.", http.StatusInternalServerError)
		return
	}

	// En yüksek bid (sunum için; bid yoksa 0)
	leading, err := h.songRepo.LeadingBid(songID)
	if err != nil {
		log.Warn().Err(err).Int("song_id", songID).Msg("En yüksek bid okunamadı")
		leading = 0
	}

	// Standardized success response
	response := map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"bids":        bids,
			"leading_bid": leading,
			"limit":       limit,
			"offset":      offset,
			"count":       len(bids),
		},
		"message": "Bid geçmişi başarıyla getirildi",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)

	log.Debug().Int("song_id", songID).Int("count", len(bids)).Msg("Şarkı bid geçmişi getirildi")
}

// GetUserBids kullanıcının kendi bid geçmişini döner (protected)
func (h *BidHandler) GetUserBids(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Yetkilendirme hatası. Lütfen tekrar giriş yapın.", http.StatusUnauthorized)
		return
	}

	limit, offset := parsePagination(r)

	bids, err := h.bidRepo.ListByUser(claims.UserID, limit, offset)
	if err != nil {
		log.Error().Err(err).Int("user_id", claims.UserID).Msg("Kullanıcı bid geçmişi getirilemedi")
		http.Error(w, "Bid geçmişi alınamadı. Lütfen tekrar deneyin.", http.StatusInternalServerError)
		return
	}

	// Standardized success response
	response := map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"bids":   bids,
			"limit":  limit,
			"offset": offset,
			"count":  len(bids),
		},
		"message": "Bid geçmişi başarıyla getirildi",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)

	log.Info().
		Int("user_id", claims.UserID).
		Int("count", len(bids)).
		Msg("Kullanıcı bid geçmişi getirildi")
}

// bidErrorStatus servis hatasını HTTP status koduna çevirir
func bidErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrBidTooLow),
		errors.Is(err, services.ErrInsufficientTokens):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrSongNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrQueueFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
