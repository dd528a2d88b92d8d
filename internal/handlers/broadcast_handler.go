package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// BroadcastHandler server-to-relay mesaj girişini yönetir
type BroadcastHandler struct {
	notifier interfaces.Notifier
}

// NewBroadcastHandler yeni handler oluşturur
func NewBroadcastHandler(notifier interfaces.Notifier) *BroadcastHandler {
	return &BroadcastHandler{notifier: notifier}
}

// Publish mesajı relay'e iletir (fire-and-forget).
// type alanı zorunludur; event_id / user_id hedefi belirler, ikisi de
// yoksa mesaj tüm bağlantılara gider.
func (h *BroadcastHandler) Publish(w http.ResponseWriter, r *http.Request) {
	// Sadece POST metoduna izin ver
	if r.Method != http.MethodPost {
		http.Error(w, "Sadece POST metoduna izin verilir", http.StatusMethodNotAllowed)
		return
	}

	// JSON'u parse et
	var msg models.BroadcastMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "Geçersiz JSON formatı", http.StatusBadRequest)
		return
	}

	if msg.Type == "" {
		http.Error(w, "type alanı gerekli", http.StatusBadRequest)
		return
	}

	// Hedefe göre yönlendir
	switch {
	case msg.UserID > 0:
		h.notifier.SendToUser(msg.UserID, &msg)
	case msg.EventID > 0:
		h.notifier.BroadcastToEvent(msg.EventID, &msg)
	default:
		h.notifier.BroadcastToAll(&msg)
	}

	// Teslimat garantisi yok; kabul edildi demek yeterli
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})

	log.Debug().
		Str("type", msg.Type).
		Int("event_id", msg.EventID).
		Int("user_id", msg.UserID).
		Msg("📢 Broadcast mesajı relay'e iletildi")
}
