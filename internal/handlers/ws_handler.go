package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/auth"
	"github.com/onerilhan/go-songbid-api/internal/ws"
)

// upgrader HTTP bağlantısını WebSocket'e yükseltir.
// Origin kontrolü CORS middleware ile aynı politikayı izler (izin verilir).
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSHandler WebSocket bağlantılarını yönetir
type WSHandler struct {
	hub *ws.Hub
}

// NewWSHandler yeni handler oluşturur
func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect WebSocket upgrade endpoint'i.
// JWT ?token= query parametresi ile doğrulanır (WS client'ları header
// gönderemez); ?event_id= verilirse bağlantı etkinlik kanalına abone olur.
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		http.Error(w, "token parametresi gerekli", http.StatusUnauthorized)
		return
	}

	claims, err := auth.ValidateToken(tokenString)
	if err != nil {
		log.Warn().Err(err).Msg("WS token doğrulama başarısız")
		http.Error(w, "Geçersiz token", http.StatusUnauthorized)
		return
	}

	eventID := 0
	if eventIDStr := r.URL.Query().Get("event_id"); eventIDStr != "" {
		parsed, err := strconv.Atoi(eventIDStr)
		if err != nil || parsed <= 0 {
			http.Error(w, "Geçersiz event_id", http.StatusBadRequest)
			return
		}
		eventID = parsed
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade hatasında yanıt zaten yazıldı
		log.Error().Err(err).Int("user_id", claims.UserID).Msg("WebSocket upgrade başarısız")
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID, eventID)
	h.hub.Register(client)
	client.Start()

	log.Info().
		Int("user_id", claims.UserID).
		Int("event_id", eventID).
		Int("client_count", h.hub.ClientCount()).
		Msg("🔌 WebSocket bağlantısı kuruldu")
}
