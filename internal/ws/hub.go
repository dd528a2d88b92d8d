// Package ws, bid ve bakiye güncellemelerini bağlı istemcilere yayan
// WebSocket relay katmanıdır. Semantik fire-and-forget'tir: teslimat,
// sıralama ve acknowledgment garantisi yoktur; kapalı veya yavaş
// bağlantılar sessizce atlanır.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/models"
)

// Hub aktif bağlantıları, etkinlik abonelik setlerini ve kullanıcı
// başına tek bağlantı eşlemesini tutar.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]bool
	eventSubs map[int]map[*Client]bool
	userConns map[int]*Client
}

// NewHub yeni hub oluşturur
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]bool),
		eventSubs: make(map[int]map[*Client]bool),
		userConns: make(map[int]*Client),
	}
}

// Register bağlantıyı hub'a ekler.
// Kullanıcının önceki bağlantısı varsa yenisi onun yerini alır
// (kullanıcı başına tek bağlantı kuralı).
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = true

	if c.eventID != 0 {
		subs, ok := h.eventSubs[c.eventID]
		if !ok {
			subs = make(map[*Client]bool)
			h.eventSubs[c.eventID] = subs
		}
		subs[c] = true
	}

	if c.userID != 0 {
		if old, ok := h.userConns[c.userID]; ok && old != c {
			h.dropLocked(old)
		}
		h.userConns[c.userID] = c
	}

	log.Debug().
		Int("user_id", c.userID).
		Int("event_id", c.eventID).
		Int("total_clients", len(h.clients)).
		Msg("🔌 WebSocket bağlantısı kaydedildi")
}

// Unregister bağlantıyı hub'dan düşürür
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

// dropLocked bağlantıyı tüm eşlemelerden siler. h.mu yazma kilidi
// alınmış olmalıdır.
func (h *Hub) dropLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)

	if subs, ok := h.eventSubs[c.eventID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.eventSubs, c.eventID)
		}
	}

	if cur, ok := h.userConns[c.userID]; ok && cur == c {
		delete(h.userConns, c.userID)
	}

	c.closeSend()
}

// BroadcastToEvent etkinliğe abone tüm açık bağlantılara mesaj yollar.
// Gönderemeyen (kapalı/yavaş) bağlantılar sessizce düşürülür.
func (h *Hub) BroadcastToEvent(eventID int, msg *models.BroadcastMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("Broadcast mesajı serialize edilemedi")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.eventSubs[eventID]))
	for c := range h.eventSubs[eventID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	h.deliver(targets, data)
}

// SendToUser kullanıcıya eşlenmiş tek bağlantıya mesaj yollar.
// Bağlantı yoksa no-op.
func (h *Hub) SendToUser(userID int, msg *models.BroadcastMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("Broadcast mesajı serialize edilemedi")
		return
	}

	h.mu.RLock()
	c, ok := h.userConns[userID]
	h.mu.RUnlock()

	if !ok {
		return
	}
	h.deliver([]*Client{c}, data)
}

// BroadcastToAll tüm açık bağlantılara mesaj yollar
func (h *Hub) BroadcastToAll(msg *models.BroadcastMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("Broadcast mesajı serialize edilemedi")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	h.deliver(targets, data)
}

// deliver mesajı hedeflere non-blocking yollar; buffer'ı dolu olan
// bağlantı düşürülür (backpressure yok, fire-and-forget).
func (h *Hub) deliver(targets []*Client, data []byte) {
	var dropped []*Client
	for _, c := range targets {
		if !c.trySend(data) {
			dropped = append(dropped, c)
		}
	}

	if len(dropped) > 0 {
		h.mu.Lock()
		for _, c := range dropped {
			h.dropLocked(c)
		}
		h.mu.Unlock()
		log.Warn().Int("dropped", len(dropped)).Msg("⚠️ Yavaş WebSocket bağlantıları düşürüldü")
	}
}

// ClientCount aktif bağlantı sayısını döner
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown tüm bağlantıları kapatır
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		c.closeSend()
	}
	h.clients = make(map[*Client]bool)
	h.eventSubs = make(map[int]map[*Client]bool)
	h.userConns = make(map[int]*Client)

	log.Info().Msg("🔌 WebSocket hub kapatıldı")
}
