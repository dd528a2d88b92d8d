package models

// Broadcast mesaj tipleri
const (
	MessageTypeEventUpdate = "event_update"
	MessageTypeUserUpdate  = "user_update"
	MessageTypeSystem      = "system"
)

// BroadcastMessage WebSocket üzerinden taşınan mesaj zarfı.
// Type alanı zorunludur; Type'sız mesajlar ingress endpoint'inde
// 400 ile reddedilir.
type BroadcastMessage struct {
	Type    string      `json:"type"`
	EventID int         `json:"event_id,omitempty"`
	UserID  int         `json:"user_id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventUpdatePayload bir bid sonrası etkinlik kanalına yayınlanan payload
type EventUpdatePayload struct {
	SongID      int    `json:"song_id"`
	Title       string `json:"title"`
	TotalTokens int    `json:"total_tokens"`
	BidderCount int    `json:"bidder_count"`
	Trend       string `json:"trend"`
}

// UserUpdatePayload bakiye değişiminde kullanıcıya gönderilen payload
type UserUpdatePayload struct {
	Balance int    `json:"balance"`
	Reason  string `json:"reason"`
}
