package models

import "time"

// Trend değerleri (sadece sunum amaçlı ipucu)
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// SongRequest bir etkinlikte istenen şarkıyı ve biriken jetonlarını temsil eder.
// TotalTokens her kabul edilen bid ile artar; şarkı üzerindeki bid'lerin
// toplamına her zaman eşit olmalıdır.
type SongRequest struct {
	ID          int        `json:"id" db:"id"`
	EventID     int        `json:"event_id" db:"event_id"`
	Title       string     `json:"title" db:"title"`
	Artist      string     `json:"artist" db:"artist"`
	TotalTokens int        `json:"total_tokens" db:"total_tokens"`
	BidderCount int        `json:"bidder_count" db:"bidder_count"`
	Trend       string     `json:"trend"` // okunurken hesaplanır, DB'de tutulmaz
	LastBidAt   *time.Time `json:"last_bid_at" db:"last_bid_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// CreateSongRequest şarkı isteği oluşturma body'si
type CreateSongRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// RankingResponse bir etkinliğin sıralanmış şarkı listesi yanıtı
type RankingResponse struct {
	Success bool           `json:"success"`
	EventID int            `json:"event_id"`
	Songs   []*SongRequest `json:"songs"`
	Message string         `json:"message"`
}
