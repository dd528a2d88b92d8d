package models

import "time"

// Bid bir şarkıya verilen jeton teklifini temsil eder.
// Oluşturulduktan sonra değiştirilemez; her bid hem geçmiş kaydıdır
// hem de sahibi olduğu SongRequest'in TotalTokens alanını artırır.
type Bid struct {
	ID        string    `json:"id" db:"id"` // UUID
	SongID    int       `json:"song_id" db:"song_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Amount    int       `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PlaceBidRequest bid verme isteği
type PlaceBidRequest struct {
	Amount int `json:"amount"`
}

// BidResponse bid verme yanıtı
type BidResponse struct {
	Success    bool   `json:"success"`
	Bid        *Bid   `json:"bid"`
	NewBalance int    `json:"new_balance"`
	Message    string `json:"message"`
}
