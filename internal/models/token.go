package models

import "time"

// TokenBalance kullanıcının harcanabilir jeton bakiyesini temsil eder.
// Amount hiçbir zaman negatif olamaz; bakiyeyi aşan bir debit reddedilir.
type TokenBalance struct {
	UserID        int       `json:"user_id" db:"user_id"`
	Amount        int       `json:"amount" db:"amount"`
	LastUpdatedAt time.Time `json:"last_updated_at" db:"last_updated_at"`
}

// TokenHistory kullanıcının jeton bakiye geçmişini tutar
type TokenHistory struct {
	ID             int       `json:"id" db:"id"`
	UserID         int       `json:"user_id" db:"user_id"`
	PreviousAmount int       `json:"previous_amount" db:"previous_amount"`
	NewAmount      int       `json:"new_amount" db:"new_amount"`
	ChangeAmount   int       `json:"change_amount" db:"change_amount"` // +/- değişim miktarı
	Reason         string    `json:"reason" db:"reason"`               // "purchase", "credit", "bid"
	BidID          *string   `json:"bid_id" db:"bid_id"`               // İlgili bid ID (opsiyonel)
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// CreditRequest hesaba jeton yükleme isteği
type CreditRequest struct {
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

// DebitRequest hesaptan jeton düşme isteği
type DebitRequest struct {
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

// BalanceResponse bakiye mutasyonu yanıtı
type BalanceResponse struct {
	Success    bool   `json:"success"`
	NewBalance int    `json:"new_balance"`
	Message    string `json:"message"`
}
