package models

import "time"

// EventCode bir etkinliğe giriş kodunu temsil eder.
// Her başarılı doğrulamada CurrentUses artar; MaxUses dolduğunda veya
// ExpiresAt geçtiğinde kod kullanılamaz hale gelir.
type EventCode struct {
	ID          string     `json:"id" db:"id"` // UUID
	EventID     int        `json:"event_id" db:"event_id"`
	Code        string     `json:"code" db:"code"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	MaxUses     int        `json:"max_uses" db:"max_uses"` // 0 = sınırsız
	CurrentUses int        `json:"current_uses" db:"current_uses"`
	ExpiresAt   *time.Time `json:"expires_at" db:"expires_at"`
	CreatedBy   int        `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	EntryURL    string     `json:"entry_url,omitempty"` // QR payload, okunurken doldurulur
}

// CreateCodesRequest giriş kodu oluşturma isteği
type CreateCodesRequest struct {
	Quantity  int        `json:"quantity"`
	MaxUses   int        `json:"max_uses"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// ValidateCodeRequest kod doğrulama isteği
type ValidateCodeRequest struct {
	Code string `json:"code"`
}

// ValidateCodeResponse kod doğrulama yanıtı
type ValidateCodeResponse struct {
	Success bool   `json:"success"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// CodesResponse kod listesi yanıtı
type CodesResponse struct {
	Success bool         `json:"success"`
	Codes   []*EventCode `json:"codes"`
	Message string       `json:"message"`
}
