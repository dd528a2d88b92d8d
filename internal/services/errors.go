package services

import "errors"

// Servis katmanı sentinel hataları. Handler'lar errors.Is ile
// HTTP status kodlarına çevirir.
var (
	// ErrInvalidAmount sıfır veya negatif miktar
	ErrInvalidAmount = errors.New("miktar sıfırdan büyük olmalıdır")

	// ErrInsufficientTokens bakiyeyi aşan debit/bid
	ErrInsufficientTokens = errors.New("yetersiz jeton bakiyesi")

	// ErrBidTooLow aktif politika gereği en yüksek bid'i geçmeyen teklif
	ErrBidTooLow = errors.New("bid mevcut en yüksek teklifin üzerinde olmalıdır")

	// ErrSongNotFound şarkı isteği mevcut değil
	ErrSongNotFound = errors.New("şarkı isteği bulunamadı")

	// ErrCreditLimit tek seferlik jeton yükleme limitini aşan istek
	ErrCreditLimit = errors.New("tek seferde yüklenebilecek jeton limiti aşıldı")

	// ErrQueueFull bid kuyruğu dolu
	ErrQueueFull = errors.New("bid kuyruğu dolu, daha sonra tekrar deneyin")
)
