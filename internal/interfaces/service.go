// internal/interfaces/service.go
package interfaces

import (
	"time"

	"github.com/onerilhan/go-songbid-api/internal/models"
)

// BalanceServiceInterface jeton defteri business logic için interface
type BalanceServiceInterface interface {
	// GetBalance thread-safe bakiye okuma
	GetBalance(userID int) (*models.TokenBalance, error)

	// Credit kullanıcının hesabına jeton yükler
	Credit(userID int, req *models.CreditRequest) (*models.TokenBalance, error)

	// Debit kullanıcının hesabından jeton düşer
	Debit(userID int, req *models.DebitRequest) (*models.TokenBalance, error)

	// GetHistory kullanıcının bakiye geçmişini getirir
	GetHistory(userID int, limit, offset int) ([]*models.TokenHistory, error)
}

// BidServiceInterface bid işleme business logic için interface
type BidServiceInterface interface {
	// PlaceBid bid'i doğrular ve tek bir atomik işlemde uygular
	PlaceBid(userID, songID, amount int) (*models.Bid, error)
}

// RankingServiceInterface şarkı sıralama görünümü için interface
type RankingServiceInterface interface {
	// Rank etkinliğin şarkılarını toplam jetona göre azalan sıralar
	Rank(eventID int) ([]*models.SongRequest, error)

	// RequestSong ilk istekte yeni şarkı oluşturur, varsa mevcut kaydı döner
	RequestSong(eventID, userID int, req *models.CreateSongRequest) (*models.SongRequest, error)
}

// CodeServiceInterface etkinlik giriş kapısı için interface
type CodeServiceInterface interface {
	// CreateCodes etkinlik için rastgele giriş kodları üretir
	CreateCodes(eventID, quantity, maxUses int, expiresAt *time.Time, actorID int) ([]*models.EventCode, error)

	// ValidateCode kodu doğrular; başarıda kullanım sayısını artırır
	ValidateCode(eventID int, code string) (bool, error)

	// DeactivateCode kodu devre dışı bırakır (idempotent)
	DeactivateCode(codeID string, actorID int) (bool, error)

	// ListCodes etkinliğin kodlarını getirir
	ListCodes(eventID int) ([]*models.EventCode, error)
}

// Notifier servislerin relay'e bildirim göndermesi için interface.
// Fire-and-forget semantiği: teslimat garantisi yoktur, hata dönmez.
type Notifier interface {
	// BroadcastToEvent etkinliğe abone tüm bağlantılara mesaj yollar
	BroadcastToEvent(eventID int, msg *models.BroadcastMessage)

	// SendToUser kullanıcıya bağlı tek bağlantıya mesaj yollar (yoksa no-op)
	SendToUser(userID int, msg *models.BroadcastMessage)

	// BroadcastToAll tüm açık bağlantılara mesaj yollar
	BroadcastToAll(msg *models.BroadcastMessage)
}

// RankingCacheInterface leaderboard cache'i için interface (redis ya da no-op)
type RankingCacheInterface interface {
	// Get cache'ten sıralamayı okur; yoksa (nil, false) döner
	Get(eventID int) ([]*models.SongRequest, bool)

	// Set sıralamayı kısa TTL ile cache'ler
	Set(eventID int, songs []*models.SongRequest)

	// Invalidate etkinliğin cache girdisini düşürür
	Invalidate(eventID int)
}
