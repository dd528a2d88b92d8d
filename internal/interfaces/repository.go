// internal/interfaces/repository.go
package interfaces

import (
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// UserRepositoryInterface kullanıcı database işlemleri için interface
type UserRepositoryInterface interface {
	// Create yeni kullanıcı oluşturur
	Create(user *models.CreateUserRequest) (*models.User, error)

	// GetByEmail email ile kullanıcı bulur
	GetByEmail(email string) (*models.User, error)

	// GetByID ID ile kullanıcı bulur
	GetByID(id int) (*models.User, error)
}

// BalanceRepositoryInterface jeton bakiyesi database işlemleri için interface
type BalanceRepositoryInterface interface {
	// GetByUserID kullanıcının bakiyesini getirir (yoksa 0 ile oluşturur)
	GetByUserID(userID int) (*models.TokenBalance, error)

	// CreateBalance yeni bakiye oluşturur
	CreateBalance(userID int) (*models.TokenBalance, error)

	// GetHistory kullanıcının bakiye geçmişini getirir
	GetHistory(userID int, limit, offset int) ([]*models.TokenHistory, error)
}

// SongRepositoryInterface şarkı isteği database işlemleri için interface
type SongRepositoryInterface interface {
	// Create yeni şarkı isteği oluşturur
	Create(eventID int, req *models.CreateSongRequest) (*models.SongRequest, error)

	// GetByID ID ile şarkı isteği getirir
	GetByID(id int) (*models.SongRequest, error)

	// FindByEventAndTitle aynı etkinlikteki aynı başlıklı isteği bulur
	FindByEventAndTitle(eventID int, title string) (*models.SongRequest, error)

	// ListByEvent etkinliğin tüm şarkı isteklerini getirir
	ListByEvent(eventID int) ([]*models.SongRequest, error)

	// LeadingBid şarkıdaki en yüksek bid miktarını getirir (bid yoksa 0)
	LeadingBid(songID int) (int, error)
}

// BidRepositoryInterface bid database işlemleri için interface
type BidRepositoryInterface interface {
	// GetByID ID ile bid getirir
	GetByID(id string) (*models.Bid, error)

	// ListBySong şarkının bid geçmişini getirir
	ListBySong(songID int, limit, offset int) ([]*models.Bid, error)

	// ListByUser kullanıcının bid geçmişini getirir
	ListByUser(userID int, limit, offset int) ([]*models.Bid, error)
}

// CodeRepositoryInterface etkinlik giriş kodu database işlemleri için interface
type CodeRepositoryInterface interface {
	// CreateBatch kodları toplu olarak kaydeder
	CreateBatch(codes []*models.EventCode) error

	// GetByEventAndCode etkinlik + kod string'i ile kodu bulur
	GetByEventAndCode(eventID int, code string) (*models.EventCode, error)

	// ExistsInEvent kod string'i etkinlikte zaten var mı kontrol eder
	ExistsInEvent(eventID int, code string) (bool, error)

	// Consume kodu atomik olarak tüketir; kapasite dolmuşsa false döner
	Consume(codeID string) (bool, error)

	// Deactivate kodu devre dışı bırakır (idempotent)
	Deactivate(codeID string) error

	// ListByEvent etkinliğin tüm kodlarını getirir
	ListByEvent(eventID int) ([]*models.EventCode, error)
}

// AuditRepositoryInterface audit log database işlemleri için interface
type AuditRepositoryInterface interface {
	// Create yeni audit log oluşturur
	Create(log *models.AuditLog) error
}
