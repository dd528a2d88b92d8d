package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// Kod alfabesi: görsel olarak karışan I, O, 0, 1 hariç
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// codeLength üretilen kodların uzunluğu
const codeLength = 6

// maxCollisionRetries aynı etkinlikte çakışma durumunda yeniden deneme sayısı
const maxCollisionRetries = 10

// CodeService etkinlik giriş kapısı (event gate) business logic'i
type CodeService struct {
	codeRepo  interfaces.CodeRepositoryInterface
	auditRepo interfaces.AuditRepositoryInterface
}

// NewCodeService yeni service oluşturur
func NewCodeService(codeRepo interfaces.CodeRepositoryInterface, auditRepo interfaces.AuditRepositoryInterface) *CodeService {
	return &CodeService{
		codeRepo:  codeRepo,
		auditRepo: auditRepo,
	}
}

// CreateCodes etkinlik için rastgele giriş kodları üretir.
// Kodlar aynı etkinlik içinde çakışma kontrolünden geçer; çakışmada
// yeniden üretilir. Üretim aksiyonu audit log'a yazılır.
func (s *CodeService) CreateCodes(eventID, quantity, maxUses int, expiresAt *time.Time, actorID int) ([]*models.EventCode, error) {
	if quantity <= 0 || quantity > 500 {
		return nil, fmt.Errorf("geçersiz kod adedi: %d (1-500 arası olmalı)", quantity)
	}
	if maxUses < 0 {
		return nil, fmt.Errorf("max_uses negatif olamaz")
	}

	codes := make([]*models.EventCode, 0, quantity)
	seen := make(map[string]struct{}, quantity) // aynı batch içi çakışma kontrolü

	for i := 0; i < quantity; i++ {
		code, err := s.uniqueCode(eventID, seen)
		if err != nil {
			return nil, err
		}
		seen[code] = struct{}{}

		codes = append(codes, &models.EventCode{
			ID:        uuid.NewString(),
			EventID:   eventID,
			Code:      code,
			IsActive:  true,
			MaxUses:   maxUses,
			ExpiresAt: expiresAt,
			CreatedBy: actorID,
		})
	}

	if err := s.codeRepo.CreateBatch(codes); err != nil {
		return nil, fmt.Errorf("kodlar kaydedilemedi: %w", err)
	}

	// QR payload URL'lerini doldur
	for _, c := range codes {
		c.EntryURL = fmt.Sprintf("/events/%d/songs?code=%s", eventID, c.Code)
	}

	s.audit(actorID, "create_codes", "event", fmt.Sprintf("%d", eventID),
		fmt.Sprintf("%d kod üretildi (max_uses=%d)", quantity, maxUses))

	log.Info().
		Int("event_id", eventID).
		Int("quantity", quantity).
		Int("actor_id", actorID).
		Msg("🎟️ Giriş kodları üretildi")

	return codes, nil
}

// ValidateCode kodu doğrular. Başarıda current_uses atomik olarak artar;
// kapasitesi dolan kod bir sonraki çağrıda açıkça deaktive edilmeden de
// kullanılamaz hale gelir. Başarısızlıkta kod durumu değişmez.
func (s *CodeService) ValidateCode(eventID int, code string) (bool, error) {
	record, err := s.codeRepo.GetByEventAndCode(eventID, code)
	if err != nil {
		return false, fmt.Errorf("kod doğrulama hatası: %w", err)
	}
	if record == nil {
		return false, nil
	}
	if !record.IsActive {
		return false, nil
	}
	if record.MaxUses > 0 && record.CurrentUses >= record.MaxUses {
		return false, nil
	}
	if record.ExpiresAt != nil && time.Now().After(*record.ExpiresAt) {
		return false, nil
	}

	// Ön kontroller geçti; asıl tüketim atomik UPDATE guard'ı ile yapılır.
	// Eşzamanlı istekler arasında kapasite aşımı burada engellenir.
	consumed, err := s.codeRepo.Consume(record.ID)
	if err != nil {
		return false, fmt.Errorf("kod tüketme hatası: %w", err)
	}

	return consumed, nil
}

// DeactivateCode kodu devre dışı bırakır. Zaten pasif bir kodu tekrar
// deaktive etmek de başarı sayılır (idempotent).
func (s *CodeService) DeactivateCode(codeID string, actorID int) (bool, error) {
	if err := s.codeRepo.Deactivate(codeID); err != nil {
		return false, fmt.Errorf("kod devre dışı bırakılamadı: %w", err)
	}

	s.audit(actorID, "deactivate_code", "event_code", codeID, "")
	return true, nil
}

// ListCodes etkinliğin kodlarını QR URL'leri ile getirir
func (s *CodeService) ListCodes(eventID int) ([]*models.EventCode, error) {
	codes, err := s.codeRepo.ListByEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("kod listesi alınamadı: %w", err)
	}
	for _, c := range codes {
		c.EntryURL = fmt.Sprintf("/events/%d/songs?code=%s", eventID, c.Code)
	}
	return codes, nil
}

// uniqueCode etkinlik içinde benzersiz bir kod üretir; çakışmada re-roll
func (s *CodeService) uniqueCode(eventID int, seen map[string]struct{}) (string, error) {
	for attempt := 0; attempt < maxCollisionRetries; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", fmt.Errorf("kod üretilemedi: %w", err)
		}

		if _, dup := seen[code]; dup {
			continue
		}

		exists, err := s.codeRepo.ExistsInEvent(eventID, code)
		if err != nil {
			return "", fmt.Errorf("kod çakışma kontrolü hatası: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("benzersiz kod üretilemedi (%d deneme)", maxCollisionRetries)
}

// randomCode alfabeden rastgele 6 karakterlik kod üretir
func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// audit aksiyon kaydı düşer; audit hatası ana akışı bozmaz
func (s *CodeService) audit(actorID int, action, entityType, entityID, details string) {
	if s.auditRepo == nil {
		return
	}
	err := s.auditRepo.Create(&models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	})
	if err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Audit log yazılamadı")
	}
}
