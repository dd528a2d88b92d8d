package repository

import (
	"database/sql"
	"fmt"

	"github.com/onerilhan/go-songbid-api/internal/models"
)

// CodeRepository etkinlik giriş kodu database işlemleri
type CodeRepository struct {
	db *sql.DB
}

// NewCodeRepository yeni repository oluşturur
func NewCodeRepository(db *sql.DB) *CodeRepository {
	return &CodeRepository{db: db}
}

// CreateBatch kodları toplu olarak kaydeder
func (r *CodeRepository) CreateBatch(codes []*models.EventCode) error {
	query := `
		INSERT INTO event_codes (id, event_id, code, is_active, max_uses, current_uses, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7)
		RETURNING created_at
	`

	for _, c := range codes {
		err := r.db.QueryRow(query,
			c.ID, c.EventID, c.Code, c.IsActive, c.MaxUses, c.ExpiresAt, c.CreatedBy,
		).Scan(&c.CreatedAt)
		if err != nil {
			return fmt.Errorf("giriş kodu kaydedilemedi: %w", err)
		}
	}

	return nil
}

// GetByEventAndCode etkinlik + kod string'i ile kodu bulur.
// Bulunamazsa (nil, nil) döner; doğrulama akışı "yok" durumunu hata saymaz.
func (r *CodeRepository) GetByEventAndCode(eventID int, code string) (*models.EventCode, error) {
	query := `
		SELECT id, event_id, code, is_active, max_uses, current_uses, expires_at, created_by, created_at
		FROM event_codes
		WHERE event_id = $1 AND code = $2
	`

	var c models.EventCode
	err := r.db.QueryRow(query, eventID, code).Scan(
		&c.ID,
		&c.EventID,
		&c.Code,
		&c.IsActive,
		&c.MaxUses,
		&c.CurrentUses,
		&c.ExpiresAt,
		&c.CreatedBy,
		&c.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("giriş kodu arama hatası: %w", err)
	}

	return &c, nil
}

// ExistsInEvent kod string'i etkinlikte zaten var mı kontrol eder
func (r *CodeRepository) ExistsInEvent(eventID int, code string) (bool, error) {
	query := `
		SELECT EXISTS(SELECT 1 FROM event_codes WHERE event_id = $1 AND code = $2)
	`

	var exists bool
	if err := r.db.QueryRow(query, eventID, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("kod çakışma kontrolü hatası: %w", err)
	}

	return exists, nil
}

// Consume kodu atomik olarak tüketir. WHERE guard'ı sayesinde kapasitesi
// dolmuş bir kod eşzamanlı isteklerde de fazladan tüketilemez.
func (r *CodeRepository) Consume(codeID string) (bool, error) {
	query := `
		UPDATE event_codes
		SET current_uses = current_uses + 1
		WHERE id = $1
		  AND is_active = TRUE
		  AND (max_uses = 0 OR current_uses < max_uses)
		  AND (expires_at IS NULL OR expires_at > NOW())
	`

	result, err := r.db.Exec(query, codeID)
	if err != nil {
		return false, fmt.Errorf("kod tüketme hatası: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("kod tüketme sonucu okunamadı: %w", err)
	}

	return affected == 1, nil
}

// Deactivate kodu devre dışı bırakır. Zaten pasif bir kod için de
// hata dönmez (idempotent).
func (r *CodeRepository) Deactivate(codeID string) error {
	query := `
		UPDATE event_codes
		SET is_active = FALSE
		WHERE id = $1
	`

	if _, err := r.db.Exec(query, codeID); err != nil {
		return fmt.Errorf("kod devre dışı bırakılamadı: %w", err)
	}

	return nil
}

// ListByEvent etkinliğin tüm kodlarını getirir
func (r *CodeRepository) ListByEvent(eventID int) ([]*models.EventCode, error) {
	query := `
		SELECT id, event_id, code, is_active, max_uses, current_uses, expires_at, created_by, created_at
		FROM event_codes
		WHERE event_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("kod listesi sorgusu hatası: %w", err)
	}
	defer rows.Close()

	var codes []*models.EventCode
	for rows.Next() {
		var c models.EventCode
		err := rows.Scan(
			&c.ID,
			&c.EventID,
			&c.Code,
			&c.IsActive,
			&c.MaxUses,
			&c.CurrentUses,
			&c.ExpiresAt,
			&c.CreatedBy,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("kod listesi scan hatası: %w", err)
		}
		codes = append(codes, &c)
	}

	return codes, nil
}
