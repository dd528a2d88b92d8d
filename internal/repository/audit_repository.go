package repository

import (
	"database/sql"
	"fmt"

	"github.com/onerilhan/go-songbid-api/internal/models"
)

// AuditRepository organizatör aksiyon logları database işlemleri
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository yeni repository oluşturur
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create yeni audit log oluşturur
func (r *AuditRepository) Create(log *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (actor_id, action, entity_type, entity_id, details)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, log.ActorID, log.Action, log.EntityType, log.EntityID, log.Details)
	if err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}
