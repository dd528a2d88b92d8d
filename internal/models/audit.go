package models

import "time"

// AuditLog organizatör aksiyonlarının (kod oluşturma/devre dışı bırakma) kaydı
type AuditLog struct {
	ID         int       `json:"id" db:"id"`
	ActorID    int       `json:"actor_id" db:"actor_id"`
	Action     string    `json:"action" db:"action"` // "create_codes", "deactivate_code"
	EntityType string    `json:"entity_type" db:"entity_type"`
	EntityID   string    `json:"entity_id" db:"entity_id"`
	Details    string    `json:"details" db:"details"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
