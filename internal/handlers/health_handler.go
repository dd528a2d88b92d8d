package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/onerilhan/go-songbid-api/internal/ws"
)

// HealthHandler servis sağlık kontrolünü yönetir
type HealthHandler struct {
	database *sql.DB
	hub      *ws.Hub
}

// NewHealthHandler yeni handler oluşturur
func NewHealthHandler(database *sql.DB, hub *ws.Hub) *HealthHandler {
	return &HealthHandler{database: database, hub: hub}
}

// Check database bağlantısını ve relay durumunu raporlar
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK

	if err := h.database.Ping(); err != nil {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":     status,
		"timestamp":  time.Now().Format(time.RFC3339),
		"ws_clients": h.hub.ClientCount(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(response)
}
