package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// Connect PostgreSQL bağlantı pool'unu açar ve doğrular.
// Pool boyutu bid worker'larının eşzamanlı transaction sayısına göre
// ayarlanır: her worker aynı anda en fazla bir transaction tutar,
// kalan bağlantılar okuma (sıralama, geçmiş) istekleri içindir.
func Connect(dsn string) (*sql.DB, error) {
	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("veritabanı açılırken hata: %w", err)
	}

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(10)
	database.SetConnMaxLifetime(30 * time.Minute)

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("veritabanına ping atılamadı: %w", err)
	}

	log.Info().
		Int("max_open_conns", 25).
		Msg("✅ PostgreSQL bağlantı pool'u hazır")

	return database, nil
}
