package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init global zerolog logger'ı ortama göre yapılandırır.
// Development'ta renkli console çıktısı, diğer ortamlarda stdout'a JSON.
// Log seviyesi LOG_LEVEL env değişkeni ile değiştirilebilir.
func Init(env string) {
	zerolog.TimeFieldFormat = time.RFC3339

	zerolog.SetGlobalLevel(levelFromEnv(env))

	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	} else {
		log.Logger = log.Output(os.Stdout)
	}

	log.Logger = log.With().Str("service", "songbid-api").Logger()
}

// levelFromEnv LOG_LEVEL'ı parse eder; yoksa ortama göre default seçer
func levelFromEnv(env string) zerolog.Level {
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			return lvl
		}
	}
	if env == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
