package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config ortam yapılandırmalarını tutar
type Config struct {
	AppEnv string
	Port   string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Bid işleme ayarları
	BidWorkers          int  // bid queue worker sayısı
	BidQueueBuffer      int  // worker başına job buffer'ı
	BidMustExceedLeader bool // true ise bid, şarkının en yüksek bid'ini geçmek zorunda

	// Jeton defteri ayarları
	MaxCreditPerRequest int // tek seferde yüklenebilecek maksimum jeton

	// Sıralama görünümü ayarları
	TrendWindow  time.Duration // bu süre içinde bid almayan şarkının trend'i neutral'a döner
	RankCacheTTL time.Duration
}

// yardımcı fonksiyon: ortam değişkeni yoksa default değeri döner
func getEnv(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt sayısal ortam değişkenini okur
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

// getEnvBool boolean ortam değişkenini okur
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// LoadConfig tüm yapılandırmayı yükler
func LoadConfig() *Config {
	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "ilhan"),
		DBPass: getEnv("DB_PASS", "password"),
		DBName: getEnv("DB_NAME", "songbiddb"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		BidWorkers:          getEnvInt("BID_WORKERS", 4),
		BidQueueBuffer:      getEnvInt("BID_QUEUE_BUFFER", 64),
		BidMustExceedLeader: getEnvBool("BID_MUST_EXCEED_LEADING", false),

		MaxCreditPerRequest: getEnvInt("MAX_CREDIT_PER_REQUEST", 10000),

		TrendWindow:  time.Duration(getEnvInt("TREND_WINDOW_SECONDS", 60)) * time.Second,
		RankCacheTTL: time.Duration(getEnvInt("RANK_CACHE_TTL_SECONDS", 5)) * time.Second,
	}
}

// GetDSN veritabanı bağlantı URL'sini döner
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName,
	)
}
