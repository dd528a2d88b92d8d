// Package cache, sıralama görünümü için opsiyonel redis destekli kısa
// TTL'li cache sağlar. Redis yoksa (adres boş veya bağlantı kurulamadı)
// tüm operasyonlar no-op'a düşer ve okumalar doğrudan database'e gider.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/models"
)

// NewRedisClient redis bağlantısı açar. Bağlantı kurulamazsa nil döner;
// çağıranlar cache'i devre dışı bırakarak devam eder.
func NewRedisClient(addr, password string, dbNum int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("⚠️ Redis bağlantısı kurulamadı, ranking cache devre dışı")
		_ = client.Close()
		return nil
	}

	log.Info().Str("addr", addr).Msg("✅ Redis bağlantısı kuruldu")
	return client
}

// RankingCache etkinlik başına sıralanmış şarkı listesini cache'ler.
// Her kabul edilen bid Invalidate ile girdiyi düşürür; TTL kısadır,
// cache sadece okuma yükünü azaltır, doğruluk kaynağı database'dir.
type RankingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRankingCache yeni cache oluşturur; client nil olabilir (no-op mod)
func NewRankingCache(client *redis.Client, ttl time.Duration) *RankingCache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RankingCache{client: client, ttl: ttl}
}

// key etkinlik için cache anahtarı
func (c *RankingCache) key(eventID int) string {
	return fmt.Sprintf("ranking:event:%d", eventID)
}

// Get cache'ten sıralamayı okur; yoksa veya redis kapalıysa (nil, false)
func (c *RankingCache) Get(eventID int) ([]*models.SongRequest, bool) {
	if c.client == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	data, err := c.client.Get(ctx, c.key(eventID)).Bytes()
	if err != nil {
		return nil, false
	}

	var songs []*models.SongRequest
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, false
	}

	return songs, true
}

// Set sıralamayı kısa TTL ile cache'ler
func (c *RankingCache) Set(eventID int, songs []*models.SongRequest) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(songs)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := c.client.Set(ctx, c.key(eventID), data, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Int("event_id", eventID).Msg("Ranking cache yazılamadı")
	}
}

// Invalidate etkinliğin cache girdisini düşürür
func (c *RankingCache) Invalidate(eventID int) {
	if c.client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := c.client.Del(ctx, c.key(eventID)).Err(); err != nil {
		log.Debug().Err(err).Int("event_id", eventID).Msg("Ranking cache düşürülemedi")
	}
}
