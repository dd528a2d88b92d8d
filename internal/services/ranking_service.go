package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// RankingService şarkı sıralama görünümü.
// Sıralama her çağrıda mevcut song_requests durumundan yeniden hesaplanır;
// artımlı state tutulmaz (staleness bug'larına karşı). Kısa TTL'li cache
// opsiyoneldir ve her kabul edilen bid'de düşürülür.
type RankingService struct {
	songRepo    interfaces.SongRepositoryInterface
	rankCache   interfaces.RankingCacheInterface
	trendWindow time.Duration
	now         func() time.Time // testlerde sabitlenebilir
}

// NewRankingService yeni service oluşturur
func NewRankingService(songRepo interfaces.SongRepositoryInterface, rankCache interfaces.RankingCacheInterface, trendWindow time.Duration) *RankingService {
	return &RankingService{
		songRepo:    songRepo,
		rankCache:   rankCache,
		trendWindow: trendWindow,
		now:         time.Now,
	}
}

// Rank etkinliğin şarkılarını toplam jetona göre azalan sıralar.
// Eşitlik erken created_at ile bozulur (stabil sıralama). Trend alanı
// sunum ipucudur: trendWindow içinde bid almış şarkı "up", almamış
// şarkı "neutral" raporlanır.
func (s *RankingService) Rank(eventID int) ([]*models.SongRequest, error) {
	if s.rankCache != nil {
		if cached, ok := s.rankCache.Get(eventID); ok {
			return cached, nil
		}
	}

	songs, err := s.songRepo.ListByEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("şarkı listesi alınamadı: %w", err)
	}

	// Repository sıralı dönse de burada garanti edilir: total_tokens DESC,
	// eşitlikte created_at ASC. SliceStable eşit elemanların göreli
	// sırasını korur.
	sort.SliceStable(songs, func(i, j int) bool {
		if songs[i].TotalTokens != songs[j].TotalTokens {
			return songs[i].TotalTokens > songs[j].TotalTokens
		}
		return songs[i].CreatedAt.Before(songs[j].CreatedAt)
	})

	// Trend hesapla
	cutoff := s.now().Add(-s.trendWindow)
	for _, song := range songs {
		if song.LastBidAt != nil && song.LastBidAt.After(cutoff) {
			song.Trend = models.TrendUp
		} else {
			song.Trend = models.TrendNeutral
		}
	}

	if s.rankCache != nil {
		s.rankCache.Set(eventID, songs)
	}

	return songs, nil
}

// RequestSong ilk istekte yeni şarkı isteği oluşturur.
// Aynı etkinlikte aynı başlık zaten varsa mevcut kayıt döner; yeni
// kayıt sıfır jetonla başlar.
func (s *RankingService) RequestSong(eventID, userID int, req *models.CreateSongRequest) (*models.SongRequest, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("şarkı başlığı boş olamaz")
	}
	req.Title = title
	req.Artist = strings.TrimSpace(req.Artist)

	existing, err := s.songRepo.FindByEventAndTitle(eventID, title)
	if err != nil {
		return nil, fmt.Errorf("şarkı isteği kontrolü hatası: %w", err)
	}
	if existing != nil {
		existing.Trend = models.TrendNeutral
		return existing, nil
	}

	song, err := s.songRepo.Create(eventID, req)
	if err != nil {
		return nil, fmt.Errorf("şarkı isteği oluşturulamadı: %w", err)
	}
	song.Trend = models.TrendNeutral

	if s.rankCache != nil {
		s.rankCache.Invalidate(eventID)
	}

	return song, nil
}
