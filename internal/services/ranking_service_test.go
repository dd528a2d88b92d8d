package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/onerilhan/go-songbid-api/internal/models"
)

// rankingFixture sabitlenmiş saat ile ranking service kurar
func rankingFixture(songRepo *MockSongRepository, cache *MockRankingCache, now time.Time) *RankingService {
	var service *RankingService
	if cache != nil {
		service = NewRankingService(songRepo, cache, 60*time.Second)
	} else {
		service = NewRankingService(songRepo, nil, 60*time.Second)
	}
	service.now = func() time.Time { return now }
	return service
}

// TestRankingService_Rank_Ordering, sıralamanın toplam jetona göre azalan
// olduğunu ve eşitliğin erken created_at ile bozulduğunu test eder.
func TestRankingService_Rank_Ordering(t *testing.T) {
	// Arrange
	now := time.Date(2025, 8, 1, 22, 0, 0, 0, time.UTC)
	early := now.Add(-2 * time.Hour)
	late := now.Add(-1 * time.Hour)

	songs := []*models.SongRequest{
		{ID: 1, EventID: 3, Title: "A", TotalTokens: 50, CreatedAt: late},
		{ID: 2, EventID: 3, Title: "B", TotalTokens: 120, CreatedAt: late},
		{ID: 3, EventID: 3, Title: "C", TotalTokens: 50, CreatedAt: early},
	}

	mockSongRepo := new(MockSongRepository)
	mockSongRepo.On("ListByEvent", 3).Return(songs, nil)

	rankingService := rankingFixture(mockSongRepo, nil, now)

	// Act
	result, err := rankingService.Rank(3)

	// Assert: 120 önce, sonra eşit 50'lerde erken istek (ID 3) önde
	assert.NoError(t, err)
	assert.Len(t, result, 3)
	assert.Equal(t, 2, result[0].ID)
	assert.Equal(t, 3, result[1].ID)
	assert.Equal(t, 1, result[2].ID)
	mockSongRepo.AssertExpectations(t)
}

// TestRankingService_Rank_TrendDecay, pencere içinde bid alan şarkının "up",
// almamış veya hiç bid almamış şarkının "neutral" raporlandığını test eder.
func TestRankingService_Rank_TrendDecay(t *testing.T) {
	// Arrange
	now := time.Date(2025, 8, 1, 22, 0, 0, 0, time.UTC)
	fresh := now.Add(-10 * time.Second)
	stale := now.Add(-5 * time.Minute)

	songs := []*models.SongRequest{
		{ID: 1, EventID: 3, TotalTokens: 80, LastBidAt: &fresh, CreatedAt: now},
		{ID: 2, EventID: 3, TotalTokens: 60, LastBidAt: &stale, CreatedAt: now},
		{ID: 3, EventID: 3, TotalTokens: 40, LastBidAt: nil, CreatedAt: now},
	}

	mockSongRepo := new(MockSongRepository)
	mockSongRepo.On("ListByEvent", 3).Return(songs, nil)

	rankingService := rankingFixture(mockSongRepo, nil, now)

	// Act
	result, err := rankingService.Rank(3)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, models.TrendUp, result[0].Trend)
	assert.Equal(t, models.TrendNeutral, result[1].Trend)
	assert.Equal(t, models.TrendNeutral, result[2].Trend)
}

// TestRankingService_Rank_CacheHit, cache doluyken repository'ye gidilmediğini test eder.
func TestRankingService_Rank_CacheHit(t *testing.T) {
	// Arrange
	cached := []*models.SongRequest{{ID: 1, EventID: 3, TotalTokens: 99, Trend: models.TrendUp}}

	mockSongRepo := new(MockSongRepository)
	mockCache := new(MockRankingCache)
	mockCache.On("Get", 3).Return(cached, true)

	rankingService := rankingFixture(mockSongRepo, mockCache, time.Now())

	// Act
	result, err := rankingService.Rank(3)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, cached, result)
	mockSongRepo.AssertNotCalled(t, "ListByEvent", mock.Anything)
	mockCache.AssertExpectations(t)
}

// TestRankingService_Rank_CacheMissFills, cache boşken sonucun cache'e yazıldığını test eder.
func TestRankingService_Rank_CacheMissFills(t *testing.T) {
	// Arrange
	songs := []*models.SongRequest{{ID: 1, EventID: 3, TotalTokens: 10, CreatedAt: time.Now()}}

	mockSongRepo := new(MockSongRepository)
	mockSongRepo.On("ListByEvent", 3).Return(songs, nil)

	mockCache := new(MockRankingCache)
	mockCache.On("Get", 3).Return(nil, false)
	mockCache.On("Set", 3, mock.Anything).Return()

	rankingService := rankingFixture(mockSongRepo, mockCache, time.Now())

	// Act
	_, err := rankingService.Rank(3)

	// Assert
	assert.NoError(t, err)
	mockCache.AssertExpectations(t)
}

// TestRankingService_RequestSong_New, ilk istekte sıfır jetonlu yeni kayıt oluşturulduğunu test eder.
func TestRankingService_RequestSong_New(t *testing.T) {
	// Arrange
	created := &models.SongRequest{ID: 5, EventID: 3, Title: "Yeni Şarkı", TotalTokens: 0}

	mockSongRepo := new(MockSongRepository)
	mockSongRepo.On("FindByEventAndTitle", 3, "Yeni Şarkı").Return(nil, nil)
	mockSongRepo.On("Create", 3, mock.Anything).Return(created, nil)

	rankingService := rankingFixture(mockSongRepo, nil, time.Now())

	// Act: başlıktaki boşluklar temizlenmeli
	song, err := rankingService.RequestSong(3, 1, &models.CreateSongRequest{Title: "  Yeni Şarkı  "})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 5, song.ID)
	assert.Equal(t, 0, song.TotalTokens)
	assert.Equal(t, models.TrendNeutral, song.Trend)
	mockSongRepo.AssertExpectations(t)
}

// TestRankingService_RequestSong_Existing, aynı başlık tekrar istendiğinde
// yeni kayıt açılmayıp mevcut kaydın döndüğünü test eder.
func TestRankingService_RequestSong_Existing(t *testing.T) {
	// Arrange
	existing := &models.SongRequest{ID: 5, EventID: 3, Title: "Yeni Şarkı", TotalTokens: 40}

	mockSongRepo := new(MockSongRepository)
	mockSongRepo.On("FindByEventAndTitle", 3, "Yeni Şarkı").Return(existing, nil)

	rankingService := rankingFixture(mockSongRepo, nil, time.Now())

	// Act
	song, err := rankingService.RequestSong(3, 1, &models.CreateSongRequest{Title: "Yeni Şarkı"})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, existing.ID, song.ID)
	assert.Equal(t, 40, song.TotalTokens)
	mockSongRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestRankingService_RequestSong_EmptyTitle, boş başlığın reddedildiğini test eder.
func TestRankingService_RequestSong_EmptyTitle(t *testing.T) {
	// Arrange
	rankingService := rankingFixture(new(MockSongRepository), nil, time.Now())

	// Act
	song, err := rankingService.RequestSong(3, 1, &models.CreateSongRequest{Title: "   "})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, song)
}
