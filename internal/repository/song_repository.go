package repository

import (
	"database/sql"
	"fmt"

	"github.com/onerilhan/go-songbid-api/internal/models"
)

// SongRepository şarkı isteği database işlemleri
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository yeni repository oluşturur
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create yeni şarkı isteği oluşturur
func (r *SongRepository) Create(eventID int, req *models.CreateSongRequest) (*models.SongRequest, error) {
	query := `
		INSERT INTO song_requests (event_id, title, artist, total_tokens, bidder_count)
		VALUES ($1, $2, $3, 0, 0)
		RETURNING id, event_id, title, artist, total_tokens, bidder_count, last_bid_at, created_at
	`

	var song models.SongRequest
	err := r.db.QueryRow(query, eventID, req.Title, req.Artist).Scan(
		&song.ID,
		&song.EventID,
		&song.Title,
		&song.Artist,
		&song.TotalTokens,
		&song.BidderCount,
		&song.LastBidAt,
		&song.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("şarkı isteği oluşturulamadı: %w", err)
	}

	return &song, nil
}

// GetByID ID ile şarkı isteği getirir
func (r *SongRepository) GetByID(id int) (*models.SongRequest, error) {
	query := `
		SELECT id, event_id, title, artist, total_tokens, bidder_count, last_bid_at, created_at
		FROM song_requests
		WHERE id = $1
	`

	var song models.SongRequest
	err := r.db.QueryRow(query, id).Scan(
		&song.ID,
		&song.EventID,
		&song.Title,
		&song.Artist,
		&song.TotalTokens,
		&song.BidderCount,
		&song.LastBidAt,
		&song.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			// Satır yok ile geçici DB hatası ayırt edilebilsin diye sentinel korunur
			return nil, fmt.Errorf("şarkı isteği bulunamadı: %w", sql.ErrNoRows)
		}
		return nil, fmt.Errorf("şarkı isteği arama hatası: %w", err)
	}

	return &song, nil
}

// FindByEventAndTitle aynı etkinlikteki aynı başlıklı isteği bulur.
// Başlık karşılaştırması case-insensitive yapılır; bulunamazsa (nil, nil) döner.
func (r *SongRepository) FindByEventAndTitle(eventID int, title string) (*models.SongRequest, error) {
	query := `
		SELECT id, event_id, title, artist, total_tokens, bidder_count, last_bid_at, created_at
		FROM song_requests
		WHERE event_id = $1 AND LOWER(title) = LOWER($2)
	`

	var song models.SongRequest
	err := r.db.QueryRow(query, eventID, title).Scan(
		&song.ID,
		&song.EventID,
		&song.Title,
		&song.Artist,
		&song.TotalTokens,
		&song.BidderCount,
		&song.LastBidAt,
		&song.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("şarkı isteği arama hatası: %w", err)
	}

	return &song, nil
}

// ListByEvent etkinliğin tüm şarkı isteklerini getirir.
// Sıralama database'de yapılır: toplam jeton azalan, eşitlikte erken created_at önce.
func (r *SongRepository) ListByEvent(eventID int) ([]*models.SongRequest, error) {
	query := `
		SELECT id, event_id, title, artist, total_tokens, bidder_count, last_bid_at, created_at
		FROM song_requests
		WHERE event_id = $1
		ORDER BY total_tokens DESC, created_at ASC
	`

	rows, err := r.db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("şarkı listesi sorgusu hatası: %w", err)
	}
	defer rows.Close()

	var songs []*models.SongRequest
	for rows.Next() {
		var song models.SongRequest
		err := rows.Scan(
			&song.ID,
			&song.EventID,
			&song.Title,
			&song.Artist,
			&song.TotalTokens,
			&song.BidderCount,
			&song.LastBidAt,
			&song.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("şarkı listesi scan hatası: %w", err)
		}
		songs = append(songs, &song)
	}

	return songs, nil
}

// LeadingBid şarkıdaki en yüksek bid miktarını getirir (bid yoksa 0)
func (r *SongRepository) LeadingBid(songID int) (int, error) {
	query := `
		SELECT COALESCE(MAX(amount), 0)
		FROM bids
		WHERE song_id = $1
	`

	var leading int
	if err := r.db.QueryRow(query, songID).Scan(&leading); err != nil {
		return 0, fmt.Errorf("en yüksek bid sorgusu hatası: %w", err)
	}

	return leading, nil
}
