package repository

import (
	"database/sql"
	"fmt"

	"github.com/onerilhan/go-songbid-api/internal/models"
)

// BidRepository bid database işlemleri.
// Bid yazma yolu BidService'in atomik transaction'ı içindedir;
// bu repository sadece okuma tarafını kapsar.
type BidRepository struct {
	db *sql.DB
}

// NewBidRepository yeni repository oluşturur
func NewBidRepository(db *sql.DB) *BidRepository {
	return &BidRepository{db: db}
}

// GetByID ID ile bid getirir
func (r *BidRepository) GetByID(id string) (*models.Bid, error) {
	query := `
		SELECT id, song_id, user_id, amount, created_at
		FROM bids
		WHERE id = $1
	`

	var bid models.Bid
	err := r.db.QueryRow(query, id).Scan(
		&bid.ID,
		&bid.SongID,
		&bid.UserID,
		&bid.Amount,
		&bid.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("bid bulunamadı")
		}
		return nil, fmt.Errorf("bid arama hatası: %w", err)
	}

	return &bid, nil
}

// ListBySong şarkının bid geçmişini getirir
func (r *BidRepository) ListBySong(songID int, limit, offset int) ([]*models.Bid, error) {
	query := `
		SELECT id, song_id, user_id, amount, created_at
		FROM bids
		WHERE song_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryBids(query, songID, limit, offset)
}

// ListByUser kullanıcının bid geçmişini getirir
func (r *BidRepository) ListByUser(userID int, limit, offset int) ([]*models.Bid, error) {
	query := `
		SELECT id, song_id, user_id, amount, created_at
		FROM bids
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryBids(query, userID, limit, offset)
}

// queryBids ortak bid listesi sorgusu
func (r *BidRepository) queryBids(query string, args ...interface{}) ([]*models.Bid, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("bid listesi sorgusu hatası: %w", err)
	}
	defer rows.Close()

	var bids []*models.Bid
	for rows.Next() {
		var bid models.Bid
		err := rows.Scan(
			&bid.ID,
			&bid.SongID,
			&bid.UserID,
			&bid.Amount,
			&bid.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("bid listesi scan hatası: %w", err)
		}
		bids = append(bids, &bid)
	}

	return bids, nil
}
