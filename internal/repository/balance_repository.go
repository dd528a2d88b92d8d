package repository

import (
	"database/sql"
	"fmt"

	"github.com/onerilhan/go-songbid-api/internal/models"
)

// BalanceRepository jeton bakiyesi database işlemleri
type BalanceRepository struct {
	db *sql.DB
}

// NewBalanceRepository yeni repository oluşturur
func NewBalanceRepository(db *sql.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// GetByUserID kullanıcının bakiyesini getirir
func (r *BalanceRepository) GetByUserID(userID int) (*models.TokenBalance, error) {
	query := `
		SELECT user_id, amount, last_updated_at
		FROM token_balances
		WHERE user_id = $1
	`

	var balance models.TokenBalance
	err := r.db.QueryRow(query, userID).Scan(
		&balance.UserID,
		&balance.Amount,
		&balance.LastUpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			// Bakiye yoksa sıfır bakiye oluştur
			return r.CreateBalance(userID)
		}
		return nil, fmt.Errorf("bakiye arama hatası: %w", err)
	}

	return &balance, nil
}

// CreateBalance yeni bakiye oluşturur
func (r *BalanceRepository) CreateBalance(userID int) (*models.TokenBalance, error) {
	query := `
		INSERT INTO token_balances (user_id, amount)
		VALUES ($1, 0)
		RETURNING user_id, amount, last_updated_at
	`

	var balance models.TokenBalance
	err := r.db.QueryRow(query, userID).Scan(
		&balance.UserID,
		&balance.Amount,
		&balance.LastUpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("bakiye oluşturulamadı: %w", err)
	}

	return &balance, nil
}

// GetHistory kullanıcının bakiye geçmişini getirir
func (r *BalanceRepository) GetHistory(userID int, limit, offset int) ([]*models.TokenHistory, error) {
	query := `
		SELECT id, user_id, previous_amount, new_amount, change_amount, reason, bid_id, created_at
		FROM token_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("bakiye geçmişi sorgusu hatası: %w", err)
	}
	defer rows.Close()

	var history []*models.TokenHistory
	for rows.Next() {
		var h models.TokenHistory
		err := rows.Scan(
			&h.ID,
			&h.UserID,
			&h.PreviousAmount,
			&h.NewAmount,
			&h.ChangeAmount,
			&h.Reason,
			&h.BidID,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("bakiye geçmişi scan hatası: %w", err)
		}
		history = append(history, &h)
	}

	return history, nil
}
