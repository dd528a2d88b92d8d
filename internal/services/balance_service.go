package services

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/onerilhan/go-songbid-api/internal/db"
	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// BalanceService jeton defteri (token ledger) business logic'i.
// Bakiye hiçbir zaman negatife düşmez: bakiyeyi aşan debit reddedilir,
// kırpılmaz. Her mutasyon token_history'e kayıt düşer ve relay üzerinden
// kullanıcıya bildirilir.
type BalanceService struct {
	balanceRepo interfaces.BalanceRepositoryInterface
	database    *sql.DB
	notifier    interfaces.Notifier
	maxCredit   int
	mutex       sync.RWMutex // Thread-safe operations için
}

// NewBalanceService yeni service oluşturur
func NewBalanceService(balanceRepo interfaces.BalanceRepositoryInterface, database *sql.DB, notifier interfaces.Notifier, maxCredit int) *BalanceService {
	return &BalanceService{
		balanceRepo: balanceRepo,
		database:    database,
		notifier:    notifier,
		maxCredit:   maxCredit,
		mutex:       sync.RWMutex{},
	}
}

// GetBalance thread-safe bakiye okuma
func (s *BalanceService) GetBalance(userID int) (*models.TokenBalance, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.balanceRepo.GetByUserID(userID)
}

// ValidateAmount jeton miktarını doğrular
func (s *BalanceService) ValidateAmount(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Credit kullanıcının hesabına jeton yükler (rollback mechanism ile).
// Tek seferlik yükleme miktarı maxCredit ile sınırlıdır.
func (s *BalanceService) Credit(userID int, req *models.CreditRequest) (*models.TokenBalance, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	if s.maxCredit > 0 && req.Amount > s.maxCredit {
		return nil, ErrCreditLimit
	}

	reason := req.Description
	if reason == "" {
		reason = "credit"
	}

	balance, err := s.applyChange(userID, req.Amount, reason)
	if err != nil {
		return nil, err
	}

	s.notifyUser(userID, balance.Amount, reason)
	return balance, nil
}

// Debit kullanıcının hesabından jeton düşer (rollback mechanism ile).
// Bakiye yetersizse ErrInsufficientTokens döner ve hiçbir satır değişmez.
func (s *BalanceService) Debit(userID int, req *models.DebitRequest) (*models.TokenBalance, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	reason := req.Description
	if reason == "" {
		reason = "debit"
	}

	balance, err := s.applyChange(userID, -req.Amount, reason)
	if err != nil {
		return nil, err
	}

	s.notifyUser(userID, balance.Amount, reason)
	return balance, nil
}

// GetHistory kullanıcının bakiye geçmişini getirir
func (s *BalanceService) GetHistory(userID int, limit, offset int) ([]*models.TokenHistory, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	// Pagination validation
	if limit <= 0 || limit > 100 {
		limit = 10 // default limit
	}
	if offset < 0 {
		offset = 0 // default offset
	}

	history, err := s.balanceRepo.GetHistory(userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("bakiye geçmişi alınamadı: %w", err)
	}

	return history, nil
}

// applyChange bakiye değişimini tek bir database transaction'ında uygular.
// change negatifse yeterli bakiye kontrolü yapılır; satır FOR UPDATE ile
// kilitlenir, böylece eşzamanlı mutasyonlar sıralanır.
func (s *BalanceService) applyChange(userID, change int, reason string) (*models.TokenBalance, error) {
	var result *models.TokenBalance

	err := db.WithTransaction(s.database, func(tx *sql.Tx) error {
		txRepo := db.NewTxRepository(tx)

		// 1. Mevcut bakiyeyi al ve lock et
		var currentBalance int
		err := txRepo.QueryRow(`
			SELECT amount FROM token_balances WHERE user_id = $1 FOR UPDATE
		`, userID).Scan(&currentBalance)

		if err == sql.ErrNoRows {
			if change < 0 {
				return ErrInsufficientTokens
			}
			// Bakiye yoksa oluştur
			_, err = txRepo.Exec(`
				INSERT INTO token_balances (user_id, amount) VALUES ($1, 0)
			`, userID)
			if err != nil {
				return fmt.Errorf("bakiye oluşturulamadı: %w", err)
			}
			currentBalance = 0
		} else if err != nil {
			return fmt.Errorf("bakiye sorgusu hatası: %w", err)
		}

		// 2. Yeterli bakiye kontrolü (fail closed)
		newBalance := currentBalance + change
		if newBalance < 0 {
			return ErrInsufficientTokens
		}

		// 3. Geçmiş kaydını oluştur
		_, err = txRepo.Exec(`
			INSERT INTO token_history (user_id, previous_amount, new_amount, change_amount, reason)
			VALUES ($1, $2, $3, $4, $5)
		`, userID, currentBalance, newBalance, change, reason)
		if err != nil {
			return fmt.Errorf("bakiye geçmişi kaydedilemedi: %w", err)
		}

		// 4. Bakiyeyi güncelle
		var updated models.TokenBalance
		err = txRepo.QueryRow(`
			UPDATE token_balances
			SET amount = $1, last_updated_at = NOW()
			WHERE user_id = $2
			RETURNING user_id, amount, last_updated_at
		`, newBalance, userID).Scan(&updated.UserID, &updated.Amount, &updated.LastUpdatedAt)
		if err != nil {
			return fmt.Errorf("bakiye güncellenemedi: %w", err)
		}

		result = &updated
		return nil // SUCCESS - transaction commit edilecek
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// notifyUser bakiye değişimini relay üzerinden kullanıcıya bildirir.
// Fire-and-forget: relay yoksa veya bağlantı kapalıysa sessizce geçilir.
func (s *BalanceService) notifyUser(userID, newBalance int, reason string) {
	if s.notifier == nil {
		return
	}
	s.notifier.SendToUser(userID, &models.BroadcastMessage{
		Type:   models.MessageTypeUserUpdate,
		UserID: userID,
		Payload: &models.UserUpdatePayload{
			Balance: newBalance,
			Reason:  reason,
		},
	})
}
