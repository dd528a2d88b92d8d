package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/db"
	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// BidService bid işleme business logic'i.
// Bir bid'in uygulanması tek bir kritik bölgedir: bakiye kontrolü, debit
// ve şarkı jeton sayacı artışı aynı database transaction'ında koşar.
// Herhangi bir adım başarısız olursa hiçbir satır değişmeden rollback olur.
type BidService struct {
	songRepo         interfaces.SongRepositoryInterface
	database         *sql.DB
	notifier         interfaces.Notifier
	rankCache        interfaces.RankingCacheInterface
	mustExceedLeader bool
}

// NewBidService yeni service oluşturur
func NewBidService(songRepo interfaces.SongRepositoryInterface, database *sql.DB, notifier interfaces.Notifier, rankCache interfaces.RankingCacheInterface, mustExceedLeader bool) *BidService {
	return &BidService{
		songRepo:         songRepo,
		database:         database,
		notifier:         notifier,
		rankCache:        rankCache,
		mustExceedLeader: mustExceedLeader,
	}
}

// PlaceBid bid'i doğrular ve uygular.
// Başarıda: bid kaydı oluşur, şarkının total_tokens'ı amount kadar artar,
// kullanıcı şarkıya ilk kez bid veriyorsa bidder_count artar ve yeni bakiye
// ile birlikte relay'e bildirim gider.
// Başarısızlıkta: bakiye ve şarkı toplamları değişmeden kalır.
func (s *BidService) PlaceBid(userID, songID, amount int) (*models.Bid, error) {
	// Amount validation
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// Şarkıyı getir (event bilgisi broadcast için gerekli).
	// Sadece "satır yok" durumu not-found sayılır; geçici DB hataları
	// olduğu gibi yukarı taşınır.
	song, err := s.songRepo.GetByID(songID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("şarkı sorgusu hatası: %w", err)
	}

	var result *models.Bid
	var newBalance int
	var totalTokens, bidderCount int

	// Database transaction ile rollback mechanism
	err = db.WithTransaction(s.database, func(tx *sql.Tx) error {
		txRepo := db.NewTxRepository(tx)

		// 1. "En yüksek bid'i geçme" politikası (opsiyonel, config ile)
		if s.mustExceedLeader {
			var leading int
			err := txRepo.QueryRow(`
				SELECT COALESCE(MAX(amount), 0) FROM bids WHERE song_id = $1
			`, songID).Scan(&leading)
			if err != nil {
				return fmt.Errorf("en yüksek bid sorgusu hatası: %w", err)
			}
			if amount <= leading {
				return ErrBidTooLow
			}
		}

		// 2. Kullanıcının bakiyesini al ve lock et
		var currentBalance int
		err := txRepo.QueryRow(`
			SELECT amount FROM token_balances WHERE user_id = $1 FOR UPDATE
		`, userID).Scan(&currentBalance)

		if err == sql.ErrNoRows {
			return ErrInsufficientTokens
		}
		if err != nil {
			return fmt.Errorf("bakiye sorgusu hatası: %w", err)
		}

		// 3. Yeterli bakiye kontrolü (fail closed, asla negatife düşmez)
		if currentBalance < amount {
			return ErrInsufficientTokens
		}

		// 4. İlk bid mi? (bidder_count sadece ilk bid'de artar)
		var hasBidBefore bool
		err = txRepo.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM bids WHERE song_id = $1 AND user_id = $2)
		`, songID, userID).Scan(&hasBidBefore)
		if err != nil {
			return fmt.Errorf("önceki bid kontrolü hatası: %w", err)
		}

		// 5. Bid kaydını oluştur (immutable kayıt)
		bidID := uuid.NewString()
		var createdAt sql.NullTime
		err = txRepo.QueryRow(`
			INSERT INTO bids (id, song_id, user_id, amount)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`, bidID, songID, userID, amount).Scan(&createdAt)
		if err != nil {
			return fmt.Errorf("bid kaydı oluşturulamadı: %w", err)
		}

		// 6. Şarkı toplamlarını artır
		bidderIncrement := 0
		if !hasBidBefore {
			bidderIncrement = 1
		}
		err = txRepo.QueryRow(`
			UPDATE song_requests
			SET total_tokens = total_tokens + $1,
			    bidder_count = bidder_count + $2,
			    last_bid_at = NOW()
			WHERE id = $3
			RETURNING total_tokens, bidder_count
		`, amount, bidderIncrement, songID).Scan(&totalTokens, &bidderCount)
		if err != nil {
			return fmt.Errorf("şarkı toplamları güncellenemedi: %w", err)
		}

		// 7. Bakiyeyi düş ve geçmişe kaydet
		newBalance = currentBalance - amount
		_, err = txRepo.Exec(`
			UPDATE token_balances SET amount = $1, last_updated_at = NOW() WHERE user_id = $2
		`, newBalance, userID)
		if err != nil {
			return fmt.Errorf("bakiye güncellenemedi: %w", err)
		}

		_, err = txRepo.Exec(`
			INSERT INTO token_history (user_id, previous_amount, new_amount, change_amount, reason, bid_id)
			VALUES ($1, $2, $3, $4, 'bid', $5)
		`, userID, currentBalance, newBalance, -amount, bidID)
		if err != nil {
			return fmt.Errorf("bakiye geçmişi kaydedilemedi: %w", err)
		}

		// 8. Result struct'ını oluştur
		result = &models.Bid{
			ID:        bidID,
			SongID:    songID,
			UserID:    userID,
			Amount:    amount,
			CreatedAt: createdAt.Time,
		}

		return nil // SUCCESS - transaction commit edilecek
	})

	if err != nil {
		return nil, err
	}

	// Commit sonrası: cache'i düşür ve aboneleri bilgilendir
	if s.rankCache != nil {
		s.rankCache.Invalidate(song.EventID)
	}
	s.broadcast(song, totalTokens, bidderCount, userID, newBalance)

	log.Info().
		Int("user_id", userID).
		Int("song_id", songID).
		Int("amount", amount).
		Int("total_tokens", totalTokens).
		Msg("🎵 Bid başarıyla uygulandı")

	return result, nil
}

// broadcast bid sonrası etkinlik ve kullanıcı kanallarına bildirim yollar.
// Fire-and-forget: teslimat garantisi yoktur.
func (s *BidService) broadcast(song *models.SongRequest, totalTokens, bidderCount, userID, newBalance int) {
	if s.notifier == nil {
		return
	}

	s.notifier.BroadcastToEvent(song.EventID, &models.BroadcastMessage{
		Type:    models.MessageTypeEventUpdate,
		EventID: song.EventID,
		Payload: &models.EventUpdatePayload{
			SongID:      song.ID,
			Title:       song.Title,
			TotalTokens: totalTokens,
			BidderCount: bidderCount,
			Trend:       models.TrendUp,
		},
	})

	s.notifier.SendToUser(userID, &models.BroadcastMessage{
		Type:   models.MessageTypeUserUpdate,
		UserID: userID,
		Payload: &models.UserUpdatePayload{
			Balance: newBalance,
			Reason:  "bid",
		},
	})
}
