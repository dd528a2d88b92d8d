package services

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/interfaces"
	"github.com/onerilhan/go-songbid-api/internal/models"
)

// BidJob queue'da işlenecek bid job'ı
type BidJob struct {
	UserID     int
	SongID     int
	Amount     int
	ResultChan chan BidResult
}

// BidResult job sonucu
type BidResult struct {
	Bid   *models.Bid
	Error error
}

// BidQueue bid işleme queue'su.
// Job'lar songID'ye göre worker'lara dağıtılır: aynı şarkının bid'leri
// her zaman aynı worker'a düşer ve sıralı uygulanır. Böylece aynı şarkı
// üzerindeki iki eşzamanlı bid asla çakışmaz.
type BidQueue struct {
	jobChans   []chan BidJob
	workers    int
	bufferSize int
	wg         sync.WaitGroup
	service    interfaces.BidServiceInterface
}

// NewBidQueue yeni queue oluşturur
func NewBidQueue(workers int, service interfaces.BidServiceInterface, bufferSize int) *BidQueue {
	if workers <= 0 {
		workers = 1
	}
	chans := make([]chan BidJob, workers)
	for i := range chans {
		chans[i] = make(chan BidJob, bufferSize)
	}
	return &BidQueue{
		jobChans:   chans,
		workers:    workers,
		bufferSize: bufferSize,
		service:    service,
	}
}

// Start worker'ları başlatır
func (q *BidQueue) Start() {
	log.Info().
		Int("workers", q.workers).
		Int("buffer_size", q.bufferSize).
		Msg("🔄 Bid queue başlatıldı")

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// Stop queue'yu durdurur; kuyruktaki job'lar bitene kadar bekler
func (q *BidQueue) Stop() {
	for _, ch := range q.jobChans {
		close(ch)
	}
	q.wg.Wait()
	log.Info().Msg("⏹️ Bid queue durduruldu")
}

// worker tek bir worker'ın kendi kanalını tüketmesi
func (q *BidQueue) worker(id int) {
	defer q.wg.Done()

	log.Info().Int("worker_id", id).Msg("🚀 Worker başlatıldı")

	for job := range q.jobChans[id] {
		q.process(id, job)
	}

	log.Info().Int("worker_id", id).Msg("🛑 Worker durduruldu")
}

// process tek bir job'ı işler ve sonucu her koşulda yanıtlar.
// Panic recovery job seviyesindedir: PlaceBid paniklese bile bekleyen
// caller bir hata sonucu alır ve worker kanalını tüketmeye devam eder.
func (q *BidQueue) process(id int, job BidJob) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("recover", r).
				Int("worker_id", id).
				Int("song_id", job.SongID).
				Msg("🚨 Bid işlenirken panic oluştu")

			job.ResultChan <- BidResult{
				Bid:   nil,
				Error: fmt.Errorf("bid işlenemedi: %v", r),
			}
			close(job.ResultChan)
		}
	}()

	log.Debug().
		Int("worker_id", id).
		Int("user_id", job.UserID).
		Int("song_id", job.SongID).
		Int("amount", job.Amount).
		Msg("💼 Bid işleniyor")

	bid, err := q.service.PlaceBid(job.UserID, job.SongID, job.Amount)

	// Sonucu gönder ve channel'ı kapat
	job.ResultChan <- BidResult{
		Bid:   bid,
		Error: err,
	}
	close(job.ResultChan)

	if err != nil {
		log.Warn().Err(err).Int("worker_id", id).Int("song_id", job.SongID).Msg("❌ Bid reddedildi")
	} else {
		log.Info().Int("worker_id", id).Str("bid_id", bid.ID).Msg("✅ Bid başarılı")
	}
}

// AddJob queue'ya yeni job ekler.
// Aynı songID her zaman aynı worker kanalına düşer (per-song sıralama).
func (q *BidQueue) AddJob(userID, songID, amount int) <-chan BidResult {
	resultChan := make(chan BidResult, 1)

	job := BidJob{
		UserID:     userID,
		SongID:     songID,
		Amount:     amount,
		ResultChan: resultChan,
	}

	idx := songID % q.workers
	if idx < 0 {
		idx = -idx
	}

	select {
	case q.jobChans[idx] <- job:
		log.Debug().Int("song_id", songID).Int("worker_id", idx).Msg("📤 Job queue'ya eklendi")
	default:
		// Queue dolu - sonucu hemen hata ile kapat
		go func() {
			resultChan <- BidResult{
				Bid:   nil,
				Error: ErrQueueFull,
			}
			close(resultChan)
		}()
	}

	return resultChan
}
