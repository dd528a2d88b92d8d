package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-songbid-api/internal/cache"
	"github.com/onerilhan/go-songbid-api/internal/config"
	"github.com/onerilhan/go-songbid-api/internal/db"
	"github.com/onerilhan/go-songbid-api/internal/handlers"
	"github.com/onerilhan/go-songbid-api/internal/logger"
	"github.com/onerilhan/go-songbid-api/internal/middleware"
	"github.com/onerilhan/go-songbid-api/internal/repository"
	"github.com/onerilhan/go-songbid-api/internal/services"
	"github.com/onerilhan/go-songbid-api/internal/ws"
)

func main() {
	// .env dosyasını yükle
	if err := godotenv.Load(); err != nil {
		stdlog.Println(".env dosyası bulunamadı, ortam değişkenlerinden okunacak.")
	}

	// config yükle
	cfg := config.LoadConfig()

	// logger başlat
	logger.Init(cfg.AppEnv)

	log.Info().
		Str("environment", cfg.AppEnv).
		Str("port", cfg.Port).
		Msg("🚀 SongBid API başlatıldı")

	// Database bağlantısı
	database, err := db.Connect(cfg.GetDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Veritabanı bağlantısı başarısız")
	}
	defer database.Close()

	// Redis (opsiyonel) — yoksa sıralama cache'i devre dışı çalışır
	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	rankCache := cache.NewRankingCache(redisClient, cfg.RankCacheTTL)

	// WebSocket hub (broadcast relay)
	hub := ws.NewHub()

	// Repository katmanı
	userRepo := repository.NewUserRepository(database)
	balanceRepo := repository.NewBalanceRepository(database)
	songRepo := repository.NewSongRepository(database)
	bidRepo := repository.NewBidRepository(database)
	codeRepo := repository.NewCodeRepository(database)
	auditRepo := repository.NewAuditRepository(database)

	// Service katmanı
	userService := services.NewUserService(userRepo)
	balanceService := services.NewBalanceService(balanceRepo, database, hub, cfg.MaxCreditPerRequest)
	bidService := services.NewBidService(songRepo, database, hub, rankCache, cfg.BidMustExceedLeader)
	rankingService := services.NewRankingService(songRepo, rankCache, cfg.TrendWindow)
	codeService := services.NewCodeService(codeRepo, auditRepo)

	// Bid queue oluştur ve başlat
	bidQueue := services.NewBidQueue(cfg.BidWorkers, bidService, cfg.BidQueueBuffer)
	bidQueue.Start()

	// Handler katmanı
	userHandler := handlers.NewUserHandler(userService)
	tokenHandler := handlers.NewTokenHandler(balanceService)
	songHandler := handlers.NewSongHandler(rankingService, codeService)
	bidHandler := handlers.NewBidHandler(bidQueue, bidRepo, songRepo, balanceService)
	codeHandler := handlers.NewCodeHandler(codeService)
	broadcastHandler := handlers.NewBroadcastHandler(hub)
	wsHandler := handlers.NewWSHandler(hub)
	healthHandler := handlers.NewHealthHandler(database, hub)

	// Gorilla Mux Router Setup
	router := setupRouter(userHandler, tokenHandler, songHandler, bidHandler, codeHandler, broadcastHandler, wsHandler, healthHandler)

	// HTTP Server configuration
	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown setup
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Server'ı goroutine'de başlat
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("addr", serverAddr).
			Msg("🌐 HTTP Server (Gorilla Mux) başlatıldı")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("❌ Server başlatma hatası")
		}
	}()

	// Shutdown signal'ını bekle
	<-shutdown
	log.Info().Msg("🛑 Shutdown signal alındı, server kapatılıyor...")

	// Graceful shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// 1. HTTP Server'ı kapat (aktif bağlantıları bekle)
	log.Info().Msg("📡 HTTP Server kapatılıyor...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ HTTP Server kapatma hatası")
	} else {
		log.Info().Msg("✅ HTTP Server başarıyla kapatıldı")
	}

	// 2. Bid queue'yu kapat (kuyruktaki bid'ler işlenir)
	log.Info().Msg("🔄 Bid queue kapatılıyor...")
	bidQueue.Stop()

	// 3. WebSocket bağlantılarını kapat
	log.Info().Msg("🔌 WebSocket hub kapatılıyor...")
	hub.Shutdown()

	// 4. Redis bağlantısını kapat
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("❌ Redis kapatma hatası")
		}
	}

	log.Info().Msg("👋 SongBid API başarıyla kapatıldı")
}

// setupRouter Gorilla Mux router'ını ayarlar
func setupRouter(
	userHandler *handlers.UserHandler,
	tokenHandler *handlers.TokenHandler,
	songHandler *handlers.SongHandler,
	bidHandler *handlers.BidHandler,
	codeHandler *handlers.CodeHandler,
	broadcastHandler *handlers.BroadcastHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()

	// Global middleware zinciri
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.CORSMiddlewareWithDefaults())
	router.Use(middleware.RequestLoggingMiddlewareWithDefaults())
	router.Use(middleware.RateLimitMiddlewareWithDefaults())

	// Health check (middleware zinciri içinde ama auth gerektirmez)
	router.HandleFunc("/health", healthHandler.Check).Methods("GET")

	// API v1 subrouter
	api := router.PathPrefix("/api/v1").Subrouter()

	// Public endpoints (Authentication)
	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/register", userHandler.Register).Methods("POST")
	authRoutes.HandleFunc("/login", userHandler.Login).Methods("POST")
	authRoutes.HandleFunc("/refresh", userHandler.Refresh).Methods("POST")

	// Public: sıralama (kod ile anonim erişim), kod doğrulama, broadcast ingress, WS
	api.HandleFunc("/events/{id:[0-9]+}/songs", songHandler.GetRanking).Methods("GET")
	api.HandleFunc("/events/{id:[0-9]+}/codes/validate", codeHandler.ValidateCode).Methods("POST")
	api.HandleFunc("/songs/{id:[0-9]+}/bids", bidHandler.GetSongBids).Methods("GET")
	api.HandleFunc("/broadcast", broadcastHandler.Publish).Methods("POST")
	api.HandleFunc("/ws", wsHandler.Connect).Methods("GET")

	// Protected endpoints (Authentication required)
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware)

	// User endpoints
	protected.HandleFunc("/users/profile", userHandler.GetProfile).Methods("GET")

	// Token endpoints (jeton defteri)
	tokens := protected.PathPrefix("/tokens").Subrouter()
	tokens.HandleFunc("/balance", tokenHandler.GetBalance).Methods("GET")
	tokens.HandleFunc("/purchase", tokenHandler.Purchase).Methods("POST")
	tokens.HandleFunc("/debit", tokenHandler.Debit).Methods("POST")
	tokens.HandleFunc("/history", tokenHandler.GetHistory).Methods("GET")

	// Song & bid endpoints
	protected.HandleFunc("/events/{id:[0-9]+}/songs", songHandler.RequestSong).Methods("POST")
	protected.HandleFunc("/songs/{id:[0-9]+}/bids", bidHandler.PlaceBid).Methods("POST")
	protected.HandleFunc("/bids/history", bidHandler.GetUserBids).Methods("GET")

	// Organizer endpoints (kod yönetimi)
	organizer := protected.NewRoute().Subrouter()
	organizer.Use(middleware.RequireRole("organizer"))
	organizer.HandleFunc("/events/{id:[0-9]+}/codes", codeHandler.CreateCodes).Methods("POST")
	organizer.HandleFunc("/events/{id:[0-9]+}/codes", codeHandler.ListCodes).Methods("GET")
	organizer.HandleFunc("/codes/{id}", codeHandler.DeactivateCode).Methods("DELETE")

	// Route listesini log'la (development için)
	router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err == nil {
			methods, _ := route.GetMethods()
			log.Debug().
				Str("path", pathTemplate).
				Strs("methods", methods).
				Msg("📍 Route registered")
		}
		return nil
	})

	return router
}
