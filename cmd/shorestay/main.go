package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"shorestay/internal/app/quote"
	"shorestay/internal/app/reservation"
	"shorestay/internal/infra/broker/kafka"
	"shorestay/internal/infra/cms"
	"shorestay/internal/infra/config"
	mongodb "shorestay/internal/infra/db/mongo"
	ginserver "shorestay/internal/infra/http/gin"
	"shorestay/internal/infra/obs"
	"shorestay/internal/infra/pms"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		// Configuration errors are fatal: a booking site without its PMS
		// credential must not start and guess.
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	pmsClient, err := pms.NewClient(cfg.PMSBaseURL, cfg.PMSAPIToken, cfg.PMSTimeout, cfg.PMSRateLimit, logger)
	if err != nil {
		logger.Error("pms client init failed", "error", err)
		os.Exit(1)
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := cache.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, content cache disabled", "error", err)
			cache = nil
		}
	}

	var reservationStore reservation.Store
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			logger.Warn("mongo unreachable, reservation idempotency disabled", "error", err)
		} else {
			defer func() { _ = client.Disconnect(context.Background()) }()
			mongoClient = client
			reservationStore = mongodb.NewReservationStore(client.Database(cfg.MongoDB))
		}
	}

	var publisher reservation.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
		if err != nil {
			logger.Warn("kafka unreachable, reservation events disabled", "error", err)
		} else {
			defer func() { _ = producer.Close() }()
			publisher = producer
		}
	}

	quoteSvc := &quote.Service{
		Listings:  pmsClient,
		Calendars: pmsClient,
		Prices:    pmsClient,
		Coupons:   pmsClient,
		Logger:    logger,
	}
	sessions := quote.NewSessions(quoteSvc, cfg.QuoteDebounce, 30*time.Minute)
	reservationSvc := &reservation.Service{
		Gateway:   pmsClient,
		Store:     reservationStore,
		Publisher: publisher,
		Logger:    logger,
	}
	cmsClient := cms.NewClient(cfg.CMSBaseURL, cfg.CMSTimeout, cache, cfg.ContentCacheTTL, logger)

	handlers := ginserver.Handlers{
		Listing:     ginserver.ListingHandler{PMS: pmsClient},
		Quote:       ginserver.QuoteHandler{Service: quoteSvc},
		Coupon:      ginserver.CouponHandler{Coupons: pmsClient},
		Reservation: ginserver.ReservationHandler{Service: reservationSvc},
		Content:     ginserver.ContentHandler{CMS: cmsClient},
		Session:     ginserver.SessionHandler{Sessions: sessions},
	}

	checks := map[string]func(ctx context.Context) error{}
	if cache != nil {
		checks["redis"] = func(ctx context.Context) error { return cache.Ping(ctx).Err() }
	}
	if mongoClient != nil {
		checks["mongo"] = func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) }
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Checks: checks}, handlers)

	go pruneSessions(ctx, sessions, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "env", env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func pruneSessions(ctx context.Context, sessions *quote.Sessions, logger *slog.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.Prune(); removed > 0 {
				logger.Debug("booking sessions pruned", "count", removed)
			}
		}
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
