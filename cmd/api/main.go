package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/time/rate"

	"github.com/promokit/lucky-wheel/internal/config"
	httphandler "github.com/promokit/lucky-wheel/internal/delivery/http"
	"github.com/promokit/lucky-wheel/internal/delivery/kafka"
	"github.com/promokit/lucky-wheel/internal/engine"
	"github.com/promokit/lucky-wheel/internal/repository"
	"github.com/promokit/lucky-wheel/internal/shopify"
	"github.com/promokit/lucky-wheel/internal/usecase"
)

func main() {
	cfg := config.Load()

	defer logger.Init("lucky-wheel", true, false, io.Discard).Close()

	pool, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := repository.RunMigrations(pool, "db/migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	wheel, err := buildWheel(cfg)
	if err != nil {
		log.Fatalf("Failed to build wheel: %v", err)
	}

	loc, err := time.LoadLocation(cfg.WheelTimezone)
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", cfg.WheelTimezone, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher usecase.EventPublisher = kafka.NoopPublisher{}
	var kafkaClient *kgo.Client
	if cfg.EventDrivenEnabled == "true" {
		kafkaClient, err = kgo.NewClient(
			kgo.SeedBrokers(strings.Split(cfg.KafkaBrokers, ",")...),
			kgo.ClientID(cfg.KafkaClientID),
		)
		if err != nil {
			log.Fatalf("Failed to create kafka client: %v", err)
		}
		if err := kafka.EnsureTopics(ctx, kafkaClient, cfg); err != nil {
			log.Printf("Warning: failed to ensure topics: %v", err)
		}
		publisher = kafka.NewPublisher(kafkaClient)
	}

	store := repository.New(pool)
	issuer := shopify.NewClient(
		cfg.ShopifyStoreDomain,
		cfg.ShopifyAccessToken,
		cfg.ShopifyAPIVersion,
		time.Duration(cfg.CouponValidity())*time.Hour,
	)
	service := usecase.NewSpinService(store, wheel, issuer, publisher, loc)

	perMinute, burst := cfg.RateLimit()
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
	handler := httphandler.NewHandler(service, httphandler.RateLimit(limiter))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(httphandler.SecurityHeaders)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handler.Routes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	if kafkaClient != nil {
		kafkaClient.Close()
	}

	wg.Wait()
	log.Println("Shutdown complete")
}

func initDB(cfg *config.Config) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

func buildWheel(cfg *config.Config) (*engine.Wheel, error) {
	entries := cfg.Weights()
	table := make([]engine.WeightedPrize, 0, len(entries))
	for _, e := range entries {
		table = append(table, engine.WeightedPrize{Value: e.Value, Weight: e.Weight})
	}
	return engine.NewWheel(table, cfg.RetryCapValue())
}
