package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/didip/tollbooth/v7"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/souktrack/souktrack/cmd/souktrack/config"
	"github.com/souktrack/souktrack/internal/extractor"
	"github.com/souktrack/souktrack/internal/fetcher"
	"github.com/souktrack/souktrack/internal/handler"
	"github.com/souktrack/souktrack/internal/platform/models"
	"github.com/souktrack/souktrack/internal/platform/rabbitmq"
	"github.com/souktrack/souktrack/internal/platform/storage"
	"github.com/souktrack/souktrack/internal/scheduler"
	"github.com/souktrack/souktrack/internal/tracker"
)

// store is the full catalog and ledger contract both backends satisfy.
type store interface {
	Upsert(ctx context.Context, snapshot models.Snapshot) (*models.Product, models.Outcome, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Append(ctx context.Context, point models.PricePoint) error
	History(ctx context.Context, productID string) ([]models.PricePoint, error)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	_ = godotenv.Load()

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	var (
		st   store = storage.NewMemory()
		pgDB *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		pgDB, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't open Postgres connection")
		}
		if err := storage.CreateTables(ctx, pgDB); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't create database schema")
		}
		st = storage.NewPostgres(pgDB)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory storage")
	}

	tra := tracker.NewTracker(
		fetcher.NewFetcher(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.UserAgent),
		extractor.NewExtractor(),
		st,
		st,
		cfg.PoolSize,
	)

	router := mux.NewRouter()
	handler.NewHTTPHandler(st, tra, &logger).Register(router)

	limiter := tollbooth.NewLimiter(cfg.RateLimitRPS, nil)
	corsHandler := cors.New(cors.Options{AllowedOrigins: cfg.Origins})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           corsHandler.Handler(tollbooth.LimitHandler(limiter, router)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().
				Err(err).
				Msg("http server failed")
			cancel()
		}
	}()

	var (
		amqpConnection *amqp.Connection
		conn           *rabbitmq.RabbitMQ
	)
	if cfg.RabbitMQ.URL != "" {
		var err error
		amqpConnection, err = amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't open RabbitMQ connection")
		}

		conn, err = rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't open RabbitMQ channel")
		}

		if err := handler.NewRMQHandler(conn, tra, &logger).Start(ctx, cfg.RabbitMQ.Queue); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't start consuming")
		}
	}

	sch := scheduler.NewScheduler(st, tra, &logger)
	if err := sch.Start(ctx, cfg.Recheck); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start scheduler")
	}

	logger.Info().
		Str("addr", cfg.HTTPAddr).
		Msg("souktrack up and running")

	// handle graceful shutdown and context cancellation
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-termChan:
		cancel()
	case <-ctx.Done():
	}

	logger.Info().Msg("graceful shutdown start")

	sch.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().
			Err(err).
			Msg("can't shut down http server")
	}

	// wait for consumer to finish
	if conn != nil {
		<-conn.Done()
	}

	// close connections
	wg := sync.WaitGroup{}

	if pgDB != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pgDB.Close(); err != nil {
				logger.Error().
					Err(err).
					Msg("can't close Postgres connection")
			}
		}()
	}

	if amqpConnection != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := amqpConnection.Close(); err != nil {
				logger.Error().
					Err(err).
					Msg("can't close RabbitMQ connection")
			}
		}()
	}

	wg.Wait()

	logger.Info().Msg("graceful shutdown successful")
}
