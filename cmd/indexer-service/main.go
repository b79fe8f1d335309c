package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/nursenav/listings-be/internal/config"
	"github.com/nursenav/listings-be/internal/indexer"
	"github.com/nursenav/listings-be/internal/listing/storage"
	"github.com/nursenav/listings-be/internal/taxonomy"
	"github.com/nursenav/listings-be/shared/logger"
	"github.com/nursenav/listings-be/shared/postgresql"
	"github.com/nursenav/listings-be/shared/rabbitmq"
	"github.com/nursenav/listings-be/shared/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("INDEXER_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/indexer-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	runOnce := flag.Bool("once", false, "Run a single tracking pass and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateIndexerConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger := logger.New(&logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.EnableCaller,
		TimeFormat: time.RFC3339,
	})

	appLogger.Info("Starting indexer service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	reg, err := taxonomy.Default()
	if err != nil {
		return fmt.Errorf("failed to build taxonomy registry: %w", err)
	}

	dbClient, err := postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbClient.Close()

	redisClient, err := redis.NewClient(&redis.Config{URL: cfg.Redis.URL}, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redisClient.Close()

	// The change-event exchange is optional: without a rabbitmq host the
	// tracker still notifies the push API, it just skips fan-out.
	var events indexer.EventPublisher
	if cfg.RabbitMQ.Host != "" {
		rabbitClient, err := rabbitmq.NewClient(&rabbitmq.Config{
			Host:               cfg.RabbitMQ.Host,
			Port:               cfg.RabbitMQ.Port,
			User:               cfg.RabbitMQ.User,
			Password:           cfg.RabbitMQ.Password,
			VHost:              cfg.RabbitMQ.VHost,
			ExchangeName:       cfg.RabbitMQ.Exchange.Name,
			ExchangeType:       cfg.RabbitMQ.Exchange.Type,
			ExchangeDurable:    cfg.RabbitMQ.Exchange.Durable,
			RoutingKey:         cfg.RabbitMQ.RoutingKey,
			RetryAttempts:      cfg.RabbitMQ.Connection.RetryAttempts,
			RetryInterval:      cfg.RabbitMQ.Connection.RetryInterval,
			Heartbeat:          cfg.RabbitMQ.Connection.Heartbeat,
			PublishRetries:     cfg.RabbitMQ.Publish.RetryAttempts,
			PublishRetryDelay:  cfg.RabbitMQ.Publish.RetryInterval,
			PublishBackoffMult: cfg.RabbitMQ.Publish.BackoffMultiplier,
		}, appLogger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		defer rabbitClient.Close()
		events = rabbitClient
	}

	store := storage.NewStore(dbClient, reg, appLogger)
	enum := indexer.NewEnumerator(store, reg, cfg.Indexer.BaseURL)
	fps := indexer.NewRedisFingerprintStore(redisClient.GetClient(), cfg.Indexer.StateKey)
	notifier := indexer.NewHTTPNotifier(cfg.Indexer.PushEndpoint, cfg.Indexer.APIKey, 30*time.Second, appLogger)

	tracker := indexer.NewTracker(enum, fps, notifier, events, indexer.Config{
		BatchSize:        cfg.Indexer.BatchSize,
		BatchDelay:       cfg.Indexer.BatchDelay,
		RateLimitBackoff: cfg.Indexer.RateLimitBackoff,
		RateLimitRetries: cfg.Indexer.RateLimitRetries,
	}, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runPass := func() {
		summary, err := tracker.Run(ctx)
		if err != nil {
			appLogger.Error("Tracking pass failed",
				slog.Any("error", err),
			)
			return
		}
		appLogger.Info("Tracking pass finished",
			slog.String("run_id", summary.RunID),
			slog.Int("pages", summary.Pages),
			slog.Int("submitted", summary.Submitted),
			slog.Int("failed", len(summary.FailedURLs)),
		)
	}

	if *runOnce {
		runPass()
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Indexer.Schedule, runPass); err != nil {
		return fmt.Errorf("failed to schedule tracker: %w", err)
	}
	c.Start()
	appLogger.Info("Tracker scheduled",
		slog.String("schedule", cfg.Indexer.Schedule),
	)

	// Run immediately so a fresh deployment does not wait for the first tick.
	go runPass()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down indexer service...")
	cancel()
	stopCtx := c.Stop()
	<-stopCtx.Done()

	appLogger.Info("Indexer service shutdown complete")
	return nil
}
