package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"xedule/internal/config"
	"xedule/internal/domain"
	"xedule/internal/events"
	"xedule/internal/scheduler"
	"xedule/internal/secrets"
	"xedule/internal/service"
	"xedule/internal/storage/postgres"
	"xedule/internal/twitter"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	secretKey, err := cfg.SecretKeyBytes()
	if err != nil {
		logger.Error("failed to read secret key", "error", err)
		os.Exit(1)
	}

	cipher, err := secrets.NewCipher(secretKey)
	if err != nil {
		logger.Error("failed to init credential cipher", "error", err)
		os.Exit(1)
	}

	// Initialize RabbitMQ event publisher
	rabbitMQ, err := events.NewRabbitMQ(events.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	// Initialize stores
	postStore := postgres.NewPostStore(db)
	credentialStore := postgres.NewCredentialStore(db, cipher)

	// Initialize publish client factory
	factory := twitter.NewFactory(twitter.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})

	publishService := service.NewPublishService(
		postStore,
		credentialStore,
		service.ClientFactoryFunc(func(creds domain.Credentials) service.PublishClient {
			return factory.New(creds)
		}),
		rabbitMQ,
		service.NewClock(),
		logger,
		cfg.Publish,
	)

	sched := scheduler.NewScheduler(publishService, cfg.Publish.Interval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting post publisher",
		"interval", cfg.Publish.Interval,
		"max_attempts", cfg.Publish.MaxAttempts,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
