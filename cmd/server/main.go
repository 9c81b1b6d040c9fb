package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"adriastay/internal/api"
	"adriastay/internal/audit"
	"adriastay/internal/config"
	"adriastay/internal/database"
	"adriastay/internal/events"
	"adriastay/internal/feeds"
	"adriastay/internal/metrics"
	"adriastay/internal/notify"
	"adriastay/internal/pricing"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	// Optional .env file feeds the ${VAR} placeholders in config.yaml.
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load(os.Getenv("ADRIASTAY_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	pricingCfg, err := config.LoadPricingConfig(cfg.Pricing.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load pricing config")
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Keep the apartment registry in sync with the pricing configuration.
	for _, apt := range pricingCfg.Apartments {
		maxGuests := apt.MaxGuests
		if maxGuests == 0 {
			maxGuests = 2
		}
		if err := db.UpsertApartment(ctx, apt.Name, maxGuests); err != nil {
			logger.Fatal().Err(err).Str("apartment", apt.Name).Msg("sync apartment")
		}
	}

	store := pricing.NewStore(pricingCfg.Profiles(), &logger)
	engine := pricing.NewEngine(store, &logger)

	var feedSource feeds.Source
	if cfg.Feeds.Google.Enabled {
		feedSource, err = feeds.NewGoogleCalendarSource(ctx, cfg.Feeds.Google.CredentialsFile, cfg.Feeds.Google.CalendarIDs)
		if err != nil {
			logger.Fatal().Err(err).Msg("create google calendar source")
		}
	} else if cfg.Feeds.BaseURL != "" {
		httpSource := feeds.NewHTTPSource(cfg.Feeds.BaseURL, cfg.Feeds.APIKey)
		var rdb *redis.Client
		if cfg.Redis.Address != "" && cfg.Feeds.CacheTTLSeconds > 0 {
			rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			httpSource.UseRedisCache(rdb, time.Duration(cfg.Feeds.CacheTTLSeconds)*time.Second)
		}
		feedSource = httpSource
	}

	bus := events.NewBus()
	if cfg.Telegram.BotToken != "" && len(cfg.Telegram.OwnerIDs) > 0 {
		notifier, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.OwnerIDs, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("create telegram notifier")
		}
		notifier.SubscribeTo(bus)
	}

	exporter := audit.NewService(db, &logger)

	backup := database.NewBackupService(cfg.Database.Path, cfg.Database.Backup, &logger)
	go backup.Run(ctx)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.NewHTTPServer(cfg.Server.Port, store, engine, db, feedSource, bus, exporter, &logger)
	logger.Info().Int("apartments", len(pricingCfg.Apartments)).Msg("adriastay started")
	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("API server error")
	}
}

func startHealthServer(ctx context.Context, port int, db *database.DB, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
