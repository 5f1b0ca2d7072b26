package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aarti98/ConferenceBookingSystem/internal/api"
	"github.com/aarti98/ConferenceBookingSystem/internal/audit"
	"github.com/aarti98/ConferenceBookingSystem/internal/auth"
	"github.com/aarti98/ConferenceBookingSystem/internal/booking"
	"github.com/aarti98/ConferenceBookingSystem/internal/config"
	"github.com/aarti98/ConferenceBookingSystem/internal/events"
	"github.com/aarti98/ConferenceBookingSystem/internal/grid"
	"github.com/aarti98/ConferenceBookingSystem/internal/metrics"
	"github.com/aarti98/ConferenceBookingSystem/internal/models"
	"github.com/aarti98/ConferenceBookingSystem/internal/notify"
	"github.com/aarti98/ConferenceBookingSystem/internal/quota"
	"github.com/aarti98/ConferenceBookingSystem/internal/store"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("BOOKING_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	dir := store.New()
	if err := seedDirectory(dir, cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed directory")
	}

	var sessions auth.SessionStore = auth.NewMemorySessions()
	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		sessions = auth.NewRedisSessions(rdb, cfg.SessionWindow())
		logger.Info().Str("address", cfg.Redis.Address).Msg("using redis session store")
	}
	authSvc := auth.NewService(dir, sessions, cfg.SessionWindow(), logger)

	var mailer notify.Mailer
	if cfg.SMTP.Host != "" {
		mailer, err = notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid SMTP config")
		}
	} else {
		mailer = notify.NewLogMailer(logger)
	}
	notifier := notify.NewEmailNotifier(mailer, notify.DefaultConfig(), logger)

	bus := events.NewBus()

	var journal *audit.Journal
	if cfg.Audit.Enabled {
		journal, err = audit.Open(cfg.Audit.Path, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("open audit journal")
		}
		defer journal.Close()
		journal.Subscribe(bus)
	}

	calc := quota.NewCalculator(cfg.Booking.MonthlyLimitHours, cfg.Booking.WarnThresholdHours)
	engine := booking.New(dir, grid.New(), calc, authSvc, notifier, bus, cfg.CancelGrace(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if journal != nil && cfg.Audit.Backup.Enabled {
		backup := audit.NewBackupService(cfg.Audit.Path, audit.BackupConfig{
			Enabled:       true,
			StoragePath:   cfg.Audit.Backup.StoragePath,
			RetentionDays: cfg.Audit.Backup.RetentionDays,
			IntervalHours: cfg.Audit.Backup.IntervalHours,
		}, logger)
		go backup.Run(ctx)
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	handlers := api.NewHandlers(authSvc, engine, journal, logger)
	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: handlers.Router()}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
		notifier.Flush()
	}()

	logger.Info().Int("port", cfg.Server.Port).Msg("booking service started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("api server error")
	}
}

// seedDirectory creates the bootstrap organization and admin user so the
// service is reachable on first start.
func seedDirectory(dir *store.Store, cfg *config.Config) error {
	orgName := cfg.Bootstrap.OrgName
	if orgName == "" {
		orgName = "Default Organization"
	}
	username := cfg.Bootstrap.AdminUsername
	if username == "" {
		username = "admin"
	}
	password := cfg.Bootstrap.AdminPassword
	if password == "" {
		password = "admin"
	}

	org := &models.Organization{ID: uuid.NewString(), Name: orgName}
	if err := dir.CreateOrganization(org); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		ID:           uuid.NewString(),
		OrgID:        org.ID,
		Name:         username,
		Email:        cfg.Bootstrap.AdminEmail,
		Role:         models.RoleAdmin,
		Permissions:  []string{models.PermissionBook},
		PasswordHash: hash,
	}
	return dir.CreateUser(admin)
}

func startHealthServer(ctx context.Context, port int, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if rdb != nil {
			ctxPing, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
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
