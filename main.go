package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/auth"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/availability"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/booking"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/catalog"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/config"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/directory"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/events"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/httpapi"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/logging"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/metrics"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/notify"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/payments"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/store/memstore"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/store/mongostore"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/telemetry"
)

const serviceName = "hospital-management-server"

// portalStore is everything the components need from a backend.
type portalStore interface {
	catalog.Source
	availability.ServiceSource
	availability.BookingSource
	booking.Store
	booking.PaymentLog
	directory.UserStore
	directory.DoctorStore
	directory.FeedbackStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		boot := logging.Default()
		boot.Fatal().Err(err).Msg("failed to load .env file")
	}
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("failed to close store")
		}
	}()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up tracing")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error().Err(err).Msg("failed to flush traces")
		}
	}()
	if cfg.OTelEndpoint != "" {
		logger.Info().Str("endpoint", cfg.OTelEndpoint).Msg("exporting traces over OTLP")
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, events will be dropped until it recovers")
		}
		publisher = events.NewRedisPublisher(rdb, cfg.EventsChannel)
		logger.Info().Str("channel", cfg.EventsChannel).Msg("publishing booking events to redis")
	}

	var mailer notify.Mailer = notify.Nop{}
	if m := notify.NewSendGridMailer(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); m != nil {
		mailer = m
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	bookings := booking.NewService(booking.Config{
		Bookings: store,
		Payments: store,
		Events:   publisher,
		Mailer:   mailer,
		Metrics:  m,
		Logger:   logger.With().Str("component", "booking").Logger(),
	})

	api := httpapi.New(httpapi.Config{
		Catalog:      catalog.New(store),
		Availability: availability.New(store, store),
		Bookings:     bookings,
		Directory: directory.NewService(directory.Config{
			Users:    store,
			Doctors:  store,
			Feedback: store,
			Tokens:   issuer,
			Logger:   logger.With().Str("component", "directory").Logger(),
		}),
		Payments: payments.NewStripeClient(payments.Config{
			SecretKey: cfg.StripeSecretKey,
			BaseURL:   cfg.StripeBaseURL,
			Currency:  cfg.PaymentCurrency,
			DryRun:    cfg.StripeDryRun,
		}, m, logger.With().Str("component", "payments").Logger()),
		Tokens:         issuer,
		Health:         store,
		Metrics:        m,
		Gatherer:       prometheus.DefaultGatherer,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Doctors portal server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Error().Err(err).Msg("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := bookings.Wait(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("pending confirmation emails abandoned")
	}
	logger.Info().Msg("server stopped")
}

// openStore connects to MongoDB and ensures indexes, or builds an in-memory
// store seeded with a small catalog.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (portalStore, error) {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return memstore.New(defaultServices()...), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	store, err := mongostore.Connect(connectCtx, cfg.DatabaseURI, cfg.DatabaseName)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(connectCtx); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}
	logger.Info().Str("database", cfg.DatabaseName).Msg("connected to MongoDB")
	return store, nil
}

func defaultServices() []models.Service {
	slots := []string{"08.00 AM - 08.30 AM", "08.30 AM - 09.00 AM", "09.00 AM - 09.30 AM", "09.30 AM - 10.00 AM", "10.00 AM - 10.30 AM"}
	return []models.Service{
		{Name: "Teeth Orthodontics", Slots: slots, Price: 120},
		{Name: "Cosmetic Dentistry", Slots: slots, Price: 150},
		{Name: "Teeth Cleaning", Slots: slots, Price: 80},
		{Name: "Cavity Protection", Slots: slots, Price: 95},
	}
}
