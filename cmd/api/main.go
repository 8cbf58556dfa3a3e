package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/homebarber/internal/audit"
	"github.com/BruksfildServices01/homebarber/internal/config"
	dbpkg "github.com/BruksfildServices01/homebarber/internal/db"
	"github.com/BruksfildServices01/homebarber/internal/domain/appointment"
	"github.com/BruksfildServices01/homebarber/internal/domain/barber"
	"github.com/BruksfildServices01/homebarber/internal/domain/catalog"
	"github.com/BruksfildServices01/homebarber/internal/domain/identity"
	"github.com/BruksfildServices01/homebarber/internal/geo"
	"github.com/BruksfildServices01/homebarber/internal/infra/memory"
	infraRepo "github.com/BruksfildServices01/homebarber/internal/infra/repository"
	"github.com/BruksfildServices01/homebarber/internal/jobs"
	"github.com/BruksfildServices01/homebarber/internal/logger"
	"github.com/BruksfildServices01/homebarber/internal/metrics"
	"github.com/BruksfildServices01/homebarber/internal/middleware"
	"github.com/BruksfildServices01/homebarber/internal/payment"
	"github.com/BruksfildServices01/homebarber/internal/routes"
	"github.com/BruksfildServices01/homebarber/internal/seed"
	"github.com/BruksfildServices01/homebarber/internal/snapshot"
	"github.com/BruksfildServices01/homebarber/internal/storage"
	"github.com/BruksfildServices01/homebarber/internal/store"
	"github.com/BruksfildServices01/homebarber/internal/timezone"
	"github.com/BruksfildServices01/homebarber/internal/validators"
)

type repositories struct {
	users        identity.Repository
	services     catalog.Repository
	barbers      barber.Repository
	appointments appointment.Repository
	auditSink    audit.Sink
}

func main() {
	if err := run(); err != nil {
		log := logger.New("development")
		log.Fatal().Err(err).Msg("homebarber stopped")
	}
}

// run returns instead of exiting so deferred cleanup, such as draining the
// audit queue, always happens.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Environment)
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// ======================================================
	// INFRA
	// ======================================================
	repos, err := newRepositories(cfg, log)
	if err != nil {
		return fmt.Errorf("init backend: %w", err)
	}

	snapshots, err := newSnapshotStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init snapshot storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(reg)

	dispatcher := audit.NewDispatcher(repos.auditSink, log)
	defer dispatcher.Close()

	clock := timezone.ClockIn(cfg.Timezone)
	opts := store.Options{
		Log:     log,
		Metrics: recorder,
		Audit:   dispatcher,
		Clock:   clock,
		Timeout: cfg.Booking.RequestTimeout,
	}

	// ======================================================
	// STORES
	// ======================================================
	catalogStore := store.NewCatalog(repos.services, opts)
	providerStore := store.NewProvider(repos.barbers, geo.NewStaticGeocoder(), opts)
	bookingStore := store.NewBooking(
		repos.appointments,
		providerStore,
		snapshots,
		store.BookingConfig{
			RejectDoubleBooking: cfg.Booking.RejectDoubleBooking,
			Location:            timezone.Location(cfg.Timezone),
		},
		opts,
	)

	tokens := identity.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.JWTTTL)
	identityDeps := store.IdentityDeps{
		Users:    repos.users,
		Tokens:   tokens,
		Storage:  snapshots,
		Profiles: providerStore,
	}
	if cfg.Security.CheckEmailDomain {
		identityDeps.Emails = validators.NewEmailDomainChecker()
	}
	sessions := store.NewSessions(identityDeps, opts)

	if err := catalogStore.Fetch(ctx); err != nil {
		log.Warn().Err(err).Msg("initial catalog fetch failed")
	}
	if err := providerStore.Fetch(ctx); err != nil {
		log.Warn().Err(err).Msg("initial barber fetch failed")
	}
	if err := bookingStore.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("restore booking snapshot failed")
	}

	// ======================================================
	// OPTIONAL INTEGRATIONS
	// ======================================================
	var objects storage.ObjectStore
	if cfg.StorageEnabled() {
		objects = storage.NewS3Store(cfg.Storage)
		log.Info().Str("bucket", cfg.Storage.Bucket).Msg("avatar uploads enabled")
	}

	var payments payment.Provider
	if cfg.Payment.MercadoPagoToken != "" {
		mp, err := payment.NewMercadoPago(cfg.Payment.MercadoPagoToken, cfg.Payment.Currency)
		if err != nil {
			return fmt.Errorf("init mercadopago: %w", err)
		}
		payments = mp
	}

	// ======================================================
	// JOBS
	// ======================================================
	scheduler := jobs.NewScheduler(
		cfg.Jobs,
		[]jobs.Fetcher{catalogStore, providerStore},
		bookingStore,
		clock,
		log,
	)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}

	// ======================================================
	// HTTP
	// ======================================================
	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.AuthPerMinute)
	defer authLimiter.Stop()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log, recorder),
		middleware.Recovery(log),
	)

	routes.RegisterRoutes(r, routes.Deps{
		Config:      cfg,
		Clock:       clock,
		Tokens:      tokens,
		Gatherer:    reg,
		Sessions:    sessions,
		Catalog:     catalogStore,
		Provider:    providerStore,
		Booking:     bookingStore,
		Objects:     objects,
		Payments:    payments,
		AuthLimiter: authLimiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("backend", cfg.Backend.Driver).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		log.Info().Msg("shutting down")
	case err := <-serveErr:
		runErr = fmt.Errorf("serve http: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	scheduler.Stop(shutdownCtx)
	return runErr
}

func newRepositories(cfg *config.AppConfig, log zerolog.Logger) (repositories, error) {
	if cfg.Backend.Driver == config.BackendPostgres {
		db, err := dbpkg.NewDB(cfg.Postgres, log)
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			users:        infraRepo.NewUserGormRepository(db),
			services:     infraRepo.NewServiceGormRepository(db),
			barbers:      infraRepo.NewBarberGormRepository(db),
			appointments: infraRepo.NewAppointmentGormRepository(db),
			auditSink:    audit.NewGormSink(db),
		}, nil
	}

	latency := cfg.Backend.Latency
	log.Info().Dur("latency", latency).Msg("using in-memory backend")
	return repositories{
		users:        memory.NewUserRepository(latency),
		services:     memory.NewServiceRepository(latency, seed.Services()),
		barbers:      memory.NewBarberRepository(latency, seed.Barbers()),
		appointments: memory.NewAppointmentRepository(latency),
		auditSink:    audit.NewLogSink(log),
	}, nil
}

func newSnapshotStorage(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (snapshot.Storage, error) {
	if cfg.Snapshot.Driver != config.SnapshotRedis {
		return snapshot.NewMemoryStorage(), nil
	}

	client, err := snapshot.NewRedisClient(ctx, snapshot.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis snapshot storage ready")
	return snapshot.NewRedisStorage(client, cfg.Redis.Prefix), nil
}
