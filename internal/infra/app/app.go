package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/infra/config"
	"github.com/velostra/platform-api/internal/infra/database"
	"github.com/velostra/platform-api/internal/infra/geoip"
	"github.com/velostra/platform-api/internal/infra/i18n"
	"github.com/velostra/platform-api/internal/infra/jobs"
	kafkainfra "github.com/velostra/platform-api/internal/infra/kafka"
	"github.com/velostra/platform-api/internal/infra/logger"
	oauthinfra "github.com/velostra/platform-api/internal/infra/oauth"
	redisinfra "github.com/velostra/platform-api/internal/infra/redis"
	"github.com/velostra/platform-api/internal/infra/security"
	"github.com/velostra/platform-api/internal/repository"
	postgresrepo "github.com/velostra/platform-api/internal/repository/postgres"
	redisrepo "github.com/velostra/platform-api/internal/repository/redis"
	"github.com/velostra/platform-api/internal/transport/http/middleware"
	"github.com/velostra/platform-api/internal/transport/http/routes"
	"github.com/velostra/platform-api/internal/transport/http/sessioncookie"
	"github.com/velostra/platform-api/internal/usecase"
)

// Application owns the wired service graph and its lifecycle.
type Application struct {
	cfg     *config.AppConfig
	engine  *gin.Engine
	logger  *zap.Logger
	pool    *pgxpool.Pool
	redis   *redisinfra.Client
	sweeper *jobs.SessionSweeper
}

// New wires configuration, infrastructure, repositories, and services
// into a runnable application.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if err := security.ConfigureArgon2(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	translator, err := i18n.NewTranslator(cfg.I18n.DefaultLocale)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init translator: %w", err)
	}

	geoResolver := geoip.NewClient(cfg.GeoIP.Endpoint, cfg.GeoIP.Timeout, log)
	providers := oauthinfra.NewRegistry(cfg.OAuth, cfg.App.BaseURL)
	passwordValidator := security.DefaultPasswordValidator()

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "platform:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	sessionTTL := cfg.Sessions.TTL
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}

	sessionService := usecase.NewSessionService(repos.Sessions, sessionTTL)
	authService := usecase.NewAuthService(repos.Users, sessionService, eventPublisher)
	registrationService := usecase.NewRegistrationService(repos.Users, repos.Settings, sessionService, geoResolver, passwordValidator, eventPublisher)
	oauthService := usecase.NewOAuthService(providers, repos.Users, repos.Accounts, repos.Settings, sessionService, geoResolver, eventPublisher)
	passwordResetService := usecase.NewPasswordResetService(repos.Users, sessionService, passwordValidator, eventPublisher, log)
	userAdminService := usecase.NewUserAdminService(repos.Users, sessionService)
	postService := usecase.NewPostService(repos.Posts, cfg.I18n.DefaultLocale)
	contactService := usecase.NewContactService(repos.Messages, eventPublisher)
	settingsService := usecase.NewSettingsService(repos.Settings)

	if err := seedAdmin(ctx, cfg.Admin, repos.Users, log); err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	cookies := sessioncookie.NewManager(int(sessionTTL/time.Second), !cfg.App.IsDevelopment())

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Translator:  translator,
		Cookies:     cookies,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:          authService,
			Registration:  registrationService,
			OAuth:         oauthService,
			PasswordReset: passwordResetService,
			Sessions:      sessionService,
			Posts:         postService,
			Contact:       contactService,
			Users:         userAdminService,
			Settings:      settingsService,
		},
	})

	sweeper := jobs.NewSessionSweeper(repos.Sessions, log)

	return &Application{
		cfg:     cfg,
		engine:  engine,
		logger:  log,
		pool:    pool,
		redis:   redisClient,
		sweeper: sweeper,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	if err := a.sweeper.Start(a.cfg.Sessions.SweepInterval); err != nil {
		return fmt.Errorf("start session sweeper: %w", err)
	}
	defer a.sweeper.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting platform API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

// seedAdmin creates the first admin account when configured and absent.
// An existing user with the configured email is left untouched.
func seedAdmin(ctx context.Context, cfg config.AdminSeedSettings, users port.UserRepository, log *zap.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	_, err := users.GetByEmail(ctx, cfg.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup admin account: %w", err)
	}

	hash, err := security.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:              uuid.NewString(),
		Email:           cfg.Email,
		PasswordHash:    hash,
		Role:            domain.UserRoleAdmin,
		Status:          domain.UserStatusActive,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil
		}
		return fmt.Errorf("create admin account: %w", err)
	}

	log.Info("seeded initial admin account", zap.String("email", logger.MaskEmail(cfg.Email)))
	return nil
}
