package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/velostra/platform-api/internal/infra/config"
	"github.com/velostra/platform-api/internal/infra/i18n"
	"github.com/velostra/platform-api/internal/transport/http/handlers"
	"github.com/velostra/platform-api/internal/transport/http/middleware"
	"github.com/velostra/platform-api/internal/transport/http/sessioncookie"
	"github.com/velostra/platform-api/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Registration  *usecase.RegistrationService
	OAuth         *usecase.OAuthService
	PasswordReset *usecase.PasswordResetService
	Sessions      *usecase.SessionService
	Posts         *usecase.PostService
	Contact       *usecase.ContactService
	Users         *usecase.UserAdminService
	Settings      *usecase.SettingsService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Translator  *i18n.Translator
	Cookies     *sessioncookie.Manager
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	optionalAuth := middleware.OptionalAuth(deps.Services.Sessions)
	requireAuth := middleware.RequireAuth(deps.Services.Sessions)
	requireAdmin := middleware.RequireAdmin()

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.Locale(deps.Config.I18n.DefaultLocale))
	{
		isDev := deps.Config.App.IsDevelopment()

		authHandler := handlers.NewAuthHandler(
			deps.Services.Auth,
			deps.Services.Registration,
			deps.Cookies,
			deps.Translator,
		)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", withRateLimit(deps, "auth_register_ip", deps.Config.RateLimit.RegisterMaxAttempts, authHandler.Register)...)
		authGroup.POST("/login", withRateLimit(deps, "auth_login_ip", deps.Config.RateLimit.LoginMaxAttempts, authHandler.Login)...)
		authGroup.POST("/logout", optionalAuth, authHandler.Logout)
		authGroup.GET("/me", requireAuth, authHandler.Me)

		oauthHandler := handlers.NewOAuthHandler(deps.Services.OAuth, deps.Cookies, !isDev)
		authGroup.GET("/providers", oauthHandler.Providers)
		authGroup.GET("/github", oauthHandler.Begin("github"))
		authGroup.GET("/google", oauthHandler.Begin("google"))
		authGroup.GET("/callback/:provider", oauthHandler.Callback)

		passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset, deps.Translator, isDev, deps.Config.App.BaseURL)
		authGroup.POST("/forgot-password", withRateLimit(deps, "password_reset_ip", deps.Config.RateLimit.PasswordResetMaxAttempts, passwordHandler.Forgot)...)
		authGroup.POST("/reset-password", passwordHandler.Reset)

		postHandler := handlers.NewPostHandler(deps.Services.Posts)
		api.GET("/posts", postHandler.List)
		api.GET("/posts/:slug", postHandler.BySlug)

		contactHandler := handlers.NewContactHandler(deps.Services.Contact, deps.Translator)
		api.POST("/contact", contactHandler.Submit)

		admin := api.Group("/admin")
		admin.Use(requireAuth, requireAdmin)
		{
			userHandler := handlers.NewAdminUserHandler(deps.Services.Users)
			admin.GET("/users", userHandler.List)
			admin.GET("/users/:id", userHandler.Get)
			admin.PATCH("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			postAdmin := handlers.NewAdminPostHandler(deps.Services.Posts)
			admin.GET("/posts", postAdmin.List)
			admin.POST("/posts", postAdmin.Create)
			admin.GET("/posts/:id", postAdmin.Get)
			admin.PATCH("/posts/:id", postAdmin.Update)
			admin.DELETE("/posts/:id", postAdmin.Delete)

			messageHandler := handlers.NewAdminMessageHandler(deps.Services.Contact)
			admin.GET("/messages", messageHandler.List)
			admin.GET("/messages/:id", messageHandler.Get)
			admin.POST("/messages/:id/read", messageHandler.MarkRead)
			admin.DELETE("/messages/:id", messageHandler.Delete)

			settingsHandler := handlers.NewAdminSettingsHandler(deps.Services.Settings)
			admin.GET("/settings", settingsHandler.Get)
			admin.PATCH("/settings", settingsHandler.Update)
		}
	}

	handlers.RegisterSwagger(r)

	return r
}

// withRateLimit wraps the handler with a per-IP sliding-window rule when
// rate limiting is configured.
func withRateLimit(deps Dependencies, name string, limit int, handler gin.HandlerFunc) []gin.HandlerFunc {
	if deps.RateLimiter == nil || limit <= 0 {
		return []gin.HandlerFunc{handler}
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule), handler}
}
