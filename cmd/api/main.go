// Package main is the entrypoint for the ScanGate API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/linuxoverapi/scangate/internal/cache"
	"github.com/linuxoverapi/scangate/internal/config"
	"github.com/linuxoverapi/scangate/internal/handler"
	"github.com/linuxoverapi/scangate/internal/identity"
	"github.com/linuxoverapi/scangate/internal/metrics"
	"github.com/linuxoverapi/scangate/internal/middleware"
	"github.com/linuxoverapi/scangate/internal/repository"
	"github.com/linuxoverapi/scangate/internal/scanner"
	"github.com/linuxoverapi/scangate/internal/server"
	"github.com/linuxoverapi/scangate/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Services
	metricsRecorder := metrics.NewInMemory()
	issuer := identity.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	identitySvc := identity.NewService(repo, issuer)
	keySvc := service.NewKeyService(repo, identitySvc, metricsRecorder)
	quotaSvc := service.NewQuotaService(repo, int64(cfg.FreeQuotaCeiling), metricsRecorder)
	accountSvc := service.NewAccountService(repo, identitySvc)
	scanSvc := service.NewScanService(
		quotaSvc,
		scanner.NewRegistry(),
		scanner.NewExecRunner(),
		repo,
		cfg.ScanTimeout,
		logger,
		metricsRecorder,
	)

	// Handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(identitySvc, logger)
	apiKeyHandler := handler.NewAPIKeyHandler(keySvc, logger)
	scanHandler := handler.NewScanHandler(scanSvc, logger)
	userHandler := handler.NewUserHandler(identitySvc, accountSvc, logger)
	adminHandler := handler.NewAdminHandler(keySvc, accountSvc, logger)

	r := setupRouter(routerDeps{
		base:    h,
		health:  healthHandler,
		auth:    authHandler,
		apiKeys: apiKeyHandler,
		scans:   scanHandler,
		users:   userHandler,
		admin:   adminHandler,
		cache:   cacheClient,
		cfg:     cfg,
		logger:  logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"scan_timeout", cfg.ScanTimeout.String(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	base    *handler.Handler
	health  *handler.HealthHandler
	auth    *handler.AuthHandler
	apiKeys *handler.APIKeyHandler
	scans   *handler.ScanHandler
	users   *handler.UserHandler
	admin   *handler.AdminHandler
	cache   *cache.Cache
	cfg     *config.Config
	logger  *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.MaxBody(deps.cfg.MaxRequestBodySize))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	authRateLimit := middleware.RateLimitConfig{
		Logger:  deps.logger,
		Cache:   deps.cache,
		Enabled: deps.cfg.RateLimitAuthEnabled,
		RPS:     deps.cfg.RateLimitAuthRPS,
		Burst:   deps.cfg.RateLimitAuthBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public identity endpoints, IP rate limited
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimitIP(authRateLimit))
			r.Post("/register", deps.auth.Register)
			r.Post("/login", deps.auth.Login)
			r.Post("/validate-token", deps.auth.ValidateToken)
		})

		// API key management; session proof carried in the request
		r.Route("/apikeys", func(r chi.Router) {
			r.Post("/generate", deps.apiKeys.Generate)
			r.Get("/count/{token}", deps.apiKeys.Count)
			r.Get("/{username}", deps.apiKeys.List)
		})

		// Scan dispatch and history; API key carried in the request
		r.Route("/scans", func(r chi.Router) {
			r.Get("/tools", deps.scans.Tools)
			r.Get("/history/{token}", deps.scans.History)
			r.Get("/result/{token}/{id}", deps.scans.Result)
			r.Post("/{tool}", deps.scans.Run)
		})

		// Account profile and billing
		r.Route("/users", func(r chi.Router) {
			r.Get("/me", deps.users.Me)
			r.Post("/payment", deps.users.Payment)
			r.Get("/paid-status/{username}", deps.users.PaidStatus)
			r.Get("/bill/{username}", deps.users.Bill)
		})

		// Operator endpoints behind the shared admin secret
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminSecret(deps.cfg.AdminSecret, deps.logger))
			r.Get("/apikeys", deps.admin.ListAPIKeys)
			r.Post("/apikeys/{token}/increment", deps.admin.IncrementCount)
			r.Get("/accounts", deps.admin.ListAccounts)
		})
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
