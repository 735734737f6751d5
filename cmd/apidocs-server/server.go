package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/carebridge/apidocs/internal/config"
	"github.com/carebridge/apidocs/internal/domain/snapshot"
	"github.com/carebridge/apidocs/internal/platform/auth"
	"github.com/carebridge/apidocs/internal/platform/db"
	"github.com/carebridge/apidocs/internal/platform/middleware"
	"github.com/carebridge/apidocs/internal/platform/openapi"
	"github.com/carebridge/apidocs/internal/platform/publish"
	"github.com/carebridge/apidocs/internal/platform/telemetry"
	"github.com/carebridge/apidocs/pkg/envelope"
)

type serverDeps struct {
	cfg       *config.Config
	logger    zerolog.Logger
	gen       *openapi.Generator
	store     *store
	metrics   *telemetry.Provider
	publisher *publish.Publisher // nil when S3 is not configured
}

func newServer(d serverDeps) *echo.Echo {
	cfg := d.cfg

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = envelope.ErrorHandler(d.logger)

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Recovery(d.logger))
	e.Use(middleware.Logger(d.logger))
	e.Use(middleware.SecurityHeaders(cfg.DocsPath))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "If-None-Match"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	rl := middleware.DefaultRateLimitConfig()
	rl.RequestsPerSecond = cfg.RateLimitRPS
	rl.BurstSize = cfg.RateLimitBurst
	rl.Skipper = func(c echo.Context) bool { return auth.IsPublicPath(c.Path()) }
	e.Use(middleware.RateLimit(rl))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(d.metrics.MetricsMiddleware())

	// Auth middleware
	if cfg.AuthEnabled() {
		var signingKey []byte
		if cfg.AuthSigningKey != "" {
			signingKey = []byte(cfg.AuthSigningKey)
		}
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: signingKey,
			Skipper:    auth.ReadOnlySkipper,
		}))
	} else {
		e.Use(auth.DevAuthMiddleware())
	}

	// Audit middleware
	e.Use(middleware.Audit(d.logger, d.store.audit...))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": cfg.APIVersion})
	})
	e.GET("/health/db", db.HealthHandler(d.store.health))
	e.GET("/metrics", d.metrics.Handler())

	docs := e.Group(cfg.DocsPath)
	d.gen.RegisterRoutes(docs)

	snapshotSvc := snapshot.NewService(d.store.snapshots).WithObserver(d.metrics)
	snapshot.NewHandler(snapshotSvc, d.gen.GenerateSpec).RegisterRoutes(docs)

	if d.publisher != nil {
		publish.NewHandler(d.publisher, d.gen, cfg.APIVersion, d.metrics).RegisterRoutes(docs)
	}

	doc := d.gen.GenerateSpec()
	d.metrics.SetDocument(doc.OperationCount(), len(doc.Tags))
	return e
}

func runServer(migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open snapshot store")
	}
	defer st.close()
	logger.Info().Str("driver", cfg.StoreDriver).Msg("snapshot store ready")

	if migrate && st.pool != nil {
		count, err := db.NewMigrator(st.pool, nil).Up(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Int("applied", count).Msg("migrations applied")
	}

	var publisher *publish.Publisher
	if cfg.PublishEnabled() {
		publisher, err = newPublisher(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure publishing")
		}
	}

	metrics := telemetry.NewProvider(telemetry.Config{
		ServiceVersion: cfg.APIVersion,
		Environment:    cfg.Env,
	})
	e := newServer(serverDeps{
		cfg:       cfg,
		logger:    logger,
		gen:       newGenerator(cfg),
		store:     st,
		metrics:   metrics,
		publisher: publisher,
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("docs", cfg.DocsPath).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
