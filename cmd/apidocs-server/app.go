package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/carebridge/apidocs/internal/catalog"
	"github.com/carebridge/apidocs/internal/config"
	"github.com/carebridge/apidocs/internal/domain/snapshot"
	"github.com/carebridge/apidocs/internal/platform/db"
	"github.com/carebridge/apidocs/internal/platform/middleware"
	"github.com/carebridge/apidocs/internal/platform/openapi"
	"github.com/carebridge/apidocs/internal/platform/publish"
)

func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.IsDev() {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func newGenerator(cfg *config.Config) *openapi.Generator {
	return openapi.NewGenerator(catalog.Default(), cfg.APIVersion, cfg.BaseURL, openapi.WithDocsPath(cfg.DocsPath))
}

// store bundles the snapshot repository selected by STORE_DRIVER with its
// audit recorders and health probe.
type store struct {
	snapshots snapshot.Repository
	audit     []middleware.AuditRecorder
	health    db.Check
	pool      *pgxpool.Pool
	close     func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, db.PoolConfig{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, err
		}
		return &store{
			snapshots: snapshot.NewRepoPG(pool),
			audit:     []middleware.AuditRecorder{snapshot.NewAuditRecorderPG(pool)},
			health:    db.PostgresCheck(pool),
			pool:      pool,
			close:     pool.Close,
		}, nil
	case config.DriverSQLite:
		s, err := snapshot.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &store{
			snapshots: s.Snapshots(),
			audit:     []middleware.AuditRecorder{s.Audit()},
			health:    db.SQLCheck(config.DriverSQLite, s.DB()),
			close:     func() { _ = s.Close() },
		}, nil
	default:
		return &store{
			snapshots: snapshot.NewMemoryRepo(),
			health:    db.StaticCheck(config.DriverMemory),
			close:     func() {},
		}, nil
	}
}

func newPublisher(ctx context.Context, cfg *config.Config) (*publish.Publisher, error) {
	if !cfg.PublishEnabled() {
		return nil, errors.New("S3_BUCKET is required to publish")
	}
	s3store, err := publish.NewS3Store(ctx, publish.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		PathStyle:       cfg.S3PathStyle,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("open s3 store: %w", err)
	}
	return publish.NewPublisher(s3store, cfg.S3Prefix), nil
}
