package db

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats represents database connection pool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

// GetPoolStats returns connection pool statistics.
func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
	}
}

// Check describes how to probe the snapshot store backing the server.
// Stats is optional.
type Check struct {
	Driver string
	Ping   func(ctx context.Context) error
	Stats  func() any
}

// PostgresCheck probes a pgx pool.
func PostgresCheck(pool *pgxpool.Pool) Check {
	return Check{
		Driver: "postgres",
		Ping:   pool.Ping,
		Stats:  func() any { return GetPoolStats(pool) },
	}
}

// SQLCheck probes a database/sql handle such as the SQLite store.
func SQLCheck(driver string, db *sql.DB) Check {
	return Check{
		Driver: driver,
		Ping:   db.PingContext,
		Stats:  func() any { return db.Stats() },
	}
}

// StaticCheck always reports healthy. Used for the in-memory store.
func StaticCheck(driver string) Check {
	return Check{
		Driver: driver,
		Ping:   func(context.Context) error { return nil },
	}
}

// HealthHandler returns a handler for the database health check endpoint.
func HealthHandler(check Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		body := map[string]any{"driver": check.Driver}
		if check.Stats != nil {
			body["pool"] = check.Stats()
		}

		if err := check.Ping(ctx); err != nil {
			body["status"] = "unhealthy"
			body["error"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, body)
		}

		body["status"] = "healthy"
		return c.JSON(http.StatusOK, body)
	}
}
