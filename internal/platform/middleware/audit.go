package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carebridge/apidocs/internal/platform/auth"
)

// AuditEntry records who changed what through the admin routes.
type AuditEntry struct {
	UserID     string
	Roles      []string
	Method     string
	Route      string
	Path       string
	StatusCode int
	IPAddress  string
	UserAgent  string
	RequestID  string
	Timestamp  time.Time
}

// AuditRecorder persists audit entries. Tests supply their own.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit logs every state-changing request after it completes. Reads are not
// audited. Entries also go to each recorder; recorder failures are logged
// and never fail the request.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if asHTTPError(err, &he) {
					status = he.Code
				}
			}
			rid, _ := c.Get("request_id").(string)
			ctx := req.Context()
			entry := AuditEntry{
				UserID:     auth.UserIDFromContext(ctx),
				Roles:      auth.RolesFromContext(ctx),
				Method:     req.Method,
				Route:      c.Path(),
				Path:       req.URL.Path,
				StatusCode: status,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				RequestID:  rid,
				Timestamp:  time.Now().UTC(),
			}

			logger.Info().
				Str("audit", "admin_action").
				Str("user_id", entry.UserID).
				Strs("roles", entry.Roles).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Int("status", entry.StatusCode).
				Str("request_id", entry.RequestID).
				Str("remote_ip", entry.IPAddress).
				Msg("audit")

			for _, r := range recorders {
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).Str("request_id", rid).Msg("audit recorder failed")
				}
			}
			return err
		}
	}
}
