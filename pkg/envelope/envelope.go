// Package envelope defines the uniform success and error response bodies and
// the echo error handler that renders every error through them.
package envelope

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carebridge/apidocs/pkg/pagination"
)

const CodeInternal = "INTERNAL_ERROR"

// Response is the success envelope.
type Response struct {
	Success    bool             `json:"success"`
	Data       any              `json:"data"`
	Message    string           `json:"message,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

// ErrorBody is the error object inside the error envelope.
type ErrorBody struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Details   []string `json:"details"`
	Timestamp string   `json:"timestamp"`
	RequestID string   `json:"requestId"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

func Success(data any, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

func Paginated(data any, meta pagination.Meta) Response {
	return Response{Success: true, Data: data, Pagination: &meta}
}

// detailed carries field-level details through an *echo.HTTPError.
type detailed struct {
	message string
	details []string
}

// NewHTTPError returns an *echo.HTTPError whose rendered body lists details.
func NewHTTPError(status int, message string, details ...string) *echo.HTTPError {
	return echo.NewHTTPError(status, detailed{message: message, details: details})
}

// Code maps an HTTP status to its error code, e.g. 404 to NOT_FOUND.
func Code(status int) string {
	if status == http.StatusInternalServerError {
		return CodeInternal
	}
	text := http.StatusText(status)
	if text == "" {
		if status >= 500 {
			return CodeInternal
		}
		return "BAD_REQUEST"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}

// NewError builds the error envelope for the current request.
func NewError(c echo.Context, status int, message string, details ...string) ErrorResponse {
	rid, _ := c.Get("request_id").(string)
	if details == nil {
		details = []string{}
	}
	return ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:      Code(status),
			Message:   message,
			Details:   details,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: rid,
		},
	}
}

// ErrorHandler renders errors as the error envelope. Server errors are logged;
// their messages are replaced so internals do not leak to clients.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)
		var details []string

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch m := he.Message.(type) {
			case string:
				message = m
			case detailed:
				message = m.message
				details = m.details
			case error:
				message = m.Error()
			default:
				message = fmt.Sprint(m)
			}
			if he.Internal != nil {
				err = he.Internal
			}
		}

		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Msg("request failed")
			if he == nil {
				message = http.StatusText(status)
			}
		}

		body := NewError(c, status, message, details...)
		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}
