package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestIsPublicPath(t *testing.T) {
	for _, p := range []string{"/health", "/health/db", "/metrics"} {
		if !IsPublicPath(p) {
			t.Errorf("expected %s to be public", p)
		}
	}
	for _, p := range []string{"/api-docs/snapshots", "/", "/healthz"} {
		if IsPublicPath(p) {
			t.Errorf("expected %s to require auth", p)
		}
	}
}

func TestReadOnlySkipper(t *testing.T) {
	tests := []struct {
		method, path string
		want         bool
	}{
		{http.MethodGet, "/api-docs/snapshots", true},
		{http.MethodHead, "/api-docs/openapi.json", true},
		{http.MethodOptions, "/api-docs/snapshots", true},
		{http.MethodPost, "/api-docs/snapshots", false},
		{http.MethodDelete, "/api-docs/snapshots/1", false},
		{http.MethodPost, "/metrics", true},
	}
	e := echo.New()
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if got := ReadOnlySkipper(c); got != tt.want {
			t.Errorf("ReadOnlySkipper(%s %s) = %v, want %v", tt.method, tt.path, got, tt.want)
		}
	}
}
