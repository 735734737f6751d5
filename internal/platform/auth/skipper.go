package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// publicPaths are infrastructure endpoints that never require a token.
var publicPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
	"/metrics":   true,
}

// IsPublicPath reports whether path is a public infrastructure endpoint.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}

// ReadOnlySkipper skips authentication for safe methods and public paths, so
// the documentation stays browsable while writes need a token.
func ReadOnlySkipper(c echo.Context) bool {
	switch c.Request().Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	path := c.Path()
	if path == "" {
		path = c.Request().URL.Path
	}
	return IsPublicPath(path)
}
