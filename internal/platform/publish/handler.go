package publish

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carebridge/apidocs/internal/platform/auth"
	"github.com/carebridge/apidocs/pkg/envelope"
)

// Renderer produces the documents to publish.
type Renderer interface {
	JSON() ([]byte, error)
	YAML() ([]byte, error)
}

// Observer is notified of every publish attempt.
type Observer interface {
	Published(err error)
}

type Handler struct {
	pub            *Publisher
	docs           Renderer
	defaultVersion string
	obs            Observer
}

// NewHandler publishes docs under defaultVersion unless the request names
// another version. obs may be nil.
func NewHandler(pub *Publisher, docs Renderer, defaultVersion string, obs Observer) *Handler {
	return &Handler{pub: pub, docs: docs, defaultVersion: defaultVersion, obs: obs}
}

func (h *Handler) RegisterRoutes(docs *echo.Group) {
	docs.GET("/publish", h.ListVersions)
	docs.POST("/publish", h.Publish, auth.RequireRole(auth.RoleAdmin))
}

type publishRequest struct {
	Version string `json:"version"`
}

type publishResponse struct {
	Version string   `json:"version"`
	Keys    []string `json:"keys"`
}

func (h *Handler) Publish(c echo.Context) error {
	var req publishRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return envelope.NewHTTPError(http.StatusBadRequest, "invalid request body", err.Error())
		}
	}
	version := req.Version
	if version == "" {
		version = h.defaultVersion
	}
	if err := validVersion(version); err != nil {
		return envelope.NewHTTPError(http.StatusBadRequest, "validation failed", err.Error())
	}

	keys, err := h.publish(c, version)
	if h.obs != nil {
		h.obs.Published(err)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "publish failed").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, envelope.Success(publishResponse{Version: version, Keys: keys}, "documents published"))
}

func (h *Handler) publish(c echo.Context, version string) ([]string, error) {
	jsonDoc, err := h.docs.JSON()
	if err != nil {
		return nil, err
	}
	yamlDoc, err := h.docs.YAML()
	if err != nil {
		return nil, err
	}
	return h.pub.Publish(c.Request().Context(), version, jsonDoc, yamlDoc)
}

func (h *Handler) ListVersions(c echo.Context) error {
	versions, err := h.pub.Versions(c.Request().Context())
	if err != nil {
		return err
	}
	if versions == nil {
		versions = []string{}
	}
	return c.JSON(http.StatusOK, envelope.Success(versions, ""))
}
