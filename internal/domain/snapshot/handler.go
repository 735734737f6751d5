package snapshot

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carebridge/apidocs/internal/platform/auth"
	"github.com/carebridge/apidocs/internal/platform/openapi"
	"github.com/carebridge/apidocs/pkg/envelope"
	"github.com/carebridge/apidocs/pkg/pagination"
)

type Handler struct {
	svc     *Service
	current func() *openapi.Document
}

// NewHandler serves snapshots of the documents returned by current.
func NewHandler(svc *Service, current func() *openapi.Document) *Handler {
	return &Handler{svc: svc, current: current}
}

func (h *Handler) RegisterRoutes(docs *echo.Group) {
	docs.GET("/snapshots", h.ListSnapshots)
	docs.GET("/snapshots/:id", h.GetSnapshot)
	docs.GET("/snapshots/:id/diff", h.DiffSnapshot)

	admin := auth.RequireRole(auth.RoleAdmin)
	docs.POST("/snapshots", h.CreateSnapshot, admin)
	docs.DELETE("/snapshots/:id", h.DeleteSnapshot, admin)
}

const maxNoteLength = 500

type createRequest struct {
	Note string `json:"note"`
}

type diffResponse struct {
	From    uuid.UUID        `json:"from"`
	To      string           `json:"to"`
	Changes *openapi.Changes `json:"changes"`
}

func (h *Handler) CreateSnapshot(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return envelope.NewHTTPError(http.StatusBadRequest, "invalid request body", err.Error())
	}
	req.Note = strings.TrimSpace(req.Note)
	if utf8.RuneCountInString(req.Note) > maxNoteLength {
		return envelope.NewHTTPError(http.StatusBadRequest, "validation failed", "note must be at most 500 characters")
	}

	snap, err := h.svc.Capture(c.Request().Context(), h.current(), req.Note)
	if errors.Is(err, ErrUnchanged) {
		return c.JSON(http.StatusOK, envelope.Success(snap, "document unchanged since latest snapshot"))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope.Success(snap.withoutDocument(), "snapshot created"))
}

func (h *Handler) GetSnapshot(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	snap, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, envelope.Success(snap, ""))
}

func (h *Handler) ListSnapshots(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope.Paginated(items, pagination.NewMeta(pg, total)))
}

// DiffSnapshot compares a snapshot with the live document, or with another
// snapshot when ?against=<id> is given.
func (h *Handler) DiffSnapshot(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	resp := diffResponse{From: id, To: "current"}
	if against := c.QueryParam("against"); against != "" {
		other, err := uuid.Parse(against)
		if err != nil {
			return envelope.NewHTTPError(http.StatusBadRequest, "invalid query parameters", "against must be a snapshot id")
		}
		resp.To = other.String()
		resp.Changes, err = h.svc.CompareSnapshots(ctx, id, other)
		if err != nil {
			return notFound(err)
		}
	} else {
		resp.Changes, err = h.svc.Compare(ctx, id, h.current())
		if err != nil {
			return notFound(err)
		}
	}
	return c.JSON(http.StatusOK, envelope.Success(resp, ""))
}

func (h *Handler) DeleteSnapshot(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, envelope.Success(nil, "Deleted"))
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, envelope.NewHTTPError(http.StatusBadRequest, "invalid id", "id must be a UUID")
	}
	return id, nil
}

// notFound maps ErrNotFound to a 404 and passes other errors through.
func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "snapshot not found")
	}
	return err
}
