package pagination

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params holds the page/limit/search/sort parameters shared by list endpoints.
type Params struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// FromContext extracts pagination parameters from the echo context.
// Invalid or missing values fall back to the defaults.
func FromContext(c echo.Context) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return New(page, limit, c.QueryParam("search"), c.QueryParam("sortBy"), c.QueryParam("sortOrder"))
}

// New builds Params, clamping page and limit and normalizing the sort order.
func New(page, limit int, search, sortBy, sortOrder string) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// Keeps Offset()+Limit within int range for absurd page numbers.
	if maxPage := math.MaxInt/limit - 1; page > maxPage {
		page = maxPage
	}
	order := strings.ToLower(strings.TrimSpace(sortOrder))
	if order != SortAsc {
		order = SortDesc
	}
	return Params{
		Page:      page,
		Limit:     limit,
		Search:    strings.TrimSpace(search),
		SortBy:    strings.TrimSpace(sortBy),
		SortOrder: order,
	}
}

// Offset returns the number of items skipped before the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Desc reports whether results are sorted in descending order.
func (p Params) Desc() bool {
	return p.SortOrder == SortDesc
}

// SQL returns the LIMIT and OFFSET clause for SQL queries.
func (p Params) SQL() string {
	return fmt.Sprintf("LIMIT %d OFFSET %d", p.Limit, p.Offset())
}

// Meta is the pagination block of the success envelope.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func NewMeta(p Params, total int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

// Slice returns the items of the current page. Pages past the end are empty.
func Slice[T any](items []T, p Params) []T {
	start := p.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
