package openapi

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/carebridge/apidocs/internal/platform/middleware"
	"github.com/carebridge/apidocs/pkg/envelope"
	"github.com/carebridge/apidocs/pkg/pagination"
)

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>%s - Swagger UI</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" >
  <style>
    html { box-sizing: border-box; overflow-y: scroll; }
    *, *:before, *:after { box-sizing: inherit; }
    body { margin: 0; background: #fafafa; }
  </style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "%s/openapi.json",
      dom_id: '#swagger-ui',
      deepLinking: true,
      persistAuthorization: true,
      presets: [
        SwaggerUIBundle.presets.apis,
        SwaggerUIBundle.SwaggerUIStandalonePreset
      ],
      layout: "BaseLayout"
    })
  </script>
</body>
</html>`

const referenceHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>%s - Reference</title>
  <style>
    body { font-family: sans-serif; max-width: 72rem; margin: 2rem auto; padding: 0 1rem; }
    table { border-collapse: collapse; width: 100%%; }
    th, td { border: 1px solid #ddd; padding: 4px 8px; text-align: left; }
    code { background: #f4f4f4; padding: 0 3px; }
  </style>
</head>
<body>
%s
</body>
</html>`

const (
	yamlContent = "application/yaml"
	docMaxAge   = 300
)

// RegisterRoutes registers the documentation endpoints on g, which should
// be mounted at the generator's docs path.
func (g *Generator) RegisterRoutes(group *echo.Group) {
	jsonDoc := sync.OnceValues(g.JSON)
	yamlDoc := sync.OnceValues(g.YAML)
	reference := sync.OnceValues(g.ReferenceHTML)
	etag := middleware.ETag(docMaxAge)

	ui := func(c echo.Context) error {
		title := html.EscapeString(g.GenerateSpec().Info.Title)
		return c.HTML(http.StatusOK, fmt.Sprintf(swaggerUIHTML, title, strings.TrimRight(g.docsPath, "/")))
	}
	group.GET("", ui)
	group.GET("/", ui)

	group.GET("/openapi.json", func(c echo.Context) error {
		data, err := jsonDoc()
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
	}, etag)

	group.GET("/openapi.yaml", func(c echo.Context) error {
		data, err := yamlDoc()
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, yamlContent, data)
	}, etag)

	group.GET("/reference", func(c echo.Context) error {
		data, err := reference()
		if err != nil {
			return err
		}
		return c.HTMLBlob(http.StatusOK, data)
	}, etag)

	group.GET("/tags", func(c echo.Context) error {
		return c.JSON(http.StatusOK, envelope.Success(g.GenerateSpec().Tags, ""))
	})

	group.GET("/operations", g.listOperations)
}

// listOperations serves the paginated operation index. search matches path,
// operationId and summary; tag narrows to one group.
func (g *Generator) listOperations(c echo.Context) error {
	p := pagination.FromContext(c)
	ops := FilterOperations(g.Index(), p.Search, c.QueryParam("tag"))

	// The index reads top to bottom unless a direction is asked for.
	desc := c.QueryParam("sortOrder") != "" && p.Desc()
	if err := SortOperations(ops, p.SortBy, desc); err != nil {
		return envelope.NewHTTPError(http.StatusBadRequest, "invalid query parameters", err.Error())
	}
	return c.JSON(http.StatusOK, envelope.Paginated(pagination.Slice(ops, p), pagination.NewMeta(p, len(ops))))
}

// ReferenceHTML renders the Markdown reference as a standalone HTML page.
func (g *Generator) ReferenceHTML() ([]byte, error) {
	gm := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	var body bytes.Buffer
	if err := gm.Convert([]byte(g.Markdown()), &body); err != nil {
		return nil, fmt.Errorf("render reference: %w", err)
	}
	title := html.EscapeString(g.GenerateSpec().Info.Title)
	return []byte(fmt.Sprintf(referenceHTML, title, body.String())), nil
}
