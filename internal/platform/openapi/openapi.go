package openapi

import (
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/carebridge/apidocs/internal/catalog"
)

const (
	specVersion = "3.0.3"
	jsonContent = "application/json"

	bearerScheme = "bearerAuth"
)

// Generator builds the OpenAPI 3.0 document for a catalog. The document is
// assembled once and shared by every caller.
type Generator struct {
	catalog  *catalog.Catalog
	version  string
	baseURL  string
	docsPath string

	once sync.Once
	doc  *Document
}

// Option customizes a Generator.
type Option func(*Generator)

// WithDocsPath sets the path the documentation routes are mounted under.
// The Swagger UI page uses it to locate openapi.json.
func WithDocsPath(path string) Option {
	return func(g *Generator) {
		g.docsPath = path
	}
}

// NewGenerator creates a new OpenAPI spec generator.
func NewGenerator(cat *catalog.Catalog, version, baseURL string, opts ...Option) *Generator {
	g := &Generator{catalog: cat, version: version, baseURL: baseURL, docsPath: "/api-docs"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Catalog returns the catalog the document is generated from.
func (g *Generator) Catalog() *catalog.Catalog {
	return g.catalog
}

// GenerateSpec returns the OpenAPI document. Callers must not modify it.
func (g *Generator) GenerateSpec() *Document {
	g.once.Do(func() {
		g.doc = g.build()
	})
	return g.doc
}

func (g *Generator) build() *Document {
	cat := g.catalog
	version := g.version
	if version == "" {
		version = cat.Version
	}

	counts := cat.CountByTag()
	var tags []*Tag
	for _, t := range cat.Tags() {
		tags = append(tags, &Tag{Name: t.Name, Description: t.Description, EndpointCount: counts[t.Name]})
	}

	paths := make(map[string]*PathItem)
	for _, op := range cat.Operations() {
		item, ok := paths[op.Path]
		if !ok {
			item = &PathItem{}
			paths[op.Path] = item
		}
		item.SetOperation(op.Method, buildOperation(op))
	}

	doc := &Document{
		OpenAPI: specVersion,
		Info: Info{
			Title:       cat.Title,
			Description: cat.Description,
			Version:     version,
			Contact:     &Contact{Name: "CareBridge Platform Team", Email: "api@carebridge.health"},
			License:     &License{Name: "Proprietary"},
		},
		Tags:  tags,
		Paths: paths,
		Components: &Components{
			Schemas:    componentSchemas(),
			Parameters: componentParameters(),
			SecuritySchemes: map[string]*SecurityScheme{
				bearerScheme: {
					Type:         "http",
					Scheme:       "bearer",
					BearerFormat: "JWT",
					Description:  "Access token issued by POST /api/v1/auth/login.",
				},
			},
		},
		Security: []SecurityRequirement{{bearerScheme: []string{}}},
	}
	if g.baseURL != "" {
		doc.Servers = []Server{{URL: g.baseURL, Description: "API server"}}
	}
	return doc
}

func buildOperation(op catalog.Operation) *Operation {
	o := &Operation{
		Tags:        []string{op.Tag},
		Summary:     op.Summary,
		Description: op.Description,
		OperationID: op.OperationID,
		Responses:   make(map[string]*Response),
	}

	for _, name := range op.PathParams {
		o.Parameters = append(o.Parameters, pathParameter(name, op.Resource))
	}
	if op.Paginated {
		for _, name := range listParameterNames {
			o.Parameters = append(o.Parameters, &Parameter{Ref: parameterRef(name)})
		}
	}

	if op.Body {
		body := "ResourceInput"
		if op.BodySchema != "" {
			body = op.BodySchema
		}
		o.RequestBody = &RequestBody{
			Description: "Request payload",
			Required:    true,
			Content:     map[string]*MediaType{jsonContent: {Schema: ref(body)}},
		}
	}

	status := http.StatusOK
	if op.Created {
		status = http.StatusCreated
	}
	o.Responses[strconv.Itoa(status)] = successResponse(op, status)
	for code, resp := range errorResponses() {
		o.Responses[code] = resp
	}

	if op.Public {
		o.Security = &[]SecurityRequirement{}
	}
	return o
}

func pathParameter(name, resource string) *Parameter {
	p := &Parameter{
		Name:     name,
		In:       "path",
		Required: true,
		Schema:   &Schema{Type: "string"},
	}
	if name == "id" {
		p.Description = "Unique " + resource + " identifier"
		p.Schema.Format = "uuid"
	} else {
		p.Description = "The " + name + " path segment"
	}
	return p
}

func successResponse(op catalog.Operation, status int) *Response {
	desc := http.StatusText(status)
	var schema *Schema
	switch {
	case op.DataSchema != "":
		schema = envelopeWith("SuccessResponse", ref(op.DataSchema))
	case op.Kind == catalog.KindDelete:
		schema = ref("DeleteResponse")
		desc = "Deleted"
	case op.Paginated:
		schema = envelopeWith("PaginatedResponse", &Schema{Type: "array", Items: ref("Resource")})
	case op.Kind == catalog.KindAction:
		schema = ref("SuccessResponse")
	default:
		schema = envelopeWith("SuccessResponse", ref("Resource"))
	}
	return &Response{
		Description: desc,
		Content:     map[string]*MediaType{jsonContent: {Schema: schema}},
	}
}

// envelopeWith narrows the data field of an envelope schema.
func envelopeWith(envelope string, data *Schema) *Schema {
	return &Schema{AllOf: []*Schema{
		ref(envelope),
		{Type: "object", Properties: map[string]*Schema{"data": data}},
	}}
}

var errorStatuses = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusInternalServerError,
}

// errorResponses returns fresh copies of the shared error response set.
func errorResponses() map[string]*Response {
	out := make(map[string]*Response, len(errorStatuses))
	for _, status := range errorStatuses {
		out[strconv.Itoa(status)] = &Response{
			Description: http.StatusText(status),
			Content:     map[string]*MediaType{jsonContent: {Schema: ref("ErrorResponse")}},
		}
	}
	return out
}

func ref(schema string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + schema}
}

func parameterRef(name string) string {
	return "#/components/parameters/" + name
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
