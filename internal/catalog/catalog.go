// Package catalog holds the declarative description of the CareBridge
// platform's REST surface. It is plain data: the openapi package turns it into
// an OpenAPI document and the mcpserver package exposes it as tools.
package catalog

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode"
)

// OperationKind classifies an operation for templating purposes.
type OperationKind string

const (
	KindList   OperationKind = "list"
	KindCreate OperationKind = "create"
	KindGet    OperationKind = "get"
	KindUpdate OperationKind = "update"
	KindDelete OperationKind = "delete"
	KindAction OperationKind = "action"
)

// CRUD is the standard five-operation set most resources expose.
var CRUD = []OperationKind{KindList, KindCreate, KindGet, KindUpdate, KindDelete}

// ReadOnly exposes list and get only.
var ReadOnly = []OperationKind{KindList, KindGet}

// Tag groups operations in the rendered documentation.
type Tag struct {
	Name        string
	Description string
}

// Action is a non-CRUD operation bound to a resource. Path is relative to the
// resource path and may contain {placeholders}. BodySchema and DataSchema name
// components that replace the generic resource body and payload when set.
type Action struct {
	Method      string
	Path        string
	Name        string
	Summary     string
	Description string
	Body        bool
	Created     bool
	Public      bool
	Paginated   bool
	BodySchema  string
	DataSchema  string
}

// Resource describes one documented resource collection.
type Resource struct {
	Tag         Tag
	Singular    string
	Plural      string
	Path        string
	Kinds       []OperationKind
	Actions     []Action
	PublicReads bool
}

// Catalog is the full platform surface.
type Catalog struct {
	Title       string
	Version     string
	Description string
	BasePath    string
	Resources   []Resource
}

// Operation is one flattened method+path entry.
type Operation struct {
	Method      string
	Path        string
	Tag         string
	Kind        OperationKind
	OperationID string
	Summary     string
	Description string
	Resource    string
	Body        bool
	Created     bool
	Public      bool
	Paginated   bool
	BodySchema  string
	DataSchema  string
	PathParams  []string
}

// Key returns "METHOD path", unique within a catalog.
func (o Operation) Key() string {
	return o.Method + " " + o.Path
}

// Tags returns the catalog's tags in first-seen order.
func (c *Catalog) Tags() []Tag {
	seen := make(map[string]bool)
	var tags []Tag
	for _, r := range c.Resources {
		if seen[r.Tag.Name] {
			continue
		}
		seen[r.Tag.Name] = true
		tags = append(tags, r.Tag)
	}
	return tags
}

// Operations flattens every resource into its operations, in declaration order.
func (c *Catalog) Operations() []Operation {
	var ops []Operation
	for _, r := range c.Resources {
		base := c.BasePath + r.Path
		for _, k := range r.Kinds {
			ops = append(ops, r.crudOperation(k, base))
		}
		for _, a := range r.Actions {
			ops = append(ops, r.actionOperation(a, base))
		}
	}
	return ops
}

// Count returns the number of operations.
func (c *Catalog) Count() int {
	return len(c.Operations())
}

// CountByTag returns the operation count for each tag name.
func (c *Catalog) CountByTag() map[string]int {
	counts := make(map[string]int)
	for _, op := range c.Operations() {
		counts[op.Tag]++
	}
	return counts
}

func (r Resource) crudOperation(k OperationKind, base string) Operation {
	op := Operation{
		Tag:      r.Tag.Name,
		Kind:     k,
		Resource: r.Singular,
	}
	name := pascal(r.Singular)
	plural := pascal(r.Plural)
	switch k {
	case KindList:
		op.Method = http.MethodGet
		op.Path = base
		op.OperationID = "list" + plural
		op.Summary = "List " + r.Plural
		op.Description = fmt.Sprintf("Returns a paginated list of %s.", r.Plural)
		op.Paginated = true
		op.Public = r.PublicReads
	case KindCreate:
		op.Method = http.MethodPost
		op.Path = base
		op.OperationID = "create" + name
		op.Summary = "Create " + article(r.Singular) + " " + r.Singular
		op.Description = fmt.Sprintf("Creates a new %s.", r.Singular)
		op.Body = true
		op.Created = true
	case KindGet:
		op.Method = http.MethodGet
		op.Path = base + "/{id}"
		op.OperationID = "get" + name
		op.Summary = "Get " + article(r.Singular) + " " + r.Singular
		op.Description = fmt.Sprintf("Returns a single %s by id.", r.Singular)
		op.Public = r.PublicReads
	case KindUpdate:
		op.Method = http.MethodPut
		op.Path = base + "/{id}"
		op.OperationID = "update" + name
		op.Summary = "Update " + article(r.Singular) + " " + r.Singular
		op.Description = fmt.Sprintf("Replaces the %s with the given id.", r.Singular)
		op.Body = true
	case KindDelete:
		op.Method = http.MethodDelete
		op.Path = base + "/{id}"
		op.OperationID = "delete" + name
		op.Summary = "Delete " + article(r.Singular) + " " + r.Singular
		op.Description = fmt.Sprintf("Deletes the %s with the given id.", r.Singular)
	}
	op.PathParams = PathParams(op.Path)
	return op
}

func (r Resource) actionOperation(a Action, base string) Operation {
	path := base
	if a.Path != "" {
		path = base + "/" + strings.TrimPrefix(a.Path, "/")
	}
	desc := a.Description
	if desc == "" {
		desc = a.Summary + "."
	}
	return Operation{
		Method:      a.Method,
		Path:        path,
		Tag:         r.Tag.Name,
		Kind:        KindAction,
		OperationID: a.Name,
		Summary:     a.Summary,
		Description: desc,
		Resource:    r.Singular,
		Body:        a.Body,
		Created:     a.Created,
		Public:      a.Public,
		Paginated:   a.Paginated,
		BodySchema:  a.BodySchema,
		DataSchema:  a.DataSchema,
		PathParams:  PathParams(path),
	}
}

var pathParamPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// PathParams returns the {name} placeholders of a path in order.
func PathParams(path string) []string {
	matches := pathParamPattern.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return nil
	}
	params := make([]string, 0, len(matches))
	for _, m := range matches {
		params = append(params, m[1])
	}
	return params
}

// pascal turns "medical record" or "dna-kit" into "MedicalRecord" / "DnaKit".
func pascal(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == ' ' || r == '-' || r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func article(noun string) string {
	if noun == "" {
		return "a"
	}
	switch unicode.ToLower(rune(noun[0])) {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	}
	return "a"
}
