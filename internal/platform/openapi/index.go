package openapi

import (
	"fmt"
	"slices"
	"strings"
)

// OperationSummary is the flattened, listable view of one operation.
type OperationSummary struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	OperationID string `json:"operationId"`
	Tag         string `json:"tag"`
	Summary     string `json:"summary"`
	Public      bool   `json:"public"`
}

// SortFields are the fields an operation index can be sorted by.
var SortFields = []string{"path", "method", "tag", "operationId"}

// Index returns a summary of every operation ordered by path then method.
func (g *Generator) Index() []OperationSummary {
	doc := g.GenerateSpec()
	out := make([]OperationSummary, 0, doc.OperationCount())
	doc.EachOperation(func(ref OperationRef, op *Operation) {
		out = append(out, OperationSummary{
			Method:      ref.Method,
			Path:        ref.Path,
			OperationID: ref.OperationID,
			Tag:         ref.Tag,
			Summary:     op.Summary,
			Public:      op.Security != nil && len(*op.Security) == 0,
		})
	})
	return out
}

// Lookup returns the operation registered for method and path.
func (g *Generator) Lookup(method, path string) (*Operation, bool) {
	item, ok := g.GenerateSpec().Paths[path]
	if !ok {
		return nil, false
	}
	op, ok := item.Operations()[strings.ToUpper(method)]
	return op, ok
}

// FilterOperations keeps the operations whose path, operationId or summary
// contains query (case-insensitive) and whose tag equals tag when tag is set.
func FilterOperations(ops []OperationSummary, query, tag string) []OperationSummary {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]OperationSummary, 0, len(ops))
	for _, op := range ops {
		if tag != "" && !strings.EqualFold(op.Tag, tag) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(op.Path), query) &&
			!strings.Contains(strings.ToLower(op.OperationID), query) &&
			!strings.Contains(strings.ToLower(op.Summary), query) {
			continue
		}
		out = append(out, op)
	}
	return out
}

// SortOperations sorts ops in place by one of SortFields. Ties fall back to
// path then method so the order is stable across calls.
func SortOperations(ops []OperationSummary, sortBy string, desc bool) error {
	if sortBy == "" {
		sortBy = "path"
	}
	var key func(OperationSummary) string
	switch sortBy {
	case "path":
		key = func(o OperationSummary) string { return o.Path }
	case "method":
		key = func(o OperationSummary) string { return o.Method }
	case "tag":
		key = func(o OperationSummary) string { return o.Tag }
	case "operationId":
		key = func(o OperationSummary) string { return o.OperationID }
	default:
		return fmt.Errorf("unsupported sortBy %q (expected one of %s)", sortBy, strings.Join(SortFields, ", "))
	}

	slices.SortStableFunc(ops, func(a, b OperationSummary) int {
		c := strings.Compare(key(a), key(b))
		if c == 0 {
			c = strings.Compare(a.Path, b.Path)
		}
		if c == 0 {
			c = strings.Compare(a.Method, b.Method)
		}
		if desc {
			return -c
		}
		return c
	})
	return nil
}
