package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Problem is one finding from a document check.
type Problem struct {
	Check    string `json:"check"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

func (p Problem) String() string {
	if p.Location == "" {
		return p.Check + ": " + p.Message
	}
	return fmt.Sprintf("%s: %s: %s", p.Check, p.Location, p.Message)
}

// Report aggregates the results of Lint.
type Report struct {
	Operations int       `json:"operations"`
	Tags       int       `json:"tags"`
	Problems   []Problem `json:"problems"`
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	return len(r.Problems) == 0
}

// Validate loads a JSON document with kin-openapi and runs its OpenAPI 3
// validator.
func Validate(ctx context.Context, data []byte) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableSchemaFormatValidation()); err != nil {
		return fmt.Errorf("validate openapi document: %w", err)
	}
	return nil
}

// Lint runs every document check.
func Lint(ctx context.Context, doc *Document) Report {
	report := Report{Operations: doc.OperationCount(), Tags: len(doc.Tags)}

	data, err := json.Marshal(doc)
	if err != nil {
		report.Problems = append(report.Problems, Problem{Check: "openapi3", Message: err.Error()})
		return report
	}
	if err := Validate(ctx, data); err != nil {
		report.Problems = append(report.Problems, Problem{Check: "openapi3", Message: err.Error()})
	}

	report.Problems = append(report.Problems, CheckRefs(doc)...)
	report.Problems = append(report.Problems, CheckTags(doc)...)
	report.Problems = append(report.Problems, CheckErrorResponses(doc)...)
	report.Problems = append(report.Problems, CheckRoundTrip(doc)...)
	return report
}

// CheckRefs reports every $ref that does not resolve to a component.
func CheckRefs(doc *Document) []Problem {
	var problems []Problem
	var schemas map[string]*Schema
	var params map[string]*Parameter
	if doc.Components != nil {
		schemas = doc.Components.Schemas
		params = doc.Components.Parameters
	}

	resolve := func(loc, ref string) {
		switch {
		case strings.HasPrefix(ref, "#/components/schemas/"):
			if _, ok := schemas[strings.TrimPrefix(ref, "#/components/schemas/")]; ok {
				return
			}
		case strings.HasPrefix(ref, "#/components/parameters/"):
			if _, ok := params[strings.TrimPrefix(ref, "#/components/parameters/")]; ok {
				return
			}
		}
		problems = append(problems, Problem{Check: "refs", Location: loc, Message: "unresolved $ref " + ref})
	}

	doc.EachOperation(func(r OperationRef, op *Operation) {
		loc := r.Key()
		for _, p := range op.Parameters {
			if p.Ref != "" {
				resolve(loc, p.Ref)
			}
			walkSchema(p.Schema, func(s *Schema) { resolve(loc, s.Ref) })
		}
		if op.RequestBody != nil {
			for _, mt := range op.RequestBody.Content {
				walkSchema(mt.Schema, func(s *Schema) { resolve(loc, s.Ref) })
			}
		}
		for _, code := range sortedKeys(op.Responses) {
			for _, mt := range op.Responses[code].Content {
				walkSchema(mt.Schema, func(s *Schema) { resolve(loc+" "+code, s.Ref) })
			}
		}
	})

	for _, name := range sortedKeys(schemas) {
		walkSchema(schemas[name], func(s *Schema) { resolve("components.schemas."+name, s.Ref) })
	}
	return problems
}

// walkSchema calls fn for s and every nested schema carrying a $ref.
func walkSchema(s *Schema, fn func(*Schema)) {
	if s == nil {
		return
	}
	if s.Ref != "" {
		fn(s)
	}
	for _, name := range sortedKeys(s.Properties) {
		walkSchema(s.Properties[name], fn)
	}
	walkSchema(s.Items, fn)
	for _, sub := range s.AllOf {
		walkSchema(sub, fn)
	}
}

// CheckTags verifies that operation tags are declared and that each tag's
// x-endpoint-count matches the number of operations carrying it.
func CheckTags(doc *Document) []Problem {
	var problems []Problem
	declared := make(map[string]*Tag, len(doc.Tags))
	for _, t := range doc.Tags {
		if _, dup := declared[t.Name]; dup {
			problems = append(problems, Problem{Check: "tags", Location: t.Name, Message: "tag declared twice"})
		}
		declared[t.Name] = t
	}

	actual := make(map[string]int)
	doc.EachOperation(func(r OperationRef, op *Operation) {
		if len(op.Tags) == 0 {
			problems = append(problems, Problem{Check: "tags", Location: r.Key(), Message: "operation has no tag"})
		}
		for _, name := range op.Tags {
			if _, ok := declared[name]; !ok {
				problems = append(problems, Problem{Check: "tags", Location: r.Key(), Message: "undeclared tag " + strconv.Quote(name)})
			}
			actual[name]++
		}
	})

	for _, t := range doc.Tags {
		if actual[t.Name] != t.EndpointCount {
			problems = append(problems, Problem{
				Check:    "tags",
				Location: t.Name,
				Message:  fmt.Sprintf("x-endpoint-count is %d, found %d operations", t.EndpointCount, actual[t.Name]),
			})
		}
	}
	return problems
}

// CheckErrorResponses verifies that, for each error status, every operation
// declares the same response object.
func CheckErrorResponses(doc *Document) []Problem {
	var problems []Problem
	reference := make(map[string][]byte)
	doc.EachOperation(func(r OperationRef, op *Operation) {
		for _, status := range errorStatuses {
			code := strconv.Itoa(status)
			resp, ok := op.Responses[code]
			if !ok {
				problems = append(problems, Problem{Check: "error-responses", Location: r.Key(), Message: "missing " + code + " response"})
				continue
			}
			data, err := json.Marshal(resp)
			if err != nil {
				problems = append(problems, Problem{Check: "error-responses", Location: r.Key(), Message: err.Error()})
				continue
			}
			want, seen := reference[code]
			if !seen {
				reference[code] = data
				continue
			}
			if !bytes.Equal(want, data) {
				problems = append(problems, Problem{Check: "error-responses", Location: r.Key(), Message: code + " response differs from the first declaration"})
			}
		}
	})
	return problems
}

// CheckRoundTrip verifies that the document survives a JSON encode/decode
// cycle unchanged.
func CheckRoundTrip(doc *Document) []Problem {
	data, err := json.Marshal(doc)
	if err != nil {
		return []Problem{{Check: "round-trip", Message: err.Error()}}
	}
	var decoded Document
	if err := json.Unmarshal(data, &decoded); err != nil {
		return []Problem{{Check: "round-trip", Message: err.Error()}}
	}
	if !reflect.DeepEqual(doc, &decoded) {
		return []Problem{{Check: "round-trip", Message: "decoded document differs from the original"}}
	}
	return nil
}
