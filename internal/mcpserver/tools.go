package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/carebridge/apidocs/internal/platform/openapi"
	"github.com/carebridge/apidocs/pkg/pagination"
)

// --- Tool Definitions ---

func listTagsTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(
		"list_tags",
		"List the API tags (resource groups) with their descriptions and endpoint counts.",
		json.RawMessage(`{"type": "object", "properties": {}}`),
	)
}

func searchOperationsTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(
		"search_operations",
		"Search API operations by path, operationId or summary. Results are paginated.",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "Case-insensitive text matched against path, operationId and summary"
				},
				"tag": {
					"type": "string",
					"description": "Restrict results to one tag, e.g. Patients"
				},
				"page": {
					"type": "integer",
					"description": "Page number (default: 1)"
				},
				"limit": {
					"type": "integer",
					"description": "Page size, at most 100 (default: 10)"
				}
			}
		}`),
	)
}

func getOperationTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(
		"get_operation",
		"Get the full OpenAPI definition of one operation: parameters, request body and responses.",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"method": {
					"type": "string",
					"description": "HTTP method, e.g. GET"
				},
				"path": {
					"type": "string",
					"description": "Path template as listed by search_operations, e.g. /api/v1/patients/{id}"
				}
			},
			"required": ["method", "path"]
		}`),
	)
}

func getSchemaTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(
		"get_schema",
		"Get a component schema by name, e.g. ErrorResponse or ResourceInput.",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {
					"type": "string",
					"description": "Schema name under components/schemas"
				}
			},
			"required": ["name"]
		}`),
	)
}

// --- Tool Handlers ---

func (s *Server) handleListTags(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return resultJSON(s.gen.GenerateSpec().Tags)
}

type searchArgs struct {
	Query string `json:"query"`
	Tag   string `json:"tag"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

type searchResult struct {
	Operations []openapi.OperationSummary `json:"operations"`
	Pagination pagination.Meta            `json:"pagination"`
}

func (s *Server) handleSearchOperations(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	p := pagination.New(args.Page, args.Limit, args.Query, "", "")
	ops := openapi.FilterOperations(s.gen.Index(), p.Search, args.Tag)
	return resultJSON(searchResult{
		Operations: pagination.Slice(ops, p),
		Pagination: pagination.NewMeta(p, len(ops)),
	})
}

type getOperationArgs struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

func (s *Server) handleGetOperation(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getOperationArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Method == "" || args.Path == "" {
		return mcp.NewToolResultError("method and path are required"), nil
	}
	op, ok := s.gen.Lookup(args.Method, args.Path)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no operation %s %s", strings.ToUpper(args.Method), args.Path)), nil
	}
	return resultJSON(op)
}

type getSchemaArgs struct {
	Name string `json:"name"`
}

func (s *Server) handleGetSchema(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getSchemaArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	name := strings.TrimPrefix(args.Name, "#/components/schemas/")
	comps := s.gen.GenerateSpec().Components
	if comps == nil || comps.Schemas[name] == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no schema named %q", name)), nil
	}
	return resultJSON(comps.Schemas[name])
}

// --- Helpers ---

func resultJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
