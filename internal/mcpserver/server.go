// Package mcpserver exposes the generated API reference as MCP (Model
// Context Protocol) tools over stdio JSON-RPC, so coding agents can look up
// endpoints without fetching the whole document.
package mcpserver

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/carebridge/apidocs/internal/platform/openapi"
)

const documentURI = "openapi://document.json"

// Server answers tool calls from a generator.
type Server struct {
	gen *openapi.Generator
}

func NewServer(gen *openapi.Generator) *Server {
	return &Server{gen: gen}
}

// MCPServer builds the protocol server with every tool and the document
// resource registered.
func (s *Server) MCPServer(version string) *server.MCPServer {
	mcpServer := server.NewMCPServer(
		"apidocs",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)
	mcpServer.AddTools(
		server.ServerTool{Tool: listTagsTool(), Handler: s.handleListTags},
		server.ServerTool{Tool: searchOperationsTool(), Handler: s.handleSearchOperations},
		server.ServerTool{Tool: getOperationTool(), Handler: s.handleGetOperation},
		server.ServerTool{Tool: getSchemaTool(), Handler: s.handleGetSchema},
	)
	mcpServer.AddResource(
		mcp.NewResource(documentURI, "OpenAPI document",
			mcp.WithResourceDescription("The complete OpenAPI 3.0 document as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		s.readDocument,
	)
	return mcpServer
}

// Run serves MCP over in/out until ctx is cancelled or in is closed.
func (s *Server) Run(ctx context.Context, version string, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.MCPServer(version))
	stdio.SetErrorLogger(log.New(os.Stderr, "[mcp] ", log.LstdFlags))
	return stdio.Listen(ctx, in, out)
}

func (s *Server) readDocument(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := s.gen.JSON()
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: documentURI, MIMEType: "application/json", Text: string(data)},
	}, nil
}
