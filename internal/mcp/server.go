package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jcdickinson/docsrs-mcp/internal/crateinfo"
	"github.com/jcdickinson/docsrs-mcp/internal/docs"
	"github.com/jcdickinson/docsrs-mcp/internal/harvest"
	"github.com/jcdickinson/docsrs-mcp/internal/rpc"
)

//go:embed instructions.md
var instructions string

// Server exposes the harvester over MCP.
type Server struct {
	mcpServer *server.MCPServer
	harvester *harvest.Harvester
	cargo     *crateinfo.Runner
	registry  *docs.CratesIO
}

func NewServer(h *harvest.Harvester, cargo *crateinfo.Runner, registry *docs.CratesIO, version string) *Server {
	s := &Server{harvester: h, cargo: cargo, registry: registry}

	mcpServer := server.NewMCPServer(
		"docsrs-mcp",
		version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func readOnlyTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts,
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
	return mcp.NewTool(name, opts...)
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		readOnlyTool("list_items",
			mcp.WithDescription("List the public items of a Rust crate from its docs.rs all-items page, grouped by category (Structs, Enums, Traits, Functions, Macros, Type Aliases, Attributes). Version defaults to \"latest\"."),
			mcp.WithString("crate_name",
				mcp.Description("Crate name (e.g., \"scraper\")"),
				mcp.Required(),
			),
			mcp.WithString("version",
				mcp.Description("Crate version (default: \"latest\")"),
			),
		),
		s.handleListItems,
	)

	mcpServer.AddTool(
		readOnlyTool("get_type_doc",
			mcp.WithDescription("Get the documentation of one type from docs.rs: description, methods with signatures, implemented traits, and fields. The type may be bare (\"Html\") or qualified with its module path (\"html::Html\")."),
			mcp.WithString("crate_name",
				mcp.Description("Crate name"),
				mcp.Required(),
			),
			mcp.WithString("type_name",
				mcp.Description("Type name, optionally module-qualified"),
				mcp.Required(),
			),
			mcp.WithString("version",
				mcp.Description("Crate version (default: \"latest\")"),
			),
			mcp.WithString("kind",
				mcp.Description("Item kind (default: \"struct\")"),
				mcp.Enum("struct", "enum", "trait", "union", "type"),
			),
		),
		s.handleGetTypeDoc,
	)

	mcpServer.AddTool(
		readOnlyTool("crate_info",
			mcp.WithDescription("Get crate metadata from `cargo info`: version, license, documentation and repository links, and feature flags."),
			mcp.WithString("crate_name",
				mcp.Description("Crate name"),
				mcp.Required(),
			),
		),
		s.handleCrateInfo,
	)

	mcpServer.AddTool(
		readOnlyTool("search_crates",
			mcp.WithDescription("Search crates.io for Rust crates by name or keyword."),
			mcp.WithString("query",
				mcp.Description("Search query (crate name or keyword)"),
				mcp.Required(),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 20)"),
			),
		),
		s.handleSearchCrates,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"docsrs://{crate}/{version}/{type}",
			"Rust type documentation",
			mcp.WithTemplateDescription("Structured documentation of a struct, as returned by get_type_doc."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleReadResource,
	)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func errorResult(tool string, err error) (*mcp.CallToolResult, error) {
	slog.Warn("tool call failed", "tool", tool, "error", err)
	resultJSON, _ := json.MarshalIndent(rpc.NewErrorResponse(err), "", "  ")
	return mcp.NewToolResultError(string(resultJSON)), nil
}

// bindArguments decodes the tool arguments into v.
func bindArguments(req mcp.CallToolRequest, v any) error {
	if err := req.BindArguments(v); err != nil {
		return harvest.MalformedInput(fmt.Errorf("invalid arguments: %w", err))
	}
	return nil
}

func (s *Server) handleListItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args rpc.ListItemsRequest
	if err := bindArguments(req, &args); err != nil {
		return errorResult("list_items", err)
	}

	catalog, err := s.harvester.ListItems(ctx, args.CrateName, args.Version)
	if err != nil {
		return errorResult("list_items", err)
	}

	version := strings.TrimSpace(args.Version)
	if version == "" {
		version = docs.LatestVersion
	}
	return jsonResult(rpc.ListItemsResponse{
		CrateName: strings.TrimSpace(args.CrateName),
		Version:   version,
		Items:     catalog,
	})
}

func (s *Server) handleGetTypeDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args rpc.GetTypeDocRequest
	if err := bindArguments(req, &args); err != nil {
		return errorResult("get_type_doc", err)
	}

	doc, err := s.harvester.GetTypeDoc(ctx, args.CrateName, args.TypeName, args.Version, args.Kind)
	if err != nil {
		return errorResult("get_type_doc", err)
	}
	return jsonResult(doc)
}

func (s *Server) handleCrateInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args rpc.CrateInfoRequest
	if err := bindArguments(req, &args); err != nil {
		return errorResult("crate_info", err)
	}
	if strings.TrimSpace(args.CrateName) == "" {
		return errorResult("crate_info", harvest.MalformedInput(errors.New("crate_name is required")))
	}

	info, err := s.cargo.Lookup(ctx, args.CrateName)
	if err != nil {
		return errorResult("crate_info", err)
	}
	return jsonResult(info)
}

func (s *Server) handleSearchCrates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args rpc.SearchCratesRequest
	if err := bindArguments(req, &args); err != nil {
		return errorResult("search_crates", err)
	}
	if strings.TrimSpace(args.Query) == "" {
		return errorResult("search_crates", harvest.MalformedInput(errors.New("query is required")))
	}

	results, err := s.registry.Search(ctx, args.Query, args.Limit)
	if err != nil {
		return errorResult("search_crates", err)
	}
	return jsonResult(rpc.SearchCratesResponse{Results: results})
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	trimmed := strings.TrimPrefix(uri, "docsrs://")
	parts := strings.SplitN(trimmed, "/", 3)
	if len(parts) < 3 || parts[2] == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}

	doc, err := s.harvester.GetTypeDoc(ctx, parts[0], parts[2], parts[1], "")
	if err != nil {
		return nil, fmt.Errorf("getting type doc: %w", err)
	}
	docJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding type doc: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(docJSON),
		},
	}, nil
}

// Run serves MCP over stdin/stdout until the input closes.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}
