package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/seller-cli/internal/batch"
	"github.com/mj1618/seller-cli/internal/config"
	"github.com/mj1618/seller-cli/internal/ident"
	"github.com/mj1618/seller-cli/internal/version"
)

// mcpServer wraps the MCP server with one lazily attached page.
type mcpServer struct {
	ctx  context.Context
	page pageOptions

	providerMu sync.Mutex
	sess       *session
	open       func(ctx context.Context, o pageOptions) (*session, error)
	clock      batch.Clock

	mcp *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
	Page      pageOptions
}

// newMCPServer creates an MCP server with all seller-cli tools. ctx bounds
// the attached page, which outlives individual tool calls.
func newMCPServer(ctx context.Context, cfg MCPConfig) *mcpServer {
	s := &mcpServer{
		ctx:  ctx,
		page: cfg.Page,
		open: openSession,
	}
	s.mcp = mcpserver.NewMCPServer("seller-cli", version.Version)
	s.registerTools()
	return s
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

// Close detaches the page.
func (s *mcpServer) Close() {
	s.providerMu.Lock()
	defer s.providerMu.Unlock()
	if s.sess != nil {
		s.sess.Close()
		s.sess = nil
	}
}

// session returns the attached page, attaching on first use. The caller
// holds providerMu.
func (s *mcpServer) session(profile string) (*session, error) {
	if s.sess == nil {
		sess, err := s.open(s.ctx, s.page)
		if err != nil {
			return nil, err
		}
		s.sess = sess
	}
	if profile == "" || profile == s.sess.Profile.Name {
		return s.sess, nil
	}
	p, err := s.sess.Config.Find(profile)
	if err != nil {
		return nil, err
	}
	cp := *s.sess
	cp.Profile = p
	return &cp, nil
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("check_orders",
			mcp.WithDescription("Tick the order rows whose tracking number contains one of the given identifiers. Rows already checked are skipped. Returns counts and the identifiers that were not found."),
			mcp.WithString("numbers", mcp.Required(), mcp.Description("Tracking numbers, one per line")),
			mcp.WithString("profile", mcp.Description("Site profile (default: chosen from the page URL)")),
			mcp.WithBoolean("details", mcp.Description("Include per-row results")),
		),
		s.handleCheckOrders,
	)

	s.mcp.AddTool(
		mcp.NewTool("match_orders",
			mcp.WithDescription("Preview which order rows match the given identifiers without changing anything"),
			mcp.WithString("numbers", mcp.Required(), mcp.Description("Tracking numbers, one per line")),
			mcp.WithString("profile", mcp.Description("Site profile")),
		),
		s.handleMatchOrders,
	)

	s.mcp.AddTool(
		mcp.NewTool("apply_styles",
			mcp.WithDescription("Install the profile's stylesheets on the page"),
			mcp.WithString("profile", mcp.Description("Site profile")),
			mcp.WithString("enable", mcp.Description("Comma-separated style groups to switch on")),
			mcp.WithString("disable", mcp.Description("Comma-separated style groups to switch off")),
		),
		s.handleApplyStyles,
	)

	s.mcp.AddTool(
		mcp.NewTool("image_links",
			mcp.WithDescription("List product images on the page as markdown links"),
			mcp.WithString("profile", mcp.Description("Site profile")),
			mcp.WithString("selector", mcp.Description("CSS selector for images (default: the profile's, else img)")),
			mcp.WithBoolean("copy", mcp.Description("Also copy the links to the clipboard")),
			mcp.WithNumber("limit", mcp.Description("Max links to return (0 = all)")),
		),
		s.handleImageLinks,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_profiles",
			mcp.WithDescription("List the site profiles"),
		),
		s.handleListProfiles,
	)
}

// resultToText serializes a tool result to YAML.
func resultToText(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return string(b)
}

func (s *mcpServer) handleCheckOrders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	ids, err := ident.Parse(stringParam(params, "numbers", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	sess, err := s.session(stringParam(params, "profile", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := checkOrders(ctx, sess, ids, checkOptions{Details: boolParam(params, "details", false), Clock: s.clock})
	if err != nil {
		if batch.IsFatal(err) && len(res.Residual) > 0 {
			return mcp.NewToolResultError(err.Error() + "\n" + resultToText(res)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resultToText(res)), nil
}

func (s *mcpServer) handleMatchOrders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	ids, err := ident.Parse(stringParam(params, "numbers", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	sess, err := s.session(stringParam(params, "profile", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := matchOrders(ctx, sess, ids)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resultToText(res)), nil
}

func (s *mcpServer) handleApplyStyles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	sess, err := s.session(stringParam(params, "profile", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sheet, err := toggledSheet(sess.Profile.Styles, listParam(params, "enable"), listParam(params, "disable"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := applyStyles(ctx, sess, sheet)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resultToText(res)), nil
}

func (s *mcpServer) handleImageLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	sess, err := s.session(stringParam(params, "profile", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	selector := stringParam(params, "selector", sess.Profile.Images)
	res, err := imageLinks(ctx, sess, selector, boolParam(params, "copy", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if limit := intParam(params, "limit", 0); limit > 0 && len(res.Links) > limit {
		res.Links = res.Links[:limit]
	}
	return mcp.NewToolResultText(resultToText(res)), nil
}

func (s *mcpServer) handleListProfiles(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := config.Load(s.page.Config)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resultToText(listProfiles(cfg))), nil
}
