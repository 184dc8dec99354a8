package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing seller-cli tools",
	Long: `Start a Model Context Protocol (MCP) server so agents can tick orders and
preview matches without shell overhead. The page is attached on the first
tool call and kept for the life of the server; the root page flags
(--backend, --chrome-url, --html, --profile) apply.

Supported transports:
  stdio             Standard I/O (default, for local MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  seller-cli serve
  seller-cli serve --transport streamable-http --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")

	cfg := MCPConfig{
		Transport: transport,
		Port:      port,
		Page:      pageOptionsFromFlags(),
	}

	srv := newMCPServer(cmd.Context(), cfg)
	defer srv.Close()
	if err := srv.serve(cfg); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
