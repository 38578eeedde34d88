package main

import (
	"io"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/spf13/cobra"

	mcptools "github.com/felixgeelhaar/shipit/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agent integration",
	Long: `Start a Model Context Protocol (MCP) server exposing shipit to agents.

Available tools:
  - shipit_plan      Show the resolved steps of a pipeline
  - shipit_validate  Validate the manifest
  - shipit_run       Run a pipeline (requires confirm=true)
  - shipit_envs      List environments

Examples:
  shipit mcp                     # Start stdio MCP server
  shipit mcp --http :8080        # Start HTTP MCP server
  shipit mcp --config path.yaml  # Use specific manifest`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

var mcpHTTP string

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVar(&mcpHTTP, "http", "", "Start HTTP server on address (e.g., :8080)")
}

// newMCPServer builds the MCP server with all shipit tools registered.
func newMCPServer() *mcp.Server {
	// stdout belongs to the protocol; the app must not print to it.
	shipit := newApp(io.Discard)

	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "shipit",
		Version: version,
	})
	mcptools.RegisterAll(srv, shipit, cfgFile)
	return srv
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	srv := newMCPServer()

	if mcpHTTP != "" {
		return mcp.ServeHTTP(ctx, srv, mcpHTTP)
	}
	return mcp.ServeStdio(ctx, srv)
}
