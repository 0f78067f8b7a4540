// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to search movie plots via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/plotsearch/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs plotsearch as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to search movie plots via stdio.

Configure in Claude Desktop's config file to enable the search tools.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  plotsearch mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "plotsearch": {
  #       "command": "plotsearch",
  #       "args": ["mcp", "--dataset", "/path/to/movies.csv"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}

	server := newMCPServer(a)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("MCP server starting on stdio", "dataset", a.cfg.Dataset)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		if err := a.Close(); err != nil {
			a.logger.Warn("error closing cache", "err", err)
		}
		a.logger.Info("shutdown complete")

	case err := <-serverErr:
		_ = a.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

// newMCPServer creates an MCP server with the plot search tools registered
func newMCPServer(a *app) *mcpserver.MCPServer {
	return mcp.NewServer(versionInfo.Version, a.engine, a.manager)
}
