package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/confadmin/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes read-only tools for events, sources, submissions,
vote analytics and conflicts. Tools default to the active event.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  confadmin mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  confadmin mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "confadmin": {
        "command": "/path/to/confadmin",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if eventService == nil {
		return errors.New("event service not configured")
	}

	ports := &mcp.Ports{
		Event:      eventService,
		Source:     sourceService,
		Submission: submissionService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	// Notifications would corrupt the stdio stream.
	if notifyRelay != nil && port == 0 {
		prev := notifyRelay.Use(nil)
		defer notifyRelay.Use(prev)
	}

	ctx := commandContext(cmd)
	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
