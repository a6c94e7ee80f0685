package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so an AI assistant can load
PDFs, ask questions and run quizzes through studymate.

By default the server speaks JSON-RPC over stdio. Use --http to serve the
streamable HTTP transport instead, which works with MCP Inspector.

Examples:
  # Stdio mode (for desktop assistants)
  studymate mcp serve --pdf notes.pdf

  # HTTP mode
  studymate mcp serve --http :8080

  # Pick up PDFs dropped into a folder while serving
  studymate mcp serve --watch ~/Downloads/lectures

Assistant configuration:
  {
    "mcpServers": {
      "studymate": {
        "command": "/path/to/studymate",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().String("http", "", "serve over HTTP on this address (empty = stdio)")
	mcpServeCmd.Flags().String("watch", "", "upload PDFs dropped into this directory")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}
	watchDir, err := cmd.Flags().GetString("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Document: documentService,
		Ask:      askService,
		Quiz:     quizService,
		Import:   importService,
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	stop, err := startWatcher(ctx, watchDir)
	if err != nil {
		return err
	}
	defer stop()

	if addr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", displayAddr(addr))
		return server.RunHTTP(ctx, addr)
	}
	return server.Run(ctx)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// errNoWatcher is returned when --watch is used without a watcher configured.
var errNoWatcher = errors.New("folder watcher not configured")
