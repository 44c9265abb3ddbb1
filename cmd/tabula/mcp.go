package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/aretw0/tabula/internal/cli"
	"github.com/aretw0/tabula/pkg/adapters/mcp"
	"github.com/aretw0/tabula/pkg/domain"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Tabula as an MCP Server, so AI agents can validate inputs and
inspect machines as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, done, err := setup(cmd)
		if err != nil {
			return err
		}
		defer done()

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Stop()

		// Logs go to Stderr (or the log file), never to the JSON-RPC stream on Stdout.
		eng, cleanup, err := openEngine(ctx, cmd, cfg, logger, domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		defer cleanup()

		srv := mcp.NewServer(eng, logger)

		switch transport {
		case "stdio":
			logger.Info("Starting Tabula MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting Tabula MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
