package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/internal/presentation/graph"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/fsm"
)

// Engine defines the interface required by the MCP server to interact with Tabula.
type Engine interface {
	Validate(ctx context.Context, machine, input string) (domain.Result, error)
	Machines() []string
	Machine(name string) (*fsm.Machine, error)
}

// MachineDescription is the payload of the describe_machine tool.
type MachineDescription struct {
	Definition fsm.Definition `json:"definition" jsonschema_description:"The transition table of the machine"`
	Mermaid    string         `json:"mermaid" jsonschema_description:"The machine as a Mermaid state diagram"`
}

// Server wraps the Tabula Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("tabula-mcp", strings.TrimSpace(tabula.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
// It returns when ctx is cancelled or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: validate_input
	validateTool := mcp.NewTool("validate_input",
		mcp.WithDescription("Run an input string through a named state machine and report whether it is accepted."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine name, e.g. binary or expression")),
		mcp.WithString("input", mcp.Required(), mcp.Description("The string to validate")),
		mcp.WithOutputSchema[domain.Result](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: list_machines
	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the names of the registered machines."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.engine.Machines())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: describe_machine
	describeTool := mcp.NewTool("describe_machine",
		mcp.WithDescription("Return the transition table of a machine and its Mermaid diagram."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithOutputSchema[MachineDescription](),
	)
	s.mcpServer.AddTool(describeTool, mcp.NewStructuredToolHandler(s.handleDescribe))
}

// Handler methods for structured tools

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Result, error) {
	machine, _ := args["machine"].(string)
	input, ok := args["input"].(string)
	if machine == "" || !ok {
		return domain.Result{}, errors.New("machine and input are required")
	}

	res, err := s.engine.Validate(ctx, machine, input)
	if err != nil {
		s.logger.Warn("MCP Validate: rejected", "machine", machine, "error", err)
		return domain.Result{}, fmt.Errorf("validate failed: %w", err)
	}
	return res, nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MachineDescription, error) {
	name, _ := args["machine"].(string)
	m, err := s.engine.Machine(name)
	if err != nil {
		return MachineDescription{}, err
	}
	return MachineDescription{
		Definition: m.Table().Definition(),
		Mermaid:    graph.GenerateMermaid(m.Table(), graph.Options{}),
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: tabula://machines
	s.mcpServer.AddResource(mcp.NewResource("tabula://machines", "Registered machine definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		defs := make([]fsm.Definition, 0)
		for _, name := range s.engine.Machines() {
			m, err := s.engine.Machine(name)
			if err != nil {
				continue
			}
			defs = append(defs, m.Table().Definition())
		}
		jsonBytes, err := json.Marshal(defs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode definitions: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "tabula://machines",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
