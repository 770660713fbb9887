package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/missionkit/internal/logging"
	"github.com/aretw0/missionkit/pkg/catalog"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/editor"
	"github.com/aretw0/missionkit/pkg/registry"
	"github.com/aretw0/missionkit/pkg/render"
	"github.com/aretw0/missionkit/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TemplatesURI is the resource listing every template in the catalog.
const TemplatesURI = "missionkit://templates"

// Server exposes stored editor sessions as MCP tools.
type Server struct {
	sessions  *session.Manager
	templates *catalog.Library
	registry  *registry.Registry
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithRegistry overrides the kind registry reported by list_kinds.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Server) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, templates *catalog.Library, version string, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		templates: templates,
		registry:  registry.Default(),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("missionkit-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx ends.
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

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_kinds",
		mcp.WithDescription("List the step kinds with their label, color and icon."),
	), s.handleListKinds)

	s.mcpServer.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the mission templates available to load."),
	), s.handleListTemplates)

	s.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Create an editing session, optionally seeded from a template."),
		mcp.WithString("session_id", mcp.Description("Session ID (generated when omitted)")),
		mcp.WithString("template_id", mcp.Description("Template to load into the new session")),
	), s.handleCreateSession)

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get the full snapshot of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.handleGetSession)

	s.mcpServer.AddTool(mcp.NewTool("apply_command",
		mcp.WithDescription("Apply one editor command (add_step, connect, update_field, select, drop...) to a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("command", mcp.Required(), mcp.Description(`JSON command, e.g. {"op":"connect","step_id":"a","target_id":"b"}`)),
	), s.handleApplyCommand)

	s.mcpServer.AddTool(mcp.NewTool("get_edges",
		mcp.WithDescription("Get the rendered connections of a session with their angles."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.handleGetEdges)

	s.mcpServer.AddTool(mcp.NewTool("inspect",
		mcp.WithDescription("Get the inspector form of the selected step."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.handleInspect)

	s.mcpServer.AddTool(mcp.NewTool("mermaid",
		mcp.WithDescription("Render a session as a Mermaid flowchart."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.handleMermaid)

	s.mcpServer.AddTool(mcp.NewTool("delete_session",
		mcp.WithDescription("Delete a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.handleDeleteSession)
}

func (s *Server) handleListKinds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.registry.Kinds())
}

func (s *Server) handleListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.templates.List())
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.sessions.Create(ctx, request.GetString("session_id", ""), request.GetString("template_id", ""))
	if err != nil {
		return s.toolError("create_session", err)
	}
	return jsonResult(snap)
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.sessions.Load(ctx, id)
	if err != nil {
		return s.toolError("get_session", err)
	}
	return jsonResult(snap)
}

func (s *Server) handleApplyCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cmd editor.Command
	if err := json.Unmarshal([]byte(raw), &cmd); err != nil {
		s.logger.Warn("MCP apply_command: invalid command", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("invalid command: %v", err)), nil
	}

	out, err := s.sessions.Apply(ctx, id, cmd)
	if err != nil {
		return s.toolError("apply_command", err)
	}
	return jsonResult(out)
}

func (s *Server) handleGetEdges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, res := s.open(ctx, request)
	if res != nil {
		return res, nil
	}
	edges := render.Collect(sess.Graph.Steps())
	if edges == nil {
		edges = []render.Edge{}
	}
	return jsonResult(edges)
}

func (s *Server) handleInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, res := s.open(ctx, request)
	if res != nil {
		return res, nil
	}
	form, ok := sess.Inspector.Form()
	if !ok {
		return mcp.NewToolResultText("no step selected"), nil
	}
	return jsonResult(form)
}

func (s *Server) handleMermaid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, res := s.open(ctx, request)
	if res != nil {
		return res, nil
	}
	return mcp.NewToolResultText(sess.Mermaid()), nil
}

func (s *Server) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return s.toolError("delete_session", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("session %s deleted", id)), nil
}

// open rebuilds the session named by the request. A non-nil result is the
// error to hand back to the client.
func (s *Server) open(ctx context.Context, request mcp.CallToolRequest) (*editor.Session, *mcp.CallToolResult) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	sess, err := s.sessions.Open(ctx, id)
	if err != nil {
		res, _ := s.toolError("open_session", err)
		return nil, res
	}
	return sess, nil
}

// toolError reports domain failures as tool errors so the model can react;
// anything else is logged as well.
func (s *Server) toolError(tool string, err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionExists),
		errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrStepNotFound),
		errors.Is(err, domain.ErrUnknownCommand),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrInvalidValue):
	default:
		s.logger.Error("MCP tool failed", "tool", tool, "error", err)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TemplatesURI, "Mission Templates",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.templates.List())
		if err != nil {
			return nil, fmt.Errorf("failed to encode templates: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TemplatesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
