package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/aretw0/missionkit/internal/logging"
	"github.com/aretw0/missionkit/pkg/adapters/file"
	"github.com/aretw0/missionkit/pkg/catalog"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/editor"
	"github.com/aretw0/missionkit/pkg/registry"
	"github.com/aretw0/missionkit/pkg/render"
	"github.com/aretw0/missionkit/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Server exposes stored editor sessions over HTTP.
type Server struct {
	Sessions  *session.Manager
	Templates *catalog.Library
	Registry  *registry.Registry
	Streams   *StreamManager

	logger  *slog.Logger
	origins []string
	version string
}

// Option configures the Server.
type Option func(*Server)

// WithRegistry overrides the kind registry served by /kinds.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Server) {
		if r != nil {
			s.Registry = r
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

// WithCORSOrigins restricts the allowed origins. Empty or "*" allows any.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a server over the given session manager and template library.
func NewServer(sessions *session.Manager, templates *catalog.Library, opts ...Option) *Server {
	s := &Server{
		Sessions:  sessions,
		Templates: templates,
		Registry:  registry.Default(),
		Streams:   NewStreamManager(),
		logger:    logging.NewNop(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, templates *catalog.Library, opts ...Option) http.Handler {
	return NewServer(sessions, templates, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.cors)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/kinds", s.ListKinds)
	r.Get("/templates", s.ListTemplates)
	r.Get("/templates/{id}", s.GetTemplate)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/commands", s.ApplyCommand)
			r.Get("/edges", s.GetEdges)
			r.Get("/inspector", s.GetInspector)
			r.Get("/mermaid", s.GetMermaid)
			r.Get("/events", s.SubscribeEvents)
			r.Get("/ws", s.SubscribeSocket)
		})
	})
	return r
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.origins) > 0 && !slices.Contains(s.origins, "*") {
			req := r.Header.Get("Origin")
			if !slices.Contains(s.origins, req) {
				origin = ""
			} else {
				origin = req
				w.Header().Add("Vary", "Origin")
			}
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "missionkit-http",
		"version": s.version,
	})
}

// ListKinds handles the GET /kinds request.
func (s *Server) ListKinds(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Registry.Kinds())
}

// ListTemplates handles the GET /templates request.
func (s *Server) ListTemplates(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Templates.List())
}

// GetTemplate handles the GET /templates/{id} request.
func (s *Server) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.Templates.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tpl)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

type createSessionRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	TemplateID string `json:"template_id,omitempty"`
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.logger.Warn("CreateSession: invalid request body", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	snap, err := s.Sessions.Create(r.Context(), body.SessionID, body.TemplateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, snap)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyCommand handles the POST /sessions/{id}/commands request.
func (s *Server) ApplyCommand(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var cmd editor.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		s.logger.Warn("ApplyCommand: invalid request body", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Broadcast under the session lock so subscribers see diffs in commit order.
	out, err := s.Sessions.ApplyThen(r.Context(), sessionID, cmd, func(out *session.Outcome) {
		if out.Diff == nil {
			return
		}
		s.logger.Debug("ApplyCommand: diff calculated", "session_id", sessionID, "op", cmd.Op)
		if bytes, err := json.Marshal(out.Diff); err == nil {
			s.Streams.Broadcast(sessionID, string(bytes))
		}
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetEdges handles the GET /sessions/{id}/edges request.
func (s *Server) GetEdges(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	edges := render.Collect(sess.Graph.Steps())
	if edges == nil {
		edges = []render.Edge{}
	}
	s.writeJSON(w, http.StatusOK, edges)
}

// GetInspector handles the GET /sessions/{id}/inspector request.
// It answers 204 when nothing is selected.
func (s *Server) GetInspector(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	form, ok := sess.Inspector.Form()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, form)
}

// GetMermaid handles the GET /sessions/{id}/mermaid request.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(sess.Mermaid()))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrStepNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownCommand),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrNoSelection),
		errors.Is(err, file.ErrInvalidSessionID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
