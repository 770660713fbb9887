// Package editor ties the graph, drag engine and inspector of one session
// together behind a single command surface.
package editor

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/aretw0/missionkit/internal/logging"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/graph"
	"github.com/aretw0/missionkit/pkg/inspector"
	"github.com/aretw0/missionkit/pkg/layout"
	"github.com/aretw0/missionkit/pkg/registry"
	"github.com/aretw0/missionkit/pkg/render"
)

// TemplateResolver finds templates by id. catalog.Library satisfies it.
type TemplateResolver interface {
	Get(id string) (domain.Template, error)
}

// Session is the state of one editing session, passed to every interaction handler.
type Session struct {
	Graph     *graph.Store
	Drag      *layout.DragEngine
	Inspector *inspector.Inspector

	registry  *registry.Registry
	templates TemplateResolver
	logger    *slog.Logger

	observers []func(domain.Change)
	pending   []domain.Change
	recording bool
}

type config struct {
	registry  *registry.Registry
	templates TemplateResolver
	canvas    layout.Canvas
	prune     bool
	idGen     func() string
	logger    *slog.Logger
}

// Option configures a Session.
type Option func(*config)

// WithRegistry sets the kind registry.
func WithRegistry(r *registry.Registry) Option {
	return func(c *config) { c.registry = r }
}

// WithTemplates sets where load_template looks templates up.
func WithTemplates(t TemplateResolver) Option {
	return func(c *config) { c.templates = t }
}

// WithCanvas sets the canvas bounds.
func WithCanvas(canvas layout.Canvas) Option {
	return func(c *config) { c.canvas = canvas }
}

// WithPruneDangling removes references to deleted steps.
func WithPruneDangling(enabled bool) Option {
	return func(c *config) { c.prune = enabled }
}

// WithIDGenerator overrides step id generation.
func WithIDGenerator(gen func() string) Option {
	return func(c *config) { c.idGen = gen }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates an empty session.
func New(opts ...Option) *Session {
	cfg := &config{
		registry: registry.Default(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.registry == nil {
		cfg.registry = registry.Default()
	}

	s := &Session{
		registry:  cfg.registry,
		templates: cfg.templates,
		logger:    cfg.logger,
	}
	s.Graph = graph.New(
		graph.WithRegistry(cfg.registry),
		graph.WithIDGenerator(cfg.idGen),
		graph.WithPruneDangling(cfg.prune),
		graph.WithLogger(cfg.logger),
	)
	s.Drag = layout.NewDragEngine(
		layout.WithCanvas(cfg.canvas),
		layout.WithLogger(cfg.logger),
		layout.WithObserver(s.dispatch),
	)
	s.Inspector = inspector.New(s.Graph,
		inspector.WithRegistry(cfg.registry),
		inspector.WithLogger(cfg.logger),
	)
	s.Graph.Subscribe(s.dispatch)
	return s
}

// FromSnapshot rebuilds a session from persisted state.
func FromSnapshot(snap *domain.Snapshot, opts ...Option) *Session {
	s := New(opts...)
	s.Graph.Restore(snap)
	if snap.DraggingID != "" && s.Graph.Has(snap.DraggingID) {
		s.Drag.Restore(snap.DraggingID)
	}
	return s
}

// Snapshot captures the session for persistence.
func (s *Session) Snapshot(sessionID string) *domain.Snapshot {
	snap := s.Graph.Snapshot(sessionID)
	snap.DraggingID, _ = s.Drag.Active()
	return snap
}

// Subscribe registers fn for every graph, selection and drag change.
func (s *Session) Subscribe(fn func(domain.Change)) {
	s.observers = append(s.observers, fn)
}

// Edges derives the renderable edges of the current graph.
func (s *Session) Edges() iter.Seq[render.Edge] {
	return render.Edges(s.Graph.Steps())
}

// Mermaid renders the current graph with selection and drag highlighted.
func (s *Session) Mermaid() string {
	overlay := &render.Overlay{}
	overlay.SelectedID, _ = s.Graph.Selected()
	overlay.DraggingID, _ = s.Drag.Active()
	return render.Mermaid(s.Graph.Steps(), overlay)
}

// Apply executes one command.
// Commands referencing missing steps are no-ops reported through Result.Applied.
func (s *Session) Apply(cmd Command) (Result, error) {
	s.pending = nil
	s.recording = true
	defer func() { s.recording = false }()

	res := Result{Op: cmd.Op}
	var err error
	res.Applied, err = s.apply(cmd, &res)
	res.Changes = s.pending
	s.pending = nil

	if err != nil {
		s.logger.Debug("command rejected", "op", cmd.Op, "step_id", cmd.StepID, "error", err)
		return res, err
	}
	s.logger.Debug("command applied", "op", cmd.Op, "step_id", cmd.StepID, "applied", res.Applied)
	return res, nil
}

func (s *Session) apply(cmd Command, res *Result) (bool, error) {
	switch cmd.Op {
	case OpAddStep:
		if cmd.Kind == "" {
			return false, fmt.Errorf("%w: add_step requires a kind", domain.ErrInvalidValue)
		}
		// Templates may carry unregistered kinds; new steps may not.
		if _, ok := s.registry.Lookup(cmd.Kind); !ok {
			return false, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidValue, cmd.Kind)
		}
		pos := domain.DefaultPosition
		if cmd.Position != nil {
			pos = *cmd.Position
		}
		res.StepID = s.Graph.AddStep(cmd.Kind, pos)
		return true, nil

	case OpRemoveStep:
		if active, ok := s.Drag.Active(); ok && active == cmd.StepID {
			s.Drag.Cancel()
		}
		return s.Graph.RemoveStep(cmd.StepID), nil

	case OpUpdateField:
		return s.Graph.UpdateField(cmd.StepID, cmd.Field, cmd.Value)

	case OpMoveStep:
		if cmd.Position == nil {
			return false, fmt.Errorf("%w: move_step requires a position", domain.ErrInvalidValue)
		}
		return s.Graph.MoveStep(cmd.StepID, *cmd.Position), nil

	case OpConnect:
		return s.Graph.Connect(cmd.StepID, cmd.TargetID), nil

	case OpDisconnect:
		return s.Graph.Disconnect(cmd.StepID, cmd.TargetID), nil

	case OpLoadTemplate:
		if s.templates == nil {
			return false, fmt.Errorf("%w: %s (no catalog)", domain.ErrTemplateNotFound, cmd.TemplateID)
		}
		tpl, err := s.templates.Get(cmd.TemplateID)
		if err != nil {
			return false, err
		}
		s.Drag.Cancel()
		s.Graph.LoadTemplate(tpl)
		return true, nil

	case OpSelect:
		if err := s.Graph.Select(cmd.StepID); err != nil {
			return false, err
		}
		return true, nil

	case OpDeselect:
		_, had := s.Graph.Selected()
		s.Graph.Deselect()
		return had, nil

	case OpBeginDrag:
		if !s.Graph.Has(cmd.StepID) {
			return false, nil
		}
		s.Drag.BeginDrag(cmd.StepID)
		return true, nil

	case OpDragOver:
		if cmd.Pointer == nil {
			return false, fmt.Errorf("%w: drag_over requires a pointer", domain.ErrInvalidValue)
		}
		pos, ok := s.Drag.DragOver(cmd.Pointer.X, cmd.Pointer.Y, cmd.Origin)
		if ok {
			res.Preview = &pos
		}
		return false, nil

	case OpDrop:
		var pos domain.Position
		switch {
		case cmd.Pointer != nil:
			pos = layout.ComputeDropPosition(cmd.Pointer.X, cmd.Pointer.Y, cmd.Origin)
		case cmd.Position != nil:
			pos = *cmd.Position
		default:
			return false, fmt.Errorf("%w: drop requires a pointer or position", domain.ErrInvalidValue)
		}
		return s.Drag.EndDrag(s.Graph, pos), nil

	case OpCancelDrag:
		return s.Drag.Cancel(), nil
	}
	return false, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Op)
}

func (s *Session) dispatch(c domain.Change) {
	if s.recording {
		s.pending = append(s.pending, c)
	}
	for _, fn := range s.observers {
		fn(c)
	}
}
