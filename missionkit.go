package missionkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/missionkit/internal/logging"
	loamAdapter "github.com/aretw0/missionkit/pkg/adapters/loam"
	"github.com/aretw0/missionkit/pkg/adapters/memory"
	"github.com/aretw0/missionkit/pkg/catalog"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/editor"
	"github.com/aretw0/missionkit/pkg/layout"
	"github.com/aretw0/missionkit/pkg/ports"
	"github.com/aretw0/missionkit/pkg/registry"
	"github.com/aretw0/missionkit/pkg/session"
)

// Studio is the high-level entry point for the library.
// It wires the kind registry, the template catalog and a session manager
// over a snapshot store.
type Studio struct {
	catalog  *catalog.Library
	registry *registry.Registry
	sessions *session.Manager
	store    ports.SnapshotStore
	logger   *slog.Logger

	loader      ports.TemplateLoader
	templateDir string
	noBuiltins  bool
	hooks       domain.LifecycleHooks
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	canvas      layout.Canvas
	prune       bool
	newStepID   func() string
}

// Option defines a functional option for configuring the Studio.
type Option func(*Studio)

// WithStore sets the snapshot store. Defaults to an in-memory store.
func WithStore(store ports.SnapshotStore) Option {
	return func(s *Studio) {
		s.store = store
	}
}

// WithTemplateLoader adds templates from a custom loader on top of the builtins.
func WithTemplateLoader(l ports.TemplateLoader) Option {
	return func(s *Studio) {
		s.loader = l
	}
}

// WithTemplateDir adds templates read through Loam from dir.
// Ignored when WithTemplateLoader is also given.
func WithTemplateDir(dir string) Option {
	return func(s *Studio) {
		s.templateDir = dir
	}
}

// WithoutBuiltins leaves the stock templates out of the catalog.
func WithoutBuiltins() Option {
	return func(s *Studio) {
		s.noBuiltins = true
	}
}

// WithRegistry overrides the kind registry.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Studio) {
		s.registry = r
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Studio) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls merge.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Studio) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithLocker coordinates session access across processes.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *Studio) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

// WithCanvas sets the canvas bounds used to report off-canvas drops.
func WithCanvas(c layout.Canvas) Option {
	return func(s *Studio) {
		s.canvas = c
	}
}

// WithPruneDangling removes references to deleted steps eagerly.
func WithPruneDangling(enabled bool) Option {
	return func(s *Studio) {
		s.prune = enabled
	}
}

// WithStepIDGenerator overrides how new step ids are generated.
func WithStepIDGenerator(gen func() string) Option {
	return func(s *Studio) {
		s.newStepID = gen
	}
}

// New initializes a Studio. Templates from the loader (or template dir)
// replace builtins that share their id.
func New(ctx context.Context, opts ...Option) (*Studio, error) {
	s := &Studio{}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.registry == nil {
		s.registry = registry.Default()
	}
	if s.store == nil {
		s.store = memory.NewStore()
	}

	var err error
	if s.noBuiltins {
		s.catalog, err = catalog.New()
	} else {
		s.catalog, err = catalog.New(catalog.BuiltinTemplates()...)
	}
	if err != nil {
		return nil, err
	}

	if s.loader == nil && s.templateDir != "" {
		l, err := loamAdapter.Open(s.templateDir)
		if err != nil {
			return nil, err
		}
		s.loader = l
	}
	if s.loader != nil {
		templates, err := s.loader.LoadTemplates(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load templates: %w", err)
		}
		for _, t := range templates {
			if err := s.catalog.Register(t); err != nil {
				return nil, err
			}
		}
		s.logger.Info("templates loaded", "count", len(templates), "dir", s.templateDir)
	}

	sessionOpts := []session.Option{
		session.WithLogger(s.logger.With("component", "session")),
		session.WithHooks(s.hooks),
		session.WithEditorOptions(s.editorOptions()...),
	}
	if s.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(s.locker), session.WithLockTTL(s.lockTTL))
	}
	s.sessions = session.NewManager(s.store, sessionOpts...)

	return s, nil
}

func (s *Studio) editorOptions() []editor.Option {
	opts := []editor.Option{
		editor.WithRegistry(s.registry),
		editor.WithTemplates(s.catalog),
		editor.WithCanvas(s.canvas),
		editor.WithPruneDangling(s.prune),
		editor.WithLogger(s.logger.With("component", "editor")),
	}
	if s.newStepID != nil {
		opts = append(opts, editor.WithIDGenerator(s.newStepID))
	}
	return opts
}

// NewEditor returns an unpersisted editor bound to the Studio's catalog and registry.
func (s *Studio) NewEditor() *editor.Session {
	return editor.New(s.editorOptions()...)
}

// Catalog returns the template library.
func (s *Studio) Catalog() *catalog.Library { return s.catalog }

// Registry returns the kind registry.
func (s *Studio) Registry() *registry.Registry { return s.registry }

// Sessions returns the session manager.
func (s *Studio) Sessions() *session.Manager { return s.sessions }

// Store returns the snapshot store.
func (s *Studio) Store() ports.SnapshotStore { return s.store }

// Close releases the store when it holds connections.
func (s *Studio) Close() error {
	if c, ok := s.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
