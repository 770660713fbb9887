package graph

import (
	"log/slog"

	"github.com/aretw0/missionkit/pkg/registry"
	"github.com/google/uuid"
)

// Option configures a Store.
type Option func(*Store)

// WithRegistry sets the kind registry used for default titles and descriptions.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Store) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithIDGenerator overrides how new step ids are produced.
// Generated ids that are empty or collide with an existing step are regenerated;
// a generator that keeps colliding falls back to uuids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithPruneDangling makes RemoveStep also delete references to the removed
// step from every other step's connections. By default they are left in place.
func WithPruneDangling(enabled bool) Option {
	return func(s *Store) {
		s.prune = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func defaultID() string {
	return uuid.NewString()
}
