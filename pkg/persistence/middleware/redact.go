package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/ports"
)

// Mask replaces redacted config values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware masks step config values whose keys match any of the
// patterns before they reach the store. Nested maps and lists are walked too.
// Redaction is one-way: loaded snapshots carry the mask.
func NewRedactMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &redactMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	// The caller keeps its unmasked copy.
	cloned := snap.Clone()
	for i := range cloned.Steps {
		m.mask(cloned.Steps[i].Config)
	}
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) Close() error {
	return closeNext(m.next)
}

func (m *redactMiddleware) mask(values map[string]any) {
	for k, v := range values {
		if m.matches(k) {
			values[k] = Mask
			continue
		}
		m.maskValue(v)
	}
}

// maskValue walks nested maps and lists, the shapes JSON and YAML decode into.
func (m *redactMiddleware) maskValue(v any) {
	switch val := v.(type) {
	case map[string]any:
		m.mask(val)
	case []any:
		for _, item := range val {
			m.maskValue(item)
		}
	}
}

func (m *redactMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
