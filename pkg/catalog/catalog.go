// Package catalog holds the library of templates used to seed editing sessions.
package catalog

import (
	"fmt"
	"sync"

	"github.com/aretw0/missionkit/pkg/domain"
)

// Library is an ordered, read-mostly collection of templates.
// Templates are stored as private deep copies and handed out as fresh copies,
// so nothing a caller does can alter the stored originals.
type Library struct {
	mu        sync.RWMutex
	templates map[string]domain.Template
	order     []string
}

// New creates a library holding the given templates.
func New(templates ...domain.Template) (*Library, error) {
	l := &Library{templates: make(map[string]domain.Template)}
	for _, t := range templates {
		if err := l.Register(t); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Register adds a template. Registering an existing ID replaces it in place.
func (l *Library) Register(t domain.Template) error {
	if t.ID == "" {
		return fmt.Errorf("template missing ID")
	}
	seen := make(map[string]bool, len(t.Steps))
	for _, s := range t.Steps {
		if s.ID == "" {
			return fmt.Errorf("template %s: step missing ID", t.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("template %s: duplicate step ID %q", t.ID, s.ID)
		}
		seen[s.ID] = true
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.templates[t.ID]; !exists {
		l.order = append(l.order, t.ID)
	}
	l.templates[t.ID] = t.Clone()
	return nil
}

// Get returns a deep copy of the template with the given ID.
func (l *Library) Get(id string) (domain.Template, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.templates[id]
	if !ok {
		return domain.Template{}, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, id)
	}
	return t.Clone(), nil
}

// List returns deep copies of all templates in registration order.
func (l *Library) List() []domain.Template {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Template, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.templates[id].Clone())
	}
	return out
}

// Len returns the number of templates.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}
