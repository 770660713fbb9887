package graph

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/missionkit/internal/logging"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/registry"
	"github.com/google/uuid"
)

// maxIDAttempts bounds how often a custom id generator is retried.
const maxIDAttempts = 16

// Store owns the steps and selection of one session.
type Store struct {
	steps    map[string]*domain.Step
	order    []string
	selected string

	registry *registry.Registry
	newID    func() string
	prune    bool
	logger   *slog.Logger

	subs    []*subscription
	nextSub int
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		steps:    make(map[string]*domain.Step),
		registry: registry.Default(),
		newID:    defaultID,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStep creates a step of the given kind at pos and returns its id.
// Title and description come from the registry; config and connections start empty.
func (s *Store) AddStep(kind domain.Kind, pos domain.Position) string {
	id := s.freshID()
	spec := s.registry.Spec(kind)
	s.insert(&domain.Step{
		ID:          id,
		Kind:        kind,
		Title:       spec.DefaultTitle,
		Description: spec.DefaultDescription,
		Config:      map[string]any{},
		Position:    pos,
		Connections: []string{},
	})
	s.logger.Debug("step added", "step_id", id, "kind", kind)
	s.emit(domain.Change{Type: domain.ChangeStepAdded, StepID: id})
	return id
}

// RemoveStep deletes a step. It reports false when the id is unknown.
// Removing the selected step clears the selection.
func (s *Store) RemoveStep(id string) bool {
	if _, ok := s.steps[id]; !ok {
		return false
	}
	delete(s.steps, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })

	if s.prune {
		for _, other := range s.steps {
			other.Connections = slices.DeleteFunc(other.Connections, func(t string) bool { return t == id })
		}
	}

	s.logger.Debug("step removed", "step_id", id, "pruned", s.prune)
	s.emit(domain.Change{Type: domain.ChangeStepRemoved, StepID: id})

	if s.selected == id {
		s.selected = ""
		s.emit(domain.Change{Type: domain.ChangeSelectionChanged})
	}
	return true
}

// UpdateField sets title, description or a single config key ("config.<key>").
// It reports false with no error when the step does not exist.
// A nil value for a config key removes the key.
func (s *Store) UpdateField(id, field string, value any) (bool, error) {
	step, ok := s.steps[id]
	if !ok {
		return false, nil
	}

	switch field {
	case domain.FieldTitle, domain.FieldDescription:
		text, ok := value.(string)
		if !ok {
			return false, fmt.Errorf("%w: %s must be a string, got %T", domain.ErrInvalidValue, field, value)
		}
		if field == domain.FieldTitle {
			step.Title = text
		} else {
			step.Description = text
		}
	default:
		key, ok := domain.ConfigKey(field)
		if !ok {
			return false, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
		}
		if step.Config == nil {
			step.Config = map[string]any{}
		}
		if value == nil {
			delete(step.Config, key)
		} else {
			step.Config[key] = value
		}
	}

	s.emit(domain.Change{Type: domain.ChangeStepUpdated, StepID: id, Field: field})
	return true, nil
}

// MoveStep sets a step's position unconditionally.
func (s *Store) MoveStep(id string, pos domain.Position) bool {
	step, ok := s.steps[id]
	if !ok {
		return false
	}
	step.Position = pos
	s.emit(domain.Change{Type: domain.ChangeStepMoved, StepID: id})
	return true
}

// Connect appends to to the connections of from.
// The target does not have to exist; duplicates are kept.
func (s *Store) Connect(from, to string) bool {
	step, ok := s.steps[from]
	if !ok {
		return false
	}
	step.Connections = append(step.Connections, to)
	s.emit(domain.Change{Type: domain.ChangeConnected, StepID: from, TargetID: to})
	return true
}

// Disconnect removes the first occurrence of to from the connections of from.
func (s *Store) Disconnect(from, to string) bool {
	step, ok := s.steps[from]
	if !ok {
		return false
	}
	i := slices.Index(step.Connections, to)
	if i < 0 {
		return false
	}
	step.Connections = slices.Delete(step.Connections, i, i+1)
	s.emit(domain.Change{Type: domain.ChangeDisconnected, StepID: from, TargetID: to})
	return true
}

// LoadTemplate replaces the whole graph with a deep copy of the template's
// steps and clears the selection.
// Steps without an id get a generated one; repeated ids keep the first occurrence.
func (s *Store) LoadTemplate(t domain.Template) {
	s.steps = make(map[string]*domain.Step, len(t.Steps))
	s.order = make([]string, 0, len(t.Steps))
	s.selected = ""

	// Explicit ids are placed first so a generated id never shadows a later one.
	steps := make([]domain.Step, len(t.Steps))
	for i, src := range t.Steps {
		steps[i] = src.Clone()
	}
	taken := make(map[string]bool, len(steps))
	for _, step := range steps {
		if step.ID != "" {
			taken[step.ID] = true
		}
	}

	for _, step := range steps {
		if step.ID == "" {
			step.ID = s.freshIDExcluding(taken)
			taken[step.ID] = true
		}
		if _, dup := s.steps[step.ID]; dup {
			s.logger.Warn("duplicate step id in template", "template_id", t.ID, "step_id", step.ID)
			continue
		}
		if step.Config == nil {
			step.Config = map[string]any{}
		}
		if step.Connections == nil {
			step.Connections = []string{}
		}
		s.insert(&step)
	}

	s.logger.Debug("template loaded", "template_id", t.ID, "steps", len(s.order))
	s.emit(domain.Change{Type: domain.ChangeTemplateLoaded})
}

// Select makes id the selected step. An empty id clears the selection.
// Selecting an unknown id fails and leaves the selection unchanged.
func (s *Store) Select(id string) error {
	if id == "" {
		s.Deselect()
		return nil
	}
	if _, ok := s.steps[id]; !ok {
		return fmt.Errorf("select %s: %w", id, domain.ErrStepNotFound)
	}
	if s.selected != id {
		s.selected = id
		s.emit(domain.Change{Type: domain.ChangeSelectionChanged, StepID: id})
	}
	return nil
}

// Deselect clears the selection.
func (s *Store) Deselect() {
	if s.selected == "" {
		return
	}
	s.selected = ""
	s.emit(domain.Change{Type: domain.ChangeSelectionChanged})
}

// Selected returns the selected step id.
func (s *Store) Selected() (string, bool) {
	return s.selected, s.selected != ""
}

// Has reports whether a step exists.
func (s *Store) Has(id string) bool {
	_, ok := s.steps[id]
	return ok
}

// Step returns a copy of a single step.
func (s *Store) Step(id string) (domain.Step, bool) {
	step, ok := s.steps[id]
	if !ok {
		return domain.Step{}, false
	}
	return step.Clone(), true
}

// Steps returns copies of all steps in graph order.
func (s *Store) Steps() []domain.Step {
	out := make([]domain.Step, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.steps[id].Clone())
	}
	return out
}

// Len returns the number of steps.
func (s *Store) Len() int {
	return len(s.order)
}

func (s *Store) insert(step *domain.Step) {
	s.steps[step.ID] = step
	s.order = append(s.order, step.ID)
}

func (s *Store) freshID() string {
	return s.freshIDExcluding(nil)
}

// freshIDExcluding asks the generator for an id that is neither a current
// step nor in reserved. After maxIDAttempts misses it falls back to a uuid.
func (s *Store) freshIDExcluding(reserved map[string]bool) string {
	free := func(id string) bool {
		if id == "" || reserved[id] {
			return false
		}
		_, taken := s.steps[id]
		return !taken
	}
	for range maxIDAttempts {
		if id := s.newID(); free(id) {
			return id
		}
	}
	s.logger.Warn("step id generator kept colliding, using a uuid", "attempts", maxIDAttempts)
	for {
		if id := uuid.NewString(); free(id) {
			return id
		}
	}
}
