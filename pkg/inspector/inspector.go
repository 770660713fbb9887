// Package inspector exposes the selected step as an editable form.
//
// Every edit is committed to the graph immediately; there is no draft state.
package inspector

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/aretw0/missionkit/internal/logging"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/graph"
	"github.com/aretw0/missionkit/pkg/registry"
)

// Field is one editable input of the form.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// Form is the read model of the selected step.
type Form struct {
	StepID string            `json:"step_id" yaml:"step_id"`
	Kind   registry.KindSpec `json:"kind" yaml:"kind"`
	Fields []Field           `json:"fields" yaml:"fields"`

	// Typed is the kind-specific view of the config, nil if it failed to decode.
	Typed domain.KindConfig `json:"typed,omitempty" yaml:"typed,omitempty"`
}

// Value returns the value of a named field.
func (f Form) Value(name string) (any, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// Inspector mediates edits between the selection and the graph.
type Inspector struct {
	store    *graph.Store
	registry *registry.Registry
	logger   *slog.Logger
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithRegistry sets the registry used for kind labels.
func WithRegistry(r *registry.Registry) Option {
	return func(i *Inspector) {
		if r != nil {
			i.registry = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New creates an inspector over store.
func New(store *graph.Store, opts ...Option) *Inspector {
	i := &Inspector{
		store:    store,
		registry: registry.Default(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Form returns the form of the selected step. ok is false when nothing is selected.
func (i *Inspector) Form() (form Form, ok bool) {
	id, ok := i.store.Selected()
	if !ok {
		return Form{}, false
	}
	step, ok := i.store.Step(id)
	if !ok {
		return Form{}, false
	}

	form = Form{
		StepID: step.ID,
		Kind:   i.registry.Spec(step.Kind),
		Fields: []Field{
			{Name: domain.FieldTitle, Label: "Title", Value: step.Title},
			{Name: domain.FieldDescription, Label: "Description", Value: step.Description},
		},
	}
	for _, key := range slices.Sorted(maps.Keys(step.Config)) {
		form.Fields = append(form.Fields, Field{
			Name:  domain.ConfigField(key),
			Label: key,
			Value: step.Config[key],
		})
	}

	typed, err := domain.DecodeConfig(step.Kind, step.Config)
	if err != nil {
		i.logger.Debug("config does not match kind", "step_id", step.ID, "kind", step.Kind, "error", err)
	} else {
		form.Typed = typed
	}
	return form, true
}

// Edit writes one field of the selected step.
func (i *Inspector) Edit(field string, value any) error {
	id, ok := i.store.Selected()
	if !ok {
		return domain.ErrNoSelection
	}
	if _, err := i.store.UpdateField(id, field, value); err != nil {
		return fmt.Errorf("edit %s: %w", id, err)
	}
	return nil
}
