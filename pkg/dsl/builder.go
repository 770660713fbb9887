package dsl

import (
	"fmt"

	"github.com/aretw0/missionkit/pkg/domain"
)

// Builder manages the template construction.
type Builder struct {
	template domain.Template
	steps    map[string]*StepBuilder
	order    []string
}

// New creates a new template builder.
func New(id string) *Builder {
	return &Builder{
		template: domain.Template{ID: id},
		steps:    make(map[string]*StepBuilder),
	}
}

// Name sets the display name.
func (b *Builder) Name(name string) *Builder {
	b.template.Name = name
	return b
}

// Describe sets the template description (markdown).
func (b *Builder) Describe(description string) *Builder {
	b.template.Description = description
	return b
}

// Category sets the catalog category.
func (b *Builder) Category(category string) *Builder {
	b.template.Category = category
	return b
}

// Duration sets the estimated completion time, e.g. "10 min".
func (b *Builder) Duration(duration string) *Builder {
	b.template.Duration = duration
	return b
}

// Difficulty sets the difficulty label.
func (b *Builder) Difficulty(difficulty string) *Builder {
	b.template.Difficulty = difficulty
	return b
}

// Add creates a new step in the template.
// If the step already exists, it returns the existing builder.
func (b *Builder) Add(id string) *StepBuilder {
	if sb, ok := b.steps[id]; ok {
		return sb
	}
	sb := &StepBuilder{
		step: domain.Step{
			ID:          id,
			Config:      make(map[string]any),
			Connections: []string{},
		},
	}
	b.steps[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Build compiles the template. Steps keep the order in which they were added.
func (b *Builder) Build() (domain.Template, error) {
	if b.template.ID == "" {
		return domain.Template{}, fmt.Errorf("template missing ID")
	}

	tpl := b.template
	tpl.Steps = make([]domain.Step, 0, len(b.order))
	for _, id := range b.order {
		step := b.steps[id].step
		if step.Kind == "" {
			return domain.Template{}, fmt.Errorf("template %s: step %s has no kind", tpl.ID, id)
		}
		tpl.Steps = append(tpl.Steps, step.Clone())
	}
	return tpl, nil
}

// MustBuild is like Build but panics on error. Intended for static catalogs.
func (b *Builder) MustBuild() domain.Template {
	tpl, err := b.Build()
	if err != nil {
		panic(err)
	}
	return tpl
}
