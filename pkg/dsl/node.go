package dsl

import "github.com/aretw0/missionkit/pkg/domain"

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step domain.Step
}

// Kind sets the step kind and title.
func (s *StepBuilder) Kind(kind domain.Kind, title string) *StepBuilder {
	s.step.Kind = kind
	s.step.Title = title
	return s
}

// Action marks the step as an action.
func (s *StepBuilder) Action(title string) *StepBuilder {
	return s.Kind(domain.KindAction, title)
}

// Condition marks the step as a condition.
func (s *StepBuilder) Condition(title string) *StepBuilder {
	return s.Kind(domain.KindCondition, title)
}

// Reward marks the step as a reward.
func (s *StepBuilder) Reward(title string) *StepBuilder {
	return s.Kind(domain.KindReward, title)
}

// Verification marks the step as a verification.
func (s *StepBuilder) Verification(title string) *StepBuilder {
	return s.Kind(domain.KindVerification, title)
}

// Describe sets the step description.
func (s *StepBuilder) Describe(description string) *StepBuilder {
	s.step.Description = description
	return s
}

// At places the step on the canvas.
func (s *StepBuilder) At(x, y float64) *StepBuilder {
	s.step.Position = domain.Position{X: x, Y: y}
	return s
}

// Set adds a config value.
func (s *StepBuilder) Set(key string, value any) *StepBuilder {
	s.step.Config[key] = value
	return s
}

// To appends outgoing connections.
func (s *StepBuilder) To(targets ...string) *StepBuilder {
	s.step.Connections = append(s.step.Connections, targets...)
	return s
}
