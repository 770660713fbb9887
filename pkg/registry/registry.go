package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/missionkit/pkg/domain"
)

// KindSpec holds the presentation defaults for a step kind.
type KindSpec struct {
	Kind  domain.Kind `json:"kind" yaml:"kind"`
	Label string      `json:"label" yaml:"label"`
	// Color and Icon are opaque tokens resolved by the presentation layer.
	Color string `json:"color" yaml:"color"`
	Icon  string `json:"icon" yaml:"icon"`

	DefaultTitle       string `json:"default_title" yaml:"default_title"`
	DefaultDescription string `json:"default_description" yaml:"default_description"`
}

// Registry manages the available step kinds.
type Registry struct {
	mu    sync.RWMutex
	specs map[domain.Kind]KindSpec
	order []domain.Kind
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		specs: make(map[domain.Kind]KindSpec),
	}
}

// Default returns a registry populated with the four built-in kinds.
func Default() *Registry {
	r := NewRegistry()
	for _, spec := range builtin {
		r.Register(spec)
	}
	return r
}

var builtin = []KindSpec{
	{
		Kind:               domain.KindAction,
		Label:              "Action",
		Color:              "blue",
		Icon:               "zap",
		DefaultTitle:       "New Action",
		DefaultDescription: "Describe what the participant has to do",
	},
	{
		Kind:               domain.KindCondition,
		Label:              "Condition",
		Color:              "amber",
		Icon:               "git-branch",
		DefaultTitle:       "New Condition",
		DefaultDescription: "Describe the condition that must hold",
	},
	{
		Kind:               domain.KindReward,
		Label:              "Reward",
		Color:              "green",
		Icon:               "gift",
		DefaultTitle:       "New Reward",
		DefaultDescription: "Describe the reward granted",
	},
	{
		Kind:               domain.KindVerification,
		Label:              "Verification",
		Color:              "purple",
		Icon:               "shield-check",
		DefaultTitle:       "New Verification",
		DefaultDescription: "Describe how completion is verified",
	},
}

// Register adds a kind to the registry.
// If the kind already exists, its spec is overwritten and its position kept.
func (r *Registry) Register(spec KindSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[spec.Kind]; !exists {
		r.order = append(r.order, spec.Kind)
	}
	r.specs[spec.Kind] = spec
}

// Lookup returns the spec registered for kind.
func (r *Registry) Lookup(kind domain.Kind) (KindSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[kind]
	return spec, ok
}

// Spec returns the spec for kind, synthesising generic defaults for unregistered kinds
// so that forward-compatible kinds can still be placed on the canvas.
func (r *Registry) Spec(kind domain.Kind) KindSpec {
	if spec, ok := r.Lookup(kind); ok {
		return spec
	}
	return KindSpec{
		Kind:               kind,
		Label:              string(kind),
		Color:              "gray",
		Icon:               "circle",
		DefaultTitle:       fmt.Sprintf("New %s", kind),
		DefaultDescription: "",
	}
}

// Kinds returns all registered specs in registration order.
func (r *Registry) Kinds() []KindSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]KindSpec, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.specs[k])
	}
	return out
}
