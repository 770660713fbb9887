package domain

import (
	"slices"
	"time"
)

// Snapshot is the serializable editing state of a single session.
// Graph stores produce it and persistence adapters store it verbatim.
type Snapshot struct {
	SessionID string `json:"session_id" yaml:"session_id"`
	Steps     []Step `json:"steps" yaml:"steps"`

	// SelectedID is empty when nothing is selected.
	SelectedID string `json:"selected_id,omitempty" yaml:"selected_id,omitempty"`

	// DraggingID is the step recorded by the last begin-drag, empty when no drag is active.
	DraggingID string `json:"dragging_id,omitempty" yaml:"dragging_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	// Sealed holds the encrypted snapshot when a store encrypts at rest.
	// Steps and selection are then empty.
	Sealed []byte `json:"sealed,omitempty" yaml:"sealed,omitempty"`
}

// NewSnapshot creates an empty session snapshot.
func NewSnapshot(sessionID string) *Snapshot {
	return &Snapshot{
		SessionID: sessionID,
		Steps:     []Step{},
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Steps = CloneSteps(s.Steps)
	out.Sealed = slices.Clone(s.Sealed)
	return &out
}

// Step returns the step with the given id.
func (s *Snapshot) Step(id string) (Step, bool) {
	for _, step := range s.Steps {
		if step.ID == id {
			return step, true
		}
	}
	return Step{}, false
}
