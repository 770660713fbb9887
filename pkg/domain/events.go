package domain

import (
	"context"
	"time"
)

// ChangeType defines the category of a graph or selection change.
type ChangeType string

const (
	ChangeStepAdded        ChangeType = "step_added"
	ChangeStepRemoved      ChangeType = "step_removed"
	ChangeStepUpdated      ChangeType = "step_updated"
	ChangeStepMoved        ChangeType = "step_moved"
	ChangeConnected        ChangeType = "connected"
	ChangeDisconnected     ChangeType = "disconnected"
	ChangeTemplateLoaded   ChangeType = "template_loaded"
	ChangeSelectionChanged ChangeType = "selection_changed"
	ChangeDragStarted      ChangeType = "drag_started"
	ChangeDragEnded        ChangeType = "drag_ended"
)

// Change is emitted synchronously after a mutation completes.
// Dependent views (canvas, inspector, step counter) re-render on it.
type Change struct {
	Type   ChangeType `json:"type"`
	StepID string     `json:"step_id,omitempty"`
	// Field is set for ChangeStepUpdated; TargetID for connection changes.
	Field    string `json:"field,omitempty"`
	TargetID string `json:"target_id,omitempty"`
}

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
}

// ChangeEvent wraps a Change with its session.
type ChangeEvent struct {
	EventBase
	Change
}

// CommandEvent reports an editor command after it ran.
type CommandEvent struct {
	EventBase
	Op       string        `json:"op"`
	Applied  bool          `json:"applied"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for editor observability.
type LifecycleHooks struct {
	OnCommand func(context.Context, *CommandEvent)
	OnChange  func(context.Context, *ChangeEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCommand: chain(h.OnCommand, other.OnCommand),
		OnChange:  chain(h.OnChange, other.OnChange),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
