package layout

import (
	"log/slog"

	"github.com/aretw0/missionkit/internal/logging"
	"github.com/aretw0/missionkit/pkg/domain"
)

// Mover commits a position for a step. graph.Store satisfies it.
type Mover interface {
	MoveStep(id string, pos domain.Position) bool
}

// DragEngine tracks the single active drag of a session.
type DragEngine struct {
	active   string
	canvas   Canvas
	logger   *slog.Logger
	observer func(domain.Change)
}

// Option configures a DragEngine.
type Option func(*DragEngine)

// WithCanvas sets the bounds used to report off-canvas drops.
func WithCanvas(c Canvas) Option {
	return func(d *DragEngine) {
		d.canvas = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *DragEngine) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver receives drag_started and drag_ended changes.
func WithObserver(fn func(domain.Change)) Option {
	return func(d *DragEngine) {
		d.observer = fn
	}
}

// NewDragEngine creates an idle engine.
func NewDragEngine(opts ...Option) *DragEngine {
	d := &DragEngine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// BeginDrag records id as the dragged step, replacing any active drag.
func (d *DragEngine) BeginDrag(id string) {
	if d.active != "" && d.active != id {
		d.logger.Debug("drag replaced", "previous", d.active, "step_id", id)
	}
	d.active = id
	d.notify(domain.Change{Type: domain.ChangeDragStarted, StepID: id})
}

// Active returns the dragged step id.
func (d *DragEngine) Active() (string, bool) {
	return d.active, d.active != ""
}

// DragOver previews where the dragged step would land. It never mutates anything.
// ok is false when no drag is active.
func (d *DragEngine) DragOver(pointerX, pointerY float64, canvasOrigin domain.Position) (pos domain.Position, ok bool) {
	if d.active == "" {
		return domain.Position{}, false
	}
	return ComputeDropPosition(pointerX, pointerY, canvasOrigin), true
}

// EndDrag commits pos for the dragged step and clears the marker.
// It returns false without touching m when no drag is active, and whatever
// m reports otherwise.
func (d *DragEngine) EndDrag(m Mover, pos domain.Position) bool {
	if d.active == "" {
		return false
	}
	id := d.active
	d.active = ""

	if !d.canvas.Contains(pos) {
		d.logger.Debug("step dropped outside canvas", "step_id", id, "x", pos.X, "y", pos.Y)
	}
	moved := m.MoveStep(id, pos)
	d.notify(domain.Change{Type: domain.ChangeDragEnded, StepID: id})
	return moved
}

// Cancel abandons the active drag without moving anything.
func (d *DragEngine) Cancel() bool {
	if d.active == "" {
		return false
	}
	id := d.active
	d.active = ""
	d.notify(domain.Change{Type: domain.ChangeDragEnded, StepID: id})
	return true
}

// Restore sets the marker without notifying, for rebuilding persisted sessions.
func (d *DragEngine) Restore(id string) {
	d.active = id
}

func (d *DragEngine) notify(c domain.Change) {
	if d.observer != nil {
		d.observer(c)
	}
}
