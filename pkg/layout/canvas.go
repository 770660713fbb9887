package layout

import "github.com/aretw0/missionkit/pkg/domain"

// Canvas is the visible coordinate space, anchored at the origin.
// A zero width or height means that axis is unbounded.
type Canvas struct {
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`
}

// Contains reports whether pos lies within the canvas.
func (c Canvas) Contains(pos domain.Position) bool {
	if pos.X < 0 || pos.Y < 0 {
		return false
	}
	if c.Width > 0 && pos.X > c.Width {
		return false
	}
	if c.Height > 0 && pos.Y > c.Height {
		return false
	}
	return true
}

// ComputeDropPosition maps viewport pointer coordinates into canvas-local
// coordinates by subtracting the canvas's top-left offset.
func ComputeDropPosition(pointerX, pointerY float64, canvasOrigin domain.Position) domain.Position {
	return domain.Position{X: pointerX, Y: pointerY}.Sub(canvasOrigin)
}
