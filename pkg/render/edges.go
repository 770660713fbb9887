package render

import (
	"iter"
	"math"
	"slices"

	"github.com/aretw0/missionkit/pkg/domain"
)

// Step cards are drawn at a fixed size with their top-left corner at the step position.
const (
	CardWidth  = 200
	CardHeight = 80

	MarkerArrow = "arrow"
)

// CenterOffset maps a step position to the visual centre of its card.
var CenterOffset = domain.Position{X: CardWidth / 2, Y: CardHeight / 2}

// Edge is a renderable directed line between two step centres.
type Edge struct {
	From   string          `json:"from" yaml:"from"`
	To     string          `json:"to" yaml:"to"`
	Source domain.Position `json:"source" yaml:"source"`
	Target domain.Position `json:"target" yaml:"target"`
	// Angle is the direction of the line in radians, used to orient the marker.
	Angle  float64 `json:"angle" yaml:"angle"`
	Marker string  `json:"marker" yaml:"marker"`
}

// Edges lazily yields one edge per (step, connection) pair whose target exists,
// in step order and then connection order. Duplicate connections yield duplicate edges.
func Edges(steps []domain.Step) iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		index := make(map[string]int, len(steps))
		for i, s := range steps {
			if _, seen := index[s.ID]; !seen {
				index[s.ID] = i
			}
		}

		for _, from := range steps {
			for _, targetID := range from.Connections {
				i, ok := index[targetID]
				if !ok {
					continue
				}
				if !yield(newEdge(from, steps[i])) {
					return
				}
			}
		}
	}
}

// Collect materializes Edges.
func Collect(steps []domain.Step) []Edge {
	return slices.Collect(Edges(steps))
}

func newEdge(from, to domain.Step) Edge {
	src := from.Position.Add(CenterOffset)
	dst := to.Position.Add(CenterOffset)
	return Edge{
		From:   from.ID,
		To:     to.ID,
		Source: src,
		Target: dst,
		Angle:  math.Atan2(dst.Y-src.Y, dst.X-src.X),
		Marker: MarkerArrow,
	}
}
