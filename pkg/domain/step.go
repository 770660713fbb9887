package domain

// Kind identifies the behaviour class of a Step.
type Kind string

const (
	// KindAction asks the participant to perform something (follow, post, visit).
	KindAction Kind = "action"
	// KindCondition gates the flow on an expression evaluated by the backend.
	KindCondition Kind = "condition"
	// KindReward pays out once the preceding steps are satisfied.
	KindReward Kind = "reward"
	// KindVerification checks a proof submitted by the participant.
	KindVerification Kind = "verification"
)

// Kinds lists the closed set of built-in kinds in display order.
var Kinds = []Kind{KindAction, KindCondition, KindReward, KindVerification}

// Valid reports whether k is one of the built-in kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Position is a coordinate in canvas space.
type Position struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// DefaultPosition is where manually added steps land when the caller has no better idea.
var DefaultPosition = Position{X: 100, Y: 100}

// Add returns p translated by o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p translated by -o.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// Step is one node of a mission graph.
type Step struct {
	ID          string `json:"id" yaml:"id"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`

	// Config is interpreted only by the mission backend, never by the editor.
	// See DecodeConfig for typed views.
	Config map[string]any `json:"config" yaml:"config"`

	Position Position `json:"position" yaml:"position"`

	// Connections are the outgoing edges, stored as target step ids.
	// Duplicates and ids of deleted steps are tolerated.
	Connections []string `json:"connections" yaml:"connections"`
}

// Clone returns a deep copy of the step. Nested config maps and slices are copied too.
func (s Step) Clone() Step {
	out := s
	out.Config = cloneMap(s.Config)
	if s.Connections != nil {
		out.Connections = make([]string, len(s.Connections))
		copy(out.Connections, s.Connections)
	}
	return out
}

// ConnectsTo reports whether target appears at least once in the step connections.
func (s Step) ConnectsTo(target string) bool {
	for _, c := range s.Connections {
		if c == target {
			return true
		}
	}
	return false
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
