package domain

// Template is an immutable named seed graph.
// Templates handed out by a catalog must be cloned before anything mutates them.
type Template struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Duration    string `json:"duration" yaml:"duration"`
	Difficulty  string `json:"difficulty" yaml:"difficulty"`
	Steps       []Step `json:"steps" yaml:"steps"`
}

// Clone returns a deep copy of the template and all of its steps.
func (t Template) Clone() Template {
	out := t
	out.Steps = CloneSteps(t.Steps)
	return out
}

// CloneSteps deep-copies a step slice.
func CloneSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return out
}
