package loam

// TemplateMetadata is the frontmatter of a template document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type TemplateMetadata struct {
	ID          string         `json:"id" mapstructure:"id"`
	Name        string         `json:"name" mapstructure:"name"`
	Description string         `json:"description" mapstructure:"description"`
	Category    string         `json:"category" mapstructure:"category"`
	Duration    string         `json:"duration" mapstructure:"duration"`
	Difficulty  string         `json:"difficulty" mapstructure:"difficulty"`
	Steps       []StepMetadata `json:"steps" mapstructure:"steps"`
}

// StepMetadata describes one step inside a template document.
type StepMetadata struct {
	ID          string           `json:"id" mapstructure:"id"`
	Kind        string           `json:"kind" mapstructure:"kind"`
	Title       string           `json:"title" mapstructure:"title"`
	Description string           `json:"description" mapstructure:"description"`
	Position    PositionMetadata `json:"position" mapstructure:"position"`
	Config      map[string]any   `json:"config" mapstructure:"config"`
	Connections []string         `json:"connections" mapstructure:"connections"`
	// To is shorthand for Connections, appended after them.
	To []string `json:"to" mapstructure:"to"`
}

// PositionMetadata is a canvas coordinate.
type PositionMetadata struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}
