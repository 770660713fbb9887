package render

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aretw0/missionkit/pkg/domain"
)

// Overlay carries session state to highlight in a diagram.
type Overlay struct {
	SelectedID string
	DraggingID string
}

// Mermaid produces a flowchart for the steps.
// Node shapes follow the step kind:
// - Action: [Rectangle]
// - Condition: {Rhombus}
// - Verification: [[Subroutine]]
// - Reward: ([Stadium])
// Dangling connections are left out, matching Edges.
func Mermaid(steps []domain.Step, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	nodeIDs := mermaidIDs(steps)

	for _, step := range steps {
		opener, closer := shape(step.Kind)
		label := step.Title
		if label == "" {
			label = step.ID
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeIDs[step.ID], opener, escapeLabel(label), closer)
	}

	for e := range Edges(steps) {
		fmt.Fprintf(&sb, "    %s --> %s\n", nodeIDs[e.From], nodeIDs[e.To])
	}

	if overlay != nil && (overlay.SelectedID != "" || overlay.DraggingID != "") {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef dragging fill:#e1f5fe,stroke:#01579b,stroke-dasharray:5 5,color:#000;\n")
		if id, ok := nodeIDs[overlay.SelectedID]; ok {
			fmt.Fprintf(&sb, "    class %s selected;\n", id)
		}
		if id, ok := nodeIDs[overlay.DraggingID]; ok {
			fmt.Fprintf(&sb, "    class %s dragging;\n", id)
		}
	}

	return sb.String()
}

func shape(kind domain.Kind) (opener, closer string) {
	switch kind {
	case domain.KindCondition:
		return "{", "}"
	case domain.KindVerification:
		return "[[", "]]"
	case domain.KindReward:
		return "([", "])"
	default:
		return "[", "]"
	}
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}

// mermaidIDs maps every step id to a distinct node id.
// Ids that sanitize to the same node id get a numeric suffix.
func mermaidIDs(steps []domain.Step) map[string]string {
	out := make(map[string]string, len(steps))
	used := make(map[string]bool, len(steps))
	for _, step := range steps {
		if _, done := out[step.ID]; done {
			continue
		}
		base := sanitizeMermaidID(step.ID)
		id := base
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		used[id] = true
		out[step.ID] = id
	}
	return out
}

// sanitizeMermaidID keeps [A-Za-z0-9_] and replaces everything else with '_'.
func sanitizeMermaidID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()
	switch {
	case s == "":
		s = "s_"
	case s[0] >= '0' && s[0] <= '9':
		s = "s_" + s
	case strings.EqualFold(s, "end"):
		// "end" closes a subgraph in flowchart syntax.
		s += "_"
	}
	return s
}
