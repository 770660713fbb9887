package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/registry"
)

// TemplateMarkdown describes a template as markdown, one section per step.
func TemplateMarkdown(t domain.Template, reg *registry.Registry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t.Name)
	var meta []string
	for _, m := range []struct{ label, value string }{
		{"Category", t.Category},
		{"Duration", t.Duration},
		{"Difficulty", t.Difficulty},
	} {
		if m.value != "" {
			meta = append(meta, fmt.Sprintf("**%s:** %s", m.label, m.value))
		}
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " · "))
		b.WriteString("\n\n")
	}
	if t.Description != "" {
		b.WriteString(t.Description)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "## Steps (%d)\n\n", len(t.Steps))
	for i, s := range t.Steps {
		spec := reg.Spec(s.Kind)
		fmt.Fprintf(&b, "%d. **%s** `%s` (%s)\n", i+1, s.Title, s.ID, spec.Label)
		if s.Description != "" {
			fmt.Fprintf(&b, "   %s\n", s.Description)
		}
		for _, key := range slices.Sorted(maps.Keys(s.Config)) {
			fmt.Fprintf(&b, "   - %s: `%v`\n", key, s.Config[key])
		}
		if len(s.Connections) > 0 {
			fmt.Fprintf(&b, "   - next: %s\n", strings.Join(s.Connections, ", "))
		}
	}
	return b.String()
}
