package tui

import (
	"strconv"
	"strings"

	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/registry"
	"github.com/charmbracelet/lipgloss"
)

// kindColors maps registry color tokens to ANSI 256 colors.
var kindColors = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("33"),
	"amber":  lipgloss.Color("214"),
	"green":  lipgloss.Color("42"),
	"purple": lipgloss.Color("135"),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// TemplateTable renders one row per template. Without styling the columns
// are still aligned but carry no color.
func TemplateTable(templates []domain.Template, styled bool) string {
	header := []string{"ID", "NAME", "CATEGORY", "DIFFICULTY", "DURATION", "STEPS"}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{t.ID, t.Name, t.Category, t.Difficulty, t.Duration, strconv.Itoa(len(t.Steps))})
	}
	return renderTable(header, rows, styled)
}

// KindTable renders the registered kinds with a color swatch.
func KindTable(specs []registry.KindSpec, styled bool) string {
	header := []string{"KIND", "LABEL", "ICON", "COLOR"}
	rows := make([][]string, 0, len(specs))
	for _, s := range specs {
		color := s.Color
		if c, ok := kindColors[s.Color]; ok && styled {
			color = lipgloss.NewStyle().Foreground(c).Render("■ " + s.Color)
		}
		rows = append(rows, []string{string(s.Kind), s.Label, s.Icon, color})
	}
	return renderTable(header, rows, styled)
}

func renderTable(header []string, rows [][]string, styled bool) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			cs := lipgloss.NewStyle().Width(widths[i] + 2)
			if style != nil {
				cs = cs.Inherit(*style)
			}
			parts[i] = cs.Render(cell)
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	var b strings.Builder
	if styled {
		b.WriteString(line(header, &headerStyle))
	} else {
		b.WriteString(line(header, nil))
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(line(row, nil))
		b.WriteString("\n")
	}
	if len(rows) == 0 {
		msg := "(none)"
		if styled {
			msg = mutedStyle.Render(msg)
		}
		b.WriteString(msg + "\n")
	}
	return b.String()
}
