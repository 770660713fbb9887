// Package validator lints mission graphs before they are published as templates.
//
// The editor itself tolerates every problem reported here (dangling
// connections, unknown kinds, islands); the validator only surfaces them.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/registry"
)

// Severity ranks an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding about a graph.
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	StepID   string   `json:"step_id,omitempty" yaml:"step_id,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	if i.StepID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: step %s: %s", i.Severity, i.StepID, i.Message)
}

// Report collects the issues of one graph.
type Report []Issue

// HasErrors reports whether any issue is an error.
func (r Report) HasErrors() bool {
	for _, i := range r {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns nil for a report without errors.
func (r Report) Err() error {
	if !r.HasErrors() {
		return nil
	}
	var lines []string
	for _, i := range r {
		if i.Severity == SeverityError {
			lines = append(lines, i.String())
		}
	}
	return fmt.Errorf("found %d errors:\n- %s", len(lines), strings.Join(lines, "\n- "))
}

// ValidateTemplate lints the steps of a template.
func ValidateTemplate(t domain.Template, reg *registry.Registry) Report {
	r := ValidateSteps(t.Steps, reg)
	if t.ID == "" {
		r = append(Report{{Severity: SeverityError, Message: "template missing ID"}}, r...)
	}
	return r
}

// ValidateSteps checks a step list against the registry:
// duplicate or empty ids and undecodable configs are errors;
// unknown kinds, dangling or repeated connections and unreachable steps are warnings.
func ValidateSteps(steps []domain.Step, reg *registry.Registry) Report {
	var r Report
	ids := make(map[string]bool, len(steps))
	incoming := make(map[string]int, len(steps))

	for _, s := range steps {
		switch {
		case s.ID == "":
			r = append(r, Issue{Severity: SeverityError, Message: "step missing ID"})
			continue
		case ids[s.ID]:
			r = append(r, Issue{Severity: SeverityError, StepID: s.ID, Message: "duplicate step ID"})
			continue
		}
		ids[s.ID] = true
	}

	for _, s := range steps {
		if s.ID == "" {
			continue
		}
		if _, ok := reg.Lookup(s.Kind); !ok {
			r = append(r, Issue{Severity: SeverityWarning, StepID: s.ID, Message: fmt.Sprintf("unknown kind %q", s.Kind)})
		}
		if _, err := domain.DecodeConfig(s.Kind, s.Config); err != nil {
			r = append(r, Issue{Severity: SeverityError, StepID: s.ID, Message: err.Error()})
		}

		seen := make(map[string]bool, len(s.Connections))
		for _, to := range s.Connections {
			if seen[to] {
				r = append(r, Issue{Severity: SeverityWarning, StepID: s.ID, Message: fmt.Sprintf("repeated connection to %s", to)})
				continue
			}
			seen[to] = true
			if !ids[to] {
				r = append(r, Issue{Severity: SeverityWarning, StepID: s.ID, Message: fmt.Sprintf("connection to missing step %s", to)})
				continue
			}
			if to != s.ID {
				incoming[to]++
			}
		}
	}

	for _, id := range unreachable(steps, ids, incoming) {
		r = append(r, Issue{Severity: SeverityWarning, StepID: id, Message: "unreachable from any entry step"})
	}
	return r
}

// unreachable crawls breadth-first from the entry steps (no incoming
// connections, or the first step when every step has one).
func unreachable(steps []domain.Step, ids map[string]bool, incoming map[string]int) []string {
	if len(ids) == 0 {
		return nil
	}

	byID := make(map[string]domain.Step, len(steps))
	var queue []string
	for _, s := range steps {
		if s.ID == "" {
			continue
		}
		if _, dup := byID[s.ID]; dup {
			continue
		}
		byID[s.ID] = s
		if incoming[s.ID] == 0 {
			queue = append(queue, s.ID)
		}
	}
	if len(queue) == 0 {
		for _, s := range steps {
			if s.ID != "" {
				queue = append(queue, s.ID)
				break
			}
		}
	}

	visited := make(map[string]bool, len(byID))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, to := range byID[current].Connections {
			if ids[to] && !visited[to] {
				queue = append(queue, to)
			}
		}
	}

	var out []string
	for _, s := range steps {
		if s.ID != "" && !visited[s.ID] {
			out = append(out, s.ID)
			visited[s.ID] = true
		}
	}
	return out
}
