package render_test

import (
	"math"
	"strings"
	"testing"

	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(id string, kind domain.Kind, x, y float64, to ...string) domain.Step {
	return domain.Step{ID: id, Kind: kind, Title: id, Position: domain.Position{X: x, Y: y}, Connections: to}
}

func TestEdges_Geometry(t *testing.T) {
	steps := []domain.Step{
		step("a", domain.KindAction, 0, 0, "b"),
		step("b", domain.KindReward, 300, 0),
	}
	edges := render.Collect(steps)
	require.Len(t, edges, 1)

	e := edges[0]
	assert.Equal(t, "a", e.From)
	assert.Equal(t, "b", e.To)
	assert.Equal(t, domain.Position{X: 100, Y: 40}, e.Source)
	assert.Equal(t, domain.Position{X: 400, Y: 40}, e.Target)
	assert.InDelta(t, 0, e.Angle, 1e-9)
	assert.Equal(t, render.MarkerArrow, e.Marker)
}

func TestEdges_AngleFollowsDirection(t *testing.T) {
	steps := []domain.Step{
		step("a", domain.KindAction, 0, 100, "b"),
		step("b", domain.KindAction, 0, 0),
	}
	edges := render.Collect(steps)
	require.Len(t, edges, 1)
	assert.InDelta(t, -math.Pi/2, edges[0].Angle, 1e-9)
}

func TestEdges_SkipsDanglingTargets(t *testing.T) {
	steps := []domain.Step{
		step("a", domain.KindAction, 0, 0, "gone", "b", "also-gone"),
		step("b", domain.KindReward, 300, 0, "a", "a"),
	}
	edges := render.Collect(steps)

	require.Len(t, edges, 3)
	assert.Equal(t, "b", edges[0].To)
	assert.Equal(t, "a", edges[1].To)
	assert.Equal(t, "a", edges[2].To, "duplicate connections render twice")
}

func TestEdges_StopsEarly(t *testing.T) {
	steps := []domain.Step{
		step("a", domain.KindAction, 0, 0, "b", "c"),
		step("b", domain.KindAction, 0, 0, "c"),
		step("c", domain.KindAction, 0, 0),
	}
	n := 0
	for range render.Edges(steps) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestEdges_Empty(t *testing.T) {
	assert.Empty(t, render.Collect(nil))
}

func TestMermaid(t *testing.T) {
	steps := []domain.Step{
		step("join-discord", domain.KindAction, 0, 0, "age", "deleted"),
		step("age", domain.KindCondition, 0, 0, "proof"),
		step("proof", domain.KindVerification, 0, 0, "pay"),
		{ID: "pay", Kind: domain.KindReward, Title: `The "big" prize`},
		step("7f3c", domain.KindAction, 0, 0),
	}
	out := render.Mermaid(steps, &render.Overlay{SelectedID: "age"})

	for _, want := range []string{
		"graph LR\n",
		`join_discord["join-discord"]`,
		`age{"age"}`,
		`proof[["proof"]]`,
		`pay(["The 'big' prize"])`,
		`s_7f3c["7f3c"]`,
		"join_discord --> age",
		"age --> proof",
		"proof --> pay",
		"class age selected;",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "deleted")
	assert.NotContains(t, out, "dragging;")
}

func TestMermaid_NoOverlay(t *testing.T) {
	out := render.Mermaid([]domain.Step{step("a", domain.KindAction, 0, 0)}, nil)
	assert.False(t, strings.Contains(out, "classDef"))
}

func TestMermaid_DistinctNodeIDs(t *testing.T) {
	steps := []domain.Step{
		step("a-b", domain.KindAction, 0, 0, "a_b"),
		step("a_b", domain.KindAction, 0, 0, "x:(#)"),
		step("x:(#)", domain.KindCondition, 0, 0, "café"),
		step("café", domain.KindReward, 0, 0, "end"),
		step("end", domain.KindReward, 0, 0),
	}
	out := render.Mermaid(steps, &render.Overlay{SelectedID: "a_b", DraggingID: "ghost"})

	for _, want := range []string{
		`a_b["a-b"]`,
		`a_b_2["a_b"]`,
		`x____{"x:(#)"}`,
		`caf_(["café"])`,
		`end_(["end"])`,
		"a_b --> a_b_2",
		"a_b_2 --> x____",
		"x____ --> caf_",
		"caf_ --> end_",
		"class a_b_2 selected;",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "class ghost")
	assert.NotContains(t, out, "dragging;")
}
