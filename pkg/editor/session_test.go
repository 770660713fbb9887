package editor_test

import (
	"errors"
	"testing"

	"github.com/aretw0/missionkit/pkg/catalog"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/dsl"
	"github.com/aretw0/missionkit/pkg/editor"
	"github.com/aretw0/missionkit/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearLibrary(t *testing.T) *catalog.Library {
	t.Helper()
	b := dsl.New("abcd").Name("A to D")
	b.Add("A").Action("A").At(0, 0).To("B")
	b.Add("B").Condition("B").At(250, 0).To("C")
	b.Add("C").Verification("C").At(500, 0).To("D")
	b.Add("D").Reward("D").At(750, 0)
	lib, err := catalog.New(b.MustBuild())
	require.NoError(t, err)
	return lib
}

func pos(x, y float64) *domain.Position {
	return &domain.Position{X: x, Y: y}
}

func mustApply(t *testing.T, s *editor.Session, cmd editor.Command) editor.Result {
	t.Helper()
	res, err := s.Apply(cmd)
	require.NoError(t, err, "op %s", cmd.Op)
	return res
}

func TestSession_RemoveMiddleStepOfLinearTemplate(t *testing.T) {
	s := editor.New(editor.WithTemplates(linearLibrary(t)))
	mustApply(t, s, editor.Command{Op: editor.OpLoadTemplate, TemplateID: "abcd"})

	res := mustApply(t, s, editor.Command{Op: editor.OpRemoveStep, StepID: "B"})
	assert.True(t, res.Applied)

	steps := s.Graph.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, "A", steps[0].ID)
	assert.Equal(t, "C", steps[1].ID)
	assert.Equal(t, "D", steps[2].ID)
	assert.Equal(t, []string{"B"}, steps[0].Connections, "A still lists the removed step")

	edges := render.Collect(steps)
	require.Len(t, edges, 1)
	assert.Equal(t, "C", edges[0].From)
	assert.Equal(t, "D", edges[0].To)

	// A has one connection and renders one fewer edge than that.
	fromA := 0
	for e := range s.Edges() {
		if e.From == "A" {
			fromA++
		}
	}
	assert.Equal(t, len(steps[0].Connections)-1, fromA)
}

func TestSession_AddSelectRename(t *testing.T) {
	s := editor.New()

	res := mustApply(t, s, editor.Command{Op: editor.OpAddStep, Kind: domain.KindReward, Position: pos(0, 0)})
	require.NotEmpty(t, res.StepID)
	assert.Equal(t, []domain.Change{{Type: domain.ChangeStepAdded, StepID: res.StepID}}, res.Changes)

	mustApply(t, s, editor.Command{Op: editor.OpSelect, StepID: res.StepID})
	mustApply(t, s, editor.Command{Op: editor.OpUpdateField, StepID: res.StepID, Field: domain.FieldTitle, Value: "Bonus"})

	step, ok := s.Graph.Step(res.StepID)
	require.True(t, ok)
	assert.Equal(t, "Bonus", step.Title)
	assert.Equal(t, domain.Position{X: 0, Y: 0}, step.Position)
}

func TestSession_AddStepDefaultPosition(t *testing.T) {
	s := editor.New()
	res := mustApply(t, s, editor.Command{Op: editor.OpAddStep, Kind: domain.KindAction})
	step, _ := s.Graph.Step(res.StepID)
	assert.Equal(t, domain.DefaultPosition, step.Position)
}

func TestSession_SecondBeginDragWins(t *testing.T) {
	s := editor.New()
	s1 := mustApply(t, s, editor.Command{Op: editor.OpAddStep, Kind: domain.KindAction, Position: pos(0, 0)}).StepID
	s2 := mustApply(t, s, editor.Command{Op: editor.OpAddStep, Kind: domain.KindAction, Position: pos(0, 0)}).StepID

	mustApply(t, s, editor.Command{Op: editor.OpBeginDrag, StepID: s1})
	mustApply(t, s, editor.Command{Op: editor.OpBeginDrag, StepID: s2})
	res := mustApply(t, s, editor.Command{
		Op:      editor.OpDrop,
		Pointer: pos(420, 330),
		Origin:  domain.Position{X: 20, Y: 30},
	})
	assert.True(t, res.Applied)

	one, _ := s.Graph.Step(s1)
	two, _ := s.Graph.Step(s2)
	assert.Equal(t, domain.Position{X: 0, Y: 0}, one.Position)
	assert.Equal(t, domain.Position{X: 400, Y: 300}, two.Position)
}

func TestSession_DropWithoutDragLeavesGraphUnchanged(t *testing.T) {
	s := editor.New(editor.WithTemplates(linearLibrary(t)))
	mustApply(t, s, editor.Command{Op: editor.OpLoadTemplate, TemplateID: "abcd"})
	before := s.Graph.Steps()

	res := mustApply(t, s, editor.Command{Op: editor.OpDrop, Position: pos(1, 1)})
	assert.False(t, res.Applied)
	assert.Empty(t, res.Changes)
	assert.Equal(t, before, s.Graph.Steps())
}

func TestSession_DragOverDoesNotMutate(t *testing.T) {
	s := editor.New(editor.WithTemplates(linearLibrary(t)))
	mustApply(t, s, editor.Command{Op: editor.OpLoadTemplate, TemplateID: "abcd"})
	mustApply(t, s, editor.Command{Op: editor.OpBeginDrag, StepID: "A"})
	before := s.Graph.Steps()

	res := mustApply(t, s, editor.Command{Op: editor.OpDragOver, Pointer: pos(50, 60), Origin: domain.Position{X: 10, Y: 10}})
	require.NotNil(t, res.Preview)
	assert.Equal(t, domain.Position{X: 40, Y: 50}, *res.Preview)
	assert.Equal(t, before, s.Graph.Steps())

	mustApply(t, s, editor.Command{Op: editor.OpCancelDrag})
	assert.Equal(t, before, s.Graph.Steps())
}

func TestSession_NotFoundIsSilent(t *testing.T) {
	s := editor.New()
	for _, cmd := range []editor.Command{
		{Op: editor.OpRemoveStep, StepID: "nope"},
		{Op: editor.OpUpdateField, StepID: "nope", Field: domain.FieldTitle, Value: "x"},
		{Op: editor.OpMoveStep, StepID: "nope", Position: pos(1, 1)},
		{Op: editor.OpConnect, StepID: "nope", TargetID: "x"},
		{Op: editor.OpDisconnect, StepID: "nope", TargetID: "x"},
		{Op: editor.OpBeginDrag, StepID: "nope"},
		{Op: editor.OpCancelDrag},
		{Op: editor.OpDeselect},
	} {
		res, err := s.Apply(cmd)
		assert.NoError(t, err, "op %s", cmd.Op)
		assert.False(t, res.Applied, "op %s", cmd.Op)
	}
}

func TestSession_Errors(t *testing.T) {
	s := editor.New(editor.WithTemplates(linearLibrary(t)))
	mustApply(t, s, editor.Command{Op: editor.OpLoadTemplate, TemplateID: "abcd"})

	tests := []struct {
		name string
		cmd  editor.Command
		err  error
	}{
		{"select missing", editor.Command{Op: editor.OpSelect, StepID: "nope"}, domain.ErrStepNotFound},
		{"unknown field", editor.Command{Op: editor.OpUpdateField, StepID: "A", Field: "kind"}, domain.ErrUnknownField},
		{"unknown template", editor.Command{Op: editor.OpLoadTemplate, TemplateID: "nope"}, domain.ErrTemplateNotFound},
		{"unknown op", editor.Command{Op: "explode"}, domain.ErrUnknownCommand},
		{"add without kind", editor.Command{Op: editor.OpAddStep}, domain.ErrInvalidValue},
		{"add unregistered kind", editor.Command{Op: editor.OpAddStep, Kind: "acton"}, domain.ErrInvalidValue},
		{"move without position", editor.Command{Op: editor.OpMoveStep, StepID: "A"}, domain.ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Apply(tt.cmd)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
			assert.False(t, res.Applied)
		})
	}
	assert.Equal(t, 4, s.Graph.Len())
}

func TestSession_RemovingDraggedStepCancelsDrag(t *testing.T) {
	s := editor.New(editor.WithTemplates(linearLibrary(t)))
	mustApply(t, s, editor.Command{Op: editor.OpLoadTemplate, TemplateID: "abcd"})
	mustApply(t, s, editor.Command{Op: editor.OpBeginDrag, StepID: "B"})
	mustApply(t, s, editor.Command{Op: editor.OpRemoveStep, StepID: "B"})

	_, active := s.Drag.Active()
	assert.False(t, active)
}

func TestSession_SnapshotRoundTrip(t *testing.T) {
	s := editor.New(editor.WithTemplates(linearLibrary(t)))
	mustApply(t, s, editor.Command{Op: editor.OpLoadTemplate, TemplateID: "abcd"})
	mustApply(t, s, editor.Command{Op: editor.OpSelect, StepID: "C"})
	mustApply(t, s, editor.Command{Op: editor.OpBeginDrag, StepID: "D"})

	snap := s.Snapshot("s-1")
	assert.Equal(t, "C", snap.SelectedID)
	assert.Equal(t, "D", snap.DraggingID)

	// A later request finishes the drag on the rebuilt session.
	restored := editor.FromSnapshot(snap)
	res := mustApply(t, restored, editor.Command{Op: editor.OpDrop, Position: pos(9, 9)})
	assert.True(t, res.Applied)
	d, _ := restored.Graph.Step("D")
	assert.Equal(t, domain.Position{X: 9, Y: 9}, d.Position)
	assert.Empty(t, restored.Snapshot("s-1").DraggingID)
}

func TestSession_SubscribeSeesEveryChange(t *testing.T) {
	s := editor.New(editor.WithTemplates(linearLibrary(t)))
	var types []domain.ChangeType
	s.Subscribe(func(c domain.Change) { types = append(types, c.Type) })

	mustApply(t, s, editor.Command{Op: editor.OpLoadTemplate, TemplateID: "abcd"})
	mustApply(t, s, editor.Command{Op: editor.OpBeginDrag, StepID: "A"})
	mustApply(t, s, editor.Command{Op: editor.OpDrop, Position: pos(5, 5)})

	assert.Equal(t, []domain.ChangeType{
		domain.ChangeTemplateLoaded,
		domain.ChangeDragStarted,
		domain.ChangeStepMoved,
		domain.ChangeDragEnded,
	}, types)
}

func TestSession_Mermaid(t *testing.T) {
	s := editor.New(editor.WithTemplates(linearLibrary(t)))
	mustApply(t, s, editor.Command{Op: editor.OpLoadTemplate, TemplateID: "abcd"})
	mustApply(t, s, editor.Command{Op: editor.OpSelect, StepID: "B"})

	out := s.Mermaid()
	assert.Contains(t, out, "A --> B")
	assert.Contains(t, out, "class B selected;")
}
