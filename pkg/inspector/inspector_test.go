package inspector_test

import (
	"errors"
	"testing"

	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/graph"
	"github.com/aretw0/missionkit/pkg/inspector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspector_NoSelection(t *testing.T) {
	store := graph.New()
	store.AddStep(domain.KindAction, domain.DefaultPosition)
	insp := inspector.New(store)

	_, ok := insp.Form()
	assert.False(t, ok)
	assert.True(t, errors.Is(insp.Edit(domain.FieldTitle, "x"), domain.ErrNoSelection))
}

func TestInspector_FormReflectsSelectedStep(t *testing.T) {
	store := graph.New()
	id := store.AddStep(domain.KindReward, domain.DefaultPosition)
	store.UpdateField(id, "config.token", "PTS")
	store.UpdateField(id, "config.amount", "12.5")
	require.NoError(t, store.Select(id))

	form, ok := inspector.New(store).Form()
	require.True(t, ok)
	assert.Equal(t, id, form.StepID)
	assert.Equal(t, domain.KindReward, form.Kind.Kind)

	names := make([]string, len(form.Fields))
	for i, f := range form.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"title", "description", "config.amount", "config.token"}, names)

	reward, ok := form.Typed.(domain.RewardConfig)
	require.True(t, ok)
	assert.Equal(t, 12.5, reward.Amount)
	assert.Equal(t, "PTS", reward.Token)
}

func TestInspector_EditCommitsImmediately(t *testing.T) {
	store := graph.New()
	a := store.AddStep(domain.KindAction, domain.DefaultPosition)
	b := store.AddStep(domain.KindAction, domain.DefaultPosition)
	insp := inspector.New(store)

	require.NoError(t, store.Select(a))
	require.NoError(t, insp.Edit(domain.FieldTitle, "B"))
	require.NoError(t, insp.Edit(domain.FieldTitle, "Bo"))

	// Switching selection loses nothing.
	require.NoError(t, store.Select(b))
	require.NoError(t, insp.Edit(domain.FieldDescription, "second"))

	stepA, _ := store.Step(a)
	stepB, _ := store.Step(b)
	assert.Equal(t, "Bo", stepA.Title)
	assert.Equal(t, "second", stepB.Description)

	form, _ := insp.Form()
	v, _ := form.Value(domain.FieldDescription)
	assert.Equal(t, "second", v)
}

func TestInspector_EditUnknownField(t *testing.T) {
	store := graph.New()
	id := store.AddStep(domain.KindAction, domain.DefaultPosition)
	require.NoError(t, store.Select(id))

	err := inspector.New(store).Edit("kind", "reward")
	assert.True(t, errors.Is(err, domain.ErrUnknownField))
}

func TestInspector_FollowsSelectionClearedByDelete(t *testing.T) {
	store := graph.New()
	id := store.AddStep(domain.KindAction, domain.DefaultPosition)
	require.NoError(t, store.Select(id))
	store.RemoveStep(id)

	_, ok := inspector.New(store).Form()
	assert.False(t, ok)
}
