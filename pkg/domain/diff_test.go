package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	a := Step{ID: "a", Kind: KindAction, Title: "A", Connections: []string{"b"}}
	b := Step{ID: "b", Kind: KindReward, Title: "B"}

	t.Run("Initial Load (Old is Nil)", func(t *testing.T) {
		diff := Diff(nil, &Snapshot{SessionID: "s1", Steps: []Step{a, b}})
		require.NotNil(t, diff)
		assert.Equal(t, "s1", diff.SessionID)
		assert.Len(t, diff.Added, 2)
		assert.Nil(t, diff.Order)
		assert.Nil(t, diff.Selection)
	})

	t.Run("No Changes", func(t *testing.T) {
		old := &Snapshot{SessionID: "s1", Steps: []Step{a, b}, SelectedID: "a"}
		assert.Nil(t, Diff(old, old.Clone()))
	})

	t.Run("Moved Step Is Updated", func(t *testing.T) {
		old := &Snapshot{SessionID: "s1", Steps: []Step{a, b}}
		next := old.Clone()
		next.Steps[1].Position = Position{X: 10, Y: 20}

		diff := Diff(old, next)
		require.NotNil(t, diff)
		require.Len(t, diff.Updated, 1)
		assert.Equal(t, "b", diff.Updated[0].ID)
		assert.Empty(t, diff.Added)
		assert.Nil(t, diff.Order)
	})

	t.Run("Removal Sends Order", func(t *testing.T) {
		old := &Snapshot{SessionID: "s1", Steps: []Step{a, b}, SelectedID: "b"}
		next := &Snapshot{SessionID: "s1", Steps: []Step{a}}

		diff := Diff(old, next)
		require.NotNil(t, diff)
		assert.Equal(t, []string{"b"}, diff.Removed)
		assert.Equal(t, []string{"a"}, diff.Order)
		require.NotNil(t, diff.Selection)
		assert.Equal(t, "", *diff.Selection)
	})

	t.Run("Drag Marker", func(t *testing.T) {
		old := &Snapshot{SessionID: "s1", Steps: []Step{a}}
		next := old.Clone()
		next.DraggingID = "a"

		diff := Diff(old, next)
		require.NotNil(t, diff)
		require.NotNil(t, diff.Dragging)
		assert.Equal(t, "a", *diff.Dragging)
	})
}

func TestDiff_JSONOmitsUnchanged(t *testing.T) {
	old := &Snapshot{SessionID: "s1", Steps: []Step{{ID: "a"}}}
	next := old.Clone()
	next.SelectedID = "a"

	bytes, err := json.Marshal(Diff(old, next))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(bytes, &raw))
	assert.Equal(t, "a", raw["selection"])
	assert.NotContains(t, raw, "added")
	assert.NotContains(t, raw, "dragging")
}
