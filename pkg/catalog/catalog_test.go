package catalog_test

import (
	"errors"
	"testing"

	"github.com/aretw0/missionkit/pkg/catalog"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_TemplatesAreWellFormed(t *testing.T) {
	lib := catalog.Builtin()
	require.Equal(t, 4, lib.Len())

	for _, tpl := range lib.List() {
		t.Run(tpl.ID, func(t *testing.T) {
			assert.NotEmpty(t, tpl.Name)
			assert.NotEmpty(t, tpl.Category)
			ids := make(map[string]bool)
			for _, s := range tpl.Steps {
				assert.False(t, ids[s.ID], "duplicate step id %s", s.ID)
				ids[s.ID] = true
				assert.True(t, s.Kind.Valid(), "step %s kind %s", s.ID, s.Kind)
			}
			for _, s := range tpl.Steps {
				for _, target := range s.Connections {
					assert.True(t, ids[target], "step %s connects to unknown %s", s.ID, target)
				}
			}
		})
	}
}

func TestLibrary_GetReturnsIsolatedCopies(t *testing.T) {
	lib := catalog.Builtin()

	first, err := lib.Get("quickstart")
	require.NoError(t, err)
	first.Steps[0].Title = "mutated"
	first.Steps[0].Config["platform"] = "mutated"
	first.Steps[0].Connections[0] = "nowhere"

	second, err := lib.Get("quickstart")
	require.NoError(t, err)
	assert.Equal(t, "Join the community", second.Steps[0].Title)
	assert.Equal(t, "discord", second.Steps[0].Config["platform"])
	assert.Equal(t, []string{"gate"}, second.Steps[0].Connections)
}

func TestLibrary_GetMissing(t *testing.T) {
	_, err := catalog.Builtin().Get("nope")
	assert.True(t, errors.Is(err, domain.ErrTemplateNotFound))
}

func TestLibrary_RegisterValidates(t *testing.T) {
	lib, err := catalog.New()
	require.NoError(t, err)

	assert.Error(t, lib.Register(domain.Template{}))
	assert.Error(t, lib.Register(domain.Template{ID: "x", Steps: []domain.Step{{ID: ""}}}))
	assert.Error(t, lib.Register(domain.Template{ID: "x", Steps: []domain.Step{{ID: "a"}, {ID: "a"}}}))

	require.NoError(t, lib.Register(domain.Template{ID: "x", Name: "one"}))
	require.NoError(t, lib.Register(domain.Template{ID: "y"}))
	require.NoError(t, lib.Register(domain.Template{ID: "x", Name: "two"}))

	list := lib.List()
	require.Len(t, list, 2)
	assert.Equal(t, "x", list[0].ID)
	assert.Equal(t, "two", list[0].Name)
}
