package loam_test

import (
	"context"
	"testing"

	"github.com/aretw0/missionkit/internal/testutils"
	"github.com/aretw0/missionkit/pkg/adapters/loam"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.TemplateLoader = (*loam.Loader)(nil)

const followTemplate = `---
name: Follow & Earn
category: social
difficulty: easy
steps:
  - id: follow
    kind: action
    title: Follow the account
    position:
      x: 80
      y: 120
    config:
      platform: x
      target: "@project"
    to: [check]
  - id: check
    kind: verification
    title: Check follow
    position: {x: 360, y: 120}
    connections: [reward]
  - id: reward
    kind: reward
    title: Points
    position: {x: 640, y: 120}
    config:
      amount: 25
---
Reward participants for **following** the project.
`

func TestLoader_LoadTemplates(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{
		"social-follow.md": followTemplate,
		"empty.md": `---
id: blank
name: Blank canvas
---
`,
	})

	loader, err := loam.Open(dir)
	require.NoError(t, err)

	templates, err := loader.LoadTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)

	assert.Equal(t, "blank", templates[0].ID)
	assert.Empty(t, templates[0].Steps)

	tpl := templates[1]
	assert.Equal(t, "social-follow", tpl.ID, "id falls back to the file name without extension")
	assert.Equal(t, "Follow & Earn", tpl.Name)
	assert.Contains(t, tpl.Description, "**following**")
	require.Len(t, tpl.Steps, 3)

	follow := tpl.Steps[0]
	assert.Equal(t, domain.KindAction, follow.Kind)
	assert.Equal(t, domain.Position{X: 80, Y: 120}, follow.Position)
	assert.Equal(t, []string{"check"}, follow.Connections)
	assert.Equal(t, "x", follow.Config["platform"])
	assert.Equal(t, "@project", follow.Config["target"])

	assert.Equal(t, []string{"reward"}, tpl.Steps[1].Connections)
	assert.NotNil(t, tpl.Steps[1].Config)

	reward, err := domain.DecodeConfig(tpl.Steps[2].Kind, tpl.Steps[2].Config)
	require.NoError(t, err)
	assert.Equal(t, 25.0, reward.(domain.RewardConfig).Amount)
}

func TestLoader_RejectsInvalidSteps(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing kind", "---\nsteps:\n  - id: a\n---\n"},
		{"missing id", "---\nsteps:\n  - kind: action\n---\n"},
		{"duplicate id", "---\nsteps:\n  - id: a\n    kind: action\n  - id: a\n    kind: reward\n---\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, err := loam.Open(testutils.WriteFiles(t, map[string]string{"bad.md": tt.content}))
			require.NoError(t, err)
			_, err = loader.LoadTemplates(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestLoader_DetectsCollisions(t *testing.T) {
	loader, err := loam.Open(testutils.WriteFiles(t, map[string]string{
		"one.md": "---\nid: same\n---\n",
		"two.md": "---\nid: same\n---\n",
	}))
	require.NoError(t, err)

	_, err = loader.LoadTemplates(context.Background())
	assert.ErrorContains(t, err, "collision detected")
}
