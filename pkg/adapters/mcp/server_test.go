package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/missionkit/pkg/adapters/memory"
	"github.com/aretw0/missionkit/pkg/catalog"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/editor"
	"github.com/aretw0/missionkit/pkg/render"
	"github.com/aretw0/missionkit/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	templates := catalog.Builtin()
	mgr := session.NewManager(memory.NewStore(),
		session.WithEditorOptions(editor.WithTemplates(templates)))
	return NewServer(mgr, templates, "test")
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestListTemplates(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleListTemplates(context.Background(), call(nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var templates []domain.Template
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &templates))
	assert.Len(t, templates, len(catalog.BuiltinTemplates()))
}

func TestSessionTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleCreateSession(ctx, call(map[string]any{"session_id": "s1", "template_id": "quickstart"}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	res, err = s.handleApplyCommand(ctx, call(map[string]any{
		"session_id": "s1",
		"command":    `{"op":"disconnect","step_id":"gate","target_id":"proof"}`,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	var out session.Outcome
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.True(t, out.Result.Applied)

	res, err = s.handleGetEdges(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	var edges []render.Edge
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &edges))
	assert.Len(t, edges, 2)

	res, err = s.handleInspect(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.Equal(t, "no step selected", text(t, res))

	res, err = s.handleMermaid(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "graph LR")

	res, err = s.handleDeleteSession(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleGetSession(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestApplyCommandRejectsBadInput(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	_, err := s.sessions.Create(ctx, "s1", "")
	require.NoError(t, err)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing session", map[string]any{"command": `{"op":"deselect"}`}},
		{"missing command", map[string]any{"session_id": "s1"}},
		{"malformed json", map[string]any{"session_id": "s1", "command": "{"}},
		{"unknown op", map[string]any{"session_id": "s1", "command": `{"op":"explode"}`}},
		{"unknown session", map[string]any{"session_id": "nope", "command": `{"op":"deselect"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleApplyCommand(ctx, call(tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}
