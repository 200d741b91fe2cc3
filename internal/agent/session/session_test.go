package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/sandbot/internal/config"
	"github.com/aatumaykin/sandbot/internal/llm"
	"github.com/aatumaykin/sandbot/internal/workspace"
)

func newTestManager(t *testing.T) (*Manager, *workspace.Workspace) {
	t.Helper()
	ws := workspace.New(config.WorkspaceConfig{Path: t.TempDir()})
	m, err := NewManager(ws)
	require.NoError(t, err)
	return m, ws
}

func TestLoadUnknownSession(t *testing.T) {
	m, _ := newTestManager(t)

	messages, err := m.Load("never-saved")
	require.NoError(t, err)
	assert.Nil(t, messages, "unknown session yields empty history")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)

	history := []llm.Message{
		{Role: llm.RoleSystem, Content: "system prompt"},
		{Role: llm.RoleUser, Content: "question"},
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "c1", Name: "read_file", Arguments: `{"path":"a"}`}}},
		{Role: llm.RoleTool, Content: "file body", ToolCallID: "c1"},
		{Role: llm.RoleAssistant, Content: "answer"},
	}

	require.NoError(t, m.Save("conv-1", history))

	loaded, err := m.Load("conv-1")
	require.NoError(t, err)
	assert.Equal(t, history, loaded, "round trip must preserve order and fields")
}

func TestSaveReplacesPrevious(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.Save("conv-1", []llm.Message{{Role: llm.RoleUser, Content: "old"}}))
	require.NoError(t, m.Save("conv-1", []llm.Message{{Role: llm.RoleUser, Content: "new"}}))

	loaded, err := m.Load("conv-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].Content)
}

func TestSaveFileShape(t *testing.T) {
	m, ws := newTestManager(t)

	require.NoError(t, m.Save("conv-1", []llm.Message{{Role: llm.RoleUser, Content: "hi"}}))

	path := filepath.Join(ws.Path(), workspace.SubdirSessions, "conv-1.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Top-level shape is an object with a messages array
	var shape map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &shape))
	_, ok := shape["messages"]
	assert.True(t, ok, "session file must wrap history in a messages field")
}

func TestSaveNoStagingLeftovers(t *testing.T) {
	m, ws := newTestManager(t)

	require.NoError(t, m.Save("conv-1", nil))

	entries, err := os.ReadDir(filepath.Join(ws.Path(), workspace.SubdirSessions))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "staging file leaked")
	}
}

func TestSessionIDValidation(t *testing.T) {
	m, _ := newTestManager(t)

	for _, id := range []string{"", "../escape", "a/b", "a b"} {
		_, err := m.Load(id)
		assert.Error(t, err, "id %q should be rejected", id)
		assert.Error(t, m.Save(id, nil), "id %q should be rejected", id)
	}
}
