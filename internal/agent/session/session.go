// Package session persists conversation history between agent
// invocations. Each session is one JSON file under the workspace's
// .sessions directory, written atomically so a concurrent reader never
// sees a torn file.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/aatumaykin/sandbot/internal/llm"
	"github.com/aatumaykin/sandbot/internal/workspace"
)

// sessionIDPattern restricts session ids to safe file name characters.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// sessionFile is the on-disk shape of a persisted session.
type sessionFile struct {
	Messages []llm.Message `json:"messages"`
}

// Manager loads and saves sessions for one workspace.
type Manager struct {
	dir string
}

// NewManager creates a session manager rooted at the workspace's session
// directory, creating it if needed.
func NewManager(ws *workspace.Workspace) (*Manager, error) {
	if err := ws.EnsureSubpath(workspace.SubdirSessions); err != nil {
		return nil, fmt.Errorf("failed to ensure session directory: %w", err)
	}
	return &Manager{dir: ws.Subpath(workspace.SubdirSessions)}, nil
}

// Load returns the message history for the given session id. A session
// that has never been saved yields an empty history, not an error.
func (m *Manager) Load(sessionID string) ([]llm.Message, error) {
	path, err := m.sessionPath(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}

	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", sessionID, err)
	}
	return sf.Messages, nil
}

// Save writes the message history for the given session id, replacing any
// previous contents. The write goes through a staging file and a rename.
func (m *Manager) Save(sessionID string, messages []llm.Message) error {
	path, err := m.sessionPath(sessionID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(sessionFile{Messages: messages}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", sessionID, err)
	}

	staging := path + ".tmp"
	if err := os.WriteFile(staging, data, 0o644); err != nil {
		return fmt.Errorf("failed to write session %s: %w", sessionID, err)
	}
	if err := os.Rename(staging, path); err != nil {
		os.Remove(staging)
		return fmt.Errorf("failed to publish session %s: %w", sessionID, err)
	}
	return nil
}

func (m *Manager) sessionPath(sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id is empty")
	}
	if !sessionIDPattern.MatchString(sessionID) {
		return "", fmt.Errorf("invalid session id %q", sessionID)
	}
	return filepath.Join(m.dir, sessionID+".json"), nil
}
