// Package workspace provides sandbox root management for sandbot.
// All tool file access is confined to a single root directory: every
// relative path resolves against the root, and any path whose resolved
// absolute form leaves the root is rejected before I/O happens.
//
// Example usage:
//
//	ws := workspace.New(config.WorkspaceConfig{Path: "~/.sandbot/workspace"})
//	if err := ws.EnsureDir(); err != nil {
//	    log.Fatal(err)
//	}
//	p, err := ws.ResolvePath("notes/todo.md")
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aatumaykin/sandbot/internal/config"
)

const (
	// SubdirSessions is the subdirectory holding persisted conversation
	// sessions.
	SubdirSessions = ".sessions"
)

// Workspace represents the sandbox root with path resolution confined to it.
type Workspace struct {
	path     string // expanded root path
	basePath string // original path from config (may contain ~)
}

// New creates a Workspace from the given configuration. The path from
// config is stored as-is in basePath and expanded in path.
func New(cfg config.WorkspaceConfig) *Workspace {
	expandedPath := expandHome(cfg.Path)
	return &Workspace{
		path:     expandedPath,
		basePath: cfg.Path,
	}
}

// Path returns the expanded sandbox root path.
func (w *Workspace) Path() string {
	return w.path
}

// BasePath returns the original path from config (may contain ~).
func (w *Workspace) BasePath() string {
	return w.basePath
}

// EnsureDir creates the sandbox root directory if it doesn't exist.
func (w *Workspace) EnsureDir() error {
	if w.path == "" {
		return fmt.Errorf("workspace path is empty")
	}

	info, err := os.Stat(w.path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("workspace path exists but is not a directory: %s", w.path)
		}
		return nil
	}

	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access workspace path %s: %w", w.path, err)
	}

	if err := os.MkdirAll(w.path, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory %s: %w", w.path, err)
	}

	return nil
}

// ResolvePath resolves a path within the sandbox root. Relative paths are
// joined with the root; absolute paths are accepted only when they already
// point inside the root. Any path whose cleaned absolute form escapes the
// root is rejected before any I/O occurs.
func (w *Workspace) ResolvePath(relPath string) (string, error) {
	if relPath == "" {
		return "", fmt.Errorf("path is empty")
	}

	absRoot, err := filepath.Abs(w.path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute workspace path: %w", err)
	}

	var candidate string
	if filepath.IsAbs(relPath) {
		candidate = filepath.Clean(relPath)
	} else {
		candidate = filepath.Join(absRoot, relPath)
	}

	absCandidate, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	rel, err := filepath.Rel(absRoot, absCandidate)
	if err != nil {
		return "", fmt.Errorf("path escapes workspace: %s", relPath)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes workspace: %s", relPath)
	}

	return absCandidate, nil
}

// Subpath returns a path for a workspace subdirectory without resolving
// or validating it.
func (w *Workspace) Subpath(name string) string {
	return filepath.Join(w.path, name)
}

// EnsureSubpath creates a subdirectory within the workspace if it doesn't
// exist.
func (w *Workspace) EnsureSubpath(name string) error {
	if err := w.EnsureDir(); err != nil {
		return fmt.Errorf("failed to ensure workspace: %w", err)
	}

	if name == "" {
		return fmt.Errorf("subdirectory name is empty")
	}

	subpath := w.Subpath(name)

	info, err := os.Stat(subpath)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("subdirectory path exists but is not a directory: %s", subpath)
		}
		return nil
	}

	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access subdirectory %s: %w", subpath, err)
	}

	if err := os.MkdirAll(subpath, 0755); err != nil {
		return fmt.Errorf("failed to create subdirectory %s: %w", subpath, err)
	}

	return nil
}

// ExpandHome expands a leading ~ to the user's home directory. Exposed for
// other path-valued settings (the IPC directory, log files).
func ExpandHome(path string) string {
	return expandHome(path)
}

// expandHome expands ~ to the user's home directory.
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' && (len(path) == 1 || path[1] == '/') {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if len(path) == 1 {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
