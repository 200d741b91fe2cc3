package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aatumaykin/sandbot/internal/workspace"
)

// WriteFileTool implements the Tool interface for writing file contents
// inside the sandbox. Parent directories are created as needed and an
// existing file is replaced in full.
type WriteFileTool struct {
	fileToolBase
}

// WriteFileArgs represents the arguments for the write_file tool.
type WriteFileArgs struct {
	Path    string `json:"path"`    // path relative to the sandbox root
	Content string `json:"content"` // full file content to write
}

// NewWriteFileTool creates a new WriteFileTool instance.
func NewWriteFileTool(ws *workspace.Workspace) *WriteFileTool {
	return &WriteFileTool{fileToolBase{workspace: ws}}
}

// Name returns the tool name.
func (t *WriteFileTool) Name() string {
	return "write_file"
}

// Description returns a description of what the tool does.
func (t *WriteFileTool) Description() string {
	return "Write content to a file in the sandbox, creating parent directories as needed. An existing file is overwritten."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *WriteFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "The path to the file, relative to the sandbox root.",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "The full content to write to the file.",
			},
		},
		"required": []string{"path", "content"},
	}
}

// Execute writes the content to the file.
func (t *WriteFileTool) Execute(args string) (string, error) {
	var fileArgs WriteFileArgs
	if err := parseJSON(args, &fileArgs); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if fileArgs.Path == "" {
		return "", fmt.Errorf("path is required")
	}

	fullPath, err := t.workspace.ResolvePath(fileArgs.Path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create parent directories: %w", err)
	}

	if err := os.WriteFile(fullPath, []byte(fileArgs.Content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("Wrote %d bytes to %s", len(fileArgs.Content), fileArgs.Path), nil
}
