package file

import (
	"fmt"
	"os"
	"strings"

	"github.com/aatumaykin/sandbot/internal/workspace"
)

// EditFileTool implements the Tool interface for in-place file edits.
// The edit replaces the first occurrence of an exact substring; if the
// substring does not appear verbatim the edit fails and the file is left
// untouched.
type EditFileTool struct {
	fileToolBase
}

// EditFileArgs represents the arguments for the edit_file tool.
type EditFileArgs struct {
	Path    string `json:"path"`     // path relative to the sandbox root
	OldText string `json:"old_text"` // exact text to find
	NewText string `json:"new_text"` // replacement text
}

// NewEditFileTool creates a new EditFileTool instance.
func NewEditFileTool(ws *workspace.Workspace) *EditFileTool {
	return &EditFileTool{fileToolBase{workspace: ws}}
}

// Name returns the tool name.
func (t *EditFileTool) Name() string {
	return "edit_file"
}

// Description returns a description of what the tool does.
func (t *EditFileTool) Description() string {
	return "Edit a file in the sandbox by replacing the first occurrence of an exact text fragment. The old text must match the file contents verbatim."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *EditFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "The path to the file, relative to the sandbox root.",
			},
			"old_text": map[string]interface{}{
				"type":        "string",
				"description": "The exact text to replace. Must appear verbatim in the file.",
			},
			"new_text": map[string]interface{}{
				"type":        "string",
				"description": "The text to replace it with.",
			},
		},
		"required": []string{"path", "old_text", "new_text"},
	}
}

// Execute applies the edit.
func (t *EditFileTool) Execute(args string) (string, error) {
	var fileArgs EditFileArgs
	if err := parseJSON(args, &fileArgs); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if fileArgs.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	if fileArgs.OldText == "" {
		return "", fmt.Errorf("old_text is required")
	}

	fullPath, err := t.workspace.ResolvePath(fileArgs.Path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", fileArgs.Path)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	content := string(data)
	if !strings.Contains(content, fileArgs.OldText) {
		return "", fmt.Errorf("old_text not found in %s", fileArgs.Path)
	}

	content = strings.Replace(content, fileArgs.OldText, fileArgs.NewText, 1)

	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("Edited %s", fileArgs.Path), nil
}
