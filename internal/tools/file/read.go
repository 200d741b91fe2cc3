package file

import (
	"fmt"
	"os"
	"strings"

	"github.com/aatumaykin/sandbot/internal/workspace"
)

// defaultReadLimit bounds the number of lines returned in one read.
const defaultReadLimit = 2000

// ReadFileTool implements the Tool interface for reading file contents
// from the sandbox.
type ReadFileTool struct {
	fileToolBase
}

// ReadFileArgs represents the arguments for the read_file tool.
type ReadFileArgs struct {
	Path   string `json:"path"`             // path relative to the sandbox root
	Offset int    `json:"offset,omitempty"` // line offset (0-based)
	Limit  int    `json:"limit,omitempty"`  // maximum number of lines
}

// NewReadFileTool creates a new ReadFileTool instance.
func NewReadFileTool(ws *workspace.Workspace) *ReadFileTool {
	return &ReadFileTool{fileToolBase{workspace: ws}}
}

// Name returns the tool name.
func (t *ReadFileTool) Name() string {
	return "read_file"
}

// Description returns a description of what the tool does.
func (t *ReadFileTool) Description() string {
	return "Read the contents of a file in the sandbox. Use this tool when you need to examine file contents."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *ReadFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "The path to the file, relative to the sandbox root.",
			},
			"offset": map[string]interface{}{
				"type":        "integer",
				"description": "The line number to start reading from (0-based). Defaults to 0.",
				"default":     0,
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "The maximum number of lines to read. Defaults to 2000.",
				"default":     defaultReadLimit,
			},
		},
		"required": []string{"path"},
	}
}

// Execute reads the file content and returns it.
func (t *ReadFileTool) Execute(args string) (string, error) {
	var fileArgs ReadFileArgs
	if err := parseJSON(args, &fileArgs); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if fileArgs.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	if fileArgs.Offset < 0 {
		return "", fmt.Errorf("offset must be non-negative, got %d", fileArgs.Offset)
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

	limit := fileArgs.Limit
	if limit <= 0 {
		limit = defaultReadLimit
	}

	lines := strings.Split(string(data), "\n")
	if fileArgs.Offset >= len(lines) {
		return "", fmt.Errorf("offset %d is beyond end of file (%d lines)", fileArgs.Offset, len(lines))
	}
	if fileArgs.Offset > 0 || limit < len(lines) {
		end := fileArgs.Offset + limit
		if end > len(lines) {
			end = len(lines)
		}
		lines = lines[fileArgs.Offset:end]
	}

	return strings.Join(lines, "\n"), nil
}
