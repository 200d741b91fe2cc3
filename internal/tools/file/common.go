// Package file provides the sandboxed filesystem tools: read, write, edit,
// glob listing and content search. Every path is resolved against the
// sandbox root and resolution outside it fails closed before any I/O.
package file

import (
	"encoding/json"
	"strings"

	"github.com/aatumaykin/sandbot/internal/workspace"
)

// fileToolBase contains common fields for file tools.
type fileToolBase struct {
	workspace *workspace.Workspace
}

// parseJSON is a helper function to parse JSON arguments.
func parseJSON(jsonStr string, v interface{}) error {
	decoder := json.NewDecoder(strings.NewReader(jsonStr))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
