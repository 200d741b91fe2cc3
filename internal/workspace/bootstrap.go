// Bootstrap files are markdown files in the sandbox root that shape the
// system prompt:
//   - IDENTITY.md: core identity and purpose
//   - AGENTS.md: agent instructions and behaviour guidelines
//   - TOOLS.md: notes on available tools and their usage
//
// Missing files are skipped; the assembled prompt is size-capped.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

const (
	BootstrapIdentity = "IDENTITY.md"
	BootstrapAgents   = "AGENTS.md"
	BootstrapTools    = "TOOLS.md"

	defaultBootstrapMaxChars = 20000
)

// Bootstrap files in assembly order.
var defaultBootstrapFiles = []string{
	BootstrapIdentity,
	BootstrapAgents,
	BootstrapTools,
}

// BootstrapLoader loads and assembles bootstrap files for the system prompt.
type BootstrapLoader struct {
	workspace *Workspace
	maxChars  int
	warnFunc  func(string, ...interface{}) // optional, for missing-file warnings
}

// NewBootstrapLoader creates a BootstrapLoader. maxChars of 0 selects the
// default cap. warnFunc may be nil.
func NewBootstrapLoader(ws *Workspace, maxChars int, warnFunc func(string, ...interface{})) *BootstrapLoader {
	if maxChars == 0 {
		maxChars = defaultBootstrapMaxChars
	}
	return &BootstrapLoader{
		workspace: ws,
		maxChars:  maxChars,
		warnFunc:  warnFunc,
	}
}

// LoadFile loads a single bootstrap file by name with template variables
// substituted.
func (bl *BootstrapLoader) LoadFile(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is empty")
	}

	content, err := os.ReadFile(bl.workspace.Subpath(filename))
	if err != nil {
		return "", fmt.Errorf("failed to read bootstrap file %s: %w", filename, err)
	}

	return bl.substituteVariables(string(content)), nil
}

// Assemble loads all bootstrap files in order and joins them with
// separator lines. Missing files are skipped; the result is truncated to
// the configured cap.
func (bl *BootstrapLoader) Assemble() string {
	var parts []string
	for _, name := range defaultBootstrapFiles {
		content, err := bl.LoadFile(name)
		if err != nil {
			if bl.warnFunc != nil && !errors.Is(err, fs.ErrNotExist) {
				bl.warnFunc("failed to load bootstrap file %s: %v", name, err)
			}
			continue
		}
		parts = append(parts, content)
	}

	assembled := strings.Join(parts, "\n\n---\n\n")
	if bl.maxChars > 0 && len(assembled) > bl.maxChars {
		assembled = assembled[:bl.maxChars]
	}

	return assembled
}

// substituteVariables replaces template variables in the content:
// {{CURRENT_TIME}}, {{CURRENT_DATE}} and {{WORKSPACE_PATH}}.
func (bl *BootstrapLoader) substituteVariables(content string) string {
	now := time.Now()
	content = strings.ReplaceAll(content, "{{CURRENT_TIME}}", now.Format("15:04:05"))
	content = strings.ReplaceAll(content, "{{CURRENT_DATE}}", now.Format("2006-01-02"))
	content = strings.ReplaceAll(content, "{{WORKSPACE_PATH}}", bl.workspace.Path())
	return content
}
