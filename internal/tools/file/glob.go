package file

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/aatumaykin/sandbot/internal/workspace"
)

// maxGlobResults bounds the number of paths returned by one glob call.
const maxGlobResults = 500

// GlobFilesTool implements the Tool interface for listing sandbox files
// by glob pattern. Patterns support `*` (within a path segment), `?`
// (single character) and `**` (any number of segments). A pattern that
// cannot be compiled degrades to matching every file rather than
// failing the call.
type GlobFilesTool struct {
	fileToolBase
}

// GlobFilesArgs represents the arguments for the glob_files tool.
type GlobFilesArgs struct {
	Pattern string `json:"pattern"` // glob pattern relative to the sandbox root
}

// NewGlobFilesTool creates a new GlobFilesTool instance.
func NewGlobFilesTool(ws *workspace.Workspace) *GlobFilesTool {
	return &GlobFilesTool{fileToolBase{workspace: ws}}
}

// Name returns the tool name.
func (t *GlobFilesTool) Name() string {
	return "glob_files"
}

// Description returns a description of what the tool does.
func (t *GlobFilesTool) Description() string {
	return "List files in the sandbox matching a glob pattern. Supports `*`, `?` and `**` (recursive). Example: src/**/*.go"
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *GlobFilesTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "The glob pattern, relative to the sandbox root. Examples: *.md, notes/**/*.txt",
			},
		},
		"required": []string{"pattern"},
	}
}

// Execute walks the sandbox and returns matching file paths, one per line.
func (t *GlobFilesTool) Execute(args string) (string, error) {
	var globArgs GlobFilesArgs
	if err := parseJSON(args, &globArgs); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if globArgs.Pattern == "" {
		return "", fmt.Errorf("pattern is required")
	}

	match := compileGlob(globArgs.Pattern)
	root := t.workspace.Path()

	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if match(rel) {
			matches = append(matches, rel)
		}
		if len(matches) >= maxGlobResults {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk sandbox: %w", err)
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No files matching %q", globArgs.Pattern), nil
	}

	sort.Strings(matches)
	return strings.Join(matches, "\n"), nil
}

// compileGlob translates a glob pattern into a matcher over slash-separated
// relative paths. On any compilation failure the returned matcher accepts
// every path.
func compileGlob(pattern string) func(string) bool {
	var sb strings.Builder
	sb.WriteString("^")
	i := 0
	for i < len(pattern) {
		switch {
		case strings.HasPrefix(pattern[i:], "**/"):
			sb.WriteString(`(?:[^/]+/)*`)
			i += 3
		case strings.HasPrefix(pattern[i:], "**"):
			sb.WriteString(`.*`)
			i += 2
		case pattern[i] == '*':
			sb.WriteString(`[^/]*`)
			i++
		case pattern[i] == '?':
			sb.WriteString(`[^/]`)
			i++
		case pattern[i] == '[' || pattern[i] == ']':
			// character classes pass through; an unterminated class fails
			// compilation and selects the match-all fallback
			sb.WriteByte(pattern[i])
			i++
		default:
			sb.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
		}
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return func(string) bool { return true }
	}
	return re.MatchString
}
