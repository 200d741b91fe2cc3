package file

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/wasilibs/go-re2"

	"github.com/aatumaykin/sandbot/internal/workspace"
)

// Limits for one grep call.
const (
	maxGrepMatches  = 200
	maxGrepLineLen  = 512
	maxGrepFileSize = 10 * 1024 * 1024
)

// GrepFilesTool implements the Tool interface for regex content search
// across sandbox files. Files that are not valid UTF-8 are skipped.
type GrepFilesTool struct {
	fileToolBase
}

// GrepFilesArgs represents the arguments for the grep_files tool.
type GrepFilesArgs struct {
	Pattern string `json:"pattern"`        // regular expression to search for
	Path    string `json:"path,omitempty"` // subdirectory to search, relative to the sandbox root
}

// NewGrepFilesTool creates a new GrepFilesTool instance.
func NewGrepFilesTool(ws *workspace.Workspace) *GrepFilesTool {
	return &GrepFilesTool{fileToolBase{workspace: ws}}
}

// Name returns the tool name.
func (t *GrepFilesTool) Name() string {
	return "grep_files"
}

// Description returns a description of what the tool does.
func (t *GrepFilesTool) Description() string {
	return "Search sandbox files line by line with a regular expression. Returns matches as path:line: text. Binary files are skipped."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *GrepFilesTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "The regular expression to search for. RE2 syntax.",
			},
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Optional subdirectory to limit the search to, relative to the sandbox root.",
			},
		},
		"required": []string{"pattern"},
	}
}

// Execute searches for the pattern and returns matching lines.
func (t *GrepFilesTool) Execute(args string) (string, error) {
	var grepArgs GrepFilesArgs
	if err := parseJSON(args, &grepArgs); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if grepArgs.Pattern == "" {
		return "", fmt.Errorf("pattern is required")
	}

	re, err := re2.Compile(grepArgs.Pattern)
	if err != nil {
		return "", fmt.Errorf("invalid pattern: %w", err)
	}

	root := t.workspace.Path()
	searchRoot := root
	if grepArgs.Path != "" {
		searchRoot, err = t.workspace.ResolvePath(grepArgs.Path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path: %w", err)
		}
	}

	var matches []string
	walkErr := filepath.WalkDir(searchRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != searchRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if info, infoErr := d.Info(); infoErr != nil || info.Size() > maxGrepFileSize {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		fileMatches, scanErr := t.grepFile(path, filepath.ToSlash(rel), re, maxGrepMatches-len(matches))
		if scanErr != nil {
			return nil // unreadable or binary, skip
		}
		matches = append(matches, fileMatches...)
		if len(matches) >= maxGrepMatches {
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		return "", fmt.Errorf("failed to walk sandbox: %w", walkErr)
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No matches for %q", grepArgs.Pattern), nil
	}
	return strings.Join(matches, "\n"), nil
}

// grepFile scans one file line by line. Files that are not valid UTF-8
// are reported as an error so the walker skips them.
func (t *GrepFilesTool) grepFile(path, rel string, re *re2.Regexp, limit int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matches []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("not a text file")
		}
		if !re.MatchString(line) {
			continue
		}
		if len(line) > maxGrepLineLen {
			cut := maxGrepLineLen
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			line = line[:cut] + "..."
		}
		matches = append(matches, fmt.Sprintf("%s:%d: %s", rel, lineNo, line))
		if len(matches) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
