package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/aatumaykin/sandbot/internal/config"
	"github.com/aatumaykin/sandbot/internal/workspace"
)

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	return workspace.New(config.WorkspaceConfig{Path: t.TempDir()})
}

func seedFile(t *testing.T, ws *workspace.Workspace, rel, content string) {
	t.Helper()
	path := filepath.Join(ws.Path(), rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestReadFile tests basic file reading
func TestReadFile(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "notes/todo.md", "line one\nline two\nline three")
	tool := NewReadFileTool(ws)

	out, err := tool.Execute(`{"path": "notes/todo.md"}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if out != "line one\nline two\nline three" {
		t.Errorf("output = %q", out)
	}
}

// TestReadFileOffsetLimit tests windowed reads
func TestReadFileOffsetLimit(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "big.txt", "a\nb\nc\nd\ne")
	tool := NewReadFileTool(ws)

	out, err := tool.Execute(`{"path": "big.txt", "offset": 1, "limit": 2}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if out != "b\nc" {
		t.Errorf("output = %q, want b\\nc", out)
	}
}

// TestReadFileNegativeOffset tests that a negative offset is rejected
func TestReadFileNegativeOffset(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "big.txt", "a\nb\nc\nd\ne")
	tool := NewReadFileTool(ws)

	_, err := tool.Execute(`{"path": "big.txt", "offset": -5, "limit": 2}`)
	if err == nil || !strings.Contains(err.Error(), "non-negative") {
		t.Errorf("Execute() = %v, want non-negative offset error", err)
	}
}

// TestReadFileMissing tests the not-found error
func TestReadFileMissing(t *testing.T) {
	tool := NewReadFileTool(newTestWorkspace(t))

	_, err := tool.Execute(`{"path": "nope.txt"}`)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Execute() = %v, want not-found error", err)
	}
}

// TestReadFileEscape tests that sandbox escapes fail closed
func TestReadFileEscape(t *testing.T) {
	tool := NewReadFileTool(newTestWorkspace(t))

	_, err := tool.Execute(`{"path": "../../etc/passwd"}`)
	if err == nil || !strings.Contains(err.Error(), "escapes workspace") {
		t.Errorf("Execute() = %v, want escape rejection", err)
	}
}

// TestWriteFile tests file writing with parent creation
func TestWriteFile(t *testing.T) {
	ws := newTestWorkspace(t)
	tool := NewWriteFileTool(ws)

	if _, err := tool.Execute(`{"path": "deep/nested/out.txt", "content": "payload"}`); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(ws.Path(), "deep", "nested", "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q, want payload", data)
	}
}

// TestWriteFileOverwrite tests that an existing file is replaced in full
func TestWriteFileOverwrite(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "out.txt", "old old old")
	tool := NewWriteFileTool(ws)

	if _, err := tool.Execute(`{"path": "out.txt", "content": "new"}`); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(ws.Path(), "out.txt"))
	if string(data) != "new" {
		t.Errorf("content = %q, want new", data)
	}
}

// TestWriteFileEscape tests that sandbox escapes fail closed before I/O
func TestWriteFileEscape(t *testing.T) {
	ws := newTestWorkspace(t)
	tool := NewWriteFileTool(ws)

	if _, err := tool.Execute(`{"path": "/tmp/escape-attempt.txt", "content": "x"}`); err == nil {
		t.Fatal("expected escape rejection")
	}
	if _, err := os.Stat("/tmp/escape-attempt.txt"); err == nil {
		os.Remove("/tmp/escape-attempt.txt")
		t.Error("rejected write created a file outside the sandbox")
	}
}

// TestEditFile tests first-occurrence replacement
func TestEditFile(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "code.go", "count := 1\ncount := 1\n")
	tool := NewEditFileTool(ws)

	if _, err := tool.Execute(`{"path": "code.go", "old_text": "count := 1", "new_text": "count := 2"}`); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(ws.Path(), "code.go"))
	if string(data) != "count := 2\ncount := 1\n" {
		t.Errorf("content = %q, only the first occurrence should change", data)
	}
}

// TestEditFileNotFound tests that a missing fragment leaves the file alone
func TestEditFileNotFound(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "code.go", "original")
	tool := NewEditFileTool(ws)

	_, err := tool.Execute(`{"path": "code.go", "old_text": "absent", "new_text": "x"}`)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("Execute() = %v, want not-found error", err)
	}

	data, _ := os.ReadFile(filepath.Join(ws.Path(), "code.go"))
	if string(data) != "original" {
		t.Errorf("failed edit modified the file: %q", data)
	}
}

// TestGlobFiles tests glob matching
func TestGlobFiles(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "a.go", "")
	seedFile(t, ws, "b.md", "")
	seedFile(t, ws, "src/deep/c.go", "")
	tool := NewGlobFilesTool(ws)

	tests := []struct {
		name        string
		pattern     string
		want        []string
		wantMissing []string
	}{
		{
			name:        "star in root",
			pattern:     "*.go",
			want:        []string{"a.go"},
			wantMissing: []string{"b.md", "src/deep/c.go"},
		},
		{
			name:    "recursive double star",
			pattern: "**/*.go",
			want:    []string{"a.go", "src/deep/c.go"},
		},
		{
			name:    "question mark",
			pattern: "?.md",
			want:    []string{"b.md"},
		},
		{
			name:    "malformed pattern matches everything",
			pattern: "[invalid",
			want:    []string{"a.go", "b.md", "src/deep/c.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tool.Execute(fmt.Sprintf(`{"pattern": %q}`, tt.pattern))
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, m := range tt.wantMissing {
				if strings.Contains(out, m) {
					t.Errorf("output should not contain %q:\n%s", m, out)
				}
			}
		})
	}
}

// TestGlobFilesNoMatches tests the empty-result sentinel
func TestGlobFilesNoMatches(t *testing.T) {
	tool := NewGlobFilesTool(newTestWorkspace(t))

	out, err := tool.Execute(`{"pattern": "*.xyz"}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out, "No files matching") {
		t.Errorf("output = %q, want no-files sentinel", out)
	}
}

// TestGrepFiles tests regex content search
func TestGrepFiles(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "main.go", "package main\nfunc main() {}\n")
	seedFile(t, ws, "docs/readme.md", "a main function lives in main.go\n")
	tool := NewGrepFilesTool(ws)

	out, err := tool.Execute(`{"pattern": "func main"}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out, "main.go:2: func main() {}") {
		t.Errorf("output = %q, want path:line: text format", out)
	}
	if strings.Contains(out, "readme.md") {
		t.Errorf("output matched the wrong file:\n%s", out)
	}
}

// TestGrepFilesScopedPath tests limiting the search to a subdirectory
func TestGrepFilesScopedPath(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "a.txt", "needle\n")
	seedFile(t, ws, "sub/b.txt", "needle\n")
	tool := NewGrepFilesTool(ws)

	out, err := tool.Execute(`{"pattern": "needle", "path": "sub"}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out, "sub/b.txt:1") {
		t.Errorf("output = %q, want match in sub/", out)
	}
	if strings.Contains(out, "a.txt:1") {
		t.Errorf("output should not include files outside sub/:\n%s", out)
	}
}

// TestGrepFilesNoMatches tests the no-matches sentinel
func TestGrepFilesNoMatches(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "a.txt", "nothing here\n")
	tool := NewGrepFilesTool(ws)

	out, err := tool.Execute(`{"pattern": "absent-token"}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out, "No matches") {
		t.Errorf("output = %q, want no-matches sentinel", out)
	}
}

// TestGrepFilesSkipsBinary tests that undecodable files are skipped
func TestGrepFilesSkipsBinary(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "data.bin", "needle\xff\xfe\x00garbage")
	seedFile(t, ws, "text.txt", "needle\n")
	tool := NewGrepFilesTool(ws)

	out, err := tool.Execute(`{"pattern": "needle"}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if strings.Contains(out, "data.bin") {
		t.Errorf("binary file was not skipped:\n%s", out)
	}
	if !strings.Contains(out, "text.txt:1") {
		t.Errorf("text match missing:\n%s", out)
	}
}

// TestGrepFilesLongLineTruncation tests that long matching lines are cut
// without splitting a multi-byte rune
func TestGrepFilesLongLineTruncation(t *testing.T) {
	ws := newTestWorkspace(t)
	seedFile(t, ws, "wide.txt", "needle"+strings.Repeat("世", 600)+"\n")
	tool := NewGrepFilesTool(ws)

	out, err := tool.Execute(`{"pattern": "needle"}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("long line was not truncated:\n%s", out)
	}
	if !utf8.ValidString(out) {
		t.Errorf("truncation split a rune: %q", out)
	}
}

// TestGrepFilesInvalidPattern tests that a bad regex is an error
func TestGrepFilesInvalidPattern(t *testing.T) {
	tool := NewGrepFilesTool(newTestWorkspace(t))

	if _, err := tool.Execute(`{"pattern": "("}`); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
