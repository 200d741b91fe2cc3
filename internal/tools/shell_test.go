package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aatumaykin/sandbot/internal/config"
	"github.com/aatumaykin/sandbot/internal/logger"
)

func newShellTool(t *testing.T, cfg config.ShellToolConfig) *ShellExecTool {
	t.Helper()
	return NewShellExecTool(t.TempDir(), cfg, logger.NewNop())
}

// TestShellExecute tests basic command execution
func TestShellExecute(t *testing.T) {
	tool := newShellTool(t, config.ShellToolConfig{})

	out, err := tool.Execute(`{"command": "echo hello"}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("output = %q, want hello", out)
	}
}

// TestShellExecuteNoOutput tests the no-output placeholder
func TestShellExecuteNoOutput(t *testing.T) {
	tool := newShellTool(t, config.ShellToolConfig{})

	out, err := tool.Execute(`{"command": "true"}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if out != "(no output)" {
		t.Errorf("output = %q, want (no output)", out)
	}
}

// TestShellExecuteWorkDir tests that commands run in the sandbox root
func TestShellExecuteWorkDir(t *testing.T) {
	tool := newShellTool(t, config.ShellToolConfig{})

	out, err := tool.Execute(`{"command": "pwd"}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if strings.TrimSpace(out) != tool.workDir {
		t.Errorf("pwd = %q, want %q", strings.TrimSpace(out), tool.workDir)
	}
}

// TestShellExecuteNonZeroExit tests that failures carry captured output
func TestShellExecuteNonZeroExit(t *testing.T) {
	tool := newShellTool(t, config.ShellToolConfig{})

	_, err := tool.Execute(`{"command": "echo partial; echo oops >&2; exit 3"}`)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "partial") {
		t.Errorf("error lacks captured stdout: %v", err)
	}
	if !strings.Contains(err.Error(), "oops") {
		t.Errorf("error lacks captured stderr: %v", err)
	}
}

// TestShellExecuteTimeout tests the hard timeout
func TestShellExecuteTimeout(t *testing.T) {
	tool := newShellTool(t, config.ShellToolConfig{TimeoutSeconds: 1})

	start := time.Now()
	_, err := tool.ExecuteWithContext(context.Background(), `{"command": "echo before; sleep 10"}`)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %v, want timeout message", err)
	}
	if !strings.Contains(err.Error(), "before") {
		t.Errorf("error lacks partial output: %v", err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("command not killed promptly, took %v", elapsed)
	}
}

// TestShellExecuteTruncation tests output truncation
func TestShellExecuteTruncation(t *testing.T) {
	tool := newShellTool(t, config.ShellToolConfig{MaxOutputBytes: 100})

	out, err := tool.Execute(`{"command": "head -c 1000 /dev/zero | tr '\\0' 'x'"}`)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out, "(output truncated)") {
		t.Errorf("output not marked truncated: %q", out)
	}
	if len(out) > 200 {
		t.Errorf("output too long after truncation: %d bytes", len(out))
	}
}

// TestShellExecuteBadArgs tests argument validation
func TestShellExecuteBadArgs(t *testing.T) {
	tool := newShellTool(t, config.ShellToolConfig{})

	tests := []struct {
		name string
		args string
	}{
		{"invalid json", `{`},
		{"missing command", `{}`},
		{"blank command", `{"command": "   "}`},
		{"unknown field", `{"cmd": "ls"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tool.Execute(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}
