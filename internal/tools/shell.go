package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/aatumaykin/sandbot/internal/config"
	"github.com/aatumaykin/sandbot/internal/logger"
)

// ShellExecTool implements the Tool interface for executing shell commands
// inside the sandbox: fixed working directory, hard wall-clock timeout and
// a bounded output buffer.
type ShellExecTool struct {
	workDir string
	cfg     config.ShellToolConfig
	logger  *logger.Logger
}

// ShellExecArgs represents the arguments for the shell_exec tool.
type ShellExecArgs struct {
	Command string `json:"command"` // shell command to execute
}

// NewShellExecTool creates a new ShellExecTool rooted at workDir.
func NewShellExecTool(workDir string, cfg config.ShellToolConfig, log *logger.Logger) *ShellExecTool {
	return &ShellExecTool{
		workDir: workDir,
		cfg:     cfg,
		logger:  log,
	}
}

// Name returns the tool name.
func (t *ShellExecTool) Name() string {
	return "shell_exec"
}

// Description returns a description of what the tool does.
func (t *ShellExecTool) Description() string {
	return "Execute a shell command in the sandbox working directory. Output is truncated to a configured limit; commands are killed after a hard timeout."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *ShellExecTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"command": map[string]interface{}{
				"type":        "string",
				"description": "The shell command to execute. Examples: ls -la, cat notes.txt, grep -r TODO .",
			},
		},
		"required": []string{"command"},
	}
}

// Execute executes a shell command.
func (t *ShellExecTool) Execute(args string) (string, error) {
	return t.ExecuteWithContext(context.Background(), args)
}

// ExecuteWithContext executes a shell command with context support. On
// timeout or non-zero exit, the captured partial stdout/stderr is part of
// the returned error text so the caller can diagnose the failure.
func (t *ShellExecTool) ExecuteWithContext(ctx context.Context, args string) (string, error) {
	var shellArgs ShellExecArgs
	if err := parseJSON(args, &shellArgs); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	shellArgs.Command = strings.TrimSpace(shellArgs.Command)
	if shellArgs.Command == "" {
		return "", fmt.Errorf("command is required")
	}

	timeout := time.Duration(t.cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	t.logger.Debug("executing shell command",
		logger.Field{Key: "command", Value: shellArgs.Command})

	cmd := exec.CommandContext(execCtx, "sh", "-c", shellArgs.Command)
	cmd.Dir = t.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := t.truncate(stdout.String())
	errOutput := t.truncate(stderr.String())

	if execCtx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("command timed out after %v\nstdout:\n%s\nstderr:\n%s",
			timeout, output, errOutput)
	}
	if err != nil {
		return "", fmt.Errorf("command failed: %v\nstdout:\n%s\nstderr:\n%s",
			err, output, errOutput)
	}

	result := output
	if errOutput != "" {
		result += "\n" + errOutput
	}
	if strings.TrimSpace(result) == "" {
		result = "(no output)"
	}
	return result, nil
}

// truncate bounds captured output to the configured limit.
func (t *ShellExecTool) truncate(s string) string {
	max := t.cfg.MaxOutputBytes
	if max <= 0 {
		max = 64 * 1024
	}
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... (output truncated)"
}
