// Package config provides configuration loading and validation for sandbot.
// It supports JSON, TOML and YAML configuration files (selected by file
// extension) with environment variable fallback, default values and
// validation.
//
// Configuration structure:
//   - [workspace]: sandbox root directory
//   - [identity]: caller identity for IPC (folder, conversation, privilege)
//   - [agent]: model and loop behaviour
//   - [llm]: provider endpoint and credentials
//   - [logging]: logging level, format and output
//   - [tools]: tool configuration (shell, fetch)
//   - [ipc]: IPC mailbox directory
//
// Environment fallback: SANDBOT_API_KEY / OPENAI_API_KEY,
// SANDBOT_BASE_URL / OPENAI_BASE_URL and SANDBOT_MODEL are consulted for
// any provider setting the file leaves empty.
package config

// Config represents the main application configuration.
type Config struct {
	Workspace WorkspaceConfig `json:"workspace" toml:"workspace" yaml:"workspace"`
	Identity  IdentityConfig  `json:"identity" toml:"identity" yaml:"identity"`
	Agent     AgentConfig     `json:"agent" toml:"agent" yaml:"agent"`
	LLM       LLMConfig       `json:"llm" toml:"llm" yaml:"llm"`
	Logging   LoggingConfig   `json:"logging" toml:"logging" yaml:"logging"`
	Tools     ToolsConfig     `json:"tools" toml:"tools" yaml:"tools"`
	IPC       IPCConfig       `json:"ipc" toml:"ipc" yaml:"ipc"`
}

// WorkspaceConfig configures the sandbox root directory.
type WorkspaceConfig struct {
	Path string `json:"path" toml:"path" yaml:"path"`
}

// IdentityConfig describes the caller identity used for IPC payloads.
// The main conversation context is privileged: it may target other
// conversations and register new groups.
type IdentityConfig struct {
	Folder         string `json:"folder" toml:"folder" yaml:"folder"`
	ConversationID string `json:"conversation_id" toml:"conversation_id" yaml:"conversation_id"`
	Main           bool   `json:"main" toml:"main" yaml:"main"`
}

// Privileged reports whether this identity runs in the main conversation
// context.
func (c IdentityConfig) Privileged() bool {
	return c.Main || c.Folder == MainFolder
}

// MainFolder is the distinguished folder name of the privileged main
// conversation.
const MainFolder = "main"

// AgentConfig configures the tool-calling session loop.
type AgentConfig struct {
	Model       string  `json:"model" toml:"model" yaml:"model"`
	MaxTokens   int     `json:"max_tokens" toml:"max_tokens" yaml:"max_tokens"`
	MaxRounds   int     `json:"max_rounds" toml:"max_rounds" yaml:"max_rounds"`
	Temperature float64 `json:"temperature" toml:"temperature" yaml:"temperature"`
}

// LLMConfig configures the chat-completions provider.
type LLMConfig struct {
	APIKey         string `json:"api_key" toml:"api_key" yaml:"api_key"`
	BaseURL        string `json:"base_url" toml:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `json:"level" toml:"level" yaml:"level"`
	Format string `json:"format" toml:"format" yaml:"format"`
	Output string `json:"output" toml:"output" yaml:"output"`
}

// ToolsConfig groups per-tool configuration.
type ToolsConfig struct {
	Shell ShellToolConfig `json:"shell" toml:"shell" yaml:"shell"`
	Fetch FetchToolConfig `json:"fetch" toml:"fetch" yaml:"fetch"`
}

// ShellToolConfig configures the shell execution tool.
type ShellToolConfig struct {
	TimeoutSeconds int `json:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds"`
	MaxOutputBytes int `json:"max_output_bytes" toml:"max_output_bytes" yaml:"max_output_bytes"`
}

// FetchToolConfig configures the web fetch tool.
type FetchToolConfig struct {
	TimeoutSeconds   int    `json:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds"`
	MaxResponseBytes int    `json:"max_response_bytes" toml:"max_response_bytes" yaml:"max_response_bytes"`
	UserAgent        string `json:"user_agent" toml:"user_agent" yaml:"user_agent"`
}

// IPCConfig configures the file-drop mailbox shared with the host.
type IPCConfig struct {
	Dir string `json:"dir" toml:"dir" yaml:"dir"`
}
