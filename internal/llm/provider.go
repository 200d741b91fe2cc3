package llm

import (
	"context"
)

// Provider defines the interface for chat-completion providers. The agent
// loop drives any endpoint that speaks the standard chat-completions wire
// contract through this interface.
type Provider interface {
	// Chat sends a chat completion request and returns the model's reply.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// SupportsToolCalling reports whether tool definitions should be sent.
	SupportsToolCalling() bool

	// GetDefaultModel returns the model identifier used when the request
	// leaves Model empty.
	GetDefaultModel() string
}

// Role represents the role of a message sender in the conversation.
type Role string

const (
	RoleSystem    Role = "system"    // system message provides context/instructions
	RoleUser      Role = "user"      // user input
	RoleAssistant Role = "assistant" // model response
	RoleTool      Role = "tool"      // tool execution result
)

// Message represents a single turn in the conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolCalls is set on assistant turns that request tool invocations.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID ties a RoleTool result back to its originating call.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// FinishReason indicates why the model stopped generating tokens.
type FinishReason string

const (
	FinishReasonStop      FinishReason = "stop"
	FinishReasonLength    FinishReason = "length"
	FinishReasonToolCalls FinishReason = "tool_calls"
	FinishReasonError     FinishReason = "error"
)

// ToolCall represents a tool invocation requested by the model.
type ToolCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Arguments is a JSON string containing the call arguments.
	Arguments string `json:"arguments"`
}

// Usage tracks token usage for a request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatRequest is a request to the completion endpoint.
type ChatRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`

	// Tools is the merged tool catalog offered to the model.
	Tools []ToolDefinition `json:"tools,omitempty"`
}

// ToolDefinition defines one callable tool in function-calling format.
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Parameters is a JSON Schema object describing the input parameters.
	Parameters map[string]interface{} `json:"parameters"`
}

// ChatResponse is a provider response.
type ChatResponse struct {
	Content      string       `json:"content"`
	FinishReason FinishReason `json:"finish_reason"`
	ToolCalls    []ToolCall   `json:"tool_calls"`
	Usage        Usage        `json:"usage"`

	// Model is the model that actually served the completion.
	Model string `json:"model"`
}
