package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Tool defines the interface that all tools must implement.
// A tool represents a function that can be called by the LLM agent.
type Tool interface {
	// Name returns the unique name of the tool. This name identifies the
	// tool in the function calling API.
	Name() string

	// Description returns a human-readable description of what the tool
	// does, helping the model decide when to use it.
	Description() string

	// Parameters returns a JSON Schema object describing the tool's input
	// parameters, in function calling format.
	Parameters() map[string]interface{}

	// Execute runs the tool. args is a JSON-encoded string containing the
	// tool's input parameters.
	Execute(args string) (string, error)
}

// ContextualTool is an optional interface for tools that take an execution
// context. When implemented, ExecuteWithContext is called instead of
// Execute.
type ContextualTool interface {
	Tool

	// ExecuteWithContext runs the tool with cancellation/deadline support.
	ExecuteWithContext(ctx context.Context, args string) (string, error)
}

// Registry manages the collection of available tools. Tools are registered
// once per invocation from two sources (IPC-backed tools and sandboxed
// filesystem/shell/web tools) and merged into one lookup table keyed by
// name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. Names must be unique across all
// sources; a duplicate registration is an error.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("cannot register nil tool")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q is already registered", name)
	}

	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// ToSchema converts the registered tools to function-calling definitions
// suitable for a chat-completions request.
func (r *Registry) ToSchema() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		schemas = append(schemas, ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return schemas
}

// ToolDefinition represents a tool definition in function calling format.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolCall represents a tool call request from the model.
type ToolCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Arguments is a JSON string containing the tool's input parameters.
	Arguments string `json:"arguments"`
}

// ToolResult represents the result of executing a tool.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	Error      string `json:"error,omitempty"`
}

// ExecuteToolCall resolves and executes one tool call. Execution failures,
// including an unknown tool name, are captured in the result's Error field
// rather than returned as a fault, so the conversation can continue.
func ExecuteToolCall(ctx context.Context, registry *Registry, tc ToolCall) ToolResult {
	tool, ok := registry.Get(tc.Name)
	if !ok {
		return ToolResult{
			ToolCallID: tc.ID,
			Error:      fmt.Sprintf("unknown tool: %s", tc.Name),
		}
	}

	var (
		res string
		err error
	)
	if contextual, ok := tool.(ContextualTool); ok {
		res, err = contextual.ExecuteWithContext(ctx, tc.Arguments)
	} else {
		res, err = tool.Execute(tc.Arguments)
	}

	if err != nil {
		return ToolResult{
			ToolCallID: tc.ID,
			Error:      err.Error(),
		}
	}

	return ToolResult{
		ToolCallID: tc.ID,
		Content:    res,
	}
}

// ToJSON renders the tool definitions as JSON, for debugging and logging.
func (r *Registry) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r.ToSchema(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schemas: %w", err)
	}
	return string(data), nil
}
