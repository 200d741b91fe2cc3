package host

import (
	"fmt"

	"github.com/aatumaykin/sandbot/internal/ipc"
)

// RegisterGroupTool implements the Tool interface for registering a group
// conversation with its own agent folder. Only the main context may use
// it; elsewhere the emitter rejects the call.
type RegisterGroupTool struct {
	emitter *ipc.Emitter
}

// RegisterGroupArgs represents the arguments for the register_group tool.
type RegisterGroupArgs struct {
	ConversationID string `json:"conversation_id"`         // group conversation id
	DisplayName    string `json:"display_name,omitempty"`  // human-readable group name
	FolderName     string `json:"folder_name"`             // agent folder to create for the group
	TriggerToken   string `json:"trigger_token,omitempty"` // token that activates the agent in the group
}

// NewRegisterGroupTool creates a new RegisterGroupTool instance.
func NewRegisterGroupTool(emitter *ipc.Emitter) *RegisterGroupTool {
	return &RegisterGroupTool{emitter: emitter}
}

// Name returns the tool name.
func (t *RegisterGroupTool) Name() string {
	return "register_group"
}

// Description returns a description of what the tool does.
func (t *RegisterGroupTool) Description() string {
	return "Register a group conversation with its own agent folder and trigger token. Only available from the main conversation."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *RegisterGroupTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"conversation_id": map[string]interface{}{
				"type":        "string",
				"description": "The id of the group conversation to register.",
			},
			"display_name": map[string]interface{}{
				"type":        "string",
				"description": "Human-readable name for the group.",
			},
			"folder_name": map[string]interface{}{
				"type":        "string",
				"description": "The agent folder to create for the group.",
			},
			"trigger_token": map[string]interface{}{
				"type":        "string",
				"description": "Token that activates the agent in the group chat.",
			},
		},
		"required": []string{"conversation_id", "folder_name"},
	}
}

// Execute queues the registration.
func (t *RegisterGroupTool) Execute(args string) (string, error) {
	var regArgs RegisterGroupArgs
	if err := parseJSON(args, &regArgs); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if _, err := t.emitter.RegisterGroup(regArgs.ConversationID, regArgs.DisplayName, regArgs.FolderName, regArgs.TriggerToken); err != nil {
		return "", err
	}
	return fmt.Sprintf("Group %s registered with folder %s.", regArgs.ConversationID, regArgs.FolderName), nil
}
