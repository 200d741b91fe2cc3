// Package host provides the tools backed by the host IPC mailbox:
// sending messages, scheduling tasks, controlling scheduled tasks,
// listing the task snapshot and registering group conversations. These
// tools never act directly; they queue payloads for the trusted host.
package host

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aatumaykin/sandbot/internal/ipc"
)

// parseJSON is a helper function to parse JSON arguments.
func parseJSON(jsonStr string, v interface{}) error {
	decoder := json.NewDecoder(strings.NewReader(jsonStr))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// SendMessageTool implements the Tool interface for queuing an outbound
// chat message through the host relay.
type SendMessageTool struct {
	emitter *ipc.Emitter
}

// SendMessageArgs represents the arguments for the send_message tool.
type SendMessageArgs struct {
	Text           string `json:"text"`                      // message text
	ConversationID string `json:"conversation_id,omitempty"` // target conversation (privileged callers only)
}

// NewSendMessageTool creates a new SendMessageTool instance.
func NewSendMessageTool(emitter *ipc.Emitter) *SendMessageTool {
	return &SendMessageTool{emitter: emitter}
}

// Name returns the tool name.
func (t *SendMessageTool) Name() string {
	return "send_message"
}

// Description returns a description of what the tool does.
func (t *SendMessageTool) Description() string {
	return "Send a chat message to the user. The message is delivered asynchronously by the host."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *SendMessageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text": map[string]interface{}{
				"type":        "string",
				"description": "The message text to send.",
			},
			"conversation_id": map[string]interface{}{
				"type":        "string",
				"description": "Target conversation id. Ignored outside the main context; defaults to the current conversation.",
			},
		},
		"required": []string{"text"},
	}
}

// Execute queues the message.
func (t *SendMessageTool) Execute(args string) (string, error) {
	var msgArgs SendMessageArgs
	if err := parseJSON(args, &msgArgs); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if _, err := t.emitter.SendMessage(msgArgs.ConversationID, msgArgs.Text); err != nil {
		return "", err
	}
	return "Message queued for delivery.", nil
}
