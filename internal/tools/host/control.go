package host

import (
	"fmt"

	"github.com/aatumaykin/sandbot/internal/ipc"
)

// TaskControlTool implements the Tool interface for pausing, resuming or
// cancelling a scheduled task. The host decides whether the caller may
// control the given task; this tool only queues the intent.
type TaskControlTool struct {
	emitter *ipc.Emitter
}

// TaskControlArgs represents the arguments for the task_control tool.
type TaskControlArgs struct {
	Action string `json:"action"`  // pause, resume or cancel
	TaskID string `json:"task_id"` // id from the task listing
}

// NewTaskControlTool creates a new TaskControlTool instance.
func NewTaskControlTool(emitter *ipc.Emitter) *TaskControlTool {
	return &TaskControlTool{emitter: emitter}
}

// Name returns the tool name.
func (t *TaskControlTool) Name() string {
	return "task_control"
}

// Description returns a description of what the tool does.
func (t *TaskControlTool) Description() string {
	return "Pause, resume or cancel a scheduled task by id. Use list_tasks to find task ids."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *TaskControlTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"action": map[string]interface{}{
				"type":        "string",
				"description": "The control action to apply.",
				"enum":        []string{string(ipc.ControlPause), string(ipc.ControlResume), string(ipc.ControlCancel)},
			},
			"task_id": map[string]interface{}{
				"type":        "string",
				"description": "The id of the task, as shown by list_tasks.",
			},
		},
		"required": []string{"action", "task_id"},
	}
}

// Execute queues the control command.
func (t *TaskControlTool) Execute(args string) (string, error) {
	var ctlArgs TaskControlArgs
	if err := parseJSON(args, &ctlArgs); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if _, err := t.emitter.ControlTask(ipc.ControlKind(ctlArgs.Action), ctlArgs.TaskID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Requested %s of task %s.", ctlArgs.Action, ctlArgs.TaskID), nil
}

// ListTasksTool implements the Tool interface for listing the scheduled
// tasks visible to the caller from the host-maintained snapshot.
type ListTasksTool struct {
	reader   *ipc.SnapshotReader
	identity ipc.Identity
}

// NewListTasksTool creates a new ListTasksTool instance.
func NewListTasksTool(reader *ipc.SnapshotReader, identity ipc.Identity) *ListTasksTool {
	return &ListTasksTool{reader: reader, identity: identity}
}

// Name returns the tool name.
func (t *ListTasksTool) Name() string {
	return "list_tasks"
}

// Description returns a description of what the tool does.
func (t *ListTasksTool) Description() string {
	return "List the scheduled tasks visible to this conversation, with their ids, schedules and statuses."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *ListTasksTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// Execute renders the visible tasks.
func (t *ListTasksTool) Execute(args string) (string, error) {
	return t.reader.List(t.identity)
}
