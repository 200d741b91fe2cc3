package host

import (
	"fmt"

	"github.com/aatumaykin/sandbot/internal/ipc"
	"github.com/aatumaykin/sandbot/internal/schedule"
)

// ScheduleTaskTool implements the Tool interface for requesting a new
// scheduled task. The schedule expression is validated locally before
// anything is queued; the host owns the actual scheduler.
type ScheduleTaskTool struct {
	emitter *ipc.Emitter
}

// ScheduleTaskArgs represents the arguments for the schedule_task tool.
type ScheduleTaskArgs struct {
	Prompt         string `json:"prompt"`                    // prompt to run when the task fires
	Kind           string `json:"kind"`                      // calendar, interval or one_shot
	Value          string `json:"value"`                     // cron expression, interval in ms, or local timestamp
	ContextMode    string `json:"context_mode,omitempty"`    // with_history or isolated
	ConversationID string `json:"conversation_id,omitempty"` // target conversation (privileged callers only)
}

// NewScheduleTaskTool creates a new ScheduleTaskTool instance.
func NewScheduleTaskTool(emitter *ipc.Emitter) *ScheduleTaskTool {
	return &ScheduleTaskTool{emitter: emitter}
}

// Name returns the tool name.
func (t *ScheduleTaskTool) Name() string {
	return "schedule_task"
}

// Description returns a description of what the tool does.
func (t *ScheduleTaskTool) Description() string {
	return "Schedule a prompt to run later: on a cron expression, at a fixed interval in milliseconds, or once at a local timestamp."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *ScheduleTaskTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"prompt": map[string]interface{}{
				"type":        "string",
				"description": "The prompt to execute when the task fires.",
			},
			"kind": map[string]interface{}{
				"type":        "string",
				"description": "The schedule kind.",
				"enum":        []string{string(schedule.Calendar), string(schedule.Interval), string(schedule.OneShot)},
			},
			"value": map[string]interface{}{
				"type":        "string",
				"description": "The schedule value: a cron expression (e.g. */5 * * * *), an interval in milliseconds (e.g. 300000), or a local timestamp (e.g. 2026-02-01T15:30:00).",
			},
			"context_mode": map[string]interface{}{
				"type":        "string",
				"description": "Whether the task runs with the conversation history or isolated. Defaults to isolated.",
				"enum":        []string{string(ipc.ContextWithHistory), string(ipc.ContextIsolated)},
			},
			"conversation_id": map[string]interface{}{
				"type":        "string",
				"description": "Target conversation id. Ignored outside the main context.",
			},
		},
		"required": []string{"prompt", "kind", "value"},
	}
}

// Execute validates and queues the schedule request.
func (t *ScheduleTaskTool) Execute(args string) (string, error) {
	var schedArgs ScheduleTaskArgs
	if err := parseJSON(args, &schedArgs); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if _, err := t.emitter.ScheduleTask(ipc.ScheduleParams{
		Prompt:               schedArgs.Prompt,
		Kind:                 schedule.Kind(schedArgs.Kind),
		Value:                schedArgs.Value,
		ContextMode:          ipc.ContextMode(schedArgs.ContextMode),
		TargetConversationID: schedArgs.ConversationID,
	}); err != nil {
		return "", err
	}

	return fmt.Sprintf("Task scheduled: %s.", schedule.Describe(schedule.Kind(schedArgs.Kind), schedArgs.Value)), nil
}
