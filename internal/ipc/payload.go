package ipc

import "github.com/aatumaykin/sandbot/internal/schedule"

// Payload type discriminators. Every file dropped into tasks/ carries a
// "type" field so the host can route it without guessing from the shape.
const (
	TypeMessage       = "message"
	TypeSchedule      = "schedule"
	TypeTaskControl   = "task_control"
	TypeRegisterGroup = "register_group"
)

// ContextMode selects the conversation context of a scheduled run.
type ContextMode string

const (
	// ContextWithHistory runs the task inside the target conversation's
	// session history.
	ContextWithHistory ContextMode = "with_history"
	// ContextIsolated runs the task with a fresh session.
	ContextIsolated ContextMode = "isolated"
)

// ControlKind enumerates task-control commands.
type ControlKind string

const (
	ControlPause  ControlKind = "pause"
	ControlResume ControlKind = "resume"
	ControlCancel ControlKind = "cancel"
)

// OutboundMessage is one message from the agent to a conversation,
// relayed by the host. Immutable once written; the host consumes and
// deletes it.
type OutboundMessage struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
	OriginFolder   string `json:"origin_folder"`
	CreatedAt      string `json:"created_at"`
}

// ScheduleRequest asks the host scheduler to register a new task.
type ScheduleRequest struct {
	Type                 string        `json:"type"`
	Prompt               string        `json:"prompt"`
	ScheduleKind         schedule.Kind `json:"schedule_kind"`
	ScheduleValue        string        `json:"schedule_value"`
	ContextMode          ContextMode   `json:"context_mode"`
	TargetConversationID string        `json:"target_conversation_id"`
	RequestingFolder     string        `json:"requesting_folder"`
	CreatedAt            string        `json:"created_at"`
}

// TaskControlCommand forwards a pause/resume/cancel intent for a task.
// Ownership of the task id is not verified here; the host owns the task
// registry and re-checks authorization on consumption.
type TaskControlCommand struct {
	Type                  string      `json:"type"`
	Kind                  ControlKind `json:"kind"`
	TaskID                string      `json:"task_id"`
	RequestingFolder      string      `json:"requesting_folder"`
	RequesterIsPrivileged bool        `json:"requester_is_privileged"`
	CreatedAt             string      `json:"created_at"`
}

// GroupRegistration registers a new conversation with the host. Only the
// privileged main context may emit it.
type GroupRegistration struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	DisplayName    string `json:"display_name"`
	FolderName     string `json:"folder_name"`
	TriggerToken   string `json:"trigger_token"`
	CreatedAt      string `json:"created_at"`
}

// TaskSnapshotEntry is one task in the host-produced snapshot file. The
// agent only reads and filters these; it never mutates them.
type TaskSnapshotEntry struct {
	ID            string        `json:"id"`
	Prompt        string        `json:"prompt"`
	ScheduleKind  schedule.Kind `json:"schedule_kind"`
	ScheduleValue string        `json:"schedule_value"`
	Status        string        `json:"status"`
	NextRunAt     string        `json:"next_run_at"`
	OwnerFolder   string        `json:"owner_folder"`
}
