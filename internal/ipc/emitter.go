package ipc

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/aatumaykin/sandbot/internal/logger"
	"github.com/aatumaykin/sandbot/internal/metrics"
	"github.com/aatumaykin/sandbot/internal/schedule"
)

// Identity describes the caller on whose behalf payloads are emitted.
// A non-privileged identity may only target its own conversation; the
// privileged main context may target any conversation and register new
// groups.
type Identity struct {
	Folder         string
	ConversationID string
	Privileged     bool
}

// Emitter builds typed IPC payloads and publishes them through the atomic
// writer. The privilege gate here is advisory only: the host re-validates
// every consumed payload, since a compromised sandbox could write to the
// directory without going through this code.
type Emitter struct {
	dir      string
	identity Identity
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

// NewEmitter creates an Emitter rooted at the IPC directory.
func NewEmitter(dir string, identity Identity, log *logger.Logger, m *metrics.Metrics) *Emitter {
	return &Emitter{
		dir:      dir,
		identity: identity,
		logger:   log,
		metrics:  m,
	}
}

// Identity returns the caller identity this emitter was built with.
func (e *Emitter) Identity() Identity {
	return e.identity
}

// SnapshotPath returns the path of the host-maintained task snapshot.
func (e *Emitter) SnapshotPath() string {
	return filepath.Join(e.dir, SnapshotFilename)
}

func (e *Emitter) messagesDir() string {
	return filepath.Join(e.dir, MessagesSubdir)
}

func (e *Emitter) tasksDir() string {
	return filepath.Join(e.dir, TasksSubdir)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// SendMessage publishes an outbound message for the host relay. A
// non-privileged caller always sends to its own conversation: the supplied
// target is rewritten, never trusted. Returns the generated file name as a
// human-readable receipt.
func (e *Emitter) SendMessage(targetConversationID, text string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("message text is empty")
	}

	target := targetConversationID
	if !e.identity.Privileged || target == "" {
		target = e.identity.ConversationID
	}

	name, err := WriteAtomic(e.messagesDir(), OutboundMessage{
		Type:           TypeMessage,
		ConversationID: target,
		Text:           text,
		OriginFolder:   e.identity.Folder,
		CreatedAt:      now(),
	})
	if err != nil {
		return "", err
	}

	e.metrics.RecordIPCWrite(TypeMessage)
	e.logger.Debug("outbound message queued",
		logger.Field{Key: "file", Value: name},
		logger.Field{Key: "conversation_id", Value: target})

	return name, nil
}

// ScheduleParams carries the caller-supplied fields of a schedule request.
type ScheduleParams struct {
	Prompt               string
	Kind                 schedule.Kind
	Value                string
	ContextMode          ContextMode
	TargetConversationID string
}

// ScheduleTask validates the schedule expression and publishes a
// ScheduleRequest. Validation failure produces no IPC side effect. For a
// non-privileged caller the target conversation is forced to the caller's
// own conversation id at construction time, regardless of what was
// supplied.
func (e *Emitter) ScheduleTask(p ScheduleParams) (string, error) {
	if p.Prompt == "" {
		return "", fmt.Errorf("task prompt is empty")
	}
	if err := schedule.Validate(p.Kind, p.Value); err != nil {
		return "", err
	}
	switch p.ContextMode {
	case "":
		p.ContextMode = ContextIsolated
	case ContextWithHistory, ContextIsolated:
	default:
		return "", fmt.Errorf("unknown context mode %q", p.ContextMode)
	}

	target := p.TargetConversationID
	if !e.identity.Privileged || target == "" {
		target = e.identity.ConversationID
	}

	name, err := WriteAtomic(e.tasksDir(), ScheduleRequest{
		Type:                 TypeSchedule,
		Prompt:               p.Prompt,
		ScheduleKind:         p.Kind,
		ScheduleValue:        p.Value,
		ContextMode:          p.ContextMode,
		TargetConversationID: target,
		RequestingFolder:     e.identity.Folder,
		CreatedAt:            now(),
	})
	if err != nil {
		return "", err
	}

	e.metrics.RecordIPCWrite(TypeSchedule)
	e.logger.Debug("schedule request queued",
		logger.Field{Key: "file", Value: name},
		logger.Field{Key: "kind", Value: string(p.Kind)},
		logger.Field{Key: "value", Value: p.Value})

	return name, nil
}

// ControlTask publishes a pause/resume/cancel command. Whether this folder
// may control the task id is decided by the host, which owns the task
// registry; this component only forwards the intent together with the
// requester's privilege level.
func (e *Emitter) ControlTask(kind ControlKind, taskID string) (string, error) {
	switch kind {
	case ControlPause, ControlResume, ControlCancel:
	default:
		return "", fmt.Errorf("unknown task control kind %q", kind)
	}
	if taskID == "" {
		return "", fmt.Errorf("task id is empty")
	}

	name, err := WriteAtomic(e.tasksDir(), TaskControlCommand{
		Type:                  TypeTaskControl,
		Kind:                  kind,
		TaskID:                taskID,
		RequestingFolder:      e.identity.Folder,
		RequesterIsPrivileged: e.identity.Privileged,
		CreatedAt:             now(),
	})
	if err != nil {
		return "", err
	}

	e.metrics.RecordIPCWrite(TypeTaskControl)
	e.logger.Debug("task control queued",
		logger.Field{Key: "file", Value: name},
		logger.Field{Key: "kind", Value: string(kind)},
		logger.Field{Key: "task_id", Value: taskID})

	return name, nil
}

// RegisterGroup publishes a group registration. Only the privileged main
// context may do this; a non-privileged caller gets an explicit rejection,
// not a silent no-op.
func (e *Emitter) RegisterGroup(conversationID, displayName, folderName, triggerToken string) (string, error) {
	if !e.identity.Privileged {
		return "", fmt.Errorf("group registration requires the main conversation context; folder %q is not privileged", e.identity.Folder)
	}
	if conversationID == "" {
		return "", fmt.Errorf("conversation id is empty")
	}
	if folderName == "" {
		return "", fmt.Errorf("folder name is empty")
	}

	name, err := WriteAtomic(e.tasksDir(), GroupRegistration{
		Type:           TypeRegisterGroup,
		ConversationID: conversationID,
		DisplayName:    displayName,
		FolderName:     folderName,
		TriggerToken:   triggerToken,
		CreatedAt:      now(),
	})
	if err != nil {
		return "", err
	}

	e.metrics.RecordIPCWrite(TypeRegisterGroup)
	e.logger.Debug("group registration queued",
		logger.Field{Key: "file", Value: name},
		logger.Field{Key: "conversation_id", Value: conversationID})

	return name, nil
}
