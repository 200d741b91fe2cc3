package ipc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/sandbot/internal/logger"
	"github.com/aatumaykin/sandbot/internal/schedule"
)

func newTestEmitter(t *testing.T, identity Identity) (*Emitter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewEmitter(dir, identity, logger.NewNop(), nil), dir
}

func readSinglePayload[T any](t *testing.T, dir string) T {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "expected exactly one payload file")

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var payload T
	require.NoError(t, json.Unmarshal(data, &payload))
	return payload
}

func TestSendMessageRewritesTargetForUnprivileged(t *testing.T) {
	e, dir := newTestEmitter(t, Identity{Folder: "group-dev", ConversationID: "c-dev"})

	_, err := e.SendMessage("c-someone-else", "hi")
	require.NoError(t, err)

	msg := readSinglePayload[OutboundMessage](t, filepath.Join(dir, MessagesSubdir))
	assert.Equal(t, "c-dev", msg.ConversationID, "unprivileged target must be rewritten")
	assert.Equal(t, "group-dev", msg.OriginFolder)
	assert.NotEmpty(t, msg.CreatedAt)
}

func TestSendMessagePrivilegedKeepsTarget(t *testing.T) {
	e, dir := newTestEmitter(t, Identity{Folder: "main", ConversationID: "c-main", Privileged: true})

	_, err := e.SendMessage("c-other", "hi")
	require.NoError(t, err)

	msg := readSinglePayload[OutboundMessage](t, filepath.Join(dir, MessagesSubdir))
	assert.Equal(t, "c-other", msg.ConversationID)
}

func TestSendMessagePrivilegedEmptyTargetDefaults(t *testing.T) {
	e, dir := newTestEmitter(t, Identity{Folder: "main", ConversationID: "c-main", Privileged: true})

	_, err := e.SendMessage("", "hi")
	require.NoError(t, err)

	msg := readSinglePayload[OutboundMessage](t, filepath.Join(dir, MessagesSubdir))
	assert.Equal(t, "c-main", msg.ConversationID)
}

func TestSendMessageEmptyText(t *testing.T) {
	e, dir := newTestEmitter(t, Identity{Folder: "main", ConversationID: "c-main", Privileged: true})

	_, err := e.SendMessage("c-main", "")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, MessagesSubdir))
	assert.True(t, os.IsNotExist(statErr), "rejected message must not create files")
}

func TestScheduleTask(t *testing.T) {
	e, dir := newTestEmitter(t, Identity{Folder: "group-dev", ConversationID: "c-dev"})

	_, err := e.ScheduleTask(ScheduleParams{
		Prompt:               "check the backups",
		Kind:                 schedule.Calendar,
		Value:                "*/5 * * * *",
		TargetConversationID: "c-elsewhere",
	})
	require.NoError(t, err)

	req := readSinglePayload[ScheduleRequest](t, filepath.Join(dir, TasksSubdir))
	assert.Equal(t, TypeSchedule, req.Type)
	assert.Equal(t, schedule.Calendar, req.ScheduleKind)
	assert.Equal(t, "c-dev", req.TargetConversationID, "unprivileged target must be forced")
	assert.Equal(t, ContextIsolated, req.ContextMode, "context mode defaults to isolated")
	assert.Equal(t, "group-dev", req.RequestingFolder)
}

func TestScheduleTaskInvalidExpressionNoSideEffect(t *testing.T) {
	e, dir := newTestEmitter(t, Identity{Folder: "main", ConversationID: "c-main", Privileged: true})

	tests := []struct {
		name   string
		params ScheduleParams
	}{
		{"bad cron", ScheduleParams{Prompt: "p", Kind: schedule.Calendar, Value: "not-a-cron"}},
		{"negative interval", ScheduleParams{Prompt: "p", Kind: schedule.Interval, Value: "-5"}},
		{"bad timestamp", ScheduleParams{Prompt: "p", Kind: schedule.OneShot, Value: "not-a-date"}},
		{"unknown kind", ScheduleParams{Prompt: "p", Kind: schedule.Kind("weekly"), Value: "x"}},
		{"unknown context mode", ScheduleParams{Prompt: "p", Kind: schedule.Interval, Value: "1000", ContextMode: ContextMode("shared")}},
		{"empty prompt", ScheduleParams{Kind: schedule.Interval, Value: "1000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ScheduleTask(tt.params)
			require.Error(t, err)
		})
	}

	_, statErr := os.Stat(filepath.Join(dir, TasksSubdir))
	assert.True(t, os.IsNotExist(statErr), "rejected schedules must not create files")
}

func TestScheduleTaskKeepsExplicitContextMode(t *testing.T) {
	e, dir := newTestEmitter(t, Identity{Folder: "main", ConversationID: "c-main", Privileged: true})

	_, err := e.ScheduleTask(ScheduleParams{
		Prompt:      "summarize the thread",
		Kind:        schedule.Interval,
		Value:       "60000",
		ContextMode: ContextWithHistory,
	})
	require.NoError(t, err)

	req := readSinglePayload[ScheduleRequest](t, filepath.Join(dir, TasksSubdir))
	assert.Equal(t, ContextWithHistory, req.ContextMode)
}

func TestControlTaskForwardsPrivilege(t *testing.T) {
	e, dir := newTestEmitter(t, Identity{Folder: "group-dev", ConversationID: "c-dev"})

	_, err := e.ControlTask(ControlCancel, "task-9")
	require.NoError(t, err)

	cmd := readSinglePayload[TaskControlCommand](t, filepath.Join(dir, TasksSubdir))
	assert.Equal(t, TypeTaskControl, cmd.Type)
	assert.Equal(t, ControlCancel, cmd.Kind)
	assert.Equal(t, "task-9", cmd.TaskID)
	assert.Equal(t, "group-dev", cmd.RequestingFolder)
	assert.False(t, cmd.RequesterIsPrivileged)
}

func TestControlTaskRejectsUnknownKind(t *testing.T) {
	e, _ := newTestEmitter(t, Identity{Folder: "main", Privileged: true})

	_, err := e.ControlTask(ControlKind("restart"), "task-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restart")
}

func TestRegisterGroupRequiresPrivilege(t *testing.T) {
	e, dir := newTestEmitter(t, Identity{Folder: "group-dev", ConversationID: "c-dev"})

	_, err := e.RegisterGroup("c-new", "New Group", "group-new", "@bot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group-dev")

	_, statErr := os.Stat(filepath.Join(dir, TasksSubdir))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRegisterGroupPrivileged(t *testing.T) {
	e, dir := newTestEmitter(t, Identity{Folder: "main", ConversationID: "c-main", Privileged: true})

	_, err := e.RegisterGroup("c-new", "New Group", "group-new", "@bot")
	require.NoError(t, err)

	reg := readSinglePayload[GroupRegistration](t, filepath.Join(dir, TasksSubdir))
	assert.Equal(t, TypeRegisterGroup, reg.Type)
	assert.Equal(t, "c-new", reg.ConversationID)
	assert.Equal(t, "group-new", reg.FolderName)
	assert.Equal(t, "@bot", reg.TriggerToken)
}
