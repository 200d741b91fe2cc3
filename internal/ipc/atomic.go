// Package ipc implements the file-drop mailbox between the sandboxed agent
// and the trusted host process. The agent's only channel to the host is the
// file system: outbound messages and task commands are published as JSON
// files into host-watched directories, and the host's task registry is read
// back through a snapshot file.
//
// Directory layout under the IPC root:
//
//	messages/           one JSON file per outbound message
//	tasks/              one JSON file per schedule request / task command
//	current_tasks.json  host-maintained task snapshot (read-only here)
//
// Files are named <epoch-ms>-<random6>.json: the timestamp gives consumers
// an approximate chronological ordering from a plain directory sort, and
// the random suffix keeps concurrent writers from independent processes
// collision-free without any cross-process lock.
package ipc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MessagesSubdir holds outbound message payloads.
	MessagesSubdir = "messages"
	// TasksSubdir holds schedule requests and task-control payloads.
	TasksSubdir = "tasks"
	// SnapshotFilename is the host-maintained task snapshot.
	SnapshotFilename = "current_tasks.json"
)

// fileName builds a collision-resistant payload file name.
func fileName(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%d-%s.json", now.UnixMilli(), suffix)
}

// WriteAtomic serializes the payload and publishes it into dir under a
// generated name. The payload is first written to a staging file in the
// same directory and then renamed; a reader listing dir never observes a
// partially written file. Returns the final file name.
func WriteAtomic(dir string, payload any) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create IPC directory %s: %w", dir, err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal IPC payload: %w", err)
	}

	name := fileName(time.Now())
	finalPath := filepath.Join(dir, name)
	stagingPath := filepath.Join(dir, "."+name+".tmp")

	if err := os.WriteFile(stagingPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write IPC staging file: %w", err)
	}

	if err := os.Rename(stagingPath, finalPath); err != nil {
		os.Remove(stagingPath)
		return "", fmt.Errorf("failed to publish IPC file %s: %w", name, err)
	}

	return name, nil
}
