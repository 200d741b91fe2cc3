package ipc

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aatumaykin/sandbot/internal/schedule"
)

// promptPreviewLen bounds the prompt preview in task listings.
const promptPreviewLen = 60

var statusTitle = cases.Title(language.English)

// SnapshotReader reads the host-maintained task snapshot file. The file is
// refreshed by the host out of band; this component never writes it.
type SnapshotReader struct {
	path string
}

// NewSnapshotReader creates a reader for the given snapshot file path.
func NewSnapshotReader(path string) *SnapshotReader {
	return &SnapshotReader{path: path}
}

// Read returns the snapshot entries visible to the caller. A privileged
// caller sees all entries; everyone else sees only tasks owned by their
// own folder. A missing snapshot file is a normal state and yields an
// empty slice, not an error.
func (r *SnapshotReader) Read(identity Identity) ([]TaskSnapshotEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read task snapshot: %w", err)
	}

	var entries []TaskSnapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse task snapshot: %w", err)
	}

	if identity.Privileged {
		return entries, nil
	}

	var visible []TaskSnapshotEntry
	for _, entry := range entries {
		if entry.OwnerFolder == identity.Folder {
			visible = append(visible, entry)
		}
	}
	return visible, nil
}

// List renders the caller-visible tasks as human-readable text. The
// structured entries are not otherwise exposed through this operation.
func (r *SnapshotReader) List(identity Identity) (string, error) {
	entries, err := r.Read(identity)
	if err != nil {
		return "", err
	}

	if len(entries) == 0 {
		return "No scheduled tasks.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d scheduled task(s):\n", len(entries))
	for _, entry := range entries {
		fmt.Fprintf(&b, "- [%s] %s\n", entry.ID, previewPrompt(entry.Prompt))
		fmt.Fprintf(&b, "  schedule: %s | status: %s",
			schedule.Describe(entry.ScheduleKind, entry.ScheduleValue),
			statusTitle.String(entry.Status))
		if entry.NextRunAt != "" {
			fmt.Fprintf(&b, " | next run: %s", entry.NextRunAt)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func previewPrompt(prompt string) string {
	prompt = strings.ReplaceAll(prompt, "\n", " ")
	if len(prompt) <= promptPreviewLen {
		return prompt
	}
	cut := promptPreviewLen
	for cut > 0 && !utf8.RuneStart(prompt[cut]) {
		cut--
	}
	return prompt[:cut] + "..."
}
