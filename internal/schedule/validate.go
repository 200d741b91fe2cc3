// Package schedule defines schedule kinds and validates schedule
// expressions before they are queued to the host scheduler. Validation is
// synchronous and happens strictly before any IPC write: a request that
// fails here produces zero side effects.
package schedule

import (
	"fmt"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// Kind selects how a schedule value is interpreted.
type Kind string

const (
	// Calendar is a recurring 5- or 6-field cron expression.
	Calendar Kind = "calendar"
	// Interval is a recurring interval in milliseconds.
	Interval Kind = "interval"
	// OneShot is a single local-time timestamp without a UTC marker; the
	// host scheduler applies local-timezone semantics.
	OneShot Kind = "one_shot"
)

// calendarParser accepts standard 5-field cron expressions with an
// optional leading seconds field, plus descriptors like @hourly.
var calendarParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// oneShotLayouts are the accepted local-time layouts for one-shot tasks.
// None carries a zone: the value is deliberately unmarked and the host
// scheduler interprets it in local time.
var oneShotLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Validate checks value against the declared schedule kind.
func Validate(kind Kind, value string) error {
	switch kind {
	case Calendar:
		if _, err := calendarParser.Parse(value); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", value, err)
		}
		return nil

	case Interval:
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid interval %q: must be a positive integer of milliseconds", value)
		}
		return nil

	case OneShot:
		if _, err := ParseOneShot(value); err != nil {
			return err
		}
		return nil

	default:
		return fmt.Errorf("unknown schedule kind %q", kind)
	}
}

// ParseOneShot parses an unmarked local timestamp. Forcing UTC here would
// shift the fire time; the local-time interpretation is a contract with
// the host scheduler.
func ParseOneShot(value string) (time.Time, error) {
	for _, layout := range oneShotLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: expected local time like 2026-02-01T15:30:00", value)
}

// Describe renders a schedule in a short human-readable form for listings.
func Describe(kind Kind, value string) string {
	switch kind {
	case Calendar:
		return fmt.Sprintf("cron %q", value)
	case Interval:
		if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
			return fmt.Sprintf("every %s", time.Duration(ms)*time.Millisecond)
		}
		return fmt.Sprintf("every %sms", value)
	case OneShot:
		return fmt.Sprintf("once at %s", value)
	default:
		return value
	}
}
