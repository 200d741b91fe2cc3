package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCalendar(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"five-field expression", "*/5 * * * *", false},
		{"six-field expression with seconds", "0 */5 * * * *", false},
		{"descriptor", "@hourly", false},
		{"empty value", "", true},
		{"garbage", "not-a-cron", true},
		{"too many fields", "* * * * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Calendar, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.value)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateInterval(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"five minutes in ms", "300000", false},
		{"one millisecond", "1", false},
		{"zero", "0", true},
		{"negative", "-5", true},
		{"not a number", "abc", true},
		{"fractional", "1.5", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Interval, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOneShot(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"date time with seconds", "2026-02-01T15:30:00", false},
		{"date time without seconds", "2026-02-01T15:30", false},
		{"space separated", "2026-02-01 15:30:00", false},
		{"not a date", "not-a-date", true},
		{"empty", "", true},
		{"zoned timestamp rejected", "2026-02-01T15:30:00Z", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(OneShot, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUnknownKind(t *testing.T) {
	err := Validate(Kind("weekly"), "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekly")
}

// One-shot timestamps carry no zone marker; they are interpreted in the
// host's local time by contract.
func TestParseOneShotUsesLocalTime(t *testing.T) {
	ts, err := ParseOneShot("2026-02-01T15:30:00")
	require.NoError(t, err)

	want := time.Date(2026, 2, 1, 15, 30, 0, 0, time.Local)
	assert.True(t, ts.Equal(want), "got %v, want %v", ts, want)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, `cron "*/5 * * * *"`, Describe(Calendar, "*/5 * * * *"))
	assert.Equal(t, "every 5m0s", Describe(Interval, "300000"))
	assert.Equal(t, "once at 2026-02-01T15:30:00", Describe(OneShot, "2026-02-01T15:30:00"))
}
