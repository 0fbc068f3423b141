package taskparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskbot/internal/task"
	"github.com/kazz187/taskbot/pkg/cerr"
)

var now = time.Date(2025, time.June, 10, 15, 30, 0, 0, time.UTC)

func TestParse_Examples(t *testing.T) {
	got, err := Parse("Prepare the presentation for 987654321 by tomorrow.", now)
	require.NoError(t, err)
	assert.Equal(t, int64(987654321), got.UserID)
	assert.Equal(t, task.Deadline("2025-06-11"), got.Deadline)
	assert.False(t, got.Done)
	assert.NotContains(t, got.Text, "by")
	assert.NotContains(t, got.Text, "tomorrow")
	assert.Equal(t, "Prepare the presentation for .", got.Text)

	got, err = Parse("New project for 123456789 by 15/12/2025: Finish the report.", now)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), got.UserID)
	assert.Equal(t, task.Deadline("2025-12-15"), got.Deadline)
	assert.Equal(t, "New for Finish the report.", got.Text)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"no digits", "no id here", ErrMissingUserID},
		{"too short", "call 1234 now", ErrMissingUserID},
		{"glued to letters", "ping abc12345", ErrMissingUserID},
		{"only id", "12345", ErrEmptyDescription},
		{"only fillers", "task for user 12345 by tomorrow", ErrEmptyDescription},
		{"only deadline", "55555 by 2025-07-01 :", ErrEmptyDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text, now)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
			assert.NotEmpty(t, cerr.MessageOf(err, ""))
		})
	}
}

func TestParse_Deadlines(t *testing.T) {
	tests := []struct {
		text         string
		wantDeadline task.Deadline
		wantText     string
	}{
		{"Write docs for 55555 by 2025-07-04", "2025-07-04", "Write docs for"},
		{"Write docs for 55555 by 2025/7/4", "2025-07-04", "Write docs for"},
		{"Write docs for 55555 by 4-7-2025", "2025-07-04", "Write docs for"},
		{"Write docs for 55555 by 12/31/2025", "2025-12-31", "Write docs for"},
		{"Write docs for 55555 by 31/02/2025", "", "Write docs for"},
		{"Write docs for 55555 by Today", "2025-06-10", "Write docs for"},
		{"Write docs for 55555 BY next week", "2025-06-17", "Write docs for"},
		{"Write docs for 55555 by next month", "2025-07-10", "Write docs for"},
		{"Write docs for 55555 by next year", "2026-06-10", "Write docs for"},
		{"Ship it 3 march 2026 to 55555", "2026-03-03", "Ship it to"},
		{"Write docs for 55555 sometime", "", "Write docs for sometime"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Parse(tt.text, now)
			require.NoError(t, err)
			assert.Equal(t, int64(55555), got.UserID)
			assert.Equal(t, tt.wantDeadline, got.Deadline)
			assert.Equal(t, tt.wantText, got.Text)
		})
	}
}

func TestParse_UserID(t *testing.T) {
	got, err := Parse("Call 1234 about 99999", now)
	require.NoError(t, err)
	assert.Equal(t, int64(99999), got.UserID)
	assert.Equal(t, "Call 1234 about", got.Text)

	got, err = Parse("Ping 12345 and 12345 again", now)
	require.NoError(t, err)
	assert.Equal(t, "Ping and again", got.Text)
}

// Word boundaries and digits are ASCII only.
func TestParse_UserIDBoundariesAreASCII(t *testing.T) {
	got, err := Parse("Call é12345 today", now)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), got.UserID)
	assert.Equal(t, "Call é today", got.Text)

	_, err = Parse("Call １２３４５ today", now)
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestParse_FillerRemovalIgnoresWordBoundaries(t *testing.T) {
	got, err := Parse("Review tasker flow for 12345", now)
	require.NoError(t, err)
	assert.Equal(t, "Review er flow for", got.Text)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		from time.Time
		n    int
		want string
	}{
		{time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), 1, "2025-02-28"},
		{time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), 1, "2024-02-29"},
		{time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), 12, "2025-02-28"},
		{time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC), 1, "2026-01-15"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, addMonthsClamped(tt.from, tt.n).Format(task.DateLayout))
	}
}
