package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kazz187/taskbot/internal/task"
)

// Late evening in a zone east of UTC: the calendar date must come from the
// local clock, not from UTC.
var today = time.Date(2025, time.June, 10, 23, 45, 0, 0, time.FixedZone("JST", 9*60*60))

func TestDeadlineStatus(t *testing.T) {
	tests := []struct {
		name     string
		deadline task.Deadline
		want     string
	}{
		{"future", task.NewDeadline(today.AddDate(0, 0, 3)), "3 days left (2025-06-13)"},
		{"past", task.NewDeadline(today.AddDate(0, 0, -2)), "Overdue by 2 days (2025-06-08)"},
		{"today", task.NewDeadline(today), "Due today (2025-06-10)"},
		{"absent", "", "No deadline"},
		{"malformed", "soon-ish", "Invalid date (soon-ish)"},
		{"impossible date", "2025-02-30", "Invalid date (2025-02-30)"},
		{"a year ahead", "2026-06-10", "365 days left (2026-06-10)"},
		{"last representable day", "9999-12-31", "2912647 days left (9999-12-31)"},
		{"first representable day", "0001-01-01", "Overdue by 739411 days (0001-01-01)"},
		{"unpadded month", "2025-6-11", "1 days left (2025-6-11)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeadlineStatus(tt.deadline, today))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "📭 No tasks found.", Format(nil, today))

	got := Format([]task.Task{
		{UserID: 12345, Text: "Write report", Deadline: "2025-06-11"},
		{UserID: 67890, Text: "Fix bug", Done: true},
	}, today)
	want := "📊 Task Report:\n" +
		"1. 👤 12345 | ❌ | Write report | 🕒 1 days left (2025-06-11)\n" +
		"2. 👤 67890 | ✅ | Fix bug | 🕒 No deadline"
	assert.Equal(t, want, got)
}

func TestEntries(t *testing.T) {
	entries := Entries([]task.Task{{UserID: 1, Text: "a", Deadline: "bad"}}, today)
	assert.Equal(t, []Entry{{
		Position: 1,
		UserID:   1,
		Text:     "a",
		Deadline: "bad",
		Status:   "Invalid date (bad)",
	}}, entries)
}
