// Package report renders task lists with their deadline status.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/kazz187/taskbot/internal/task"
)

const (
	header     = "📊 Task Report:"
	emptyLabel = "📭 No tasks found."

	secondsPerDay = 24 * 60 * 60
)

// Entry is one rendered task row.
type Entry struct {
	Position int           `json:"position"`
	UserID   int64         `json:"user_id"`
	Text     string        `json:"text"`
	Deadline task.Deadline `json:"deadline"`
	Done     bool          `json:"done"`
	Status   string        `json:"status"`
}

// DaysUntil counts whole calendar days from today to the deadline; negative
// when the deadline has passed.
func DaysUntil(d task.Deadline, today time.Time) (int, error) {
	due, err := d.Date()
	if err != nil {
		return 0, err
	}
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	// Both are UTC midnights. time.Duration tops out near 292 years, so
	// subtract Unix seconds instead.
	return int((due.Unix() - start.Unix()) / secondsPerDay), nil
}

func DeadlineStatus(d task.Deadline, today time.Time) string {
	if !d.IsSet() {
		return "No deadline"
	}
	days, err := DaysUntil(d, today)
	if err != nil {
		return fmt.Sprintf("Invalid date (%s)", d)
	}
	var label string
	switch {
	case days > 0:
		label = fmt.Sprintf("%d days left", days)
	case days == 0:
		label = "Due today"
	default:
		label = fmt.Sprintf("Overdue by %d days", -days)
	}
	return fmt.Sprintf("%s (%s)", label, d)
}

// Entries numbers tasks by their position in the given slice, starting at 1.
func Entries(tasks []task.Task, today time.Time) []Entry {
	entries := make([]Entry, 0, len(tasks))
	for i, t := range tasks {
		entries = append(entries, Entry{
			Position: i + 1,
			UserID:   t.UserID,
			Text:     t.Text,
			Deadline: t.Deadline,
			Done:     t.Done,
			Status:   DeadlineStatus(t.Deadline, today),
		})
	}
	return entries
}

func DoneMark(done bool) string {
	if done {
		return "✅"
	}
	return "❌"
}

func Format(tasks []task.Task, today time.Time) string {
	if len(tasks) == 0 {
		return emptyLabel
	}
	var b strings.Builder
	b.WriteString(header)
	for _, e := range Entries(tasks, today) {
		fmt.Fprintf(&b, "\n%d. 👤 %d | %s | %s | 🕒 %s", e.Position, e.UserID, DoneMark(e.Done), e.Text, e.Status)
	}
	return b.String()
}
