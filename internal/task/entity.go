package task

import (
	"encoding/json"
	"time"
)

// DateLayout is the on-disk form of a deadline.
const DateLayout = "2006-01-02"

const lenientDateLayout = "2006-1-2"

// Task is one assignment. Tasks have no ID of their own: a task is addressed
// by its position in the task list, and deleting a task shifts every later
// position down by one.
type Task struct {
	UserID   int64    `json:"user_id"`
	Text     string   `json:"text"`
	Deadline Deadline `json:"deadline"`
	Done     bool     `json:"done"`
}

// Deadline is a calendar date kept in its stored textual form so that values
// edited by hand into something unparsable can still be shown back. The zero
// value means no deadline and is encoded as JSON null.
type Deadline string

// NewDeadline returns the deadline for the calendar date of t.
func NewDeadline(t time.Time) Deadline {
	return Deadline(t.Format(DateLayout))
}

func (d Deadline) IsSet() bool {
	return d != ""
}

// Date parses the deadline. The result is midnight UTC of that date. Month
// and day may omit the leading zero, as in hand-edited "2025-6-1".
func (d Deadline) Date() (time.Time, error) {
	return time.Parse(lenientDateLayout, string(d))
}

func (d Deadline) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (d *Deadline) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = Deadline(s)
	return nil
}

// FilterByUser returns the tasks assigned to userID, keeping their order.
func FilterByUser(tasks []Task, userID int64) []Task {
	var out []Task
	for _, t := range tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}
