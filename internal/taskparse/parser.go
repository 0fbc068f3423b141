// Package taskparse turns a free-text assignment such as
// "Prepare the slides for 987654321 by tomorrow" into a task.Task.
//
// Parsing runs three extraction steps in order. Each step removes what it
// matched from the working text, so later steps only see the remainder.
package taskparse

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kazz187/taskbot/internal/task"
	"github.com/kazz187/taskbot/pkg/cerr"
)

var (
	ErrMissingUserID    = errors.New("missing user id")
	ErrEmptyDescription = errors.New("empty description")
)

var (
	userIDPattern = regexp.MustCompile(`\b(\d{5,})\b`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// fillers are removed as plain substrings, case-sensitively and in this
// order. "tasks" therefore loses "task" and keeps the "s".
var fillers = []string{"for user", "task", "deadline", ":", "by", "project"}

// Parse extracts a task from text. now anchors relative deadlines such as
// "by tomorrow" and supplies the time zone of the resulting date.
func Parse(text string, now time.Time) (task.Task, error) {
	rest, userID, ok := extractUserID(text)
	if !ok {
		return task.Task{}, cerr.NewError(cerr.InvalidArgument,
			"❌ User ID not found. Please include the numeric ID in your message.", ErrMissingUserID)
	}

	rest, deadline := extractDeadline(rest, now)

	description := cleanDescription(rest)
	if description == "" {
		return task.Task{}, cerr.NewError(cerr.InvalidArgument,
			"❌ Please provide the task description.", ErrEmptyDescription)
	}

	return task.Task{
		UserID:   userID,
		Text:     description,
		Deadline: deadline,
	}, nil
}

// extractUserID finds the first run of five or more digits. Every occurrence
// of that run is removed from the returned text.
func extractUserID(text string) (string, int64, bool) {
	m := userIDPattern.FindStringSubmatch(text)
	if m == nil {
		return text, 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		// Longer than int64; not an identifier we can address.
		return text, 0, false
	}
	return strings.TrimSpace(strings.ReplaceAll(text, m[0], "")), id, true
}

func cleanDescription(text string) string {
	for _, f := range fillers {
		text = strings.TrimSpace(strings.ReplaceAll(text, f, ""))
	}
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}
