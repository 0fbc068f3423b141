package taskparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kazz187/taskbot/internal/task"
)

type resolver func(expr string, now time.Time) (time.Time, bool)

type deadlinePattern struct {
	re      *regexp.Regexp
	resolve resolver
}

const monthNames = "January|February|March|April|May|June|July|August|September|October|November|December"

// deadlinePatterns are tried in order; the first match wins.
var deadlinePatterns = []deadlinePattern{
	{regexp.MustCompile(`(?i)by\s+(\d{1,2}[-/]\d{1,2}[-/]\d{4})`), resolveDayFirst},
	{regexp.MustCompile(`(?i)by\s+(\d{4}[-/]\d{1,2}[-/]\d{1,2})`), resolveYearFirst},
	{regexp.MustCompile(`(?i)by\s+(tomorrow|today|next week|next month|next year)`), resolveRelative},
	{regexp.MustCompile(`(?i)(\d{1,2}\s+(?:` + monthNames + `)\s+\d{4})`), resolveMonthName},
}

var numericSeparator = regexp.MustCompile(`[-/]`)

// extractDeadline removes the first deadline phrase from text. An expression
// that matches a pattern but does not name a real date is still removed and
// yields no deadline.
func extractDeadline(text string, now time.Time) (string, task.Deadline) {
	for _, p := range deadlinePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		rest := strings.TrimSpace(strings.ReplaceAll(text, m[0], ""))
		d, ok := p.resolve(m[1], now)
		if !ok {
			return rest, ""
		}
		return rest, task.NewDeadline(d)
	}
	return text, ""
}

func splitNumbers(expr string) ([3]int, bool) {
	var out [3]int
	parts := numericSeparator.Split(expr, -1)
	if len(parts) != 3 {
		return out, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return out, false
		}
		out[i] = n
	}
	return out, true
}

// resolveDayFirst reads D-M-YYYY and falls back to M-D-YYYY when the
// day-first reading is not a real date (e.g. 12/31/2025).
func resolveDayFirst(expr string, now time.Time) (time.Time, bool) {
	n, ok := splitNumbers(expr)
	if !ok {
		return time.Time{}, false
	}
	if d, ok := civilDate(n[2], n[1], n[0], now.Location()); ok {
		return d, true
	}
	return civilDate(n[2], n[0], n[1], now.Location())
}

func resolveYearFirst(expr string, now time.Time) (time.Time, bool) {
	n, ok := splitNumbers(expr)
	if !ok {
		return time.Time{}, false
	}
	return civilDate(n[0], n[1], n[2], now.Location())
}

// resolveRelative only ever moves forward from now.
func resolveRelative(expr string, now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch strings.ToLower(expr) {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	case "next week":
		return today.AddDate(0, 0, 7), true
	case "next month":
		return addMonthsClamped(today, 1), true
	case "next year":
		return addMonthsClamped(today, 12), true
	}
	return time.Time{}, false
}

func resolveMonthName(expr string, now time.Time) (time.Time, bool) {
	fields := strings.Fields(expr)
	if len(fields) != 3 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := months[strings.ToLower(fields[1])]
	if !ok {
		return time.Time{}, false
	}
	return civilDate(year, int(month), day, now.Location())
}

var months = func() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for i := time.January; i <= time.December; i++ {
		m[strings.ToLower(i.String())] = i
	}
	return m
}()

// civilDate rejects dates that time.Date would normalize, such as 31 April.
func civilDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// addMonthsClamped moves t by n months, pulling the day back to the end of
// the target month when it does not exist there (31 Jan + 1 month = 28/29 Feb).
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := min(t.Day(), lastDay)
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}
