package ui

import (
	"fmt"
	"time"

	"github.com/amonks/tasklist/todo"
)

// FormatTimeAgo returns a compact age string like "2m ago", or "-" for a
// zero time.
func FormatTimeAgo(then time.Time, now time.Time) string {
	if then.IsZero() {
		return "-"
	}
	return FormatDurationShort(now.Sub(then)) + " ago"
}

// FormatDurationShort formats a duration using short units (s/m/h/d).
func FormatDurationShort(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}

	seconds := int64(duration.Truncate(time.Second).Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dd", hours/24)
}

// FormatDate returns the display form of an optional date, or "" when unset.
func FormatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return todo.FormatDisplayDate(*value)
}

// FormatDueDate returns the display form of the due date with the overdue
// suffix when it applies.
func FormatDueDate(item todo.Todo, now time.Time) string {
	if item.DueDate == nil {
		return ""
	}
	return todo.FormatDisplayDate(item.DueDate.UTC()) + OverdueSuffix(item, now)
}
