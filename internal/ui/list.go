// Package ui holds presentation decisions shared by the web, terminal and
// command-line front ends.
package ui

import (
	"fmt"
	"time"

	"github.com/amonks/tasklist/controller"
	"github.com/amonks/tasklist/todo"
)

// OverdueLabel is appended to the due date of an overdue todo.
const OverdueLabel = " (overdue)"

// Messages shown by the list view.
const (
	LoadingMessage = "Loading..."
	EmptyMessage   = "No tasks yet. Add one to get started."
)

// Add button labels.
const (
	AddLabel    = "+ Add task"
	CancelLabel = "x Cancel"
)

// ListDisplay is what the list view shows.
type ListDisplay int

const (
	ListLoading ListDisplay = iota
	ListError
	ListEmpty
	ListRows
)

// ListDisplayFor picks what the list shows: loading wins over an error, an
// error wins over an empty list, and rows show only when none apply.
func ListDisplayFor(loading bool, err string, count int) ListDisplay {
	switch {
	case loading:
		return ListLoading
	case err != "":
		return ListError
	case count == 0:
		return ListEmpty
	default:
		return ListRows
	}
}

// ListDisplayForState applies ListDisplayFor to a controller state.
func ListDisplayForState(state controller.State) ListDisplay {
	return ListDisplayFor(state.IsLoading, state.Err, len(state.Todos))
}

// OverdueSuffix returns OverdueLabel for an overdue todo, or "".
func OverdueSuffix(item todo.Todo, now time.Time) string {
	if item.IsOverdue(now) {
		return OverdueLabel
	}
	return ""
}

// AddButtonLabel returns the add control label for the add form state.
func AddButtonLabel(open bool) string {
	if open {
		return CancelLabel
	}
	return AddLabel
}

// StatsLine summarizes totals for the controls bar.
func StatsLine(stats controller.Stats) string {
	return fmt.Sprintf("Total %d · Incomplete %d · Completed %d", stats.Total, stats.Incomplete, stats.Completed)
}

// ShowPagination reports whether the pagination bar is shown.
func ShowPagination(p todo.Pagination) bool {
	return p.TotalPages > 1
}

// PageLabel renders "current / total".
func PageLabel(p todo.Pagination) string {
	return fmt.Sprintf("%d / %d", p.CurrentPage, p.TotalPages)
}

// CategoryLabel renders a category as a tag, or "" when unset.
func CategoryLabel(category string) string {
	if category == "" {
		return ""
	}
	return "#" + category
}

// CompletionMark renders the completion box.
func CompletionMark(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}
