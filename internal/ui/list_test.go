package ui

import (
	"testing"
	"time"

	"github.com/amonks/tasklist/controller"
	"github.com/amonks/tasklist/todo"
)

func TestListDisplayFor(t *testing.T) {
	tests := []struct {
		name    string
		loading bool
		err     string
		count   int
		want    ListDisplay
	}{
		{"loading beats error", true, "server error", 3, ListLoading},
		{"error beats rows", false, "server error", 3, ListError},
		{"error beats empty", false, "server error", 0, ListError},
		{"empty", false, "", 0, ListEmpty},
		{"rows", false, "", 2, ListRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ListDisplayFor(tt.loading, tt.err, tt.count); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestListDisplayForStateHidesStaleTodos(t *testing.T) {
	state := controller.Initial(10).
		Loaded(todo.Page{Todos: []todo.Todo{{ID: "a"}}}).
		Loading().
		Failed("server error")
	if got := ListDisplayForState(state); got != ListError {
		t.Fatalf("expected error display, got %v", got)
	}
}

func TestOverdueSuffix(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	if got := OverdueSuffix(todo.Todo{DueDate: &past}, now); got != " (overdue)" {
		t.Fatalf("expected overdue suffix, got %q", got)
	}
	if got := OverdueSuffix(todo.Todo{DueDate: &past, Completed: true}, now); got != "" {
		t.Fatalf("expected no suffix for completed todo, got %q", got)
	}
}

func TestAddButtonLabel(t *testing.T) {
	if AddButtonLabel(false) != "+ Add task" || AddButtonLabel(true) != "x Cancel" {
		t.Fatalf("unexpected labels %q %q", AddButtonLabel(false), AddButtonLabel(true))
	}
}

func TestPagination(t *testing.T) {
	if ShowPagination(todo.Pagination{TotalPages: 1}) {
		t.Fatalf("expected pagination hidden for one page")
	}
	p := todo.Pagination{CurrentPage: 2, TotalPages: 3}
	if !ShowPagination(p) || PageLabel(p) != "2 / 3" {
		t.Fatalf("unexpected pagination display %q", PageLabel(p))
	}
}

func TestStatsLine(t *testing.T) {
	got := StatsLine(controller.Stats{Total: 25, Completed: 1, Incomplete: 9})
	if got != "Total 25 · Incomplete 9 · Completed 1" {
		t.Fatalf("unexpected stats line %q", got)
	}
}
