// Package controller owns the list page state: the current query, the last
// fetched page, the load status, and which editor is open.
//
// State is an immutable value. Every transition returns a new State, so front
// ends can hold, compare and render states without coordinating mutation.
package controller

import (
	"github.com/amonks/tasklist/todo"
)

// ModeKind enumerates which editor is open.
type ModeKind int

const (
	// ModeClosed means no editor is open.
	ModeClosed ModeKind = iota
	// ModeAdding means the create form is open.
	ModeAdding
	// ModeEditing means one row is being edited inline.
	ModeEditing
)

// Mode is the editor mode. ID is set only for ModeEditing.
type Mode struct {
	Kind ModeKind
	ID   string
}

// Closed returns the closed mode.
func Closed() Mode { return Mode{Kind: ModeClosed} }

// Adding returns the add-form mode.
func Adding() Mode { return Mode{Kind: ModeAdding} }

// Editing returns the inline edit mode for id.
func Editing(id string) Mode { return Mode{Kind: ModeEditing, ID: id} }

// IsAdding reports whether the add form is open.
func (m Mode) IsAdding() bool { return m.Kind == ModeAdding }

// IsEditing reports whether id is the row being edited.
func (m Mode) IsEditing(id string) bool { return m.Kind == ModeEditing && m.ID == id }

// State is the list page state.
type State struct {
	Filter todo.Filter
	Sort   todo.Sort
	// Page is the requested page, starting at 1.
	Page  int
	Limit int
	Mode  Mode

	IsLoading bool
	// Err is the last list-level error message, or "".
	Err string

	Todos      []todo.Todo
	Pagination todo.Pagination
}

// Initial returns the state before the first load.
func Initial(limit int) State {
	if limit < 1 {
		limit = todo.DefaultLimit
	}
	return State{
		Filter:    todo.FilterAll,
		Sort:      todo.SortNewest,
		Page:      1,
		Limit:     limit,
		Mode:      Closed(),
		IsLoading: true,
		Todos:     []todo.Todo{},
	}
}

// WithFilter changes the filter and returns to page 1.
func (s State) WithFilter(filter todo.Filter) State {
	s.Filter = filter
	s.Page = 1
	return s
}

// WithSort changes the sort and returns to page 1.
func (s State) WithSort(sort todo.Sort) State {
	s.Sort = sort
	s.Page = 1
	return s
}

// WithPage requests page n. Values below 1 become 1.
func (s State) WithPage(n int) State {
	if n < 1 {
		n = 1
	}
	s.Page = n
	return s
}

// NextPage advances one page when the last response reported a next page.
func (s State) NextPage() State {
	if !s.Pagination.HasNextPage {
		return s
	}
	return s.WithPage(s.currentPage() + 1)
}

// PrevPage goes back one page when the last response reported a previous page.
func (s State) PrevPage() State {
	if !s.Pagination.HasPrevPage {
		return s
	}
	return s.WithPage(s.currentPage() - 1)
}

func (s State) currentPage() int {
	if s.Pagination.CurrentPage > 0 {
		return s.Pagination.CurrentPage
	}
	return s.Page
}

// Loading marks a list request in flight and clears the error.
func (s State) Loading() State {
	s.IsLoading = true
	s.Err = ""
	return s
}

// Loaded replaces the todos and pagination with page.
func (s State) Loaded(page todo.Page) State {
	todos := make([]todo.Todo, len(page.Todos))
	copy(todos, page.Todos)
	s.Todos = todos
	s.Pagination = page.Pagination
	s.IsLoading = false
	s.Err = ""
	return s
}

// Failed records message as the list error. The stale todos are kept.
func (s State) Failed(message string) State {
	s.IsLoading = false
	s.Err = message
	return s
}

// ToggleAdd opens the add form, or closes it when it is already open.
func (s State) ToggleAdd() State {
	if s.Mode.IsAdding() {
		s.Mode = Closed()
	} else {
		s.Mode = Adding()
	}
	return s
}

// StartEdit opens the inline editor for id.
func (s State) StartEdit(id string) State {
	s.Mode = Editing(id)
	return s
}

// CloseEditor closes any open editor.
func (s State) CloseEditor() State {
	s.Mode = Closed()
	return s
}

// Query returns the list request for the state.
func (s State) Query() todo.ListQuery {
	return todo.ListQuery{Filter: s.Filter, Sort: s.Sort, Page: s.Page, Limit: s.Limit}.Normalize()
}

// Find returns the todo with id from the current page.
func (s State) Find(id string) (todo.Todo, bool) {
	for _, item := range s.Todos {
		if item.ID == id {
			return item, true
		}
	}
	return todo.Todo{}, false
}

// Stats summarizes the current page.
type Stats struct {
	Total      int
	Completed  int
	Incomplete int
}

// Stats returns totals. Total is the server's count; completed and incomplete
// are counted over the current page.
func (s State) Stats() Stats {
	stats := Stats{Total: s.Pagination.TotalCount}
	for _, item := range s.Todos {
		if item.Completed {
			stats.Completed++
		} else {
			stats.Incomplete++
		}
	}
	return stats
}
