// Package todo defines the task records exchanged with the todo API and the
// fixed client-side enumerations used to query and display them.
//
// The server owns every record: the client reads pages of todos, submits
// Input bodies for creation and edits, and never assigns identifiers or
// timestamps itself.
package todo

// Priority represents the importance of a todo.
type Priority string

const (
	// PriorityLow is the lowest priority.
	PriorityLow Priority = "low"

	// PriorityMedium is the default priority.
	PriorityMedium Priority = "medium"

	// PriorityHigh is the highest priority.
	PriorityHigh Priority = "high"
)

// ValidPriorities returns all valid priority values in display order.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// PriorityInfo is the display metadata for a priority.
type PriorityInfo struct {
	Value Priority
	Label string
	// Color is a named color tag (green, yellow, red).
	Color string
}

// PriorityOptions returns the display metadata for every priority.
func PriorityOptions() []PriorityInfo {
	return []PriorityInfo{
		{Value: PriorityLow, Label: "Low", Color: "green"},
		{Value: PriorityMedium, Label: "Medium", Color: "yellow"},
		{Value: PriorityHigh, Label: "High", Color: "red"},
	}
}

// Info returns the display metadata for p. Unknown priorities are shown as medium.
func (p Priority) Info() PriorityInfo {
	options := PriorityOptions()
	for _, option := range options {
		if option.Value == p {
			return option
		}
	}
	return options[1]
}

// Filter selects a server-side subset of todos.
type Filter string

const (
	// FilterAll lists every todo.
	FilterAll Filter = "all"

	// FilterIncomplete lists todos that are not completed.
	FilterIncomplete Filter = "incomplete"

	// FilterCompleted lists completed todos.
	FilterCompleted Filter = "completed"

	// FilterUrgent lists todos the server considers close to their due date.
	FilterUrgent Filter = "urgent"
)

// ValidFilters returns all valid filter values in display order.
func ValidFilters() []Filter {
	return []Filter{FilterAll, FilterIncomplete, FilterCompleted, FilterUrgent}
}

// IsValid returns true if the filter is a known valid value.
func (f Filter) IsValid() bool {
	for _, valid := range ValidFilters() {
		if f == valid {
			return true
		}
	}
	return false
}

// Label returns the display label for the filter.
func (f Filter) Label() string {
	switch f {
	case FilterAll:
		return "All"
	case FilterIncomplete:
		return "Incomplete"
	case FilterCompleted:
		return "Completed"
	case FilterUrgent:
		return "Due soon"
	default:
		return string(f)
	}
}

// Sort is a server-side ordering key.
type Sort string

const (
	// SortNewest orders by creation time, newest first (default).
	SortNewest Sort = "createdAt"

	// SortOldest orders by creation time, oldest first.
	SortOldest Sort = "oldest"

	// SortTitle orders alphabetically by title.
	SortTitle Sort = "title"

	// SortPriority orders by priority.
	SortPriority Sort = "priority"

	// SortDueDate orders by due date.
	SortDueDate Sort = "dueDate"
)

// ValidSorts returns all valid sort keys in display order.
func ValidSorts() []Sort {
	return []Sort{SortNewest, SortOldest, SortTitle, SortPriority, SortDueDate}
}

// IsValid returns true if the sort key is a known valid value.
func (s Sort) IsValid() bool {
	for _, valid := range ValidSorts() {
		if s == valid {
			return true
		}
	}
	return false
}

// Label returns the display label for the sort key.
func (s Sort) Label() string {
	switch s {
	case SortNewest:
		return "Newest"
	case SortOldest:
		return "Oldest"
	case SortTitle:
		return "Title"
	case SortPriority:
		return "Priority"
	case SortDueDate:
		return "Due date"
	default:
		return string(s)
	}
}

// DefaultLimit is the page size used when none is configured.
const DefaultLimit = 10

// ListQuery describes one list request.
type ListQuery struct {
	Filter Filter
	Sort   Sort
	Page   int
	Limit  int
}

// Pagination mirrors the pagination block of a list response.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasPrevPage bool `json:"hasPrevPage"`
	HasNextPage bool `json:"hasNextPage"`
}

// Page is one page of todos plus its pagination.
type Page struct {
	Todos      []Todo     `json:"todos"`
	Pagination Pagination `json:"pagination"`
}

// Input is the body sent when creating or updating a todo.
//
// All fields are always sent; optional fields are empty strings when unset.
// DueDate uses the YYYY-MM-DD date-only format.
type Input struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"`
	DueDate     string   `json:"dueDate"`
}
