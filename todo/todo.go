package todo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Todo is a single task record as returned by the todo API.
//
// The client treats identifiers and timestamps as server-owned: they are read
// from responses and never assigned locally.
type Todo struct {
	// ID is the opaque server identifier.
	ID string `json:"_id"`

	// Title is the short summary of the todo (max 100 chars).
	Title string `json:"title"`

	// Description provides additional context about the todo (max 500 chars).
	Description string `json:"description,omitempty"`

	// Priority is the importance level (low, medium, high).
	Priority Priority `json:"priority"`

	// Category is a free-form grouping label (max 50 chars).
	Category string `json:"category,omitempty"`

	// DueDate is when the todo should be done (nil when unset).
	DueDate *time.Time `json:"dueDate,omitempty"`

	// Completed reports whether the todo has been marked complete.
	Completed bool `json:"completed"`

	// CreatedAt is when the server created the todo.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the server last modified the todo (nil if never reported).
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	// CompletedAt is when the todo was completed (nil when not completed).
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// IsOverdue reports whether the todo has a due date strictly before now and
// is still incomplete.
func (t Todo) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return t.DueDate.Before(now)
}

// DueDateInput returns the due date formatted for an edit form, or "" when unset.
func (t Todo) DueDateInput() string {
	if t.DueDate == nil {
		return ""
	}
	return FormatDateInput(*t.DueDate)
}

// Input returns the editable fields of the todo as an update body.
func (t Todo) Input() Input {
	return Input{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		DueDate:     t.DueDateInput(),
	}
}

// wireTodo mirrors the JSON shape with lenient date fields.
type wireTodo struct {
	ID          string          `json:"_id"`
	AltID       string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    Priority        `json:"priority"`
	Category    string          `json:"category"`
	DueDate     json.RawMessage `json:"dueDate"`
	Completed   bool            `json:"completed"`
	CreatedAt   json.RawMessage `json:"createdAt"`
	UpdatedAt   json.RawMessage `json:"updatedAt"`
	CompletedAt json.RawMessage `json:"completedAt"`
}

// UnmarshalJSON accepts both "_id" and "id" identifiers, and RFC 3339 or
// date-only timestamps. Null or empty timestamps decode as unset.
func (t *Todo) UnmarshalJSON(data []byte) error {
	var wire wireTodo
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	dueDate, err := decodeOptionalTime("dueDate", wire.DueDate)
	if err != nil {
		return err
	}
	createdAt, err := decodeOptionalTime("createdAt", wire.CreatedAt)
	if err != nil {
		return err
	}
	updatedAt, err := decodeOptionalTime("updatedAt", wire.UpdatedAt)
	if err != nil {
		return err
	}
	completedAt, err := decodeOptionalTime("completedAt", wire.CompletedAt)
	if err != nil {
		return err
	}

	id := wire.ID
	if id == "" {
		id = wire.AltID
	}

	*t = Todo{
		ID:          id,
		Title:       wire.Title,
		Description: wire.Description,
		Priority:    wire.Priority,
		Category:    wire.Category,
		DueDate:     dueDate,
		Completed:   wire.Completed,
		UpdatedAt:   updatedAt,
		CompletedAt: completedAt,
	}
	if createdAt != nil {
		t.CreatedAt = *createdAt
	}
	return nil
}

func decodeOptionalTime(field string, raw json.RawMessage) (*time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := ParseTimestamp(value)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	return &parsed, nil
}
