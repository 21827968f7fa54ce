// Package form holds the state of one todo editor: its field values, per-field
// errors, and whether a submission is in flight.
//
// A Form never talks to the network. Callers take the validated Input from
// Begin, perform the request themselves, and report the outcome with Finish.
package form

import (
	"context"
	"errors"
	"time"

	internalstrings "github.com/amonks/tasklist/internal/strings"
	"github.com/amonks/tasklist/todo"
)

var (
	// ErrInvalid is returned by Submit when validation fails.
	ErrInvalid = errors.New("form is invalid")

	// ErrBusy is returned by Submit while a submission is already in flight.
	ErrBusy = errors.New("form is already submitting")
)

// Field names a form field.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldPriority    Field = "priority"
	FieldCategory    Field = "category"
	FieldDueDate     Field = "dueDate"

	// FieldGeneral holds errors that belong to no single field.
	FieldGeneral Field = "general"
)

// Fields returns the editable fields in display order.
func Fields() []Field {
	return []Field{FieldTitle, FieldDescription, FieldPriority, FieldCategory, FieldDueDate}
}

// Errors maps fields to messages.
type Errors map[Field]string

// Mode distinguishes creating a new todo from editing an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Values are the raw field values as entered.
type Values struct {
	Title       string
	Description string
	Priority    todo.Priority
	Category    string
	// DueDate is YYYY-MM-DD or empty.
	DueDate string
}

// Form is the editor state for one todo.
type Form struct {
	mode       Mode
	id         string
	values     Values
	errors     Errors
	submitting bool
}

func defaultValues() Values {
	return Values{Priority: todo.PriorityMedium}
}

// NewCreate returns an empty form with medium priority.
func NewCreate() *Form {
	return &Form{mode: ModeCreate, values: defaultValues(), errors: Errors{}}
}

// NewEdit returns a form populated from item.
func NewEdit(item todo.Todo) *Form {
	values := Values{
		Title:       item.Title,
		Description: item.Description,
		Priority:    item.Priority,
		Category:    item.Category,
		DueDate:     item.DueDateInput(),
	}
	if !values.Priority.IsValid() {
		values.Priority = todo.PriorityMedium
	}
	return &Form{mode: ModeEdit, id: item.ID, values: values, errors: Errors{}}
}

// NewFromValues returns a form holding values, as when a submitted HTML form is
// re-rendered.
func NewFromValues(mode Mode, id string, values Values) *Form {
	return &Form{mode: mode, id: id, values: values, errors: Errors{}}
}

// Mode returns whether the form creates or edits.
func (f *Form) Mode() Mode { return f.mode }

// ID returns the todo being edited, or "" in create mode.
func (f *Form) ID() string { return f.id }

// Values returns a copy of the current field values.
func (f *Form) Values() Values { return f.values }

// Value returns the current value of field.
func (f *Form) Value(field Field) string {
	switch field {
	case FieldTitle:
		return f.values.Title
	case FieldDescription:
		return f.values.Description
	case FieldPriority:
		return string(f.values.Priority)
	case FieldCategory:
		return f.values.Category
	case FieldDueDate:
		return f.values.DueDate
	default:
		return ""
	}
}

// Set updates field and clears its error.
func (f *Form) Set(field Field, value string) {
	switch field {
	case FieldTitle:
		f.values.Title = value
	case FieldDescription:
		f.values.Description = value
	case FieldPriority:
		f.values.Priority = todo.Priority(value)
	case FieldCategory:
		f.values.Category = value
	case FieldDueDate:
		f.values.DueDate = value
	default:
		return
	}
	delete(f.errors, field)
}

// Errors returns a copy of the current errors.
func (f *Form) Errors() Errors {
	out := make(Errors, len(f.errors))
	for field, message := range f.errors {
		out[field] = message
	}
	return out
}

// Error returns the message for field, or "".
func (f *Form) Error(field Field) string {
	return f.errors[field]
}

// HasErrors reports whether any error is set.
func (f *Form) HasErrors() bool {
	return len(f.errors) > 0
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	return f.submitting
}

// CanSubmit reports whether the submit control should be enabled.
func (f *Form) CanSubmit() bool {
	return !f.submitting && !internalstrings.IsBlank(f.values.Title)
}

// Input returns the request body for the current values.
func (f *Form) Input() todo.Input {
	return todo.Input{
		Title:       f.values.Title,
		Description: f.values.Description,
		Priority:    f.values.Priority,
		Category:    f.values.Category,
		DueDate:     f.values.DueDate,
	}
}

// Validate checks the current values against now, replaces the error map
// and reports whether the form is valid.
func (f *Form) Validate(now time.Time) bool {
	f.errors = validateValues(f.values, now)
	return len(f.errors) == 0
}

// Begin validates the form and marks it submitting. It returns false without
// side effects on the submission flag when validation fails or a submission
// is already in flight.
func (f *Form) Begin(now time.Time) (todo.Input, bool) {
	if f.submitting {
		return todo.Input{}, false
	}
	if !f.Validate(now) {
		return todo.Input{}, false
	}
	f.submitting = true
	return f.Input(), true
}

// Finish ends a submission. A non-nil err is routed to a field; on success a
// create form resets to its defaults.
func (f *Form) Finish(err error) {
	f.submitting = false
	if err != nil {
		f.errors = RouteError(err)
		return
	}
	f.errors = Errors{}
	if f.mode == ModeCreate {
		f.values = defaultValues()
	}
}

// Submit runs Begin, fn and Finish in sequence.
func (f *Form) Submit(ctx context.Context, now time.Time, fn func(context.Context, todo.Input) error) error {
	if f.submitting {
		return ErrBusy
	}
	input, ok := f.Begin(now)
	if !ok {
		return ErrInvalid
	}
	err := fn(ctx, input)
	f.Finish(err)
	return err
}

// Cancel calls onCancel when set; otherwise it resets the values and errors.
func (f *Form) Cancel(onCancel func()) {
	if onCancel != nil {
		onCancel()
		return
	}
	f.Reset()
}

// Reset restores default values and clears errors.
func (f *Form) Reset() {
	f.values = defaultValues()
	f.errors = Errors{}
}
