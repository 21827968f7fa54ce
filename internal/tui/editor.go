package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/tasklist/form"
	"github.com/amonks/tasklist/todo"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var editorFields = form.Fields()

var fieldLabels = map[form.Field]string{
	form.FieldTitle:       "Title",
	form.FieldDescription: "Description",
	form.FieldPriority:    "Priority",
	form.FieldCategory:    "Category",
	form.FieldDueDate:     "Due",
}

// editorModel is the inline editor for one form.
type editorModel struct {
	form     *form.Form
	keys     editorKeyMap
	title    textinput.Model
	desc     textarea.Model
	category textinput.Model
	due      textinput.Model
	focus    int
}

// editorAction is what a key press asks the parent to do.
type editorAction int

const (
	editorNone editorAction = iota
	editorSave
	editorCancel
)

func newEditor(f *form.Form, width int) editorModel {
	values := f.Values()

	title := textinput.New()
	title.Prompt = ""
	title.CharLimit = todo.MaxTitleLength
	title.SetValue(values.Title)

	desc := textarea.New()
	desc.Prompt = ""
	desc.ShowLineNumbers = false
	desc.CharLimit = todo.MaxDescriptionLength
	desc.SetHeight(3)
	desc.SetValue(values.Description)

	category := textinput.New()
	category.Prompt = ""
	category.CharLimit = todo.MaxCategoryLength
	category.SetValue(values.Category)

	due := textinput.New()
	due.Prompt = ""
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len(todo.DateInputLayout)
	due.SetValue(values.DueDate)

	editor := editorModel{
		form:     f,
		keys:     defaultEditorKeyMap(),
		title:    title,
		desc:     desc,
		category: category,
		due:      due,
	}
	editor.setWidth(width)
	editor.focusField(0)
	return editor
}

func (e *editorModel) setWidth(width int) {
	inner := max(width-20, 10)
	e.title.Width = inner
	e.category.Width = inner
	e.due.Width = inner
	e.desc.SetWidth(inner)
}

func (e editorModel) focused() form.Field {
	return editorFields[e.focus]
}

func (e *editorModel) focusField(index int) {
	e.title.Blur()
	e.desc.Blur()
	e.category.Blur()
	e.due.Blur()
	e.focus = (index + len(editorFields)) % len(editorFields)
	switch e.focused() {
	case form.FieldTitle:
		e.title.Focus()
	case form.FieldDescription:
		e.desc.Focus()
	case form.FieldCategory:
		e.category.Focus()
	case form.FieldDueDate:
		e.due.Focus()
	}
}

// Update handles one message. A save request is only reported once the form
// has validated and entered its submitting state.
func (e editorModel) Update(msg tea.Msg, now time.Time) (editorModel, tea.Cmd, editorAction, todo.Input) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, e.keys.Save):
			input, ok := e.form.Begin(now)
			if !ok {
				return e, nil, editorNone, todo.Input{}
			}
			return e, nil, editorSave, input
		case key.Matches(keyMsg, e.keys.Cancel):
			return e, nil, editorCancel, todo.Input{}
		case key.Matches(keyMsg, e.keys.Next):
			e.focusField(e.focus + 1)
			return e, nil, editorNone, todo.Input{}
		case key.Matches(keyMsg, e.keys.Prev):
			e.focusField(e.focus - 1)
			return e, nil, editorNone, todo.Input{}
		}
		if e.focused() == form.FieldPriority {
			if key.Matches(keyMsg, e.keys.Priority) {
				delta := 1
				if keyMsg.String() == "left" {
					delta = -1
				}
				e.form.Set(form.FieldPriority, string(cyclePriority(e.form.Values().Priority, delta)))
			}
			return e, nil, editorNone, todo.Input{}
		}
	}

	if e.form.Submitting() {
		return e, nil, editorNone, todo.Input{}
	}

	var cmd tea.Cmd
	switch e.focused() {
	case form.FieldTitle:
		e.title, cmd = e.title.Update(msg)
		e.sync(form.FieldTitle, e.title.Value())
	case form.FieldDescription:
		e.desc, cmd = e.desc.Update(msg)
		e.sync(form.FieldDescription, e.desc.Value())
	case form.FieldCategory:
		e.category, cmd = e.category.Update(msg)
		e.sync(form.FieldCategory, e.category.Value())
	case form.FieldDueDate:
		e.due, cmd = e.due.Update(msg)
		e.sync(form.FieldDueDate, e.due.Value())
	}
	return e, cmd, editorNone, todo.Input{}
}

// sync copies value into the form when it changed, which clears the field's error.
func (e editorModel) sync(field form.Field, value string) {
	if e.form.Value(field) != value {
		e.form.Set(field, value)
	}
}

func cyclePriority(current todo.Priority, delta int) todo.Priority {
	priorities := todo.ValidPriorities()
	index := 1
	for i, priority := range priorities {
		if priority == current {
			index = i
		}
	}
	return priorities[(index+delta+len(priorities))%len(priorities)]
}

func (e editorModel) View(heading string) string {
	lines := []string{labelStyle.Render(heading)}
	if message := e.form.Error(form.FieldGeneral); message != "" {
		lines = append(lines, errorStyle.Render(message))
	}
	for i, field := range editorFields {
		label := fmt.Sprintf("%-12s", fieldLabels[field])
		if i == e.focus {
			label = focusedLabel.Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		lines = append(lines, label+" "+e.fieldView(field))
		if message := e.form.Error(field); message != "" {
			lines = append(lines, strings.Repeat(" ", 13)+errorStyle.Render(message))
		}
	}
	if e.form.Submitting() {
		lines = append(lines, valueMuted.Render("Saving..."))
	}
	return editorStyle.Render(strings.Join(lines, "\n"))
}

func (e editorModel) fieldView(field form.Field) string {
	switch field {
	case form.FieldTitle:
		return e.title.View()
	case form.FieldDescription:
		return indentTail(e.desc.View(), 13)
	case form.FieldPriority:
		info := e.form.Values().Priority.Info()
		return "< " + priorityBadge(info) + " >"
	case form.FieldCategory:
		return e.category.View()
	case form.FieldDueDate:
		return e.due.View()
	default:
		return ""
	}
}

func indentTail(value string, spaces int) string {
	lines := strings.Split(value, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.Repeat(" ", spaces) + lines[i]
	}
	return strings.Join(lines, "\n")
}
