package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/tasklist/form"
	"github.com/amonks/tasklist/todo"
)

// TodoData is the data rendered into the editing template.
type TodoData struct {
	// IsUpdate is true when editing an existing todo.
	IsUpdate bool
	// ID is the todo ID (only for updates).
	ID     string
	Values form.Values
}

// DefaultCreateData returns TodoData for a new todo.
func DefaultCreateData() TodoData {
	return TodoData{Values: form.NewCreate().Values()}
}

// DataFromTodo returns TodoData for editing item.
func DataFromTodo(item todo.Todo) TodoData {
	return TodoData{IsUpdate: true, ID: item.ID, Values: form.NewEdit(item).Values()}
}

var todoTemplate = template.Must(template.New("todo").Parse(`{{- if .IsUpdate }}# editing {{ .ID }}
{{ end -}}
title = {{ printf "%q" .Values.Title }}
priority = {{ printf "%q" .Values.Priority }} # low, medium, high
category = {{ printf "%q" .Values.Category }}
due = {{ printf "%q" .Values.DueDate }} # YYYY-MM-DD, after today
---
{{ .Values.Description }}
`))

// RenderTodoTOML renders the todo data as a TOML string for editing.
func RenderTodoTOML(data TodoData) (string, error) {
	var buf bytes.Buffer
	if err := todoTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

type frontmatter struct {
	Title    string `toml:"title"`
	Priority string `toml:"priority"`
	Category string `toml:"category"`
	Due      string `toml:"due"`
}

// ParseTodoTOML parses editor output into form values. Field rules are
// checked later by the form.
func ParseTodoTOML(content string) (form.Values, error) {
	head, body := splitFrontmatter(content)

	var parsed frontmatter
	meta, err := toml.Decode(head, &parsed)
	if err != nil {
		return form.Values{}, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return form.Values{}, fmt.Errorf("parse TOML: unknown key %s", undecoded[0])
	}

	priority, err := todo.ParsePriority(parsed.Priority)
	if err != nil {
		return form.Values{}, err
	}

	return form.Values{
		Title:       strings.TrimSpace(parsed.Title),
		Description: strings.TrimSpace(body),
		Priority:    priority,
		Category:    strings.TrimSpace(parsed.Category),
		DueDate:     strings.TrimSpace(parsed.Due),
	}, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return content, ""
}

// EditTodo opens the editor with data and returns the parsed values.
func EditTodo(data TodoData) (form.Values, error) {
	content, err := RenderTodoTOML(data)
	if err != nil {
		return form.Values{}, err
	}

	tmpfile, err := os.CreateTemp("", "tasks-todo-*.toml")
	if err != nil {
		return form.Values{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return form.Values{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return form.Values{}, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return form.Values{}, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return form.Values{}, fmt.Errorf("read edited file: %w", err)
	}
	return ParseTodoTOML(string(edited))
}
