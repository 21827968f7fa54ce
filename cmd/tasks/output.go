package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/amonks/tasklist/internal/markdown"
	"github.com/amonks/tasklist/internal/ui"
	"github.com/amonks/tasklist/todo"
)

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// printTodoTable prints todos in a table format.
func printTodoTable(w io.Writer, todos []todo.Todo, now time.Time) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "No todos found.")
		return
	}

	fmt.Fprint(w, formatTodoTable(todos, ui.HighlightID, now))
}

func formatTodoTable(todos []todo.Todo, highlight func(string, int) string, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "DONE", "PRI", "DUE", "CATEGORY", "AGE", "TITLE"}, len(todos))

	ids := make([]string, 0, len(todos))
	for _, item := range todos {
		ids = append(ids, item.ID)
	}
	prefixLengths := ui.UniqueIDPrefixLengths(ids)

	for _, item := range todos {
		due := ui.FormatDueDate(item, now)
		if due == "" {
			due = "-"
		}
		category := item.Category
		if category == "" {
			category = "-"
		}
		builder.AddRow(
			highlight(item.ID, prefixLengths[strings.ToLower(item.ID)]),
			ui.CompletionMark(item.Completed),
			item.Priority.Info().Label,
			due,
			ui.TruncateTableCell(category),
			ui.FormatTimeAgo(item.CreatedAt, now),
			ui.TruncateTableCell(item.Title),
		)
	}

	return builder.String()
}

const todoDetailLineWidth = 80

// printTodoDetail prints detailed information about a todo.
func printTodoDetail(w io.Writer, item todo.Todo, now time.Time) {
	fmt.Fprintf(w, "ID:        %s\n", item.ID)
	fmt.Fprintf(w, "Title:     %s\n", item.Title)
	fmt.Fprintf(w, "Priority:  %s\n", item.Priority.Info().Label)
	fmt.Fprintf(w, "Completed: %s\n", yesNo(item.Completed))
	if item.Category != "" {
		fmt.Fprintf(w, "Category:  %s\n", item.Category)
	}
	if item.DueDate != nil {
		fmt.Fprintf(w, "Due:       %s\n", ui.FormatDueDate(item, now))
	}
	fmt.Fprintf(w, "Created:   %s (%s)\n", todo.FormatDisplayDate(item.CreatedAt), ui.FormatTimeAgo(item.CreatedAt, now))
	if item.UpdatedAt != nil {
		fmt.Fprintf(w, "Updated:   %s\n", ui.FormatDate(item.UpdatedAt))
	}
	if item.CompletedAt != nil {
		fmt.Fprintf(w, "Done:      %s\n", ui.FormatDate(item.CompletedAt))
	}

	if description := markdown.SafeRender(todoDetailLineWidth, 2, []byte(item.Description)); len(description) > 0 {
		fmt.Fprintf(w, "\nDescription:\n%s\n", description)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
