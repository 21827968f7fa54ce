package main

import (
	"errors"
	"testing"

	"github.com/amonks/tasklist/todo"
	"github.com/spf13/pflag"
)

func TestFilterValue(t *testing.T) {
	var filter todo.Filter
	value := filterValue{&filter}

	if err := value.Set("Completed"); err != nil {
		t.Fatalf("set filter: %v", err)
	}
	if filter != todo.FilterCompleted || value.String() != "completed" {
		t.Fatalf("expected completed, got %q", filter)
	}
	if err := value.Set("overdue"); !errors.Is(err, todo.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestSortValue(t *testing.T) {
	var sort todo.Sort
	value := sortValue{&sort}

	if err := value.Set("duedate"); err != nil {
		t.Fatalf("set sort: %v", err)
	}
	if sort != todo.SortDueDate {
		t.Fatalf("expected dueDate, got %q", sort)
	}
	if err := value.Set("random"); !errors.Is(err, todo.ErrInvalidSort) {
		t.Fatalf("expected ErrInvalidSort, got %v", err)
	}
}

func TestPriorityValue(t *testing.T) {
	priority := todo.PriorityMedium
	value := priorityValue{&priority}

	if err := value.Set(" HIGH "); err != nil {
		t.Fatalf("set priority: %v", err)
	}
	if priority != todo.PriorityHigh {
		t.Fatalf("expected high, got %q", priority)
	}
	if err := value.Set("urgent"); !errors.Is(err, todo.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
	if value.Type() != "priority" {
		t.Fatalf("unexpected type %q", value.Type())
	}
}

func TestDescriptionFlagAlias(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var description string
	flags.StringVar(&description, "description", "", "")
	setFlagAliases(flags, descriptionFlagAliases)

	if err := flags.Parse([]string{"--desc", "from alias"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if description != "from alias" {
		t.Fatalf("expected alias to set description, got %q", description)
	}
}

func TestShouldUseEditor(t *testing.T) {
	cases := []struct {
		name        string
		hasFlags    bool
		edit        bool
		noEdit      bool
		interactive bool
		want        bool
	}{
		{name: "interactive without flags", interactive: true, want: true},
		{name: "not interactive", want: false},
		{name: "flags skip editor", hasFlags: true, interactive: true, want: false},
		{name: "edit forces editor", hasFlags: true, edit: true, want: true},
		{name: "no-edit wins over interactive", noEdit: true, interactive: true, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := shouldUseEditor(tc.hasFlags, tc.edit, tc.noEdit, tc.interactive)
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
