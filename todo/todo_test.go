package todo

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTodoUnmarshalAcceptsServerShape(t *testing.T) {
	payload := `{
		"_id": "665f1c2e9b1e8a0012ab34cd",
		"title": "Buy milk",
		"priority": "medium",
		"dueDate": "2026-10-20T00:00:00.000Z",
		"completed": false,
		"createdAt": "2026-10-14T08:30:00.000Z",
		"completedAt": null
	}`

	var item Todo
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.ID != "665f1c2e9b1e8a0012ab34cd" {
		t.Fatalf("expected _id to be read, got %q", item.ID)
	}
	if item.DueDate == nil || item.DueDateInput() != "2026-10-20" {
		t.Fatalf("expected due date 2026-10-20, got %v", item.DueDate)
	}
	if item.CompletedAt != nil {
		t.Fatalf("expected null completedAt to be unset")
	}
	if item.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}
}

func TestTodoUnmarshalFallbacks(t *testing.T) {
	payload := `{"id": "todo-1", "title": "x", "priority": "low", "dueDate": "2026-11-02", "createdAt": ""}`

	var item Todo
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.ID != "todo-1" {
		t.Fatalf("expected id fallback, got %q", item.ID)
	}
	if item.DueDateInput() != "2026-11-02" {
		t.Fatalf("expected date-only due date, got %q", item.DueDateInput())
	}
	if !item.CreatedAt.IsZero() {
		t.Fatalf("expected empty createdAt to stay zero")
	}

	if err := json.Unmarshal([]byte(`{"_id":"a","dueDate":"tomorrow"}`), &item); err == nil {
		t.Fatalf("expected invalid dueDate to fail")
	}
}

func TestTodoMarshalRoundTrip(t *testing.T) {
	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	original := Todo{
		ID:        "abc",
		Title:     "Write report",
		Priority:  PriorityHigh,
		Category:  "work",
		DueDate:   &due,
		CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Todo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != original.ID || decoded.Title != original.Title || decoded.Category != original.Category {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
	if decoded.DueDateInput() != "2026-12-01" {
		t.Fatalf("expected due date preserved, got %q", decoded.DueDateInput())
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		item Todo
		want bool
	}{
		{"no due date", Todo{}, false},
		{"past incomplete", Todo{DueDate: &past}, true},
		{"past completed", Todo{DueDate: &past, Completed: true}, false},
		{"future", Todo{DueDate: &future}, false},
		{"exactly now", Todo{DueDate: &now}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAfterToday(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 0, 0, 0, time.Local)
	today, _ := ParseDateInput("2026-10-14", time.Local)
	tomorrow, _ := ParseDateInput("2026-10-15", time.Local)
	yesterday, _ := ParseDateInput("2026-10-13", time.Local)

	if IsAfterToday(today, now) {
		t.Errorf("expected today to be rejected")
	}
	if !IsAfterToday(tomorrow, now) {
		t.Errorf("expected tomorrow to be accepted")
	}
	if IsAfterToday(yesterday, now) {
		t.Errorf("expected yesterday to be rejected")
	}
}
