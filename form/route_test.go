package form

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amonks/tasklist/api"
)

func TestRouteErrorByKeyword(t *testing.T) {
	tests := []struct {
		message string
		field   Field
	}{
		{"Title is required", FieldTitle},
		{"제목은 필수입니다", FieldTitle},
		{"Description is too long", FieldDescription},
		{"설명이 너무 깁니다", FieldDescription},
		{"Category must be shorter", FieldCategory},
		{"카테고리 오류", FieldCategory},
		{"Due date must be in the future", FieldDueDate},
		{"invalid dueDate", FieldDueDate},
		{"마감일은 오늘 이후여야 합니다", FieldDueDate},
		{"server error", FieldGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			errs := RouteError(&api.Error{Status: 400, Message: tt.message})
			if len(errs) != 1 || errs[tt.field] != tt.message {
				t.Fatalf("expected %q on %s, got %v", tt.message, tt.field, errs)
			}
		})
	}
}

func TestRouteErrorPrefersStructuredFields(t *testing.T) {
	err := &api.Error{
		Status:  400,
		Message: "Title validation failed",
		Fields: map[string]string{
			"due_date": "Must be in the future",
			"owner":    "Unknown owner",
		},
	}
	errs := RouteError(err)
	if errs[FieldDueDate] != "Must be in the future" {
		t.Fatalf("expected structured due date error, got %v", errs)
	}
	if errs[FieldGeneral] != "Unknown owner" {
		t.Fatalf("expected unknown field on general slot, got %v", errs)
	}
	if _, ok := errs[FieldTitle]; ok {
		t.Fatalf("expected message keywords ignored when fields are present, got %v", errs)
	}
}

func TestRouteErrorTransportFailure(t *testing.T) {
	errs := RouteError(fmt.Errorf("GET http://x: %w", errors.New("connection refused")))
	if errs[FieldGeneral] == "" {
		t.Fatalf("expected transport error on general slot, got %v", errs)
	}
}
