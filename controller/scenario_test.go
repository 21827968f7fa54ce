package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amonks/tasklist/api"
	"github.com/amonks/tasklist/internal/fakeapi"
	"github.com/amonks/tasklist/todo"
)

func TestBuyMilkScenario(t *testing.T) {
	backend := fakeapi.New(fakeapi.Options{})
	server := httptest.NewServer(backend)
	defer server.Close()

	c := New(api.New(server.URL + backend.BasePath()))
	ctx := context.Background()
	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	c.ToggleAdd()

	if _, err := c.Create(ctx, todo.Input{Title: "Buy milk", Priority: todo.PriorityMedium}); err != nil {
		t.Fatalf("create: %v", err)
	}

	state := c.State()
	if len(state.Todos) != 1 {
		t.Fatalf("expected 1 todo after reload, got %d", len(state.Todos))
	}
	if state.Todos[0].Title != "Buy milk" || state.Todos[0].Completed {
		t.Fatalf("unexpected todo %+v", state.Todos[0])
	}
	if state.Mode != Closed() {
		t.Fatalf("expected add form closed")
	}

	if err := c.ToggleComplete(ctx, state.Todos[0].ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !c.State().Todos[0].Completed {
		t.Fatalf("expected todo to be completed after reload")
	}
}

func TestServerErrorReplacesList(t *testing.T) {
	backend := fakeapi.New(fakeapi.Options{})
	backend.Seed(todo.Todo{Title: "Existing"})
	server := httptest.NewServer(backend)
	defer server.Close()

	c := New(api.New(server.URL + backend.BasePath()))
	ctx := context.Background()
	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	backend.FailNext(http.StatusInternalServerError, "server error")
	if err := c.Load(ctx); err == nil {
		t.Fatalf("expected error")
	}
	if c.State().Err != "server error" {
		t.Fatalf("expected list error, got %q", c.State().Err)
	}
}
