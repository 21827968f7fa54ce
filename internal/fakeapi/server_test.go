package fakeapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amonks/tasklist/todo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func newServer() *Server {
	return New(Options{Now: func() time.Time { return fixedNow }})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload), "body: %s", w.Body.String())
	return w, payload
}

func TestCreateAndGet(t *testing.T) {
	s := newServer()

	w, payload := doJSON(t, s, http.MethodPost, "/api/todos", todo.Input{
		Title:    "Buy milk",
		Priority: todo.PriorityHigh,
		Category: "errands",
		DueDate:  "2026-10-20",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created todo.Todo
	require.NoError(t, json.Unmarshal(payload["data"], &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)
	assert.Equal(t, "2026-10-20", created.DueDateInput())

	w, payload = doJSON(t, s, http.MethodGet, "/api/todos/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched todo.Todo
	require.NoError(t, json.Unmarshal(payload["data"], &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, todo.PriorityHigh, fetched.Priority)
	assert.Equal(t, "errands", fetched.Category)
}

func TestCreateValidation(t *testing.T) {
	s := newServer()

	w, payload := doJSON(t, s, http.MethodPost, "/api/todos", todo.Input{Title: "  ", DueDate: "2026-10-01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var message string
	require.NoError(t, json.Unmarshal(payload["message"], &message))
	assert.Equal(t, "Title is required", message)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(payload["errors"], &fields))
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "dueDate")
	assert.Empty(t, s.All())
}

func TestListFiltersAndPaginates(t *testing.T) {
	s := newServer()
	for i := 0; i < 12; i++ {
		s.Seed(todo.Todo{
			Title:     string(rune('a' + i)),
			Completed: i%3 == 0,
			CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute),
		})
	}

	w, payload := doJSON(t, s, http.MethodGet, "/api/todos?page=2&limit=5&sort=oldest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page todo.Page
	require.NoError(t, json.Unmarshal(payload["data"], &page))
	assert.Len(t, page.Todos, 5)
	assert.Equal(t, "f", page.Todos[0].Title)
	assert.Equal(t, todo.Pagination{CurrentPage: 2, TotalPages: 3, TotalCount: 12, HasPrevPage: true, HasNextPage: true}, page.Pagination)

	_, payload = doJSON(t, s, http.MethodGet, "/api/todos/status/completed?limit=10", nil)
	require.NoError(t, json.Unmarshal(payload["data"], &page))
	assert.Equal(t, 4, page.Pagination.TotalCount)
	for _, item := range page.Todos {
		assert.True(t, item.Completed)
	}
}

func TestUrgentListsDueSoon(t *testing.T) {
	s := newServer()
	soon := fixedNow.Add(24 * time.Hour)
	later := fixedNow.Add(10 * 24 * time.Hour)
	s.Seed(todo.Todo{Title: "soon", DueDate: &soon})
	s.Seed(todo.Todo{Title: "later", DueDate: &later})
	s.Seed(todo.Todo{Title: "done", DueDate: &soon, Completed: true})
	s.Seed(todo.Todo{Title: "undated"})

	_, payload := doJSON(t, s, http.MethodGet, "/api/todos/status/urgent", nil)
	var page todo.Page
	require.NoError(t, json.Unmarshal(payload["data"], &page))
	require.Len(t, page.Todos, 1)
	assert.Equal(t, "soon", page.Todos[0].Title)
}

func TestCompleteIsIdempotent(t *testing.T) {
	s := newServer()
	item := s.Seed(todo.Todo{Title: "x"})

	for i := 0; i < 2; i++ {
		w, _ := doJSON(t, s, http.MethodPatch, "/api/todos/"+item.ID+"/complete", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	stored, ok := s.Todo(item.ID)
	require.True(t, ok)
	assert.True(t, stored.Completed)
	assert.NotNil(t, stored.CompletedAt)

	w, _ := doJSON(t, s, http.MethodPatch, "/api/todos/"+item.ID+"/incomplete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stored, _ = s.Todo(item.ID)
	assert.False(t, stored.Completed)
	assert.Nil(t, stored.CompletedAt)
}

func TestUpdateAndDelete(t *testing.T) {
	s := newServer()
	item := s.Seed(todo.Todo{Title: "old", Priority: todo.PriorityLow})

	w, _ := doJSON(t, s, http.MethodPut, "/api/todos/"+item.ID, todo.Input{Title: "new", Priority: todo.PriorityMedium})
	require.Equal(t, http.StatusOK, w.Code)
	stored, _ := s.Todo(item.ID)
	assert.Equal(t, "new", stored.Title)
	assert.NotNil(t, stored.UpdatedAt)

	w, _ = doJSON(t, s, http.MethodDelete, "/api/todos/"+item.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, ok := s.Todo(item.ID)
	assert.False(t, ok)

	w, payload := doJSON(t, s, http.MethodDelete, "/api/todos/"+item.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `"Todo not found"`, string(payload["message"]))
}

func TestFailNextAndRequests(t *testing.T) {
	s := newServer()
	s.FailNext(http.StatusInternalServerError, "server error")

	w, payload := doJSON(t, s, http.MethodGet, "/api/todos", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `"server error"`, string(payload["message"]))

	w, _ = doJSON(t, s, http.MethodGet, "/api/todos?page=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	requests := s.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, Request{Method: http.MethodGet, Path: "/api/todos", Query: "page=1"}, requests[1])
}
