package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amonks/tasklist/internal/logging"
	"github.com/amonks/tasklist/todo"
)

type recordedRequest struct {
	Method      string
	Path        string
	RawPath     string
	Query       string
	ContentType string
	Body        string
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawPath:     r.URL.EscapedPath(),
			Query:       r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(data),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestListRoutesFilterToPath(t *testing.T) {
	tests := []struct {
		filter todo.Filter
		path   string
	}{
		{todo.FilterAll, "/api/todos"},
		{todo.FilterCompleted, "/api/todos/status/completed"},
		{todo.FilterIncomplete, "/api/todos/status/incomplete"},
		{todo.FilterUrgent, "/api/todos/status/urgent"},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			server, requests := newTestServer(t, http.StatusOK, `{"todos":[],"pagination":{"currentPage":1,"totalPages":0,"totalCount":0}}`)
			client := New(server.URL + "/api/todos/")

			_, err := client.List(context.Background(), todo.ListQuery{Filter: tt.filter, Sort: todo.SortTitle, Page: 2, Limit: 10})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(*requests) != 1 {
				t.Fatalf("expected 1 request, got %d", len(*requests))
			}
			got := (*requests)[0]
			if got.Method != http.MethodGet || got.Path != tt.path {
				t.Fatalf("expected GET %s, got %s %s", tt.path, got.Method, got.Path)
			}
			if got.Query != "limit=10&page=2&sort=title" {
				t.Fatalf("unexpected query %q", got.Query)
			}
			if got.ContentType != "application/json" {
				t.Fatalf("expected json content type, got %q", got.ContentType)
			}
		})
	}
}

func TestListReadsDataEnvelope(t *testing.T) {
	body := `{"success":true,"data":{"todos":[{"_id":"a1","title":"Buy milk","priority":"medium","completed":false,"createdAt":"2026-10-14T08:00:00Z"}],"pagination":{"currentPage":1,"totalPages":1,"totalCount":1,"hasPrevPage":false,"hasNextPage":false}}}`
	server, _ := newTestServer(t, http.StatusOK, body)

	page, err := New(server.URL).List(context.Background(), todo.ListQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Todos) != 1 || page.Todos[0].ID != "a1" || page.Todos[0].Title != "Buy milk" {
		t.Fatalf("unexpected todos: %+v", page.Todos)
	}
	if page.Pagination.TotalCount != 1 || page.Pagination.CurrentPage != 1 {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}
}

func TestListReadsTopLevelPayload(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"todos":null,"pagination":{"currentPage":3,"totalPages":4,"totalCount":31,"hasPrevPage":true,"hasNextPage":true}}`)

	page, err := New(server.URL).List(context.Background(), todo.ListQuery{Page: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Todos == nil || len(page.Todos) != 0 {
		t.Fatalf("expected empty non-nil todos, got %#v", page.Todos)
	}
	if !page.Pagination.HasPrevPage || !page.Pagination.HasNextPage {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}
}

func TestCreateSendsAllFields(t *testing.T) {
	server, requests := newTestServer(t, http.StatusCreated, `{"data":{"_id":"n1","title":"Buy milk","priority":"medium","completed":false}}`)

	item, err := New(server.URL).Create(context.Background(), todo.Input{Title: "Buy milk", Priority: todo.PriorityMedium})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ID != "n1" {
		t.Fatalf("expected created id n1, got %q", item.ID)
	}

	got := (*requests)[0]
	if got.Method != http.MethodPost || got.Path != "/" {
		t.Fatalf("expected POST /, got %s %s", got.Method, got.Path)
	}
	var sent map[string]any
	if err := json.Unmarshal([]byte(got.Body), &sent); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	for _, key := range []string{"title", "description", "priority", "category", "dueDate"} {
		if _, ok := sent[key]; !ok {
			t.Errorf("expected request body to include %q, got %s", key, got.Body)
		}
	}
}

func TestItemOperationsUseEscapedPaths(t *testing.T) {
	tests := []struct {
		name   string
		call   func(*Client) error
		method string
		path   string
	}{
		{"get", func(c *Client) error { _, err := c.Get(context.Background(), "a/b"); return err }, http.MethodGet, "/a%2Fb"},
		{"update", func(c *Client) error {
			_, err := c.Update(context.Background(), "a/b", todo.Input{Title: "x"})
			return err
		}, http.MethodPut, "/a%2Fb"},
		{"delete", func(c *Client) error { return c.Delete(context.Background(), "a/b") }, http.MethodDelete, "/a%2Fb"},
		{"complete", func(c *Client) error { _, err := c.Complete(context.Background(), "a/b"); return err }, http.MethodPatch, "/a%2Fb/complete"},
		{"incomplete", func(c *Client) error { _, err := c.Incomplete(context.Background(), "a/b"); return err }, http.MethodPatch, "/a%2Fb/incomplete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, requests := newTestServer(t, http.StatusOK, `{"_id":"a/b","title":"x"}`)
			if err := tt.call(New(server.URL)); err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}
			got := (*requests)[0]
			if got.Method != tt.method || got.RawPath != tt.path {
				t.Fatalf("expected %s %s, got %s %s", tt.method, tt.path, got.Method, got.RawPath)
			}
		})
	}
}

func TestErrorResponseUsesServerMessage(t *testing.T) {
	server, _ := newTestServer(t, http.StatusInternalServerError, `{"message":"server error"}`)

	_, err := New(server.URL).List(context.Background(), todo.ListQuery{})
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "server error" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if Message(err) != "server error" {
		t.Fatalf("expected message to be surfaced verbatim, got %q", Message(err))
	}
}

func TestErrorResponseFallsBackToDefaultMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no message", `{"success":false}`},
		{"blank message", `{"message":"  "}`},
		{"json string", `"bad gateway"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, http.StatusBadGateway, tt.body)
			err := New(server.URL).Delete(context.Background(), "x")
			if err == nil || err.Error() != DefaultErrorMessage {
				t.Fatalf("expected %q, got %v", DefaultErrorMessage, err)
			}
		})
	}
}

func TestMalformedErrorBodyIsWrapped(t *testing.T) {
	server, _ := newTestServer(t, http.StatusBadGateway, `<html>Bad Gateway</html>`)

	err := New(server.URL).Delete(context.Background(), "x")
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if _, ok := AsError(err); ok {
		t.Fatalf("expected decode error, not API error: %v", err)
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected wrapped syntax error, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestDeleteChecksSuccessBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"empty", ``, false},
		{"json", `{"success":true,"message":"Todo deleted"}`, false},
		{"malformed", `{"success":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, http.StatusOK, tt.body)
			err := New(server.URL).Delete(context.Background(), "x")
			if tt.wantErr {
				var syntaxErr *json.SyntaxError
				if !errors.As(err, &syntaxErr) {
					t.Fatalf("expected wrapped syntax error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("delete: %v", err)
			}
		})
	}
}

func TestErrorResponseReadsFieldErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{
			name: "object",
			body: `{"message":"Validation failed","errors":{"title":"Title is required","dueDate":["Due date must be in the future"]}}`,
			want: map[string]string{"title": "Title is required", "dueDate": "Due date must be in the future"},
		},
		{
			name: "array",
			body: `{"message":"Validation failed","errors":[{"path":"category","msg":"Category is too long"},{"field":"title","message":"Title is too long"}]}`,
			want: map[string]string{"category": "Category is too long", "title": "Title is too long"},
		},
		{
			name: "none",
			body: `{"message":"Validation failed"}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, http.StatusBadRequest, tt.body)
			_, err := New(server.URL).Create(context.Background(), todo.Input{Title: "x"})
			apiErr, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *Error, got %v", err)
			}
			if len(apiErr.Fields) != len(tt.want) {
				t.Fatalf("expected %d field errors, got %v", len(tt.want), apiErr.Fields)
			}
			for field, message := range tt.want {
				got, ok := apiErr.FieldMessage(field)
				if !ok || got != message {
					t.Errorf("field %s: expected %q, got %q", field, message, got)
				}
			}
		})
	}
}

func TestMalformedSuccessBodyIsWrapped(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"todos": [`)

	_, err := New(server.URL).List(context.Background(), todo.ListQuery{})
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if _, ok := AsError(err); ok {
		t.Fatalf("expected decode error, not API error")
	}
	if !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("expected wrapped decode error, got %v", err)
	}
}

func TestTransportErrorIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(baseURL).Get(ctx, "x")
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped context error, got %v", err)
	}
}

func TestRequestsAreLoggedAtDebug(t *testing.T) {
	server, _ := newTestServer(t, http.StatusInternalServerError, `{"message":"server error"}`)

	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{Level: "debug", Format: "logfmt"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	_, _ = New(server.URL, WithLogger(logger)).List(context.Background(), todo.ListQuery{})

	out := buf.String()
	for _, want := range []string{"api request", "api response", "status=500", "api request rejected"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log output to contain %q, got:\n%s", want, out)
		}
	}
}
