// Package api is the HTTP client for the todo REST API.
//
// Every operation is one request against a fixed base URL such as
// http://localhost:3000/api/todos. Response bodies are decoded as JSON even on
// failure, so that a server-provided message can be surfaced verbatim.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/amonks/tasklist/internal/logging"
	internalstrings "github.com/amonks/tasklist/internal/strings"
	"github.com/amonks/tasklist/todo"
	"github.com/charmbracelet/log"
)

// Client calls the todo API.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: internalstrings.TrimTrailingSlash(strings.TrimSpace(baseURL)),
		client:  &http.Client{},
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List returns one page of todos matching the query.
func (c *Client) List(ctx context.Context, query todo.ListQuery) (todo.Page, error) {
	query = query.Normalize()

	params := url.Values{}
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("limit", strconv.Itoa(query.Limit))
	params.Set("sort", string(query.Sort))

	var page todo.Page
	if err := c.do(ctx, http.MethodGet, listPath(query.Filter)+"?"+params.Encode(), nil, &page); err != nil {
		return todo.Page{}, err
	}
	if page.Todos == nil {
		page.Todos = []todo.Todo{}
	}
	return page, nil
}

// Get returns a single todo.
func (c *Client) Get(ctx context.Context, id string) (todo.Todo, error) {
	var item todo.Todo
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &item); err != nil {
		return todo.Todo{}, err
	}
	return item, nil
}

// Create creates a todo and returns the stored record.
func (c *Client) Create(ctx context.Context, input todo.Input) (todo.Todo, error) {
	var item todo.Todo
	if err := c.do(ctx, http.MethodPost, "", input, &item); err != nil {
		return todo.Todo{}, err
	}
	return item, nil
}

// Update replaces the editable fields of a todo.
func (c *Client) Update(ctx context.Context, id string, input todo.Input) (todo.Todo, error) {
	var item todo.Todo
	if err := c.do(ctx, http.MethodPut, itemPath(id), input, &item); err != nil {
		return todo.Todo{}, err
	}
	return item, nil
}

// Delete removes a todo.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

// Complete marks a todo completed.
func (c *Client) Complete(ctx context.Context, id string) (todo.Todo, error) {
	var item todo.Todo
	if err := c.do(ctx, http.MethodPatch, itemPath(id)+"/complete", nil, &item); err != nil {
		return todo.Todo{}, err
	}
	return item, nil
}

// Incomplete marks a todo not completed.
func (c *Client) Incomplete(ctx context.Context, id string) (todo.Todo, error) {
	var item todo.Todo
	if err := c.do(ctx, http.MethodPatch, itemPath(id)+"/incomplete", nil, &item); err != nil {
		return todo.Todo{}, err
	}
	return item, nil
}

func listPath(filter todo.Filter) string {
	switch filter {
	case todo.FilterCompleted, todo.FilterIncomplete, todo.FilterUrgent:
		return "/status/" + string(filter)
	default:
		return ""
	}
}

func itemPath(id string) string {
	return "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, dest any) error {
	endpoint := c.baseURL + path

	var body io.Reader
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("api request", "method", method, "url", endpoint, "body", string(data))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "method", method, "url", endpoint, "err", err)
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("api response read failed", "method", method, "url", endpoint, "err", err)
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("api response", "method", method, "url", endpoint, "status", resp.StatusCode, "body", string(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := readErrorResponse(resp.StatusCode, raw)
		c.logger.Error("api request rejected", "method", method, "url", endpoint, "status", resp.StatusCode, "err", err)
		return err
	}

	if err := decodePayload(raw, dest); err != nil {
		c.logger.Error("api response decode failed", "method", method, "url", endpoint, "err", err)
		return err
	}
	return nil
}

// decodePayload decodes a success body into dest, reading through a top-level
// "data" envelope when one is present. With a nil dest an empty body is
// accepted and any other body must still be valid JSON.
func decodePayload(raw []byte, dest any) error {
	trimmed := bytes.TrimSpace(raw)
	if dest == nil {
		if len(trimmed) == 0 {
			return nil
		}
		var discard json.RawMessage
		if err := json.Unmarshal(trimmed, &discard); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	if len(trimmed) == 0 {
		return fmt.Errorf("decode response: %w", io.ErrUnexpectedEOF)
	}

	payload := trimmed
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err == nil {
		if inner := bytes.TrimSpace(envelope["data"]); len(inner) > 0 && string(inner) != "null" {
			payload = inner
		}
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
