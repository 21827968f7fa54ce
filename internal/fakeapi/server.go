// Package fakeapi is an in-memory todo backend speaking the same REST contract
// as the real API. Tests and testscripts run it behind httptest.
package fakeapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/amonks/tasklist/todo"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultBasePath is where the todo routes are mounted.
const DefaultBasePath = "/api/todos"

// urgentWindow is how far ahead an incomplete todo's due date must fall to be
// listed as urgent.
const urgentWindow = 3 * 24 * time.Hour

func init() {
	gin.SetMode(gin.TestMode)
}

// Options configures a Server.
type Options struct {
	// BasePath defaults to DefaultBasePath.
	BasePath string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Request is one recorded request.
type Request struct {
	Method string
	Path   string
	Query  string
}

type failure struct {
	status  int
	message string
}

// Server is the fake backend. It is safe for concurrent use.
type Server struct {
	basePath string
	now      func() time.Time
	router   *gin.Engine

	mu       sync.Mutex
	todos    map[string]todo.Todo
	requests []Request
	failures []failure
}

// New creates an empty fake backend.
func New(opts Options) *Server {
	basePath := strings.TrimRight(opts.BasePath, "/")
	if basePath == "" {
		basePath = DefaultBasePath
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		basePath: basePath,
		now:      now,
		todos:    map[string]todo.Todo{},
	}
	s.configRoutes()
	return s
}

// BasePath returns the mount point of the todo routes.
func (s *Server) BasePath() string {
	return s.basePath
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) configRoutes() {
	router := gin.New()
	router.Use(gin.Recovery(), s.record, s.injectFailure)

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	todos := router.Group(s.basePath)
	{
		todos.GET("", s.listTodos)
		todos.GET("/status/:status", s.listTodos)
		todos.GET("/:id", s.getTodo)
		todos.POST("", s.createTodo)
		todos.PUT("/:id", s.updateTodo)
		todos.DELETE("/:id", s.deleteTodo)
		todos.PATCH("/:id/complete", s.setCompleted(true))
		todos.PATCH("/:id/incomplete", s.setCompleted(false))
	}

	s.router = router
}

// Seed stores item as is, assigning an ID and creation time when missing.
func (s *Server) Seed(item todo.Todo) todo.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}
	if !item.Priority.IsValid() {
		item.Priority = todo.PriorityMedium
	}
	s.todos[item.ID] = item
	return item
}

// Todo returns the stored todo with id.
func (s *Server) Todo(id string) (todo.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.todos[id]
	return item, ok
}

// All returns every stored todo, newest first.
func (s *Server) All() []todo.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.snapshot()
	sortTodos(items, todo.SortNewest)
	return items
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// ResetRequests forgets recorded requests.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// FailNext makes the next request fail with status and message.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{status: status, message: message})
}

func (s *Server) record(ctx *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: ctx.Request.Method,
		Path:   ctx.Request.URL.Path,
		Query:  ctx.Request.URL.RawQuery,
	})
	s.mu.Unlock()
	ctx.Next()
}

func (s *Server) injectFailure(ctx *gin.Context) {
	s.mu.Lock()
	var next *failure
	if len(s.failures) > 0 {
		next = &s.failures[0]
		s.failures = s.failures[1:]
	}
	s.mu.Unlock()

	if next != nil {
		ctx.AbortWithStatusJSON(next.status, gin.H{"success": false, "message": next.message})
		return
	}
	ctx.Next()
}

func (s *Server) listTodos(ctx *gin.Context) {
	status := ctx.Param("status")
	switch status {
	case "", "completed", "incomplete", "urgent":
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown status filter"})
		return
	}

	page := positiveInt(ctx.Query("page"), 1)
	limit := positiveInt(ctx.Query("limit"), todo.DefaultLimit)
	sortKey := todo.Sort(ctx.DefaultQuery("sort", string(todo.SortNewest)))
	if !sortKey.IsValid() {
		sortKey = todo.SortNewest
	}

	s.mu.Lock()
	now := s.now()
	items := make([]todo.Todo, 0, len(s.todos))
	for _, item := range s.snapshot() {
		if matchesStatus(item, status, now) {
			items = append(items, item)
		}
	}
	s.mu.Unlock()

	sortTodos(items, sortKey)

	total := len(items)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": todo.Page{
			Todos: items[start:end],
			Pagination: todo.Pagination{
				CurrentPage: page,
				TotalPages:  totalPages,
				TotalCount:  total,
				HasPrevPage: page > 1,
				HasNextPage: page < totalPages,
			},
		},
	})
}

func (s *Server) getTodo(ctx *gin.Context) {
	item, ok := s.Todo(ctx.Param("id"))
	if !ok {
		notFound(ctx)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": item})
}

func (s *Server) createTodo(ctx *gin.Context) {
	input, ok := s.bindInput(ctx)
	if !ok {
		return
	}

	s.mu.Lock()
	item := todo.Todo{
		ID:        uuid.New().String(),
		CreatedAt: s.now(),
	}
	applyInput(&item, input)
	s.todos[item.ID] = item
	s.mu.Unlock()

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "message": "Todo created", "data": item})
}

func (s *Server) updateTodo(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, ok := s.Todo(id); !ok {
		notFound(ctx)
		return
	}
	input, ok := s.bindInput(ctx)
	if !ok {
		return
	}

	s.mu.Lock()
	item, exists := s.todos[id]
	if exists {
		applyInput(&item, input)
		updated := s.now()
		item.UpdatedAt = &updated
		s.todos[id] = item
	}
	s.mu.Unlock()

	if !exists {
		notFound(ctx)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Todo updated", "data": item})
}

func (s *Server) deleteTodo(ctx *gin.Context) {
	id := ctx.Param("id")

	s.mu.Lock()
	_, exists := s.todos[id]
	delete(s.todos, id)
	s.mu.Unlock()

	if !exists {
		notFound(ctx)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Todo deleted"})
}

func (s *Server) setCompleted(completed bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.Param("id")

		s.mu.Lock()
		item, exists := s.todos[id]
		if exists {
			item.Completed = completed
			if completed {
				if item.CompletedAt == nil {
					at := s.now()
					item.CompletedAt = &at
				}
			} else {
				item.CompletedAt = nil
			}
			s.todos[id] = item
		}
		s.mu.Unlock()

		if !exists {
			notFound(ctx)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true, "data": item})
	}
}

func (s *Server) bindInput(ctx *gin.Context) (todo.Input, bool) {
	var input todo.Input
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return todo.Input{}, false
	}
	if fields := validateInput(input, s.now()); len(fields) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": firstMessage(fields),
			"errors":  fields,
		})
		return todo.Input{}, false
	}
	return input, true
}

// snapshot copies the stored todos. Callers hold s.mu.
func (s *Server) snapshot() []todo.Todo {
	items := make([]todo.Todo, 0, len(s.todos))
	for _, item := range s.todos {
		items = append(items, item)
	}
	return items
}

func notFound(ctx *gin.Context) {
	ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Todo not found"})
}

func positiveInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func matchesStatus(item todo.Todo, status string, now time.Time) bool {
	switch status {
	case "completed":
		return item.Completed
	case "incomplete":
		return !item.Completed
	case "urgent":
		if item.Completed || item.DueDate == nil {
			return false
		}
		return item.DueDate.Before(now.Add(urgentWindow))
	default:
		return true
	}
}

var priorityRank = map[todo.Priority]int{
	todo.PriorityHigh:   0,
	todo.PriorityMedium: 1,
	todo.PriorityLow:    2,
}

func sortTodos(items []todo.Todo, key todo.Sort) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch key {
		case todo.SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case todo.SortTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case todo.SortPriority:
			if priorityRank[a.Priority] != priorityRank[b.Priority] {
				return priorityRank[a.Priority] < priorityRank[b.Priority]
			}
			return a.CreatedAt.After(b.CreatedAt)
		case todo.SortDueDate:
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return a.CreatedAt.After(b.CreatedAt)
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

func applyInput(item *todo.Todo, input todo.Input) {
	item.Title = strings.TrimSpace(input.Title)
	item.Description = input.Description
	item.Priority = input.Priority
	if !item.Priority.IsValid() {
		item.Priority = todo.PriorityMedium
	}
	item.Category = input.Category
	item.DueDate = nil
	if input.DueDate != "" {
		if due, err := todo.ParseTimestamp(input.DueDate); err == nil {
			due = due.UTC()
			item.DueDate = &due
		}
	}
}

func validateInput(input todo.Input, now time.Time) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "Title is required"
	} else if utf8.RuneCountInString(input.Title) > todo.MaxTitleLength {
		fields["title"] = "Title must be 100 characters or fewer"
	}
	if utf8.RuneCountInString(input.Description) > todo.MaxDescriptionLength {
		fields["description"] = "Description must be 500 characters or fewer"
	}
	if utf8.RuneCountInString(input.Category) > todo.MaxCategoryLength {
		fields["category"] = "Category must be 50 characters or fewer"
	}
	if input.Priority != "" && !input.Priority.IsValid() {
		fields["priority"] = "Priority must be low, medium, or high"
	}
	if input.DueDate != "" {
		due, err := todo.ParseTimestamp(input.DueDate)
		if err != nil {
			fields["dueDate"] = "Due date must be a valid date"
		} else if !due.After(now) {
			fields["dueDate"] = "Due date must be in the future"
		}
	}
	return fields
}

func firstMessage(fields map[string]string) string {
	for _, key := range []string{"title", "description", "priority", "category", "dueDate"} {
		if message, ok := fields[key]; ok {
			return message
		}
	}
	return "Validation failed"
}
