package controller

import (
	"context"
	"fmt"

	"github.com/amonks/tasklist/api"
	"github.com/amonks/tasklist/internal/logging"
	"github.com/amonks/tasklist/todo"
	"github.com/charmbracelet/log"
)

// Service is the subset of the API client the controller uses.
type Service interface {
	List(ctx context.Context, query todo.ListQuery) (todo.Page, error)
	Create(ctx context.Context, input todo.Input) (todo.Todo, error)
	Update(ctx context.Context, id string, input todo.Input) (todo.Todo, error)
	Delete(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) (todo.Todo, error)
	Incomplete(ctx context.Context, id string) (todo.Todo, error)
}

var _ Service = (*api.Client)(nil)

// Confirmer asks the user to confirm deleting item.
type Confirmer interface {
	ConfirmDelete(item todo.Todo) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(item todo.Todo) bool

// ConfirmDelete calls f.
func (f ConfirmFunc) ConfirmDelete(item todo.Todo) bool {
	return f(item)
}

// AlwaysConfirm confirms every deletion.
var AlwaysConfirm = ConfirmFunc(func(todo.Todo) bool { return true })

// Option configures a Controller.
type Option func(*Controller)

// WithConfirmer sets the delete confirmation prompt. The default declines.
func WithConfirmer(confirmer Confirmer) Option {
	return func(c *Controller) {
		if confirmer != nil {
			c.confirmer = confirmer
		}
	}
}

// WithLimit sets the page size, keeping the rest of the state.
func WithLimit(limit int) Option {
	return func(c *Controller) {
		if limit < 1 {
			limit = todo.DefaultLimit
		}
		c.state.Limit = limit
	}
}

// WithState starts the controller from state, as when a request carries the
// current filter, sort and page.
func WithState(state State) Option {
	return func(c *Controller) {
		c.state = state
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller drives one State against a Service. It is not safe for
// concurrent use.
type Controller struct {
	svc       Service
	confirmer Confirmer
	logger    *log.Logger
	state     State
}

// New creates a controller.
func New(svc Service, opts ...Option) *Controller {
	c := &Controller{
		svc:       svc,
		confirmer: ConfirmFunc(func(todo.Todo) bool { return false }),
		logger:    logging.Discard(),
		state:     Initial(todo.DefaultLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Stats returns totals for the current page.
func (c *Controller) Stats() Stats {
	return c.state.Stats()
}

// Load fetches the page for the current query.
func (c *Controller) Load(ctx context.Context) error {
	c.state = c.state.Loading()
	page, err := c.svc.List(ctx, c.state.Query())
	if err != nil {
		c.logger.Warn("load todos", "err", err)
		c.state = c.state.Failed(api.Message(err))
		return err
	}
	c.state = c.state.Loaded(page)
	return nil
}

// SetFilter changes the filter, returns to page 1 and reloads.
func (c *Controller) SetFilter(ctx context.Context, filter todo.Filter) error {
	c.state = c.state.WithFilter(filter)
	return c.Load(ctx)
}

// SetSort changes the sort, returns to page 1 and reloads.
func (c *Controller) SetSort(ctx context.Context, sort todo.Sort) error {
	c.state = c.state.WithSort(sort)
	return c.Load(ctx)
}

// SetPage requests page n and reloads.
func (c *Controller) SetPage(ctx context.Context, n int) error {
	c.state = c.state.WithPage(n)
	return c.Load(ctx)
}

// NextPage advances one page and reloads.
func (c *Controller) NextPage(ctx context.Context) error {
	c.state = c.state.NextPage()
	return c.Load(ctx)
}

// PrevPage goes back one page and reloads.
func (c *Controller) PrevPage(ctx context.Context) error {
	c.state = c.state.PrevPage()
	return c.Load(ctx)
}

// ToggleAdd opens or closes the add form.
func (c *Controller) ToggleAdd() {
	c.state = c.state.ToggleAdd()
}

// StartEdit opens the inline editor for id.
func (c *Controller) StartEdit(id string) {
	c.state = c.state.StartEdit(id)
}

// CloseEditor closes any open editor.
func (c *Controller) CloseEditor() {
	c.state = c.state.CloseEditor()
}

// Create creates a todo. On success the editor closes. The page is reloaded
// either way. A create failure is returned to the caller, not recorded on the
// list.
func (c *Controller) Create(ctx context.Context, input todo.Input) (todo.Todo, error) {
	item, err := c.svc.Create(ctx, input)
	if err != nil {
		c.logger.Warn("create todo", "err", err)
	} else {
		c.state = c.state.CloseEditor()
	}
	c.reload(ctx)
	return item, err
}

// Update saves input for id, with the same reload and error behavior as
// Create.
func (c *Controller) Update(ctx context.Context, id string, input todo.Input) (todo.Todo, error) {
	item, err := c.svc.Update(ctx, id, input)
	if err != nil {
		c.logger.Warn("update todo", "id", id, "err", err)
	} else {
		c.state = c.state.CloseEditor()
	}
	c.reload(ctx)
	return item, err
}

// Delete asks for confirmation and deletes id. It reports whether a delete
// was attempted. A declined confirmation makes no request and leaves the
// state unchanged; a failed delete is recorded on the list without reloading.
func (c *Controller) Delete(ctx context.Context, id string) (bool, error) {
	item, ok := c.state.Find(id)
	if !ok {
		item = todo.Todo{ID: id}
	}
	if !c.confirmer.ConfirmDelete(item) {
		return false, nil
	}
	if err := c.svc.Delete(ctx, id); err != nil {
		c.logger.Warn("delete todo", "id", id, "err", err)
		c.state = c.state.Failed(api.Message(err))
		return true, err
	}
	c.reload(ctx)
	return true, nil
}

// ToggleComplete flips the completion of id based on its value in the
// current page. A failure is recorded on the list without reloading.
func (c *Controller) ToggleComplete(ctx context.Context, id string) error {
	item, ok := c.state.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", todo.ErrTodoNotFound, id)
	}

	var err error
	if item.Completed {
		_, err = c.svc.Incomplete(ctx, id)
	} else {
		_, err = c.svc.Complete(ctx, id)
	}
	if err != nil {
		c.logger.Warn("toggle todo", "id", id, "err", err)
		c.state = c.state.Failed(api.Message(err))
		return err
	}
	c.reload(ctx)
	return nil
}

// reload runs Load; its error is already recorded on the state.
func (c *Controller) reload(ctx context.Context) {
	_ = c.Load(ctx)
}
