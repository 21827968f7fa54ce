// Package web serves the browser client: one server-rendered page per
// request, backed by a fresh controller.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/tasklist/controller"
	"github.com/amonks/tasklist/form"
	"github.com/amonks/tasklist/internal/logging"
	internalstrings "github.com/amonks/tasklist/internal/strings"
	"github.com/amonks/tasklist/todo"
	"github.com/charmbracelet/log"
)

// Options configures the web handler.
type Options struct {
	Service controller.Service
	Logger  *log.Logger
	// Limit is the page size. Zero uses todo.DefaultLimit.
	Limit int
	// Now returns the current time. Nil uses time.Now.
	Now func() time.Time
}

// Handler serves the browser client.
type Handler struct {
	svc       controller.Service
	logger    *log.Logger
	limit     int
	now       func() time.Time
	mux       *http.ServeMux
	templates *templateWrapper
}

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	handler := &Handler{
		svc:       opts.Service,
		logger:    opts.Logger,
		limit:     opts.Limit,
		now:       opts.Now,
		templates: newTemplateWrapper(),
	}
	if handler.logger == nil {
		handler.logger = logging.Discard()
	}
	if handler.limit < 1 {
		handler.limit = todo.DefaultLimit
	}
	if handler.now == nil {
		handler.now = time.Now
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", handler.handleIndex)
	mux.HandleFunc("POST /todos", handler.handleCreate)
	mux.HandleFunc("POST /todos/{id}", handler.handleUpdate)
	mux.HandleFunc("POST /todos/{id}/delete", handler.handleDelete)
	mux.HandleFunc("POST /todos/{id}/toggle", handler.handleToggle)
	handler.mux = mux
	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("web request", "method", r.Method, "path", r.URL.Path)
	h.mux.ServeHTTP(w, r)
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, status int, data pageData) error {
	var buf bytes.Buffer
	if err := tw.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// listParams is the list position carried by every link and form.
type listParams struct {
	Filter todo.Filter
	Sort   todo.Sort
	Page   int
}

func parseListParams(values url.Values) (listParams, error) {
	filter, err := todo.ParseFilter(values.Get("filter"))
	if err != nil {
		return listParams{}, err
	}
	sort, err := todo.ParseSort(values.Get("sort"))
	if err != nil {
		return listParams{}, err
	}
	page := 1
	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return listParams{}, fmt.Errorf("invalid page %q", raw)
		}
		page = parsed
	}
	return listParams{Filter: filter, Sort: sort, Page: page}, nil
}

func (p listParams) values() url.Values {
	values := url.Values{}
	values.Set("filter", string(p.Filter))
	values.Set("sort", string(p.Sort))
	values.Set("page", strconv.Itoa(p.Page))
	return values
}

// url returns the list URL for p with extra key/value pairs.
func (p listParams) url(extra ...string) string {
	values := p.values()
	for i := 0; i+1 < len(extra); i += 2 {
		values.Set(extra[i], extra[i+1])
	}
	return "/?" + values.Encode()
}

func (p listParams) withPage(page int) listParams {
	p.Page = page
	return p
}

func (p listParams) hidden() []hiddenField {
	return []hiddenField{
		{Name: "filter", Value: string(p.Filter)},
		{Name: "sort", Value: string(p.Sort)},
		{Name: "page", Value: strconv.Itoa(p.Page)},
	}
}

func (h *Handler) newController(params listParams, opts ...controller.Option) *controller.Controller {
	state := controller.Initial(h.limit).WithFilter(params.Filter).WithSort(params.Sort).WithPage(params.Page)
	opts = append([]controller.Option{controller.WithState(state), controller.WithLogger(h.logger)}, opts...)
	return controller.New(h.svc, opts...)
}

// view is what one render needs besides the controller state.
type view struct {
	params        listParams
	addForm       *form.Form
	editForm      *form.Form
	confirmDelete string
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctl := h.newController(params)
	_ = ctl.Load(r.Context())

	v := view{params: params}
	query := r.URL.Query()
	if query.Get("add") == "1" {
		ctl.ToggleAdd()
		v.addForm = form.NewCreate()
	}
	if id := strings.TrimSpace(query.Get("edit")); id != "" {
		if item, ok := ctl.State().Find(id); ok {
			ctl.StartEdit(id)
			v.editForm = form.NewEdit(item)
		}
	}
	if id := strings.TrimSpace(query.Get("delete")); id != "" {
		if _, ok := ctl.State().Find(id); ok {
			v.confirmDelete = id
		}
	}
	h.render(w, http.StatusOK, ctl.State(), v)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	params, ok := h.parsePost(w, r)
	if !ok {
		return
	}
	f := form.NewFromValues(form.ModeCreate, "", formValuesFromRequest(r))
	ctl := h.newController(params)
	ctl.ToggleAdd()

	input, ok := f.Begin(h.now())
	if !ok {
		_ = ctl.Load(r.Context())
		h.render(w, http.StatusBadRequest, ctl.State(), view{params: params, addForm: f})
		return
	}
	_, err := ctl.Create(r.Context(), input)
	f.Finish(err)
	if err != nil {
		h.render(w, http.StatusUnprocessableEntity, ctl.State(), view{params: params, addForm: f})
		return
	}
	http.Redirect(w, r, params.url(), http.StatusSeeOther)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	params, ok := h.parsePost(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	f := form.NewFromValues(form.ModeEdit, id, formValuesFromRequest(r))
	ctl := h.newController(params)

	input, ok := f.Begin(h.now())
	if !ok {
		_ = ctl.Load(r.Context())
		ctl.StartEdit(id)
		h.render(w, http.StatusBadRequest, ctl.State(), view{params: params, editForm: f})
		return
	}
	ctl.StartEdit(id)
	_, err := ctl.Update(r.Context(), id, input)
	f.Finish(err)
	if err != nil {
		h.render(w, http.StatusUnprocessableEntity, ctl.State(), view{params: params, editForm: f})
		return
	}
	http.Redirect(w, r, params.url(), http.StatusSeeOther)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	params, ok := h.parsePost(w, r)
	if !ok {
		return
	}
	confirmed := r.PostFormValue("confirm") == "yes"
	ctl := h.newController(params, controller.WithConfirmer(controller.ConfirmFunc(func(todo.Todo) bool {
		return confirmed
	})))

	attempted, err := ctl.Delete(r.Context(), r.PathValue("id"))
	if attempted && err != nil {
		h.render(w, http.StatusBadGateway, ctl.State(), view{params: params})
		return
	}
	http.Redirect(w, r, params.url(), http.StatusSeeOther)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	params, ok := h.parsePost(w, r)
	if !ok {
		return
	}
	ctl := h.newController(params)
	if err := ctl.Load(r.Context()); err != nil {
		h.render(w, http.StatusBadGateway, ctl.State(), view{params: params})
		return
	}
	if err := ctl.ToggleComplete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, todo.ErrTodoNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.render(w, http.StatusBadGateway, ctl.State(), view{params: params})
		return
	}
	http.Redirect(w, r, params.url(), http.StatusSeeOther)
}

func (h *Handler) parsePost(w http.ResponseWriter, r *http.Request) (listParams, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form input", http.StatusBadRequest)
		return listParams{}, false
	}
	params, err := parseListParams(r.Form)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return listParams{}, false
	}
	return params, true
}

func formValuesFromRequest(r *http.Request) form.Values {
	priority := todo.Priority(internalstrings.NormalizeLowerTrimSpace(r.PostFormValue("priority")))
	if priority == "" {
		priority = todo.PriorityMedium
	}
	return form.Values{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Priority:    priority,
		Category:    r.PostFormValue("category"),
		DueDate:     strings.TrimSpace(r.PostFormValue("dueDate")),
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, state controller.State, v view) {
	data := buildPageData(state, v, h.now())
	if err := h.templates.Render(w, status, data); err != nil {
		h.logger.Error("render page", "err", err)
	}
}

// ListenAndServe serves handler on addr until ctx is canceled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	server := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	logger.Info("web client listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
