package web

import (
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/amonks/tasklist/controller"
	"github.com/amonks/tasklist/form"
	"github.com/amonks/tasklist/internal/ui"
	"github.com/amonks/tasklist/todo"
)

func newTemplates() *template.Template {
	return template.Must(template.New("page").Parse(pageTemplate))
}

// todoPath returns the form action for the todo with id.
func todoPath(id string, action ...string) string {
	parts := append([]string{"/todos", url.PathEscape(id)}, action...)
	return strings.Join(parts, "/")
}

type selectOption struct {
	Value    string
	Label    string
	Selected bool
}

type hiddenField struct {
	Name  string
	Value string
}

type formView struct {
	Action      string
	SubmitLabel string
	CancelURL   string
	IDPrefix    string
	Values      form.Values
	Errors      map[string]string
	Priorities  []selectOption
	Hidden      []hiddenField
}

type rowView struct {
	Todo          todo.Todo
	Form          *formView
	PriorityLabel string
	PriorityColor string
	Category      string
	DueDate       string
	Overdue       bool
	Created       string
	CompletedOn   string
	Mark          string
	EditURL       string
	DeleteURL     string
	ToggleAction  string
	Hidden        []hiddenField
}

type confirmView struct {
	Title     string
	Action    string
	CancelURL string
	Hidden    []hiddenField
}

type paginationView struct {
	Label   string
	PrevURL string
	NextURL string
}

type pageData struct {
	Filters       []selectOption
	Sorts         []selectOption
	StatsLine     string
	AddLabel      string
	AddToggleURL  string
	AddForm       *formView
	ConfirmDelete *confirmView
	Loading       bool
	Error         string
	Empty         bool
	LoadingText   string
	EmptyText     string
	Rows          []rowView
	Pagination    *paginationView
}

func buildPageData(state controller.State, v view, now time.Time) pageData {
	params := v.params
	adding := state.Mode.IsAdding()

	data := pageData{
		Filters:     filterOptions(params.Filter),
		Sorts:       sortOptions(params.Sort),
		StatsLine:   ui.StatsLine(state.Stats()),
		AddLabel:    ui.AddButtonLabel(adding),
		LoadingText: ui.LoadingMessage,
		EmptyText:   ui.EmptyMessage,
	}
	if adding {
		data.AddToggleURL = params.url()
		f := v.addForm
		if f == nil {
			f = form.NewCreate()
		}
		data.AddForm = newFormView(f, "/todos", "Add task", params.url(), "new", params)
	} else {
		data.AddToggleURL = params.url("add", "1")
	}

	switch ui.ListDisplayForState(state) {
	case ui.ListLoading:
		data.Loading = true
	case ui.ListError:
		data.Error = state.Err
	case ui.ListEmpty:
		data.Empty = true
	case ui.ListRows:
		for _, item := range state.Todos {
			data.Rows = append(data.Rows, newRowView(item, state, v, now))
		}
	}

	if v.confirmDelete != "" {
		if item, ok := state.Find(v.confirmDelete); ok {
			data.ConfirmDelete = &confirmView{
				Title:     item.Title,
				Action:    todoPath(item.ID, "delete"),
				CancelURL: params.url(),
				Hidden:    params.hidden(),
			}
		}
	}

	if ui.ShowPagination(state.Pagination) {
		pagination := &paginationView{Label: ui.PageLabel(state.Pagination)}
		current := state.Pagination.CurrentPage
		if state.Pagination.HasPrevPage {
			pagination.PrevURL = params.withPage(current - 1).url()
		}
		if state.Pagination.HasNextPage {
			pagination.NextURL = params.withPage(current + 1).url()
		}
		data.Pagination = pagination
	}
	return data
}

func newRowView(item todo.Todo, state controller.State, v view, now time.Time) rowView {
	params := v.params
	info := item.Priority.Info()
	row := rowView{
		Todo:          item,
		PriorityLabel: info.Label,
		PriorityColor: info.Color,
		Category:      ui.CategoryLabel(item.Category),
		DueDate:       ui.FormatDueDate(item, now),
		Overdue:       item.IsOverdue(now),
		Created:       todo.FormatDisplayDate(item.CreatedAt),
		Mark:          ui.CompletionMark(item.Completed),
		EditURL:       params.url("edit", item.ID),
		DeleteURL:     params.url("delete", item.ID),
		ToggleAction:  todoPath(item.ID, "toggle"),
		Hidden:        params.hidden(),
	}
	if item.Completed {
		row.CompletedOn = ui.FormatDate(item.CompletedAt)
	}
	if state.Mode.IsEditing(item.ID) {
		f := v.editForm
		if f == nil || f.ID() != item.ID {
			f = form.NewEdit(item)
		}
		row.Form = newFormView(f, todoPath(item.ID), "Save", params.url(), "edit-"+item.ID, params)
	}
	return row
}

func newFormView(f *form.Form, action, submit, cancelURL, idPrefix string, params listParams) *formView {
	errs := map[string]string{}
	for field, message := range f.Errors() {
		errs[string(field)] = message
	}
	values := f.Values()
	return &formView{
		Action:      action,
		SubmitLabel: submit,
		CancelURL:   cancelURL,
		IDPrefix:    idPrefix,
		Values:      values,
		Errors:      errs,
		Priorities:  priorityOptions(values.Priority),
		Hidden:      params.hidden(),
	}
}

func filterOptions(selected todo.Filter) []selectOption {
	options := make([]selectOption, 0, len(todo.ValidFilters()))
	for _, filter := range todo.ValidFilters() {
		options = append(options, selectOption{Value: string(filter), Label: filter.Label(), Selected: filter == selected})
	}
	return options
}

func sortOptions(selected todo.Sort) []selectOption {
	options := make([]selectOption, 0, len(todo.ValidSorts()))
	for _, sort := range todo.ValidSorts() {
		options = append(options, selectOption{Value: string(sort), Label: sort.Label(), Selected: sort == selected})
	}
	return options
}

func priorityOptions(selected todo.Priority) []selectOption {
	options := make([]selectOption, 0, len(todo.PriorityOptions()))
	for _, info := range todo.PriorityOptions() {
		options = append(options, selectOption{Value: string(info.Value), Label: info.Label, Selected: info.Value == selected})
	}
	return options
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Tasks</title>
  <style>
    :root {
      color-scheme: light;
    }
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: radial-gradient(circle at top left, #f4efe3 0%, #fcfaf6 55%, #f6f2e8 100%);
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: rgba(255, 255, 255, 0.72);
      display: flex;
      flex-wrap: wrap;
      align-items: center;
      gap: 16px;
    }
    header h1 {
      margin: 0;
      font-size: 20px;
      letter-spacing: 0.02em;
    }
    .controls {
      display: flex;
      gap: 10px;
      align-items: center;
    }
    .stats {
      color: #72685f;
      font-size: 14px;
      margin: 0;
    }
    main {
      max-width: 860px;
      margin: 0 auto;
      padding: 18px 24px 28px;
      display: flex;
      flex-direction: column;
      gap: 18px;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 14px;
      box-shadow: 0 8px 24px rgba(60, 45, 30, 0.08);
      padding: 16px 20px;
    }
    .button-link {
      display: inline-block;
      padding: 6px 12px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      background: #f7f2e8;
      text-decoration: none;
      color: #2b2520;
      font-size: 14px;
    }
    .item-list {
      list-style: none;
      padding: 0;
      margin: 0;
      display: flex;
      flex-direction: column;
      gap: 8px;
    }
    .list-item {
      padding: 10px 12px;
      border-radius: 10px;
      border: 1px solid #eee5d8;
    }
    .list-item.completed .item-title {
      text-decoration: line-through;
      color: #72685f;
    }
    .item-title {
      font-weight: 600;
    }
    .item-meta {
      color: #72685f;
      font-size: 12px;
      display: flex;
      flex-wrap: wrap;
      gap: 10px;
    }
    .badge {
      padding: 1px 8px;
      border-radius: 999px;
      font-size: 12px;
    }
    .badge.green { background: #dcefd9; }
    .badge.yellow { background: #f6ecc4; }
    .badge.red { background: #f4d7d2; }
    .overdue {
      color: #a2311f;
    }
    .field {
      display: flex;
      flex-direction: column;
      gap: 6px;
      margin-bottom: 12px;
    }
    input[type="text"],
    input[type="date"],
    select,
    textarea {
      width: 100%;
      padding: 8px 10px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      font-family: inherit;
      font-size: 14px;
      background: #fffdf9;
      box-sizing: border-box;
    }
    .controls select {
      width: auto;
    }
    textarea {
      min-height: 90px;
      resize: vertical;
    }
    .actions {
      display: flex;
      flex-wrap: wrap;
      gap: 10px;
      margin-top: 10px;
    }
    .inline {
      display: inline;
    }
    button {
      padding: 6px 12px;
      border-radius: 8px;
      border: 1px solid #bfb3a2;
      background: #efe6d7;
      font-family: inherit;
      cursor: pointer;
    }
    button.danger {
      background: #f4d7d2;
      border-color: #d7a7a1;
    }
    .error {
      padding: 10px 12px;
      border-radius: 8px;
      background: #f7d9d6;
      border: 1px solid #d9a7a2;
      margin-bottom: 12px;
      color: #5b1d17;
    }
    .field-error {
      color: #a2311f;
      font-size: 13px;
    }
    .muted {
      color: #72685f;
    }
    .pagination {
      display: flex;
      justify-content: center;
      align-items: center;
      gap: 12px;
    }
  </style>
</head>
<body>
  <header>
    <h1>Tasks</h1>
    <form class="controls" method="get" action="/">
      <label>Filter
        <select name="filter">
          {{range .Filters}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
        </select>
      </label>
      <label>Sort
        <select name="sort">
          {{range .Sorts}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
        </select>
      </label>
      <button type="submit">Apply</button>
    </form>
    <p class="stats">{{.StatsLine}}</p>
    <a class="button-link" href="{{.AddToggleURL}}">{{.AddLabel}}</a>
  </header>
  <main>
    {{with .AddForm}}
      <section class="pane">
        <h2>New task</h2>
        {{template "form" .}}
      </section>
    {{end}}
    {{with .ConfirmDelete}}
      <section class="pane" role="dialog">
        <p>Delete "{{.Title}}"?</p>
        <form method="post" action="{{.Action}}">
          {{range .Hidden}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">{{end}}
          <input type="hidden" name="confirm" value="yes">
          <div class="actions">
            <button class="danger" type="submit">Delete</button>
            <a class="button-link" href="{{.CancelURL}}">Cancel</a>
          </div>
        </form>
      </section>
    {{end}}
    <section class="pane">
      {{if .Loading}}
        <p class="muted">{{.LoadingText}}</p>
      {{else if .Error}}
        <div class="error">{{.Error}}</div>
      {{else if .Empty}}
        <p class="muted">{{.EmptyText}}</p>
      {{else}}
        <ul class="item-list">
          {{range .Rows}}
            <li class="list-item{{if .Todo.Completed}} completed{{end}}" id="todo-{{.Todo.ID}}">
              {{if .Form}}
                {{template "form" .Form}}
              {{else}}
                <form class="inline" method="post" action="{{.ToggleAction}}">
                  {{range .Hidden}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">{{end}}
                  <button type="submit" aria-label="Toggle completion">{{.Mark}}</button>
                </form>
                <span class="item-title">{{.Todo.Title}}</span>
                <span class="badge {{.PriorityColor}}">{{.PriorityLabel}}</span>
                {{with .Todo.Description}}<p>{{.}}</p>{{end}}
                <div class="item-meta">
                  {{with .Category}}<span>{{.}}</span>{{end}}
                  {{if .DueDate}}<span{{if .Overdue}} class="overdue"{{end}}>Due {{.DueDate}}</span>{{end}}
                  {{with .Created}}<span>Created {{.}}</span>{{end}}
                  {{with .CompletedOn}}<span>Completed {{.}}</span>{{end}}
                  <a href="{{.EditURL}}">Edit</a>
                  <a href="{{.DeleteURL}}">Delete</a>
                </div>
              {{end}}
            </li>
          {{end}}
        </ul>
      {{end}}
    </section>
    {{with .Pagination}}
      <nav class="pagination">
        {{if .PrevURL}}<a class="button-link" href="{{.PrevURL}}">Prev</a>{{else}}<span class="muted">Prev</span>{{end}}
        <span>{{.Label}}</span>
        {{if .NextURL}}<a class="button-link" href="{{.NextURL}}">Next</a>{{else}}<span class="muted">Next</span>{{end}}
      </nav>
    {{end}}
  </main>
</body>
</html>
{{define "form"}}
<form method="post" action="{{.Action}}">
  {{range .Hidden}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">{{end}}
  {{with index .Errors "general"}}<div class="error">{{.}}</div>{{end}}
  <div class="field">
    <label for="{{.IDPrefix}}-title">Title</label>
    <input id="{{.IDPrefix}}-title" type="text" name="title" value="{{.Values.Title}}">
    {{with index .Errors "title"}}<span class="field-error">{{.}}</span>{{end}}
  </div>
  <div class="field">
    <label for="{{.IDPrefix}}-description">Description</label>
    <textarea id="{{.IDPrefix}}-description" name="description">{{.Values.Description}}</textarea>
    {{with index .Errors "description"}}<span class="field-error">{{.}}</span>{{end}}
  </div>
  <div class="field">
    <label for="{{.IDPrefix}}-priority">Priority</label>
    <select id="{{.IDPrefix}}-priority" name="priority">
      {{range .Priorities}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
    </select>
    {{with index .Errors "priority"}}<span class="field-error">{{.}}</span>{{end}}
  </div>
  <div class="field">
    <label for="{{.IDPrefix}}-category">Category</label>
    <input id="{{.IDPrefix}}-category" type="text" name="category" value="{{.Values.Category}}">
    {{with index .Errors "category"}}<span class="field-error">{{.}}</span>{{end}}
  </div>
  <div class="field">
    <label for="{{.IDPrefix}}-due">Due date</label>
    <input id="{{.IDPrefix}}-due" type="date" name="dueDate" value="{{.Values.DueDate}}">
    {{with index .Errors "dueDate"}}<span class="field-error">{{.}}</span>{{end}}
  </div>
  <div class="actions">
    <button type="submit">{{.SubmitLabel}}</button>
    <a class="button-link" href="{{.CancelURL}}">Cancel</a>
  </div>
</form>
{{end}}
`
