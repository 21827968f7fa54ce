// Package tui is the terminal client. It drives the same list state as the
// other front ends, running API calls as commands and applying their results
// in arrival order.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/tasklist/api"
	"github.com/amonks/tasklist/controller"
	"github.com/amonks/tasklist/form"
	"github.com/amonks/tasklist/internal/logging"
	"github.com/amonks/tasklist/internal/ui"
	"github.com/amonks/tasklist/todo"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/wordwrap"
)

// Options configures the terminal client.
type Options struct {
	Logger *log.Logger
	// Limit is the page size. Zero uses todo.DefaultLimit.
	Limit int
	// Now returns the current time. Nil uses time.Now.
	Now func() time.Time
}

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type confirmModal struct {
	open     bool
	id       string
	message  string
	selected int
}

type model struct {
	ctx     context.Context
	svc     controller.Service
	logger  *log.Logger
	now     func() time.Time
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	width  int
	height int

	state       controller.State
	cursor      int
	editor      *editorModel
	modal       confirmModal
	status      string
	statusLevel statusLevel
}

// Run starts the terminal client and blocks until it exits.
func Run(ctx context.Context, svc controller.Service, opts Options) error {
	if svc == nil {
		return errors.New("todo service is required")
	}
	program := tea.NewProgram(newModel(ctx, svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(ctx context.Context, svc controller.Service, opts Options) model {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	limit := opts.Limit
	if limit < 1 {
		limit = todo.DefaultLimit
	}
	spin := spinner.New()
	spin.Spinner = spinner.Line

	return model{
		ctx:     ctx,
		svc:     svc,
		logger:  logger,
		now:     now,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: spin,
		state:   controller.Initial(limit),
	}
}

type pageLoadedMsg struct {
	query todo.ListQuery
	page  todo.Page
	err   error
}

type savedMsg struct {
	mode form.Mode
	id   string
	err  error
}

type mutatedMsg struct {
	action string
	id     string
	err    error
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.editor != nil {
			m.editor.setWidth(m.width)
		}
		return m, nil
	case spinner.TickMsg:
		if !m.state.IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case pageLoadedMsg:
		return m.handleLoaded(msg), nil
	case savedMsg:
		return m.handleSaved(msg)
	case mutatedMsg:
		return m.handleMutated(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.modal.open {
			return m.updateModal(msg)
		}
		if m.editor != nil {
			return m.updateEditor(msg)
		}
		return m.handleKey(msg)
	}

	if m.editor != nil {
		return m.updateEditor(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()
	case key.Matches(msg, m.keys.Edit):
		if item, ok := m.selected(); ok {
			m.state = m.state.StartEdit(item.ID)
			editor := newEditor(form.NewEdit(item), m.width)
			m.editor = &editor
		}
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selected(); ok {
			m.modal = confirmModal{
				open:     true,
				id:       item.ID,
				message:  fmt.Sprintf("Delete %q?", item.Title),
				selected: 1,
			}
		}
	case key.Matches(msg, m.keys.Add):
		m.state = m.state.ToggleAdd()
		if m.state.Mode.IsAdding() {
			editor := newEditor(form.NewCreate(), m.width)
			m.editor = &editor
		}
	case key.Matches(msg, m.keys.Filter):
		return m.reloadWith(m.state.WithFilter(cycle(todo.ValidFilters(), m.state.Filter, 1)))
	case key.Matches(msg, m.keys.FilterBk):
		return m.reloadWith(m.state.WithFilter(cycle(todo.ValidFilters(), m.state.Filter, -1)))
	case key.Matches(msg, m.keys.Sort):
		return m.reloadWith(m.state.WithSort(cycle(todo.ValidSorts(), m.state.Sort, 1)))
	case key.Matches(msg, m.keys.SortBk):
		return m.reloadWith(m.state.WithSort(cycle(todo.ValidSorts(), m.state.Sort, -1)))
	case key.Matches(msg, m.keys.NextPage):
		if m.state.Pagination.HasNextPage {
			return m.reloadWith(m.state.NextPage())
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.state.Pagination.HasPrevPage {
			return m.reloadWith(m.state.PrevPage())
		}
	case key.Matches(msg, m.keys.Reload):
		return m.reloadWith(m.state)
	}
	return m, nil
}

func (m model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	editor, cmd, action, input := m.editor.Update(msg, m.now())
	m.editor = &editor
	switch action {
	case editorSave:
		return m, tea.Batch(cmd, m.saveCmd(editor.form.Mode(), editor.form.ID(), input))
	case editorCancel:
		editor.form.Cancel(func() {
			m.state = m.state.CloseEditor()
			m.editor = nil
		})
	}
	return m, cmd
}

func (m model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "tab", "shift+tab":
		m.modal.selected = 1 - m.modal.selected
	case "y":
		return m.resolveModal(true)
	case "n", "esc":
		return m.resolveModal(false)
	case "enter":
		return m.resolveModal(m.modal.selected == 0)
	}
	return m, nil
}

func (m model) resolveModal(confirm bool) (tea.Model, tea.Cmd) {
	id := m.modal.id
	m.modal = confirmModal{}
	if !confirm {
		return m, nil
	}
	return m, m.deleteCmd(id)
}

func (m model) toggle() (tea.Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok {
		return m, nil
	}
	svc, ctx := m.svc, m.ctx
	return m, func() tea.Msg {
		var err error
		if item.Completed {
			_, err = svc.Incomplete(ctx, item.ID)
		} else {
			_, err = svc.Complete(ctx, item.ID)
		}
		return mutatedMsg{action: "toggle", id: item.ID, err: err}
	}
}

func (m model) reloadWith(state controller.State) (tea.Model, tea.Cmd) {
	m.state = state
	return m, m.startLoad()
}

func (m *model) startLoad() tea.Cmd {
	m.state = m.state.Loading()
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m model) loadCmd() tea.Cmd {
	svc, ctx, query := m.svc, m.ctx, m.state.Query()
	return func() tea.Msg {
		page, err := svc.List(ctx, query)
		return pageLoadedMsg{query: query, page: page, err: err}
	}
}

func (m model) saveCmd(mode form.Mode, id string, input todo.Input) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		var err error
		if mode == form.ModeCreate {
			_, err = svc.Create(ctx, input)
		} else {
			_, err = svc.Update(ctx, id, input)
		}
		return savedMsg{mode: mode, id: id, err: err}
	}
}

func (m model) deleteCmd(id string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return mutatedMsg{action: "delete", id: id, err: svc.Delete(ctx, id)}
	}
}

func (m model) handleLoaded(msg pageLoadedMsg) model {
	if msg.err != nil {
		m.logger.Warn("load todos", "err", msg.err)
		m.state = m.state.Failed(api.Message(msg.err))
		return m
	}
	m.state = m.state.Loaded(msg.page)
	m.cursor = min(m.cursor, max(len(m.state.Todos)-1, 0))
	return m
}

func (m model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	current := m.editor != nil && m.editor.form.Mode() == msg.mode && m.editor.form.ID() == msg.id
	if current {
		m.editor.form.Finish(msg.err)
	}
	if msg.err != nil {
		m.logger.Warn("save todo", "id", msg.id, "err", msg.err)
		m.setStatus("Save failed: "+api.Message(msg.err), statusError)
	} else {
		if current {
			m.state = m.state.CloseEditor()
			m.editor = nil
		}
		m.setStatus("Saved", statusInfo)
	}
	return m, m.startLoad()
}

func (m model) handleMutated(msg mutatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn(msg.action+" todo", "id", msg.id, "err", msg.err)
		m.state = m.state.Failed(api.Message(msg.err))
		return m, nil
	}
	return m, m.startLoad()
}

func (m *model) moveCursor(delta int) {
	if len(m.state.Todos) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.state.Todos)-1)
}

func (m model) selected() (todo.Todo, bool) {
	if ui.ListDisplayForState(m.state) != ui.ListRows || m.cursor >= len(m.state.Todos) {
		return todo.Todo{}, false
	}
	return m.state.Todos[m.cursor], true
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func cycle[T comparable](values []T, current T, delta int) T {
	index := 0
	for i, value := range values {
		if value == current {
			index = i
		}
	}
	return values[(index+delta+len(values))%len(values)]
}

func (m model) View() string {
	if m.modal.open {
		return m.renderModal()
	}
	sections := []string{m.renderHeader()}
	if m.state.Mode.IsAdding() && m.editor != nil {
		sections = append(sections, m.editor.View("New task"))
	}
	sections = append(sections, m.renderList())
	if pagination := m.renderPagination(); pagination != "" {
		sections = append(sections, pagination)
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, m.renderHelp())
	return strings.Join(sections, "\n")
}

func (m model) renderHeader() string {
	title := headerStyle.Render("Tasks")
	controls := fmt.Sprintf("Filter: %s  Sort: %s  %s", m.state.Filter.Label(), m.state.Sort.Label(), ui.StatsLine(m.state.Stats()))
	add := valueMuted.Render("a " + ui.AddButtonLabel(m.state.Mode.IsAdding()))
	return strings.Join([]string{title + " " + controls, add}, "\n")
}

func (m model) renderList() string {
	switch ui.ListDisplayForState(m.state) {
	case ui.ListLoading:
		return m.spinner.View() + " " + ui.LoadingMessage
	case ui.ListError:
		return errorStyle.Render(m.state.Err)
	case ui.ListEmpty:
		return valueMuted.Render(ui.EmptyMessage)
	}

	now := m.now()
	lines := make([]string, 0, len(m.state.Todos))
	for i, item := range m.state.Todos {
		lines = append(lines, m.renderRow(i, item, now))
		if m.state.Mode.IsEditing(item.ID) && m.editor != nil {
			lines = append(lines, m.editor.View("Edit task"))
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) renderRow(index int, item todo.Todo, now time.Time) string {
	cursor := "  "
	if index == m.cursor {
		cursor = "> "
	}
	title := item.Title
	if m.width > 0 {
		title = ui.Truncate(title, max(m.width-40, 10))
	}
	if item.Completed {
		title = doneStyle.Render(title)
	} else if index == m.cursor {
		title = selectedStyle.Render(title)
	}

	parts := []string{cursor + ui.CompletionMark(item.Completed), title, priorityBadge(item.Priority.Info())}
	if category := ui.CategoryLabel(item.Category); category != "" {
		parts = append(parts, valueMuted.Render(category))
	}
	if item.DueDate != nil {
		due := "due " + ui.FormatDueDate(item, now)
		if item.IsOverdue(now) {
			due = overdueStyle.Render(due)
		}
		parts = append(parts, due)
	}
	line := strings.Join(parts, " ")

	meta := []string{"created " + todo.FormatDisplayDate(item.CreatedAt)}
	if item.Completed && item.CompletedAt != nil {
		meta = append(meta, "completed "+ui.FormatDate(item.CompletedAt))
	}
	lines := []string{line}
	if item.Description != "" {
		width := 80
		if m.width > 0 {
			width = max(m.width-8, 20)
		}
		for _, descLine := range strings.Split(wordwrap.String(item.Description, width), "\n") {
			lines = append(lines, "      "+valueMuted.Render(descLine))
		}
	}
	lines = append(lines, "      "+valueMuted.Render(strings.Join(meta, " · ")))
	return strings.Join(lines, "\n")
}

func (m model) renderPagination() string {
	if !ui.ShowPagination(m.state.Pagination) {
		return ""
	}
	prev := valueMuted.Render("[ prev")
	if m.state.Pagination.HasPrevPage {
		prev = "[ prev"
	}
	next := valueMuted.Render("next ]")
	if m.state.Pagination.HasNextPage {
		next = "next ]"
	}
	return strings.Join([]string{prev, ui.PageLabel(m.state.Pagination), next}, "  ")
}

func (m model) renderStatus() string {
	switch m.statusLevel {
	case statusError:
		return errorStyle.Render(m.status)
	case statusInfo:
		return successStyle.Render(m.status)
	default:
		return ""
	}
}

func (m model) renderHelp() string {
	if m.editor != nil {
		return m.help.View(m.editor.keys)
	}
	return m.help.View(m.keys)
}

func (m model) renderModal() string {
	options := []string{"Delete", "Cancel"}
	buttons := make([]string, 0, len(options))
	for i, option := range options {
		style := valueMuted
		if i == m.modal.selected {
			style = selectedStyle
		}
		buttons = append(buttons, style.Render("["+option+"]"))
	}
	content := modalStyle.Render(strings.Join([]string{m.modal.message, "", strings.Join(buttons, " ")}, "\n"))
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
