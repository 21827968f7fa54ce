package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/amonks/tasklist/api"
	"github.com/amonks/tasklist/controller"
	"github.com/amonks/tasklist/form"
	"github.com/amonks/tasklist/internal/editor"
	"github.com/amonks/tasklist/internal/ui"
	"github.com/amonks/tasklist/todo"
	"github.com/spf13/cobra"
)

// nowFunc is swapped in tests.
var nowFunc = time.Now

// list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of todos",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var (
	listFilter = todo.FilterAll
	listSort   = todo.SortNewest
	listPage   int
	listLimit  int
	listJSON   bool
)

// show
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showJSON bool

// add
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a todo",
	Long: `Create a todo.

With no title and no flags, opens $EDITOR on a TOML template when running
interactively. Use --edit to force the editor or --no-edit to skip it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

var addFlags todoFlags

// edit
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a todo",
	Long: `Edit a todo.

With no update flags, opens $EDITOR on the todo's TOML representation when
running interactively. Use --edit to force the editor or --no-edit to skip it.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var editFlags todoFlags

// rm
var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a todo",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var rmYes bool

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a todo complete",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var undoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Mark a todo incomplete",
	Args:  cobra.ExactArgs(1),
	RunE:  runUndo,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a todo between complete and incomplete",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

// todoFlags are the field flags shared by add and edit.
type todoFlags struct {
	title       string
	description string
	priority    todo.Priority
	category    string
	due         string
	edit        bool
	noEdit      bool
}

var todoFieldFlags = []string{"title", "description", "priority", "category", "due"}

func registerTodoFlags(cmd *cobra.Command, flags *todoFlags, withTitle bool) {
	if withTitle {
		cmd.Flags().StringVarP(&flags.title, "title", "t", "", "Title")
	}
	flags.priority = todo.PriorityMedium
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "Description (use '-' to read from stdin)")
	cmd.Flags().VarP(priorityValue{&flags.priority}, "priority", "p", "Priority (low, medium, high)")
	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "Category")
	cmd.Flags().StringVar(&flags.due, "due", "", "Due date (YYYY-MM-DD, after today)")
	cmd.Flags().BoolVarP(&flags.edit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	cmd.Flags().BoolVar(&flags.noEdit, "no-edit", false, "Do not open $EDITOR")
}

func init() {
	rootCmd.AddCommand(listCmd, showCmd, addCmd, editCmd, rmCmd, doneCmd, undoCmd, toggleCmd)

	listCmd.Flags().Var(filterValue{&listFilter}, "filter", "Filter (all, incomplete, completed, urgent)")
	listCmd.Flags().Var(sortValue{&listSort}, "sort", "Sort (createdAt, oldest, title, priority, dueDate)")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Todos per page (default from config)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	registerTodoFlags(addCmd, &addFlags, false)
	registerTodoFlags(editCmd, &editFlags, true)
	addDescriptionFlagAliases(addCmd, editCmd)

	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "Delete without asking")
}

func runList(cmd *cobra.Command, args []string) error {
	if listPage < 1 {
		return fmt.Errorf("invalid page %d: must be at least 1", listPage)
	}
	if cmd.Flags().Changed("limit") && listLimit < 1 {
		return fmt.Errorf("invalid limit %d: must be at least 1", listLimit)
	}

	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	limit := app.cfg.API.PageSize
	if cmd.Flags().Changed("limit") {
		limit = listLimit
	}

	page, err := app.client.List(cmd.Context(), todo.ListQuery{
		Filter: listFilter,
		Sort:   listSort,
		Page:   listPage,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		return encodeJSON(out, page)
	}
	printTodoTable(out, page.Todos, nowFunc())
	if ui.ShowPagination(page.Pagination) {
		fmt.Fprintf(out, "\nPage %s, %d todos\n", ui.PageLabel(page.Pagination), page.Pagination.TotalCount)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	item, err := resolveTodo(cmd.Context(), app.client, args[0])
	if err != nil {
		return err
	}
	if showJSON {
		return encodeJSON(cmd.OutOrStdout(), item)
	}
	printTodoDetail(cmd.OutOrStdout(), item, nowFunc())
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}

	values := form.NewCreate().Values()
	if len(args) > 0 {
		values.Title = args[0]
	}
	if err := applyTodoFlags(cmd, &addFlags, &values); err != nil {
		return err
	}

	hasFlags := len(args) > 0 || hasChangedFlags(cmd, todoFieldFlags...)
	if shouldUseEditor(hasFlags, addFlags.edit, addFlags.noEdit, editor.IsInteractive()) {
		data := editor.DefaultCreateData()
		data.Values = values
		values, err = editor.EditTodo(data)
		if err != nil {
			return err
		}
	} else if len(args) == 0 {
		return fmt.Errorf("title is required (use --edit to open editor)")
	}

	f := form.NewFromValues(form.ModeCreate, "", values)
	input, ok := f.Begin(nowFunc())
	if !ok {
		return formError(f)
	}
	created, err := app.client.Create(cmd.Context(), input)
	f.Finish(err)
	if err != nil {
		return formError(f)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s\n", created.ID, created.Title)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	item, err := resolveTodo(cmd.Context(), app.client, args[0])
	if err != nil {
		return err
	}

	values := form.NewEdit(item).Values()
	if cmd.Flags().Changed("title") {
		values.Title = editFlags.title
	}
	if err := applyTodoFlags(cmd, &editFlags, &values); err != nil {
		return err
	}

	hasFlags := hasChangedFlags(cmd, todoFieldFlags...)
	if shouldUseEditor(hasFlags, editFlags.edit, editFlags.noEdit, editor.IsInteractive()) {
		values, err = editor.EditTodo(editor.TodoData{IsUpdate: true, ID: item.ID, Values: values})
		if err != nil {
			return err
		}
	} else if !hasFlags {
		return fmt.Errorf("at least one update flag is required (use --edit to open editor)")
	}

	f := form.NewFromValues(form.ModeEdit, item.ID, values)
	input, ok := f.Begin(nowFunc())
	if !ok {
		return formError(f)
	}
	updated, err := app.client.Update(cmd.Context(), item.ID, input)
	f.Finish(err)
	if err != nil {
		return formError(f)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", updated.ID, updated.Title)
	return nil
}

func applyTodoFlags(cmd *cobra.Command, flags *todoFlags, values *form.Values) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(flags.description, cmd.InOrStdin())
		if err != nil {
			return err
		}
		values.Description = desc
	}
	if cmd.Flags().Changed("priority") {
		values.Priority = flags.priority
	}
	if cmd.Flags().Changed("category") {
		values.Category = flags.category
	}
	if cmd.Flags().Changed("due") {
		values.DueDate = strings.TrimSpace(flags.due)
	}
	return nil
}

func resolveDescriptionFromStdin(description string, reader io.Reader) (string, error) {
	if description != "-" {
		return description, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}

	value := strings.TrimRight(string(input), "\r\n")
	return value, nil
}

// formError joins the form's messages in field order.
func formError(f *form.Form) error {
	var messages []string
	for _, field := range append([]form.Field{form.FieldGeneral}, form.Fields()...) {
		if message := f.Error(field); message != "" {
			messages = append(messages, message)
		}
	}
	if len(messages) == 0 {
		return form.ErrInvalid
	}
	return errors.New(strings.Join(messages, "; "))
}

func runRemove(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	item, err := resolveTodo(cmd.Context(), app.client, args[0])
	if err != nil {
		return err
	}

	confirmer := controller.Confirmer(controller.AlwaysConfirm)
	if !rmYes {
		confirmer = promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr(), editor.IsInteractive())
	}
	ctl := controller.New(app.client,
		controller.WithConfirmer(controller.ConfirmFunc(func(todo.Todo) bool {
			return confirmer.ConfirmDelete(item)
		})),
		controller.WithLimit(app.cfg.API.PageSize),
		controller.WithLogger(app.logger),
	)

	attempted, err := ctl.Delete(cmd.Context(), item.ID)
	if err != nil {
		return err
	}
	if !attempted {
		fmt.Fprintf(cmd.OutOrStdout(), "Kept %s: %s\n", item.ID, item.Title)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", item.ID, item.Title)
	return nil
}

// promptConfirmer asks on out and reads y/N from in. When not interactive it
// declines without asking.
func promptConfirmer(in io.Reader, out io.Writer, interactive bool) controller.Confirmer {
	return controller.ConfirmFunc(func(item todo.Todo) bool {
		if !interactive {
			fmt.Fprintln(out, "Not deleting without confirmation (use --yes)")
			return false
		}
		fmt.Fprintf(out, "Delete %q? [y/N] ", item.Title)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	})
}

func runDone(cmd *cobra.Command, args []string) error {
	return runSetCompleted(cmd, args[0], true)
}

func runUndo(cmd *cobra.Command, args []string) error {
	return runSetCompleted(cmd, args[0], false)
}

func runSetCompleted(cmd *cobra.Command, ref string, completed bool) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	item, err := resolveTodo(cmd.Context(), app.client, ref)
	if err != nil {
		return err
	}

	if completed {
		item, err = app.client.Complete(cmd.Context(), item.ID)
	} else {
		item, err = app.client.Incomplete(cmd.Context(), item.ID)
	}
	if err != nil {
		return err
	}
	printCompletion(cmd.OutOrStdout(), item)
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	item, err := resolveTodo(cmd.Context(), app.client, args[0])
	if err != nil {
		return err
	}

	state := controller.Initial(app.cfg.API.PageSize).Loaded(todo.Page{Todos: []todo.Todo{item}})
	ctl := controller.New(app.client, controller.WithState(state), controller.WithLogger(app.logger))
	if err := ctl.ToggleComplete(cmd.Context(), item.ID); err != nil {
		return err
	}
	item.Completed = !item.Completed
	printCompletion(cmd.OutOrStdout(), item)
	return nil
}

func printCompletion(out io.Writer, item todo.Todo) {
	verb := "Reopened"
	if item.Completed {
		verb = "Completed"
	}
	fmt.Fprintf(out, "%s %s: %s\n", verb, item.ID, item.Title)
}

// maxResolvePages bounds the listing done to resolve an ID prefix.
const maxResolvePages = 50

// resolveTodo fetches ref as a full ID, falling back to matching it as a
// prefix of the IDs the API lists.
func resolveTodo(ctx context.Context, client *api.Client, ref string) (todo.Todo, error) {
	ref = strings.TrimSpace(ref)
	item, err := client.Get(ctx, ref)
	if err == nil {
		return item, nil
	}
	if _, ok := api.AsError(err); !ok {
		return todo.Todo{}, err
	}

	ids, listErr := listAllIDs(ctx, client)
	if listErr != nil {
		return todo.Todo{}, listErr
	}
	id, resolveErr := ui.ResolveIDPrefix(ref, ids)
	if resolveErr != nil {
		return todo.Todo{}, resolveErr
	}
	return client.Get(ctx, id)
}

func listAllIDs(ctx context.Context, client *api.Client) ([]string, error) {
	var ids []string
	query := todo.ListQuery{Filter: todo.FilterAll, Sort: todo.SortNewest, Page: 1, Limit: 100}
	for range maxResolvePages {
		page, err := client.List(ctx, query)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Todos {
			ids = append(ids, item.ID)
		}
		if !page.Pagination.HasNextPage {
			break
		}
		query.Page++
	}
	return ids, nil
}
