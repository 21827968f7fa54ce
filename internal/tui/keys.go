package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Add      key.Binding
	Filter   key.Binding
	FilterBk key.Binding
	Sort     key.Binding
	SortBk   key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "toggle done")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f/F", "filter")),
		FilterBk: key.NewBinding(key.WithKeys("F")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s/S", "sort")),
		SortBk:   key.NewBinding(key.WithKeys("S")),
		NextPage: key.NewBinding(key.WithKeys("n", "]"), key.WithHelp("n/]", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("p", "["), key.WithHelp("p/[", "prev page")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Edit, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Edit, k.Delete},
		{k.Add, k.Filter, k.Sort, k.NextPage, k.PrevPage},
		{k.Reload, k.Help, k.Quit},
	}
}

type editorKeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Priority key.Binding
	Save     key.Binding
	Cancel   key.Binding
}

func defaultEditorKeyMap() editorKeyMap {
	return editorKeyMap{
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Priority: key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("left/right", "priority")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Priority, k.Save, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
