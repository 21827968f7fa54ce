package tui

import (
	"github.com/amonks/tasklist/todo"
	"github.com/charmbracelet/lipgloss"
)

var (
	borderASCII = lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Bold(true).Padding(0, 1)
	editorStyle   = lipgloss.NewStyle().Border(borderASCII).BorderForeground(lipgloss.Color("33")).Padding(0, 1)
	modalStyle    = lipgloss.NewStyle().Border(borderASCII).Padding(1, 2)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	valueMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24"))
	doneStyle     = valueMuted.Strikethrough(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	focusedLabel  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
)

// priorityColors maps priority color tags to terminal colors.
var priorityColors = map[string]lipgloss.Color{
	"green":  lipgloss.Color("2"),
	"yellow": lipgloss.Color("3"),
	"red":    lipgloss.Color("1"),
}

func priorityBadge(info todo.PriorityInfo) string {
	return lipgloss.NewStyle().Foreground(priorityColors[info.Color]).Render("[" + info.Label + "]")
}
