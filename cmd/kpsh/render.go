package main

import (
	"fmt"
	"io"

	"kpterm/internal/runtime"
	"kpterm/internal/session"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	routeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)

	lineStyles = map[string]lipgloss.Style{
		session.KindCommand:         lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		string(runtime.TypeInfo):    lipgloss.NewStyle(),
		string(runtime.TypeSuccess): lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		string(runtime.TypeError):   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
)

const clearScreen = "\033[H\033[2J"

func renderLine(w io.Writer, l session.Line) {
	style, ok := lineStyles[l.Kind]
	if !ok {
		style = lipgloss.NewStyle()
	}
	fmt.Fprintln(w, style.Render(l.Content))
}
