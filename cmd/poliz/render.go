package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gosuda/poliz/ast"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

var (
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	rowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// setupColor picks the lipgloss color profile for mode auto|always|never.
func setupColor(mode string, out *os.File) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		if !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
			lipgloss.SetColorProfile(termenv.Ascii)
			return nil
		}
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		return fmt.Errorf("unknown color mode %q (want auto|always|never)", mode)
	}
	return nil
}

// renderRow renders one program row with its index, highlighting the row
// about to execute.
func renderRow(row int, line ast.Line, width int, current bool) string {
	idx := rowStyle.Render(padLeft(strconv.Itoa(row), width))
	text := line.String()
	if current {
		return idx + " " + currentStyle.Render("> "+text)
	}
	return idx + "   " + text
}

func renderListing(program *ast.Program, current int) string {
	width := len(strconv.Itoa(program.Len()))
	rows := make([]string, 0, program.Len())
	for i, line := range program.Lines {
		rows = append(rows, renderRow(i, line, width, i == current))
	}
	return strings.Join(rows, "\n")
}

// renderSnapshot lays out the variable and array tables, names sorted.
func renderSnapshot(snap ast.Snapshot) string {
	b := strings.Builder{}
	b.WriteString(headerStyle.Render("Variables"))
	b.WriteByte('\n')
	names := sortedNames(snap.Vars)
	width := maxWidth(names)
	for _, name := range names {
		fmt.Fprintf(&b, "%s = %d\n", padRight(name, width), snap.Vars[name])
	}
	b.WriteString(headerStyle.Render("Arrays"))
	b.WriteByte('\n')
	arrays := sortedNames(snap.Arrays)
	width = maxWidth(arrays)
	for _, name := range arrays {
		cells := make([]string, 0, len(snap.Arrays[name]))
		for _, v := range snap.Arrays[name] {
			cells = append(cells, "["+strconv.FormatInt(v, 10)+"]")
		}
		fmt.Fprintf(&b, "%s: %s\n", padRight(name, width), strings.Join(cells, " "))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func printSnapshot(w io.Writer, snap ast.Snapshot) {
	fmt.Fprintln(w, panelStyle.Render(renderSnapshot(snap)))
}

func sortedNames[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func maxWidth(names []string) int {
	w := 0
	for _, n := range names {
		if nw := runewidth.StringWidth(n); nw > w {
			w = nw
		}
	}
	return w
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}
