package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorRed    = lipgloss.Color("#D14D41")
)

// table is a bordered text table. The first column is left-aligned, the
// rest right-aligned.
type table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// renderTable writes t to out. Styling is dropped when out is not a
// terminal.
func renderTable(out io.Writer, t table) {
	r := lipgloss.NewRenderer(out)
	dim := r.NewStyle().Foreground(colorBorder)
	header := r.NewStyle().Bold(true).Foreground(colorAccent)
	negative := r.NewStyle().Foreground(colorRed)

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = max(widths[i], len(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], len(cell))
			}
		}
	}

	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat("─", w+2))
			if i < numCols-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		return dim.Render(b.String())
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + header.Render(t.Title) + "\n")
	}
	b.WriteString(rule("╭", "┬", "╮") + "\n")

	if len(t.Headers) > 0 {
		b.WriteString(dim.Render("│"))
		for i := 0; i < numCols; i++ {
			h := ""
			if i < len(t.Headers) {
				h = t.Headers[i]
			}
			b.WriteString(header.Render(fmt.Sprintf(" %-*s ", widths[i], h)))
			b.WriteString(dim.Render("│"))
		}
		b.WriteString("\n" + rule("├", "┼", "┤") + "\n")
	}

	for _, row := range t.Rows {
		b.WriteString(dim.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", widths[i], cell)
			} else {
				padded = fmt.Sprintf(" %*s ", widths[i], cell)
			}
			if strings.HasPrefix(cell, "-") {
				padded = negative.Render(padded)
			}
			b.WriteString(padded)
			b.WriteString(dim.Render("│"))
		}
		b.WriteString("\n")
	}
	b.WriteString(rule("╰", "┴", "╯") + "\n")

	fmt.Fprint(out, b.String())
}
