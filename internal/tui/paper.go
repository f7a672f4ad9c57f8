package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typermonkey/internal/page"
	"github.com/verte-zerg/typermonkey/internal/stream"
)

type cellKind int

const (
	cellInk cellKind = iota
	cellBlank
	cellHighlighted
	cellCursor
)

// paperCells classifies every slot of the displayed page. cursor is the
// stream index of the active cell, or -1.
func paperCells(g page.Geometry, layout page.Layout, engine *stream.Engine, cursor int) [][]cellKind {
	out := make([][]cellKind, len(layout.Lines))
	for li, line := range layout.Lines {
		kinds := make([]cellKind, len(line))
		for col, cell := range line {
			idx := layout.Offset(g, li, col)
			switch {
			case idx == cursor:
				kinds[col] = cellCursor
			case cell.IsBlank():
				kinds[col] = cellBlank
			case engine.Highlighted(idx):
				kinds[col] = cellHighlighted
			default:
				kinds[col] = cellInk
			}
		}
		out[li] = kinds
	}
	return out
}

// renderPaper draws the page grid. Consecutive cells of one kind are styled
// as a single run.
func renderPaper(layout page.Layout, kinds [][]cellKind, flipping bool) string {
	lines := make([]string, len(layout.Lines))
	for li, line := range layout.Lines {
		var b strings.Builder
		start := 0
		for col := 1; col <= len(line); col++ {
			if col < len(line) && kinds[li][col] == kinds[li][start] {
				continue
			}
			b.WriteString(styleFor(kinds[li][start], flipping).Render(cellText(line[start:col])))
			start = col
		}
		lines[li] = b.String()
	}
	return paperStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func styleFor(kind cellKind, flipping bool) lipgloss.Style {
	if flipping {
		return flippingStyle
	}
	switch kind {
	case cellHighlighted:
		return highlightStyle
	case cellCursor:
		return cursorStyle
	default:
		return inkStyle
	}
}

func cellText(cells []page.Cell) string {
	buf := make([]byte, len(cells))
	for i, c := range cells {
		if c.IsBlank() {
			buf[i] = ' '
			continue
		}
		buf[i] = byte(c)
	}
	return string(buf)
}
