// Package page lays the stream out as fixed-size pages of character cells.
package page

import "fmt"

// Reference sizing of the paper.
const (
	DefaultCharsPerLine = 48
	DefaultLinesPerPage = 25
)

// Blank marks an unwritten cell.
const Blank Cell = 0

// Cell is one character slot on the page.
type Cell byte

// IsBlank reports whether the cell has not been written yet.
func (c Cell) IsBlank() bool {
	return c == Blank
}

// Geometry fixes the page grid.
type Geometry struct {
	CharsPerLine int
	LinesPerPage int
}

// DefaultGeometry is 48 columns by 25 lines.
var DefaultGeometry = Geometry{CharsPerLine: DefaultCharsPerLine, LinesPerPage: DefaultLinesPerPage}

// Validate rejects grids without cells.
func (g Geometry) Validate() error {
	if g.CharsPerLine <= 0 {
		return fmt.Errorf("chars per line must be > 0")
	}
	if g.LinesPerPage <= 0 {
		return fmt.Errorf("lines per page must be > 0")
	}
	return nil
}

// CharsPerPage returns the page capacity.
func (g Geometry) CharsPerPage() int {
	return g.CharsPerLine * g.LinesPerPage
}

// PageIndex returns the page a stream of the given length is written on.
func (g Geometry) PageIndex(length int) int {
	if length <= 0 {
		return 0
	}
	return length / g.CharsPerPage()
}

// Source is the read side of the stream.
type Source interface {
	Len() int
	Slice(start, end int) string
}

// Layout is one rendered page.
type Layout struct {
	PageIndex int
	PageStart int
	Lines     [][]Cell
}

// Offset returns the stream index of the cell at line, col.
func (l Layout) Offset(g Geometry, line, col int) int {
	return l.PageStart + line*g.CharsPerLine + col
}

// Compute lays out the page holding the stream's current position.
func Compute(g Geometry, src Source) Layout {
	return ComputePage(g, src, g.PageIndex(src.Len()))
}

// ComputePage lays out page index of src. Slots past the end of the stream
// are Blank; the result always has LinesPerPage full lines.
func ComputePage(g Geometry, src Source, index int) Layout {
	if index < 0 {
		index = 0
	}
	start := index * g.CharsPerPage()
	content := src.Slice(start, start+g.CharsPerPage())

	lines := make([][]Cell, g.LinesPerPage)
	cells := make([]Cell, g.CharsPerPage())
	for i := 0; i < len(content); i++ {
		cells[i] = Cell(content[i])
	}
	for i := range lines {
		lines[i] = cells[i*g.CharsPerLine : (i+1)*g.CharsPerLine : (i+1)*g.CharsPerLine]
	}
	return Layout{PageIndex: index, PageStart: start, Lines: lines}
}
