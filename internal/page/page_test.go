package page

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typermonkey/internal/schedule"
)

type textSource string

func (s textSource) Len() int { return len(s) }

func (s textSource) Slice(start, end int) string {
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return ""
	}
	return string(s[start:end])
}

func TestComputeEmpty(t *testing.T) {
	l := Compute(DefaultGeometry, textSource(""))
	if l.PageIndex != 0 || l.PageStart != 0 {
		t.Fatalf("unexpected page %d/%d", l.PageIndex, l.PageStart)
	}
	if len(l.Lines) != DefaultLinesPerPage {
		t.Fatalf("expected %d lines, got %d", DefaultLinesPerPage, len(l.Lines))
	}
	for _, line := range l.Lines {
		if len(line) != DefaultCharsPerLine {
			t.Fatalf("expected %d cells, got %d", DefaultCharsPerLine, len(line))
		}
		for _, c := range line {
			if !c.IsBlank() {
				t.Fatalf("expected blank page")
			}
		}
	}
}

func TestComputePartialPage(t *testing.T) {
	src := textSource(strings.Repeat("a", 50))
	l := Compute(DefaultGeometry, src)
	if l.Lines[0][47] != 'a' || l.Lines[1][1] != 'a' {
		t.Fatalf("expected written cells to wrap onto line 2")
	}
	if !l.Lines[1][2].IsBlank() {
		t.Fatalf("expected blank after stream end")
	}
	if got := l.Offset(DefaultGeometry, 1, 2); got != 50 {
		t.Fatalf("expected offset 50, got %d", got)
	}
}

func TestComputeFullPageMovesToNext(t *testing.T) {
	src := textSource(strings.Repeat("z", 1200))
	l := Compute(DefaultGeometry, src)
	if l.PageIndex != 1 || l.PageStart != 1200 {
		t.Fatalf("expected page 1 starting at 1200, got %d/%d", l.PageIndex, l.PageStart)
	}
	for _, line := range l.Lines {
		for _, c := range line {
			if !c.IsBlank() {
				t.Fatalf("expected new page to be blank")
			}
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	src := textSource(strings.Repeat("abc", 700))
	a := Compute(DefaultGeometry, src)
	b := Compute(DefaultGeometry, src)
	if a.PageIndex != b.PageIndex || a.PageStart != b.PageStart {
		t.Fatalf("page differs between calls")
	}
	for i := range a.Lines {
		if string(cellBytes(a.Lines[i])) != string(cellBytes(b.Lines[i])) {
			t.Fatalf("line %d differs between calls", i)
		}
	}
	if a.PageIndex != 1 || a.Lines[0][0] != Cell(src[1200]) {
		t.Fatalf("expected page 1 to start with stream index 1200")
	}
}

func cellBytes(cells []Cell) []byte {
	out := make([]byte, len(cells))
	for i, c := range cells {
		out[i] = byte(c)
	}
	return out
}

func TestGeometryValidate(t *testing.T) {
	if err := DefaultGeometry.Validate(); err != nil {
		t.Fatalf("default geometry invalid: %v", err)
	}
	if err := (Geometry{CharsPerLine: 0, LinesPerPage: 3}).Validate(); err == nil {
		t.Fatalf("expected error")
	}
	if DefaultGeometry.CharsPerPage() != 1200 {
		t.Fatalf("expected 1200 chars per page")
	}
}

func TestPagerFlip(t *testing.T) {
	clock := schedule.NewManual(time.Unix(0, 0))
	g := Geometry{CharsPerLine: 2, LinesPerPage: 2}
	p := NewPager(g, clock, DefaultFlipDelay)

	p.Sync(3)
	if p.Flipping() || p.Page() != 0 {
		t.Fatalf("no flip expected within first page")
	}
	p.Sync(4)
	if !p.Flipping() || p.Page() != 0 {
		t.Fatalf("expected flip in progress on old page")
	}
	p.Sync(5)
	clock.Advance(DefaultFlipDelay - time.Millisecond)
	if !p.Flipping() {
		t.Fatalf("flip should still be held")
	}
	clock.Advance(time.Millisecond)
	if p.Flipping() || p.Page() != 1 {
		t.Fatalf("expected page 1 committed, got %d flipping=%v", p.Page(), p.Flipping())
	}
	l := p.Layout(textSource("abcde"))
	if l.PageIndex != 1 || l.Lines[0][0] != 'e' {
		t.Fatalf("unexpected layout after flip: %+v", l)
	}
}

func TestPagerResetCancelsFlip(t *testing.T) {
	clock := schedule.NewManual(time.Unix(0, 0))
	p := NewPager(Geometry{CharsPerLine: 1, LinesPerPage: 1}, clock, DefaultFlipDelay)
	p.Sync(1)
	if !p.Flipping() {
		t.Fatalf("expected flip")
	}
	p.Reset()
	p.Reset()
	if p.Flipping() || p.Page() != 0 {
		t.Fatalf("expected page 0 after reset")
	}
	if clock.Pending() != 0 {
		t.Fatalf("reset must cancel the pending flip")
	}
	clock.Advance(time.Second)
	if p.Page() != 0 {
		t.Fatalf("cancelled flip must not commit")
	}
}
