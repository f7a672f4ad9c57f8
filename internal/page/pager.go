package page

import (
	"time"

	"github.com/verte-zerg/typermonkey/internal/schedule"
)

// DefaultFlipDelay is how long a page flip is shown before the new page.
const DefaultFlipDelay = 300 * time.Millisecond

// Pager tracks which page is on display and animates page changes: when the
// stream moves to a new page the pager reports Flipping for the flip delay
// and only then shows the new page.
type Pager struct {
	geo   Geometry
	sched schedule.Scheduler
	delay time.Duration

	shown    int
	length   int
	flipping bool
	flip     schedule.Timer
}

// NewPager returns a Pager showing page 0.
func NewPager(g Geometry, sched schedule.Scheduler, delay time.Duration) *Pager {
	if delay < 0 {
		delay = 0
	}
	return &Pager{geo: g, sched: sched, delay: delay}
}

// Geometry returns the page grid.
func (p *Pager) Geometry() Geometry {
	return p.geo
}

// Sync records the current stream length and starts a flip when it has moved
// off the displayed page.
func (p *Pager) Sync(length int) {
	p.length = length
	if p.flipping || length == 0 {
		return
	}
	if p.geo.PageIndex(length) == p.shown {
		return
	}
	p.flipping = true
	p.flip = p.sched.AfterFunc(p.delay, p.commit)
}

func (p *Pager) commit() {
	p.flip = nil
	p.flipping = false
	p.shown = p.geo.PageIndex(p.length)
}

// Reset cancels any flip in flight and shows page 0.
func (p *Pager) Reset() {
	p.flip = schedule.StopTimer(p.flip)
	p.flipping = false
	p.shown = 0
	p.length = 0
}

// Page returns the displayed page index.
func (p *Pager) Page() int {
	return p.shown
}

// Flipping reports whether a page flip is in progress.
func (p *Pager) Flipping() bool {
	return p.flipping
}

// Layout renders the displayed page of src.
func (p *Pager) Layout(src Source) Layout {
	return ComputePage(p.geo, src, p.shown)
}
