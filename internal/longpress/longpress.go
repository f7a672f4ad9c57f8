// Package longpress implements press-and-hold detection on a button.
package longpress

import (
	"time"

	"github.com/verte-zerg/typermonkey/internal/schedule"
)

// Defaults for the reset gesture.
const (
	DefaultThreshold = 1500 * time.Millisecond
	DefaultStep      = 30 * time.Millisecond
)

// Gesture fires its callback once a press has been held for the threshold.
// Progress is tracked on a separate tick so it can be drawn as a bar.
type Gesture struct {
	sched     schedule.Scheduler
	threshold time.Duration
	step      time.Duration
	onFire    func()

	pressedAt time.Time
	pressing  bool
	fired     bool
	progress  float64
	hold      schedule.Timer
	ticker    schedule.Timer
}

// New returns a Gesture. Non-positive threshold or step use the defaults.
func New(sched schedule.Scheduler, threshold, step time.Duration, onFire func()) *Gesture {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if step <= 0 {
		step = DefaultStep
	}
	return &Gesture{sched: sched, threshold: threshold, step: step, onFire: onFire}
}

// Press starts tracking a hold. A second Press while held is ignored.
func (g *Gesture) Press() {
	if g.pressing {
		return
	}
	g.pressing = true
	g.fired = false
	g.progress = 0
	g.pressedAt = g.sched.Now()
	g.hold = g.sched.AfterFunc(g.threshold, g.fire)
	g.ticker = g.sched.Every(g.step, g.tick)
}

func (g *Gesture) tick() {
	held := g.sched.Now().Sub(g.pressedAt)
	g.progress = float64(held) / float64(g.threshold)
	if g.progress > 1 {
		g.progress = 1
	}
}

func (g *Gesture) fire() {
	g.hold = nil
	g.ticker = schedule.StopTimer(g.ticker)
	g.fired = true
	g.progress = 1
	if g.onFire != nil {
		g.onFire()
	}
}

// Release ends the press. It returns true when the hold fired, in which case
// the ordinary click must be suppressed.
func (g *Gesture) Release() bool {
	fired := g.fired
	g.stop()
	return fired
}

// Cancel abandons the press without a click, e.g. when the pointer leaves.
func (g *Gesture) Cancel() {
	g.stop()
}

func (g *Gesture) stop() {
	g.hold = schedule.StopTimer(g.hold)
	g.ticker = schedule.StopTimer(g.ticker)
	g.pressing = false
	g.fired = false
	g.progress = 0
}

// Active reports whether a press is being held.
func (g *Gesture) Active() bool {
	return g.pressing
}

// Fired reports whether the current press has already triggered.
func (g *Gesture) Fired() bool {
	return g.fired
}

// Progress returns how far the hold is toward the threshold, 0 to 1.
func (g *Gesture) Progress() float64 {
	return g.progress
}
