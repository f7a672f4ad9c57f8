// Package session runs the monkey: it owns the start/stop/reset state
// machine, the elapsed-time display tick, and the typing tick that feeds the
// stream engine one letter at a time.
package session

import (
	"time"

	"github.com/verte-zerg/typermonkey/internal/page"
	"github.com/verte-zerg/typermonkey/internal/schedule"
	"github.com/verte-zerg/typermonkey/internal/stream"
)

// State is the controller's lifecycle state.
type State int

// Controller states.
const (
	Idle State = iota
	Starting
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Producer supplies keystrokes.
type Producer interface {
	Letter() stream.Letter
}

// Options sets the controller cadences.
type Options struct {
	StartDelay      time.Duration
	DisplayInterval time.Duration
	TypingInterval  time.Duration
}

// DefaultOptions returns the reference cadences.
func DefaultOptions() Options {
	return Options{
		StartDelay:      600 * time.Millisecond,
		DisplayInterval: 100 * time.Millisecond,
		TypingInterval:  150 * time.Millisecond,
	}
}

// Status is what the UI needs to draw the timer and button.
type Status struct {
	State     State
	Elapsed   time.Duration
	Target    time.Duration
	Countdown bool
	Running   bool
	Resumable bool
}

// Archive describes a run that is being reset, for history.
type Archive struct {
	Snapshot  stream.Snapshot
	StartedAt time.Time
	EndedAt   time.Time
	Spent     time.Duration
	Target    time.Duration
}

// Controller drives one monkey. All methods and callbacks run on the
// scheduler's goroutine.
type Controller struct {
	sched    schedule.Scheduler
	engine   *stream.Engine
	pager    *page.Pager
	producer Producer
	opts     Options

	state     State
	elapsed   time.Duration
	target    time.Duration
	anchor    time.Time
	runStart  time.Time
	progress  bool
	startWait schedule.Timer
	display   schedule.Timer
	typing    schedule.Timer

	onTick   []func(Status)
	onDetect []func(stream.Result)
	onReset  []func(Archive)
}

// New returns an idle Controller. Zero option fields take the defaults.
func New(sched schedule.Scheduler, engine *stream.Engine, pager *page.Pager, producer Producer, opts Options) *Controller {
	def := DefaultOptions()
	if opts.StartDelay < 0 {
		opts.StartDelay = 0
	} else if opts.StartDelay == 0 {
		opts.StartDelay = def.StartDelay
	}
	if opts.DisplayInterval <= 0 {
		opts.DisplayInterval = def.DisplayInterval
	}
	if opts.TypingInterval <= 0 {
		opts.TypingInterval = def.TypingInterval
	}
	return &Controller{
		sched:    sched,
		engine:   engine,
		pager:    pager,
		producer: producer,
		opts:     opts,
	}
}

// OnTick registers fn to run after every state or elapsed change.
func (c *Controller) OnTick(fn func(Status)) {
	c.onTick = append(c.onTick, fn)
}

// OnDetect registers fn to run when an appended letter completes a word.
func (c *Controller) OnDetect(fn func(stream.Result)) {
	c.onDetect = append(c.onDetect, fn)
}

// OnReset registers fn to receive the run being discarded by Reset. It is
// only called when the stream is non-empty.
func (c *Controller) OnReset(fn func(Archive)) {
	c.onReset = append(c.onReset, fn)
}

// Status returns the current status.
func (c *Controller) Status() Status {
	return Status{
		State:     c.state,
		Elapsed:   c.elapsed,
		Target:    c.target,
		Countdown: c.target > 0,
		Running:   c.state == Running,
		Resumable: c.state == Stopped && c.progress,
	}
}

// Engine returns the stream engine the controller feeds.
func (c *Controller) Engine() *stream.Engine {
	return c.engine
}

// Pager returns the pager the controller keeps in sync.
func (c *Controller) Pager() *page.Pager {
	return c.pager
}

// Start begins (or resumes) the run after the start delay. It is a no-op
// while starting or running, and when a countdown has already run out.
func (c *Controller) Start() {
	if c.state == Starting || c.state == Running {
		return
	}
	if c.target > 0 && c.elapsed <= 0 {
		return
	}
	c.state = Starting
	c.startWait = c.sched.AfterFunc(c.opts.StartDelay, c.run)
	c.notify()
}

func (c *Controller) run() {
	c.startWait = nil
	now := c.sched.Now()
	if c.target > 0 {
		c.anchor = now.Add(-(c.target - c.elapsed))
	} else {
		c.anchor = now.Add(-c.elapsed)
	}
	if c.runStart.IsZero() {
		c.runStart = now
	}
	c.progress = true
	c.state = Running
	c.display = c.sched.Every(c.opts.DisplayInterval, c.tickDisplay)
	c.typing = c.sched.Every(c.opts.TypingInterval, c.tickTyping)
	c.notify()
}

func (c *Controller) tickDisplay() {
	since := c.sched.Now().Sub(c.anchor)
	if c.target == 0 {
		c.elapsed = since
		c.notify()
		return
	}
	remaining := c.target - since
	if remaining <= 0 {
		c.elapsed = 0
		c.Stop()
		return
	}
	c.elapsed = remaining
	c.notify()
}

func (c *Controller) tickTyping() {
	res := c.engine.Append(c.producer.Letter())
	c.pager.Sync(c.engine.Len())
	if !res.Detected {
		return
	}
	for _, fn := range c.onDetect {
		fn(res)
	}
}

// Stop halts the run, keeping the elapsed time. Stopping while the start
// delay is pending cancels the start.
func (c *Controller) Stop() {
	switch c.state {
	case Starting:
		c.cancelTimers()
		if c.progress {
			c.state = Stopped
		} else {
			c.state = Idle
		}
	case Running:
		c.cancelTimers()
		c.state = Stopped
	default:
		return
	}
	c.notify()
}

// Toggle stops a running or starting session and starts any other.
func (c *Controller) Toggle() {
	if c.state == Running || c.state == Starting {
		c.Stop()
		return
	}
	c.Start()
}

// Reset returns to Idle from any state and clears the stream and page.
func (c *Controller) Reset() {
	c.cancelTimers()
	if c.engine.Len() > 0 && len(c.onReset) > 0 {
		archive := Archive{
			Snapshot:  c.engine.Snapshot(),
			StartedAt: c.runStart,
			EndedAt:   c.sched.Now(),
			Spent:     c.spent(),
			Target:    c.target,
		}
		for _, fn := range c.onReset {
			fn(archive)
		}
	}
	c.state = Idle
	c.elapsed = c.target
	c.progress = false
	c.runStart = time.Time{}
	c.engine.Reset()
	c.pager.Reset()
	c.notify()
}

// Spent returns how long the current run has been typing.
func (c *Controller) Spent() time.Duration {
	return c.spent()
}

func (c *Controller) spent() time.Duration {
	if c.target > 0 {
		return c.target - c.elapsed
	}
	return c.elapsed
}

// SelectDuration switches to a countdown of d. It is refused while the
// monkey is starting or running.
func (c *Controller) SelectDuration(d time.Duration) bool {
	if c.state == Starting || c.state == Running || d <= 0 {
		return false
	}
	c.target = d
	c.elapsed = d
	c.progress = false
	c.notify()
	return true
}

// ClearDuration switches back to stopwatch mode.
func (c *Controller) ClearDuration() bool {
	if c.state == Starting || c.state == Running {
		return false
	}
	c.target = 0
	c.elapsed = 0
	c.progress = false
	c.notify()
	return true
}

func (c *Controller) cancelTimers() {
	c.startWait = schedule.StopTimer(c.startWait)
	c.display = schedule.StopTimer(c.display)
	c.typing = schedule.StopTimer(c.typing)
}

func (c *Controller) notify() {
	if len(c.onTick) == 0 {
		return
	}
	st := c.Status()
	for _, fn := range c.onTick {
		fn(st)
	}
}
