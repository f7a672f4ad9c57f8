package schedule

import (
	"sync"
	"time"
)

// Fire is posted into the event loop when a Loop timer comes due.
type Fire struct {
	id uint64
}

// Loop is a Scheduler backed by wall-clock timers. Expiry only posts a Fire
// value; the callback runs when the event loop hands it back to Dispatch, so
// all callbacks share the loop's goroutine.
type Loop struct {
	mu     sync.Mutex
	post   func(Fire)
	seq    uint64
	timers map[uint64]*loopTimer
}

type loopTimer struct {
	loop  *Loop
	id    uint64
	every time.Duration
	fn    func()
	t     *time.Timer
}

// NewLoop returns a Loop. Attach must be called before any timer fires.
func NewLoop() *Loop {
	return &Loop{timers: map[uint64]*loopTimer{}}
}

// Attach sets the function used to post Fire values into the event loop,
// typically tea.Program.Send.
func (l *Loop) Attach(post func(Fire)) {
	l.mu.Lock()
	l.post = post
	l.mu.Unlock()
}

// Now implements Scheduler.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return l.add(d, 0, fn)
}

// Every implements Scheduler.
func (l *Loop) Every(d time.Duration, fn func()) Timer {
	return l.add(d, d, fn)
}

func (l *Loop) add(d, every time.Duration, fn func()) *loopTimer {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	lt := &loopTimer{loop: l, id: l.seq, every: every, fn: fn}
	l.timers[lt.id] = lt
	lt.t = time.AfterFunc(d, func() {
		l.emit(Fire{id: lt.id})
	})
	return lt
}

func (l *Loop) emit(f Fire) {
	l.mu.Lock()
	post := l.post
	l.mu.Unlock()
	if post != nil {
		post(f)
	}
}

// Dispatch runs the callback for f if its timer is still live. It reports
// whether a callback ran.
func (l *Loop) Dispatch(f Fire) bool {
	l.mu.Lock()
	lt, ok := l.timers[f.id]
	if !ok {
		l.mu.Unlock()
		return false
	}
	if lt.every > 0 {
		lt.t.Reset(lt.every)
	} else {
		delete(l.timers, f.id)
	}
	l.mu.Unlock()
	lt.fn()
	return true
}

// Pending returns how many timers are live.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

func (t *loopTimer) Stop() bool {
	t.loop.mu.Lock()
	_, ok := t.loop.timers[t.id]
	delete(t.loop.timers, t.id)
	t.loop.mu.Unlock()
	if ok {
		t.t.Stop()
	}
	return ok
}
