// Package schedule provides the tick source the session, pager and gesture
// timers run on. Callbacks always run on the goroutine that drives the
// scheduler, never concurrently with each other.
package schedule

import "time"

// Timer is a scheduled callback.
type Timer interface {
	// Stop cancels the timer. It returns false when the timer had already
	// been stopped or, for one-shot timers, had already fired. Calling it
	// more than once is safe.
	Stop() bool
}

// Scheduler creates timers and reports the current time.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// StopTimer stops t when it is non-nil and returns nil, for clearing fields.
func StopTimer(t Timer) Timer {
	if t != nil {
		t.Stop()
	}
	return nil
}
