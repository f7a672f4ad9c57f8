package session

import (
	"testing"
	"time"

	"github.com/verte-zerg/typermonkey/internal/dictionary"
	"github.com/verte-zerg/typermonkey/internal/page"
	"github.com/verte-zerg/typermonkey/internal/schedule"
	"github.com/verte-zerg/typermonkey/internal/stream"
)

type scriptProducer struct {
	text string
	pos  int
}

func (p *scriptProducer) Letter() stream.Letter {
	l := stream.Letter(p.text[p.pos%len(p.text)])
	p.pos++
	return l
}

func newTestController(t *testing.T, script string, words ...string) (*Controller, *schedule.Manual) {
	t.Helper()
	clock := schedule.NewManual(time.Unix(1_700_000_000, 0))
	engine := stream.New(dictionary.New(words))
	pager := page.NewPager(page.DefaultGeometry, clock, page.DefaultFlipDelay)
	c := New(clock, engine, pager, &scriptProducer{text: script}, DefaultOptions())
	return c, clock
}

func TestStartRunsAfterDelay(t *testing.T) {
	c, clock := newTestController(t, "abc")
	c.Start()
	if c.Status().State != Starting {
		t.Fatalf("expected starting, got %v", c.Status().State)
	}
	clock.Advance(599 * time.Millisecond)
	if c.Status().State != Starting || c.Engine().Len() != 0 {
		t.Fatalf("nothing should run before the start delay")
	}
	clock.Advance(time.Millisecond)
	if !c.Status().Running {
		t.Fatalf("expected running")
	}
	clock.Advance(time.Second)
	st := c.Status()
	if st.Elapsed != time.Second {
		t.Fatalf("expected 1s elapsed, got %v", st.Elapsed)
	}
	if got := c.Engine().Len(); got != 6 {
		t.Fatalf("expected 6 letters at 150ms cadence, got %d", got)
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	c, clock := newTestController(t, "abc")
	c.Start()
	c.Start()
	clock.Advance(600 * time.Millisecond)
	c.Start()
	if clock.Pending() != 2 {
		t.Fatalf("expected display and typing timers only, got %d", clock.Pending())
	}
}

func TestStopKeepsElapsedAndCancelsTimers(t *testing.T) {
	c, clock := newTestController(t, "abc")
	c.Start()
	clock.Advance(600*time.Millisecond + 500*time.Millisecond)
	c.Stop()
	c.Stop()
	st := c.Status()
	if st.State != Stopped || !st.Resumable {
		t.Fatalf("expected resumable stopped state, got %+v", st)
	}
	if st.Elapsed != 500*time.Millisecond {
		t.Fatalf("expected 500ms, got %v", st.Elapsed)
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", clock.Pending())
	}
	length := c.Engine().Len()
	clock.Advance(10 * time.Second)
	if c.Engine().Len() != length || c.Status().Elapsed != 500*time.Millisecond {
		t.Fatalf("stopped controller must not tick")
	}
}

func TestResumeContinuesElapsed(t *testing.T) {
	c, clock := newTestController(t, "abc")
	c.Start()
	clock.Advance(1600 * time.Millisecond)
	c.Stop()
	clock.Advance(5 * time.Second)
	c.Start()
	clock.Advance(1600 * time.Millisecond)
	if got := c.Status().Elapsed; got != 2*time.Second {
		t.Fatalf("expected 2s after resume, got %v", got)
	}
}

func TestStopDuringStartingCancels(t *testing.T) {
	c, clock := newTestController(t, "abc")
	c.Start()
	c.Stop()
	if c.Status().State != Idle {
		t.Fatalf("expected idle after cancelled start, got %v", c.Status().State)
	}
	if clock.Pending() != 0 {
		t.Fatalf("start delay must be cancelled")
	}
	clock.Advance(time.Second)
	if c.Status().State != Idle || c.Engine().Len() != 0 {
		t.Fatalf("cancelled start must not run")
	}
}

func TestCountdownStopsAtZero(t *testing.T) {
	c, clock := newTestController(t, "abc")
	if !c.SelectDuration(2 * time.Second) {
		t.Fatalf("expected duration accepted")
	}
	if c.Status().Elapsed != 2*time.Second || !c.Status().Countdown {
		t.Fatalf("expected 2s countdown display")
	}
	minSeen := time.Hour
	c.OnTick(func(st Status) {
		if st.Elapsed < minSeen {
			minSeen = st.Elapsed
		}
	})
	c.Start()
	clock.Advance(600 * time.Millisecond)
	clock.Advance(5 * time.Second)
	st := c.Status()
	if st.State != Stopped || st.Elapsed != 0 {
		t.Fatalf("expected stopped at zero, got %+v", st)
	}
	if minSeen < 0 {
		t.Fatalf("elapsed went negative: %v", minSeen)
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected timers cancelled after countdown")
	}
	c.Start()
	if c.Status().State != Stopped {
		t.Fatalf("finished countdown must not restart without reset")
	}
	c.Reset()
	if c.Status().Elapsed != 2*time.Second || c.Status().State != Idle {
		t.Fatalf("reset should restore the target, got %+v", c.Status())
	}
}

func TestSelectDurationRefusedWhileRunning(t *testing.T) {
	c, clock := newTestController(t, "abc")
	c.Start()
	if c.SelectDuration(time.Minute) || c.ClearDuration() {
		t.Fatalf("duration change must be refused while starting")
	}
	clock.Advance(time.Second)
	if c.SelectDuration(time.Minute) {
		t.Fatalf("duration change must be refused while running")
	}
	c.Stop()
	if !c.SelectDuration(time.Minute) {
		t.Fatalf("duration change allowed when stopped")
	}
	if !c.ClearDuration() || c.Status().Countdown {
		t.Fatalf("expected stopwatch mode")
	}
}

func TestResetClearsEverythingAndArchives(t *testing.T) {
	c, clock := newTestController(t, "xcatx", "cat")
	var archives []Archive
	c.OnReset(func(a Archive) { archives = append(archives, a) })
	var detected []string
	c.OnDetect(func(r stream.Result) { detected = append(detected, r.Word) })

	c.Start()
	clock.Advance(600*time.Millisecond + 150*time.Millisecond*5)
	if len(detected) != 1 || detected[0] != "cat" {
		t.Fatalf("expected cat detected, got %v", detected)
	}
	c.Reset()
	c.Reset()
	if len(archives) != 1 {
		t.Fatalf("expected one archive, got %d", len(archives))
	}
	if archives[0].Snapshot.Text != "xcatx" || archives[0].Snapshot.Leading != "cat" {
		t.Fatalf("unexpected archive %+v", archives[0].Snapshot)
	}
	if archives[0].StartedAt.IsZero() || archives[0].Spent <= 0 {
		t.Fatalf("expected archive timing, got %+v", archives[0])
	}
	e := c.Engine()
	if e.Len() != 0 || e.WordCount() != 0 || len(e.Ranges()) != 0 {
		t.Fatalf("expected empty engine after reset")
	}
	if _, ok := e.LeadingWord(); ok {
		t.Fatalf("expected no leading word")
	}
	if c.Pager().Page() != 0 || c.Status().State != Idle || c.Status().Elapsed != 0 {
		t.Fatalf("unexpected status after reset %+v", c.Status())
	}
	if clock.Pending() != 0 {
		t.Fatalf("reset must cancel all timers")
	}
}

func TestResetDuringStarting(t *testing.T) {
	c, clock := newTestController(t, "abc")
	c.Start()
	c.Reset()
	clock.Advance(time.Second)
	if c.Status().State != Idle || clock.Pending() != 0 {
		t.Fatalf("reset must cancel the pending start")
	}
}

func TestPagerFollowsStream(t *testing.T) {
	clock := schedule.NewManual(time.Unix(0, 0))
	engine := stream.New(dictionary.New(nil))
	pager := page.NewPager(page.Geometry{CharsPerLine: 2, LinesPerPage: 1}, clock, page.DefaultFlipDelay)
	c := New(clock, engine, pager, &scriptProducer{text: "q"}, Options{StartDelay: -1, TypingInterval: time.Second})
	c.Start()
	clock.Advance(2 * time.Second)
	if !pager.Flipping() {
		t.Fatalf("expected flip after filling the page")
	}
	clock.Advance(page.DefaultFlipDelay)
	if pager.Page() != 1 {
		t.Fatalf("expected page 1, got %d", pager.Page())
	}
}

func TestToggle(t *testing.T) {
	c, clock := newTestController(t, "abc")
	c.Toggle()
	clock.Advance(time.Second)
	c.Toggle()
	if c.Status().State != Stopped {
		t.Fatalf("expected toggle to stop")
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[time.Duration]string{
		0:                       "00:00",
		330 * time.Second:       "05:30",
		1999 * time.Millisecond: "00:01",
		2 * time.Hour:           "120:00",
		-time.Second:            "00:00",
	}
	for d, want := range cases {
		if got := FormatClock(d); got != want {
			t.Fatalf("FormatClock(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestStateString(t *testing.T) {
	if Running.String() != "running" || Idle.String() != "idle" {
		t.Fatalf("unexpected state labels")
	}
}
