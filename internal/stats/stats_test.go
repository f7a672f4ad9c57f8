package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typermonkey/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	cpm, per := SessionMetrics(400, 2, 60000)
	if cpm != 400 || per != 5 {
		t.Fatalf("unexpected metrics %v %v", cpm, per)
	}
	cpm, per = SessionMetrics(0, 0, 0)
	if cpm != 0 || per != 0 {
		t.Fatalf("expected zero metrics, got %v %v", cpm, per)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestDownsample(t *testing.T) {
	got := Downsample([]float64{1, 3, 5, 7, 9, 11}, 3)
	if len(got) != 3 || got[0] != 2 || got[2] != 10 {
		t.Fatalf("unexpected downsample %v", got)
	}
	if len(Downsample([]float64{1, 2}, 10)) != 2 {
		t.Fatalf("short input must be kept")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("flat series should use the middle glyph, got %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderHistory(t *testing.T) {
	sessions := []model.SessionAggregate{
		{SessionID: 1, EndedAt: time.Unix(0, 0), Chars: 1000, Words: 4, ElapsedMs: 150000, LeadingWord: "monkey"},
		{SessionID: 2, EndedAt: time.Unix(60, 0), Chars: 500, Words: 1, ElapsedMs: 75000, LeadingWord: "cat"},
	}
	report := Report{Sessions: sessions, TopWords: []model.WordAggregate{{Word: "monkey", Sessions: 2}}}
	var buf bytes.Buffer
	if err := report.Render(&buf, 2, 40); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Time typed: 03:45", "Longest word: monkey", "Words per 1k chars", "rare"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (Report{}).Render(&buf, 5, 80); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No sessions found." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
