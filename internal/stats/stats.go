// Package stats turns stored monkey runs into history reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typermonkey/internal/collection"
	"github.com/verte-zerg/typermonkey/internal/model"
	"github.com/verte-zerg/typermonkey/internal/session"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics returns the typing rate in characters per minute and the
// discovery rate in words per thousand characters.
func SessionMetrics(chars, words int, elapsedMs int64) (cpm, perThousand float64) {
	if elapsedMs > 0 {
		cpm = float64(chars) / (float64(elapsedMs) / 60000.0)
	}
	if chars > 0 {
		perThousand = float64(words) * 1000 / float64(chars)
	}
	return cpm, perThousand
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Downsample averages values into at most width buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(idx, last))])
	}
	return b.String()
}

// RenderSummary prints totals over sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var chars, words int
	var elapsed int64
	longest := ""
	for _, s := range sessions {
		chars += s.Chars
		words += s.Words
		elapsed += s.ElapsedMs
		if len(s.LeadingWord) > len(longest) {
			longest = s.LeadingWord
		}
	}
	cpm, perThousand := SessionMetrics(chars, words, elapsed)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Time typed: %s", formatDuration(elapsed)),
		fmt.Sprintf("Characters: %d", chars),
		fmt.Sprintf("Words found: %d", words),
		fmt.Sprintf("Avg CPM: %.1f", cpm),
		fmt.Sprintf("Words per 1k chars: %.2f", perThousand),
		fmt.Sprintf("Longest word: %s", orDash(longest)),
		"",
	}
	return writeLines(w, lines)
}

// RenderSessions prints one row per session.
func RenderSessions(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		_, perThousand := SessionMetrics(s.Chars, s.Words, s.ElapsedMs)
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			formatDuration(s.ElapsedMs),
			fmt.Sprintf("%d", s.Chars),
			fmt.Sprintf("%d", s.Words),
			fmt.Sprintf("%.2f", perThousand),
			orDash(s.LeadingWord),
		})
	}
	lines := formatTable(
		[]string{"Ended", "Time", "Chars", "Words", "Per 1k", "Leading"},
		rows,
		map[int]bool{1: true, 2: true, 3: true, 4: true},
	)
	lines = append([]string{"Sessions"}, lines...)
	return writeLines(w, append(lines, ""))
}

// RenderTrend prints a sparkline of words per thousand characters, smoothed
// over window sessions and squeezed into width columns.
func RenderTrend(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) < 2 {
		return nil
	}
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		_, values[i] = SessionMetrics(s.Chars, s.Words, s.ElapsedMs)
	}
	line := Sparkline(Downsample(MovingAverage(values, window), width))
	return writeLines(w, []string{"Words per 1k chars", "[" + line + "]", ""})
}

// RenderTopWords prints the most frequently discovered words.
func RenderTopWords(w io.Writer, words []model.WordAggregate) error {
	if len(words) == 0 {
		_, err := fmt.Fprintln(w, "No words found.")
		return err
	}
	rows := make([][]string, 0, len(words))
	for _, agg := range words {
		rows = append(rows, []string{
			agg.Word,
			fmt.Sprintf("%d", len(agg.Word)),
			collection.Classify(agg.Word).String(),
			fmt.Sprintf("%d", agg.Sessions),
		})
	}
	lines := formatTable([]string{"Word", "Len", "Rarity", "Sessions"}, rows, map[int]bool{1: true, 3: true})
	lines = append([]string{"Top Words"}, lines...)
	return writeLines(w, append(lines, ""))
}

func formatDuration(ms int64) string {
	return session.FormatClock(time.Duration(ms) * time.Millisecond)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
