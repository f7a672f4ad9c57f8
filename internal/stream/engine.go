// Package stream owns the monkey's character stream and detects dictionary
// words completing at its tail.
package stream

import (
	"fmt"
	"sort"
)

// MaxWordLength bounds the suffix scanned on every append.
const MaxWordLength = 15

// Lookup answers dictionary membership for lowercase candidates.
type Lookup interface {
	Contains(candidate string) bool
}

// Range is a half-open span [Start, End) in stream index space.
type Range struct {
	Start int
	End   int
}

// Len returns the span length.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether i falls inside the span.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Result describes what a single Append detected.
type Result struct {
	Detected bool
	Word     string
	Range    Range
}

// TieBreak selects which word leads when several share the maximal length.
type TieBreak int

const (
	// TieBreakRecent lets a newly detected word of maximal length take the
	// lead; shorter detections leave the leader alone.
	TieBreakRecent TieBreak = iota
	// TieBreakFirst keeps recency for new maximal words but re-derives the
	// leader from insertion order when a shorter word arrives.
	TieBreakFirst
)

// ParseTieBreak maps a config value to a TieBreak.
func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "", "recent":
		return TieBreakRecent, nil
	case "first":
		return TieBreakFirst, nil
	default:
		return TieBreakRecent, fmt.Errorf("unknown tiebreak %q (want recent or first)", s)
	}
}

func (t TieBreak) String() string {
	if t == TieBreakFirst {
		return "first"
	}
	return "recent"
}

// Option configures an Engine.
type Option func(*Engine)

// WithTieBreak sets the leading word policy.
func WithTieBreak(t TieBreak) Option {
	return func(e *Engine) {
		e.tieBreak = t
	}
}

// Engine is the append-only stream plus everything derived from detections.
// It is not safe for concurrent use; exactly one producer drives it.
type Engine struct {
	dict     Lookup
	tieBreak TieBreak

	buf     []byte
	seen    map[string]struct{}
	words   []string
	ranges  []Range
	leading string
	maxLen  int
}

// New returns an empty Engine detecting words from dict.
func New(dict Lookup, opts ...Option) *Engine {
	e := &Engine{
		dict: dict,
		seen: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Append extends the stream by l and runs the longest-suffix scan. It panics
// when l is not a-z: the producer is internal and must never emit one.
func (e *Engine) Append(l Letter) Result {
	if !l.Valid() {
		panic(fmt.Sprintf("stream: invalid letter %q", byte(l)))
	}
	e.buf = append(e.buf, byte(l))
	n := len(e.buf)

	longest := n
	if longest > MaxWordLength {
		longest = MaxWordLength
	}
	for length := longest; length >= 1; length-- {
		start := n - length
		candidate := e.buf[start:]
		// The map index with string(bytes) does not allocate.
		if _, dup := e.seen[string(candidate)]; dup {
			continue
		}
		word := string(candidate)
		if !e.dict.Contains(word) {
			continue
		}
		r := Range{Start: start, End: n}
		e.collect(word, r)
		return Result{Detected: true, Word: word, Range: r}
	}
	return Result{}
}

func (e *Engine) collect(word string, r Range) {
	e.seen[word] = struct{}{}
	e.words = append(e.words, word)
	e.ranges = append(e.ranges, r)

	if len(word) >= e.maxLen {
		e.maxLen = len(word)
		e.leading = word
		return
	}
	if e.tieBreak == TieBreakFirst {
		for _, w := range e.words {
			if len(w) == e.maxLen {
				e.leading = w
				return
			}
		}
	}
}

// Reset clears the stream and all derived state.
func (e *Engine) Reset() {
	e.buf = e.buf[:0]
	e.seen = map[string]struct{}{}
	e.words = nil
	e.ranges = nil
	e.leading = ""
	e.maxLen = 0
}

// Len returns the stream length.
func (e *Engine) Len() int {
	return len(e.buf)
}

// Text returns the whole stream.
func (e *Engine) Text() string {
	return string(e.buf)
}

// Slice returns the stream between start and end, clamped to its bounds.
func (e *Engine) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(e.buf) {
		end = len(e.buf)
	}
	if start >= end {
		return ""
	}
	return string(e.buf[start:end])
}

// Words returns the collected words in detection order.
func (e *Engine) Words() []string {
	out := make([]string, len(e.words))
	copy(out, e.words)
	return out
}

// WordCount returns the number of distinct words collected.
func (e *Engine) WordCount() int {
	return len(e.words)
}

// Collected reports whether word has already been detected.
func (e *Engine) Collected(word string) bool {
	_, ok := e.seen[word]
	return ok
}

// Ranges returns the highlighted spans in detection order.
func (e *Engine) Ranges() []Range {
	out := make([]Range, len(e.ranges))
	copy(out, e.ranges)
	return out
}

// LeadingWord returns the most notable word so far.
func (e *Engine) LeadingWord() (string, bool) {
	return e.leading, e.leading != ""
}

// Highlighted reports whether stream index i lies inside any detected span.
// Span ends strictly increase and no span is longer than MaxWordLength, so
// only the few spans ending just after i need checking.
func (e *Engine) Highlighted(i int) bool {
	first := sort.Search(len(e.ranges), func(k int) bool {
		return e.ranges[k].End > i
	})
	for k := first; k < len(e.ranges); k++ {
		r := e.ranges[k]
		if r.End-MaxWordLength > i {
			break
		}
		if r.Contains(i) {
			return true
		}
	}
	return false
}

// Snapshot is a consistent copy of the engine state.
type Snapshot struct {
	Text    string
	Words   []string
	Ranges  []Range
	Leading string
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Text:    e.Text(),
		Words:   e.Words(),
		Ranges:  e.Ranges(),
		Leading: e.leading,
	}
}
