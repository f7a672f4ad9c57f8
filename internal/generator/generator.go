// Package generator produces the monkey's keystrokes.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/typermonkey/internal/stream"
)

const alphabet = 26

// Generator emits uniformly random lowercase letters.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed, for reproducible runs.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Letter returns the next keystroke.
func (g *Generator) Letter() stream.Letter {
	return stream.Letter('a' + g.rnd.Intn(alphabet))
}

// Letters returns n keystrokes, for previews and benchmarks.
func (g *Generator) Letters(n int) []stream.Letter {
	out := make([]stream.Letter, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Letter())
	}
	return out
}
