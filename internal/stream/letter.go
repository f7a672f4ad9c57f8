package stream

import (
	"errors"
	"fmt"
)

// ErrInvalidLetter is returned by ParseLetter for anything outside a-z.
var ErrInvalidLetter = errors.New("letter must be a-z")

// Letter is a single lowercase ASCII letter.
type Letter byte

// ParseLetter validates r as a stream letter.
func ParseLetter(r rune) (Letter, error) {
	if r < 'a' || r > 'z' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, r)
	}
	return Letter(r), nil
}

// Valid reports whether l is in a-z.
func (l Letter) Valid() bool {
	return l >= 'a' && l <= 'z'
}

func (l Letter) String() string {
	return string(rune(l))
}
