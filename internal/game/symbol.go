package game

import (
	"fmt"
	"strings"
)

// Symbol is the content of one board cell.
type Symbol int

const (
	// Empty marks a cell with no mark in it.
	Empty Symbol = iota
	// X marks a cell holding a cross.
	X
	// O marks a cell holding a ring.
	O
)

// String renders the symbol as used in verdicts: "X", "O", or "" for Empty.
func (s Symbol) String() string {
	switch s {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Glyph renders the symbol as a single printable character, with '.' for
// Empty.
func (s Symbol) Glyph() byte {
	switch s {
	case X:
		return 'X'
	case O:
		return 'O'
	default:
		return '.'
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Symbol) UnmarshalText(text []byte) error {
	parsed, err := ParseSymbol(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSymbol accepts "X", "O" (either case) and "", "." or "-" for Empty.
func ParseSymbol(s string) (Symbol, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	case "", ".", "-":
		return Empty, nil
	}
	return Empty, fmt.Errorf("unknown symbol %q", s)
}
