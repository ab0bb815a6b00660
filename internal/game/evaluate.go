package game

import (
	"fmt"
	"strings"
)

// Board is a 3x3 grid of symbols indexed [row][col], row 0 at the top.
type Board [3][3]Symbol

// String renders the board as three lines of glyphs separated by spaces,
// for example:
//
//	X O .
//	. X .
//	O . X
func (b Board) String() string {
	var sb strings.Builder
	for r, row := range b {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, s := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(s.Glyph())
		}
	}
	return sb.String()
}

// Rows returns the board as three strings of glyphs ("XO.", ...).
func (b Board) Rows() [3]string {
	var rows [3]string
	for r, row := range b {
		rows[r] = string([]byte{row[0].Glyph(), row[1].Glyph(), row[2].Glyph()})
	}
	return rows
}

// ParseBoard reads a board from nine glyphs. Rows may be separated by '/',
// newlines or spaces, which are ignored.
func ParseBoard(s string) (Board, error) {
	var b Board
	n := 0
	for _, ch := range s {
		switch ch {
		case '/', '\n', ' ', '\t', '\r':
			continue
		}
		if n == 9 {
			return Board{}, fmt.Errorf("board %q has more than 9 cells", s)
		}
		sym, err := ParseSymbol(string(ch))
		if err != nil {
			return Board{}, fmt.Errorf("cell %d: %w", n, err)
		}
		b[n/3][n%3] = sym
		n++
	}
	if n != 9 {
		return Board{}, fmt.Errorf("board %q has %d cells, want 9", s, n)
	}
	return b, nil
}

// Outcome classifies the state of a game.
type Outcome int

const (
	// Ongoing means no line is complete and at least one cell is empty.
	Ongoing Outcome = iota
	// Win means a row, column or diagonal holds three identical marks.
	Win
	// Draw means every cell is filled and nobody has a line.
	Draw
)

// Verdict is the result of evaluating a board.
type Verdict struct {
	Outcome Outcome
	// Winner is set only when Outcome is Win.
	Winner Symbol
}

// String renders the verdict as "X Wins", "O Wins", "Draw" or "Ongoing".
func (v Verdict) String() string {
	switch v.Outcome {
	case Win:
		return v.Winner.String() + " Wins"
	case Draw:
		return "Draw"
	default:
		return "Ongoing"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// lines lists every winning triple in the order they are checked: rows top
// to bottom, columns left to right, the main diagonal, then the
// anti-diagonal.
var lines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Evaluate decides the game state of b.
//
// The first uniform non-empty line in check order wins, even when the board
// is not reachable in legal play (both players holding a line, too many
// marks of one kind). Otherwise any empty cell means Ongoing, and a full
// board is a Draw.
func Evaluate(b Board) Verdict {
	for _, line := range lines {
		s := b[line[0][0]][line[0][1]]
		if s == Empty {
			continue
		}
		if b[line[1][0]][line[1][1]] == s && b[line[2][0]][line[2][1]] == s {
			return Verdict{Outcome: Win, Winner: s}
		}
	}

	for _, row := range b {
		for _, s := range row {
			if s == Empty {
				return Verdict{Outcome: Ongoing}
			}
		}
	}
	return Verdict{Outcome: Draw}
}
