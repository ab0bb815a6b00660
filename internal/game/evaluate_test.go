package game

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, s string) Board {
	t.Helper()
	b, err := ParseBoard(s)
	require.NoError(t, err)
	return b
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		board string
		want  string
	}{
		{"empty board", ".../.../...", "Ongoing"},
		{"single mark", ".../.X./...", "Ongoing"},
		{"top row X", "XXX/OO./...", "X Wins"},
		{"middle row O", "X.X/OOO/X..", "O Wins"},
		{"bottom row X", "OO./.../XXX", "X Wins"},
		{"left column O", "OX./OX./O..", "O Wins"},
		{"middle column X", "OX./.X./OX.", "X Wins"},
		{"right column O", "X.O/X.O/..O", "O Wins"},
		{"main diagonal X", "XO./OX./..X", "X Wins"},
		{"anti diagonal O", "X.O/XO./O..", "O Wins"},
		{"full board draw", "XOX/XOO/OXX", "Draw"},
		{"winning full board", "XXX/OOX/OXO", "X Wins"},
		{"one empty left", "XOX/XOO/OX.", "Ongoing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(mustBoard(t, tt.board))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestEvaluate_FirstLineWins(t *testing.T) {
	// Illegal positions where both players hold a line. Only parallel lines
	// can coexist, and the one checked first decides.
	tests := []struct {
		board string
		want  string
	}{
		{"XXX/.../OOO", "X Wins"},
		{"OOO/.../XXX", "O Wins"},
		{".../XXX/OOO", "X Wins"},
		{"X.O/X.O/X.O", "X Wins"},
		{"O.X/O.X/O.X", "O Wins"},
		{"OX./OX./OX.", "O Wins"},
	}

	for _, tt := range tests {
		t.Run(tt.board, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(mustBoard(t, tt.board)).String())
		})
	}
}

func TestEvaluate_IgnoresMoveCounts(t *testing.T) {
	// Five X and no O is still a win for X.
	b := mustBoard(t, "XXX/X../X..")
	assert.Equal(t, Verdict{Outcome: Win, Winner: X}, Evaluate(b))
}

func TestEvaluate_Pure(t *testing.T) {
	b := mustBoard(t, "XO./.X./O.X")
	before := b
	first := Evaluate(b)
	second := Evaluate(b)

	assert.Equal(t, first, second)
	if diff := cmp.Diff(before, b); diff != "" {
		t.Errorf("Evaluate mutated the board (-before +after):\n%s", diff)
	}
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "X Wins", Verdict{Outcome: Win, Winner: X}.String())
	assert.Equal(t, "O Wins", Verdict{Outcome: Win, Winner: O}.String())
	assert.Equal(t, "Draw", Verdict{Outcome: Draw}.String())
	assert.Equal(t, "Ongoing", Verdict{}.String())
}

func TestBoard_String(t *testing.T) {
	b := mustBoard(t, "XO./.X./O.X")
	assert.Equal(t, "X O .\n. X .\nO . X", b.String())
	assert.Equal(t, [3]string{"XO.", ".X.", "O.X"}, b.Rows())
}

func TestParseBoard(t *testing.T) {
	_, err := ParseBoard("xo-\n.X.\nO X")
	require.Error(t, err, "8 cells must be rejected")

	got, err := ParseBoard("xo-\n.X.\nO.X")
	require.NoError(t, err)
	want := Board{
		{X, O, Empty},
		{Empty, X, Empty},
		{O, Empty, X},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseBoard mismatch (-want +got):\n%s", diff)
	}

	_, err = ParseBoard("XOX/XOO/OXXX")
	assert.Error(t, err)
	_, err = ParseBoard("XOX/XQO/OXX")
	assert.Error(t, err)
}

func TestSymbol_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]any{
		"board":   Board{{X, O, Empty}},
		"verdict": Verdict{Outcome: Win, Winner: X},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"board":[["X","O",""],["","",""],["","",""]],"verdict":"X Wins"}`, string(data))

	var s Symbol
	require.NoError(t, json.Unmarshal([]byte(`"o"`), &s))
	assert.Equal(t, O, s)
	assert.Error(t, json.Unmarshal([]byte(`"Z"`), &s))
}

func TestSymbol_Glyph(t *testing.T) {
	assert.Equal(t, byte('X'), X.Glyph())
	assert.Equal(t, byte('O'), O.Glyph())
	assert.Equal(t, byte('.'), Empty.Glyph())
	assert.Equal(t, "", Empty.String())
}
