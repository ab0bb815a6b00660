// Package board reads the game state from a photograph of a 3x3
// tic-tac-toe board.
//
// The image is converted to gray, split into nine equal cells (remainder
// pixels at the right and bottom are ignored), each cell is classified
// independently, and the resulting board is evaluated:
//
//	verdict, err := board.CheckState("board.png")
//	// verdict is "X Wins", "O Wins", "Draw" or "Ongoing"
//
// A Reader holds an image cache and a classifier and exposes the per-cell
// detail behind a verdict.
package board
