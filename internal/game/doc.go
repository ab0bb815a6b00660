// Package game holds the tic-tac-toe board model and its evaluation.
//
// A Board is a 3x3 grid of Symbols filled in row-major order. Evaluate turns
// a board into a Verdict ("X Wins", "O Wins", "Draw" or "Ongoing") as a pure
// function: no move history, turn order or legality checks are involved.
package game
