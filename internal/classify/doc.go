// Package classify decides whether a board cell holds nothing, an X or an O.
//
// A cell is prepared once (margin crop, 5x5 Gaussian blur, inverted Otsu
// binarization) and then passed through an ordered cascade of strategies:
//
//  1. ring: a round, square-ish contour with a hole or a large filled area
//  2. orientation: strong gradients concentrated on both diagonals
//  3. crossing: two centred line segments near 45° and 135°
//
// A cell with too little ink is Empty before any strategy runs. A cell with
// ink that no strategy recognises is classified as O; callers that need to
// tell a real ring from this fallback can use Classifier.Explain.
//
// All tunable constants live in Thresholds, which can be overridden per
// classifier or read from TTT_* environment variables.
package classify
