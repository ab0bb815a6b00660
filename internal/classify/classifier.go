package classify

import (
	"image"

	"github.com/ironsheep/tictactoe-vision/internal/game"
)

// Classifier decides the symbol held by a single board cell.
//
// A Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
	strategies []Strategy
}

// New creates a classifier. Zero threshold fields take their defaults; with
// no strategies the default cascade is used.
func New(th Thresholds, strategies ...Strategy) *Classifier {
	return NewExact(th.WithDefaults(), strategies...)
}

// NewExact creates a classifier that uses th as given, zero fields
// included. th should come from DefaultThresholds or an Overrides.Apply and
// pass Validate.
func NewExact(th Thresholds, strategies ...Strategy) *Classifier {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Classifier{
		thresholds: th,
		strategies: append([]Strategy(nil), strategies...),
	}
}

// Default returns a classifier with default thresholds and strategies.
func Default() *Classifier {
	return New(Thresholds{})
}

// Thresholds returns the effective thresholds.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Result explains how a cell was classified.
type Result struct {
	Symbol game.Symbol `json:"symbol"`

	// Detector is the strategy that matched, DetectorBlank for cells with
	// too little ink, or DetectorFallback when nothing matched.
	Detector string `json:"detector"`

	// WhiteRatio is the ink fraction of the inner region.
	WhiteRatio float64 `json:"white_ratio"`

	// Width and Height are the size of the inner region after the margin
	// crop.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Classify returns the symbol held by cell.
func (c *Classifier) Classify(cell *image.Gray) game.Symbol {
	return c.Explain(cell).Symbol
}

// Explain classifies cell and reports which step decided it.
//
// Cells with less ink than EmptyWhiteRatio, including zero-size cells, are
// Empty. Otherwise the strategies run in order and the first match wins.
// A cell with ink that no strategy recognises is reported as O.
func (c *Classifier) Explain(cell *image.Gray) Result {
	r := Prepare(cell)
	if r.Empty() {
		return Result{Symbol: game.Empty, Detector: DetectorBlank}
	}

	b := r.Blur.Bounds()
	res := Result{WhiteRatio: r.WhiteRatio, Width: b.Dx(), Height: b.Dy()}

	if r.WhiteRatio < c.thresholds.EmptyWhiteRatio {
		res.Symbol = game.Empty
		res.Detector = DetectorBlank
		return res
	}

	for _, s := range c.strategies {
		if s.Match(r, c.thresholds) {
			res.Symbol = s.Symbol
			res.Detector = s.Name
			return res
		}
	}

	res.Symbol = game.O
	res.Detector = DetectorFallback
	return res
}
