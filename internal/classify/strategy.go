package classify

import (
	"image"

	"github.com/ironsheep/tictactoe-vision/internal/game"
	"github.com/ironsheep/tictactoe-vision/internal/imaging"
)

// blurKernel is the Gaussian kernel size applied before binarization.
const blurKernel = 5

// Region is a cell prepared for the detectors: margin trimmed, blurred, and
// binarized with Otsu's threshold so that ink is foreground.
type Region struct {
	// Blur is the smoothed intensity buffer of the inner region.
	Blur *image.Gray

	// Mask is the inverted Otsu binarization of Blur (ink = 255).
	Mask *image.Gray

	// WhiteRatio is the fraction of Mask pixels that are ink.
	WhiteRatio float64
}

// Prepare trims the cell margin, blurs the rest with a 5x5 Gaussian and
// binarizes it.
func Prepare(cell *image.Gray) Region {
	blur := imaging.GaussianBlur(imaging.CropMargin(cell), blurKernel)
	mask, ratio := imaging.OtsuBinarizeInv(blur)
	return Region{Blur: blur, Mask: mask, WhiteRatio: ratio}
}

// Empty reports whether the region has no pixels at all.
func (r Region) Empty() bool {
	return r.Blur == nil || r.Blur.Bounds().Empty()
}

// Strategy is one step of the classification cascade. The first strategy
// whose Match returns true decides the cell's symbol.
type Strategy struct {
	// Name identifies the strategy in explanations and logs.
	Name string

	// Symbol is the result when Match succeeds.
	Symbol game.Symbol

	// Match inspects a prepared region.
	Match func(r Region, th Thresholds) bool
}

// Strategy names reported by Explain.
const (
	DetectorRing        = "ring"
	DetectorOrientation = "orientation"
	DetectorCrossing    = "crossing"
	DetectorBlank       = "blank"
	DetectorFallback    = "fallback"
)

// RingStrategy recognises an O from the contours of the ink mask.
func RingStrategy() Strategy {
	return Strategy{
		Name:   DetectorRing,
		Symbol: game.O,
		Match: func(r Region, th Thresholds) bool {
			return LooksLikeRing(r.Mask, th)
		},
	}
}

// OrientationStrategy recognises an X from diagonal gradient energy.
func OrientationStrategy() Strategy {
	return Strategy{
		Name:   DetectorOrientation,
		Symbol: game.X,
		Match: func(r Region, th Thresholds) bool {
			return LooksLikeCross(r.Blur, th)
		},
	}
}

// CrossingStrategy recognises an X from two centred diagonal line segments.
func CrossingStrategy() Strategy {
	return Strategy{
		Name:   DetectorCrossing,
		Symbol: game.X,
		Match: func(r Region, _ Thresholds) bool {
			return LooksLikeCrossingLines(r.Blur)
		},
	}
}

// DefaultStrategies returns the cascade in evaluation order: ring, then
// orientation, then crossing lines.
func DefaultStrategies() []Strategy {
	return []Strategy{RingStrategy(), OrientationStrategy(), CrossingStrategy()}
}
