package classify

import (
	"image"
	"math"

	"github.com/ironsheep/tictactoe-vision/internal/detection"
	"github.com/ironsheep/tictactoe-vision/internal/imaging"
)

// Line-geometry parameters for the crossing detector.
const (
	crossingHoughThreshold = 40
	crossingMaxGap         = 10

	// Segments within this many degrees of 45° or 135° count as diagonal.
	diagonalTolerance = 15.0

	// Diagonal segments must pass this close to the region centre, as a
	// fraction of the shorter side.
	centreDistanceFrac = 0.15
)

// Crossing summarises the diagonal segments found in a region.
type Crossing struct {
	// Segments are all segments returned by the Hough transform.
	Segments []detection.Segment `json:"segments"`

	// Main is true when a centred segment runs near 45°.
	Main bool `json:"main"`

	// Anti is true when a centred segment runs near 135°.
	Anti bool `json:"anti"`
}

// FindCrossing runs Canny (50/150, L2 gradient) and the probabilistic Hough
// transform (1 px, 1°, 40 votes, min length half the shorter side, max gap
// 10) on a blurred region and classifies the centred diagonal segments.
func FindCrossing(blur *image.Gray) Crossing {
	b := blur.Bounds()
	w, h := b.Dx(), b.Dy()
	short := min(w, h)
	if short == 0 {
		return Crossing{}
	}

	edges := imaging.Canny(blur, imaging.DefaultCannyLow, imaging.DefaultCannyHigh)
	segs := detection.HoughLinesP(edges, detection.HoughParams{
		Rho:           1,
		Theta:         math.Pi / 180,
		Threshold:     crossingHoughThreshold,
		MinLineLength: short / 2,
		MaxLineGap:    crossingMaxGap,
	})

	c := Crossing{Segments: segs}
	if len(segs) < 2 {
		return c
	}

	cx, cy := float64(w)/2, float64(h)/2
	for _, s := range segs {
		ang := s.AngleDegrees()
		d45 := math.Abs(ang - 45)
		d135 := math.Abs(ang - 135)
		if math.Min(d45, d135) >= diagonalTolerance {
			continue
		}
		if s.DistanceTo(cx, cy) >= centreDistanceFrac*float64(short) {
			continue
		}
		if d45 < diagonalTolerance {
			c.Main = true
		}
		if d135 < diagonalTolerance {
			c.Anti = true
		}
	}
	return c
}

// IsCross reports whether both diagonal families were found.
func (c Crossing) IsCross() bool {
	return c.Main && c.Anti
}

// LooksLikeCrossingLines reports whether a blurred region holds two centred
// line segments near 45° and 135°.
func LooksLikeCrossingLines(blur *image.Gray) bool {
	return FindCrossing(blur).IsCross()
}
