package classify

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/tictactoe-vision/internal/imaging"
)

// Half-width of each orientation bin in degrees.
const binHalfWidth = 22.5

// Bin centres, in the order the energy shares are reported.
var binCentres = [4]float64{0, 45, 90, 135}

// OrientationEnergy is the distribution of strong gradient magnitude over
// four orientation bins centred on 0°, 45°, 90° and 135°.
type OrientationEnergy struct {
	// Shares holds the normalised energy per bin in the order 0°, 45°, 90°,
	// 135°. They sum to just under 1.
	Shares [4]float64 `json:"shares"`

	// Pixels is the number of gradient pixels above the 75th percentile.
	Pixels int `json:"pixels"`
}

// S0, S45, S90 and S135 return the individual bin shares.
func (e OrientationEnergy) S0() float64   { return e.Shares[0] }
func (e OrientationEnergy) S45() float64  { return e.Shares[1] }
func (e OrientationEnergy) S90() float64  { return e.Shares[2] }
func (e OrientationEnergy) S135() float64 { return e.Shares[3] }

// IsCross applies the diagonal-dominance rule: enough strong pixels, both
// diagonals together above DiagEnergy, each diagonal above BothDiagMinShare,
// and neither axis reaching MaxAxisShare.
func (e OrientationEnergy) IsCross(th Thresholds) bool {
	if e.Pixels < th.MinEdgePixels {
		return false
	}
	if e.S45()+e.S135() <= th.DiagEnergy {
		return false
	}
	if e.S45() <= th.BothDiagMinShare || e.S135() <= th.BothDiagMinShare {
		return false
	}
	return floats.Max([]float64{e.S0(), e.S90()}) < th.MaxAxisShare
}

// MeasureOrientation computes the orientation energy of a blurred region.
//
// Gradients come from a 3x3 Sobel with mirrored borders. The magnitude is
// sqrt(gx² + gy²) + 1e-6 and the undirected angle atan2(gy, gx) in degrees
// folded into [0, 180). Only pixels whose magnitude exceeds the 75th
// percentile take part; each adds its magnitude to the bin whose ±22.5°
// window contains its angle (the 0° bin wraps around 180°).
func MeasureOrientation(blur *image.Gray) OrientationEnergy {
	gx, gy := imaging.Sobel(blur, imaging.BorderReflect101)
	n := len(gx)
	if n == 0 {
		return OrientationEnergy{}
	}

	mag := make([]float64, n)
	ang := make([]float64, n)
	for i := range gx {
		mag[i] = math.Sqrt(gx[i]*gx[i]+gy[i]*gy[i]) + 1e-6
		a := math.Atan2(gy[i], gx[i]) * 180 / math.Pi
		a = math.Mod(a, 180)
		if a < 0 {
			a += 180
		}
		ang[i] = a
	}

	thr := percentile(mag, 75)

	var bins [4][]float64
	pixels := 0
	for i, m := range mag {
		if m <= thr {
			continue
		}
		pixels++
		for k, c := range binCentres {
			if inBin(ang[i], c) {
				bins[k] = append(bins[k], m)
			}
		}
	}

	var e OrientationEnergy
	e.Pixels = pixels
	for k := range bins {
		e.Shares[k] = floats.Sum(bins[k])
	}
	total := floats.Sum(e.Shares[:]) + 1e-6
	floats.Scale(1/total, e.Shares[:])
	return e
}

// LooksLikeCross reports whether the gradient orientation of a blurred
// region is dominated by both diagonals.
func LooksLikeCross(blur *image.Gray, th Thresholds) bool {
	return MeasureOrientation(blur).IsCross(th)
}

// inBin reports whether angle a lies in the half-open window
// [centre-22.5, centre+22.5) taken modulo 180.
func inBin(a, centre float64) bool {
	low := math.Mod(centre-binHalfWidth+180, 180)
	high := math.Mod(centre+binHalfWidth, 180)
	if low < high {
		return a >= low && a < high
	}
	return a >= low || a < high
}

// percentile returns the p-th percentile of values using linear
// interpolation between the closest ranks.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
