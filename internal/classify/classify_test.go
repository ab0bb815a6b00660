package classify

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/tictactoe-vision/internal/game"
)

// blankCell returns a white w x h cell.
func blankCell(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	return g
}

// drawRing inks every pixel whose squared distance from (cx, cy) lies in
// [ri², ro²].
func drawRing(g *image.Gray, cx, cy, ro, ri int) {
	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
			if d >= ri*ri && d <= ro*ro {
				g.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
}

// drawStroke inks every pixel within half of the segment (x1,y1)-(x2,y2).
func drawStroke(g *image.Gray, x1, y1, x2, y2 int, half float64) {
	b := g.Bounds()
	dx, dy := float64(x2-x1), float64(y2-y1)
	l := dx*dx + dy*dy
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := 0.0
			if l != 0 {
				t = (float64(x-x1)*dx + float64(y-y1)*dy) / l
			}
			t = math.Max(0, math.Min(1, t))
			qx, qy := float64(x1)+t*dx, float64(y1)+t*dy
			if math.Hypot(float64(x)-qx, float64(y)-qy) <= half {
				g.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
}

// fillRect inks the inclusive rectangle (x1,y1)-(x2,y2).
func fillRect(g *image.Gray, x1, y1, x2, y2 int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			g.SetGray(x, y, color.Gray{Y: 0})
		}
	}
}

func ringCell() *image.Gray {
	g := blankCell(100, 100)
	drawRing(g, 50, 50, 30, 22)
	return g
}

func discCell() *image.Gray {
	g := blankCell(100, 100)
	drawRing(g, 50, 50, 25, 0)
	return g
}

func crossCell() *image.Gray {
	g := blankCell(100, 100)
	drawStroke(g, 20, 20, 79, 79, 4)
	drawStroke(g, 79, 20, 20, 79, 4)
	return g
}

func dotCell() *image.Gray {
	g := blankCell(100, 100)
	fillRect(g, 49, 49, 51, 51)
	return g
}

func barCell() *image.Gray {
	g := blankCell(100, 100)
	fillRect(g, 20, 44, 79, 55)
	return g
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name     string
		cell     *image.Gray
		symbol   game.Symbol
		detector string
	}{
		{"ring", ringCell(), game.O, DetectorRing},
		{"filled disc", discCell(), game.O, DetectorRing},
		{"cross", crossCell(), game.X, DetectorOrientation},
		{"small dot", dotCell(), game.Empty, DetectorBlank},
		{"blank", blankCell(100, 100), game.Empty, DetectorBlank},
		// Ink that no detector recognises is reported as O, never X.
		{"unrecognised bar", barCell(), game.O, DetectorFallback},
	}

	c := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := c.Explain(tt.cell)
			assert.Equal(t, tt.symbol, r.Symbol)
			assert.Equal(t, tt.detector, r.Detector)
			assert.Equal(t, tt.symbol, c.Classify(tt.cell))
		})
	}
}

func TestExplainReportsInnerRegion(t *testing.T) {
	r := Default().Explain(ringCell())
	assert.Equal(t, 80, r.Width)
	assert.Equal(t, 80, r.Height)
	assert.InDelta(t, 0.20, r.WhiteRatio, 0.02)
}

func TestClassifyZeroSizeCell(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 0, 0))
	r := Default().Explain(g)
	assert.Equal(t, game.Empty, r.Symbol)
	assert.Equal(t, DetectorBlank, r.Detector)
}

func TestClassifyEmptyWhiteRatioOverride(t *testing.T) {
	c := New(Thresholds{EmptyWhiteRatio: 0.5})
	assert.Equal(t, game.Empty, c.Classify(ringCell()))
	assert.Equal(t, 0.5, c.Thresholds().EmptyWhiteRatio)
	assert.Equal(t, DefaultThresholds().Circularity, c.Thresholds().Circularity)
}

func TestNewExactKeepsZeroThreshold(t *testing.T) {
	th := DefaultThresholds()
	th.EmptyWhiteRatio = 0

	// New treats the zero as unset; NewExact disables the empty check, so a
	// blank cell runs the cascade and lands on the fallback.
	assert.Equal(t, DetectorBlank, New(th).Explain(blankCell(100, 100)).Detector)

	c := NewExact(th)
	assert.Zero(t, c.Thresholds().EmptyWhiteRatio)
	res := c.Explain(blankCell(100, 100))
	assert.Equal(t, DetectorFallback, res.Detector)
	assert.Equal(t, game.O, res.Symbol)
}

func TestClassifySubImage(t *testing.T) {
	board := blankCell(300, 100)
	drawRing(board, 150, 50, 30, 22)
	cell := board.SubImage(image.Rect(100, 0, 200, 100)).(*image.Gray)
	assert.Equal(t, game.O, Default().Classify(cell))
}

func TestCustomStrategies(t *testing.T) {
	t.Run("crossing only", func(t *testing.T) {
		c := New(Thresholds{}, CrossingStrategy())
		r := c.Explain(crossCell())
		assert.Equal(t, game.X, r.Symbol)
		assert.Equal(t, DetectorCrossing, r.Detector)

		r = c.Explain(ringCell())
		assert.Equal(t, DetectorFallback, r.Detector)
	})

	t.Run("custom rule", func(t *testing.T) {
		always := Strategy{
			Name:   "always-x",
			Symbol: game.X,
			Match:  func(Region, Thresholds) bool { return true },
		}
		c := New(Thresholds{}, always)
		r := c.Explain(ringCell())
		assert.Equal(t, game.X, r.Symbol)
		assert.Equal(t, "always-x", r.Detector)

		// Blank cells never reach the strategies.
		assert.Equal(t, game.Empty, c.Classify(blankCell(50, 50)))
	})
}

func TestDetectors(t *testing.T) {
	th := DefaultThresholds()

	ring := Prepare(ringCell())
	assert.True(t, LooksLikeRing(ring.Mask, th))
	assert.False(t, LooksLikeCross(ring.Blur, th))
	assert.False(t, LooksLikeCrossingLines(ring.Blur))

	cross := Prepare(crossCell())
	assert.False(t, LooksLikeRing(cross.Mask, th))
	assert.True(t, LooksLikeCross(cross.Blur, th))
	assert.True(t, LooksLikeCrossingLines(cross.Blur))

	bar := Prepare(barCell())
	assert.False(t, LooksLikeRing(bar.Mask, th))
	assert.False(t, LooksLikeCross(bar.Blur, th))
}

func TestMeasureOrientationSingleDiagonal(t *testing.T) {
	g := blankCell(100, 100)
	drawStroke(g, 20, 20, 79, 79, 4)
	r := Prepare(g)

	e := MeasureOrientation(r.Blur)
	assert.Greater(t, e.Pixels, 50)
	assert.Greater(t, e.S135(), 0.8)
	assert.Less(t, e.S45(), DefaultThresholds().BothDiagMinShare)
	assert.False(t, e.IsCross(DefaultThresholds()))
	assert.False(t, LooksLikeCrossingLines(r.Blur))
}

func TestOrientationIsCross(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name string
		e    OrientationEnergy
		want bool
	}{
		{"balanced diagonals", OrientationEnergy{Shares: [4]float64{0.05, 0.45, 0.05, 0.45}, Pixels: 500}, true},
		{"too few pixels", OrientationEnergy{Shares: [4]float64{0.05, 0.45, 0.05, 0.45}, Pixels: 49}, false},
		{"weak diagonals", OrientationEnergy{Shares: [4]float64{0.25, 0.27, 0.2, 0.27}, Pixels: 500}, false},
		{"one diagonal", OrientationEnergy{Shares: [4]float64{0.1, 0.75, 0.05, 0.1}, Pixels: 500}, false},
		{"strong axis", OrientationEnergy{Shares: [4]float64{0.3, 0.35, 0.0, 0.35}, Pixels: 500}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.e.IsCross(th))
		})
	}
}

func TestInBin(t *testing.T) {
	tests := []struct {
		a, centre float64
		want      bool
	}{
		{0, 0, true},
		{22.4, 0, true},
		{22.5, 0, false},
		{157.5, 0, true},
		{179.9, 0, true},
		{157.4, 0, false},
		{45, 45, true},
		{22.5, 45, true},
		{67.5, 45, false},
		{135, 135, true},
		{112.5, 135, true},
		{157.5, 135, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inBin(tt.a, tt.centre), "inBin(%v, %v)", tt.a, tt.centre)
	}
}

func TestPercentile(t *testing.T) {
	vals := []float64{5, 1, 4, 2, 3}
	assert.InDelta(t, 4.0, percentile(vals, 75), 1e-9)
	assert.InDelta(t, 3.0, percentile(vals, 50), 1e-9)
	assert.InDelta(t, 1.0, percentile(vals, 0), 1e-9)
	assert.InDelta(t, 5.0, percentile(vals, 100), 1e-9)
	assert.InDelta(t, 1.75, percentile([]float64{1, 2}, 75), 1e-9)
	// Input order is preserved.
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, vals)
}

func TestFindCrossingEmpty(t *testing.T) {
	c := FindCrossing(image.NewGray(image.Rect(0, 0, 0, 0)))
	assert.False(t, c.IsCross())
	assert.Empty(t, c.Segments)

	c = FindCrossing(blankCell(40, 40))
	assert.False(t, c.IsCross())
}

func TestPrepare(t *testing.T) {
	r := Prepare(blankCell(50, 40))
	require.NotNil(t, r.Blur)
	assert.Equal(t, image.Rect(0, 0, 42, 32), r.Blur.Bounds())
	assert.Equal(t, 0.0, r.WhiteRatio)
	assert.False(t, r.Empty())
}
