package detection

import (
	"image"
	"math"

	"github.com/ironsheep/tictactoe-vision/internal/imaging"
)

// Segment is a detected line segment with integer end points.
type Segment struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// AngleDegrees returns the undirected angle of the segment in [0, 180),
// measured from the positive x axis with y pointing down.
func (s Segment) AngleDegrees() float64 {
	deg := math.Atan2(float64(s.Y2-s.Y1), float64(s.X2-s.X1)) * 180 / math.Pi
	return math.Mod(deg+180, 180)
}

// Length returns the euclidean distance between the end points.
func (s Segment) Length() float64 {
	return math.Hypot(float64(s.X2-s.X1), float64(s.Y2-s.Y1))
}

// DistanceTo returns the perpendicular distance from (x, y) to the infinite
// line through the segment. A degenerate segment yields a very large value
// unless the point lies on the line equation's zero set.
func (s Segment) DistanceTo(x, y float64) float64 {
	a := float64(s.Y2 - s.Y1)
	b := -float64(s.X2 - s.X1)
	c := float64((s.X2-s.X1)*s.Y1 - (s.Y2-s.Y1)*s.X1)
	return math.Abs(a*x+b*y+c) / (math.Sqrt(a*a+b*b) + 1e-6)
}

// HoughParams configures HoughLinesP.
type HoughParams struct {
	// Rho is the distance resolution of the accumulator in pixels.
	Rho float64

	// Theta is the angle resolution of the accumulator in radians.
	Theta float64

	// Threshold is the minimum number of accumulator votes for a line.
	Threshold int

	// MinLineLength rejects segments whose horizontal and vertical extents
	// are both shorter than this.
	MinLineLength int

	// MaxLineGap is the largest run of missing pixels bridged along a line.
	MaxLineGap int
}

// Fixed-point fraction bits used while walking along a candidate line.
const houghShift = 16

// HoughLinesP finds line segments in a binary edge map with the progressive
// probabilistic Hough transform. Any non-zero pixel is an edge point.
//
// # Algorithm
//
//  1. Collect every edge point.
//  2. Pick a remaining point at random (deterministic seed), vote for all
//     (rho, theta) lines through it, and skip it when no line has reached
//     the threshold.
//  3. Otherwise walk from the point in both directions along the strongest
//     line, bridging gaps of up to MaxLineGap pixels, to find the segment end
//     points.
//  4. Remove the walked points from the edge set; if the segment is long
//     enough also withdraw their votes and report it.
//
// The random sequence is fixed, so the same edge map always yields the same
// segments in the same order.
func HoughLinesP(edges *image.Gray, p HoughParams) []Segment {
	edges = imaging.Normalize(edges)
	b := edges.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 || p.Rho <= 0 || p.Theta <= 0 {
		return nil
	}

	irho := 1 / p.Rho
	numangle := int(math.Floor(math.Pi/p.Theta)) + 1
	if numangle > 1 && math.Abs(math.Pi-float64(numangle-1)*p.Theta) < p.Theta/2 {
		numangle--
	}
	numrho := int(math.RoundToEven(float64((width+height)*2+1) / p.Rho))
	rhoOffset := (numrho - 1) / 2

	trig := make([]float32, numangle*2)
	for n := 0; n < numangle; n++ {
		trig[n*2] = float32(math.Cos(float64(n)*p.Theta) * irho)
		trig[n*2+1] = float32(math.Sin(float64(n)*p.Theta) * irho)
	}
	rhoIndex := func(n, x, y int) int {
		r := float32(x)*trig[n*2] + float32(y)*trig[n*2+1]
		return int(math.RoundToEven(float64(r))) + rhoOffset
	}

	accum := make([]int, numangle*numrho)
	mask := make([]bool, width*height)
	var points []Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges.Pix[y*width+x] != 0 {
				mask[y*width+x] = true
				points = append(points, Point{X: x, Y: y})
			}
		}
	}

	rng := newMWC()
	var segments []Segment

	for count := len(points); count > 0; count-- {
		idx := rng.intn(count)
		pt := points[idx]
		points[idx] = points[count-1]

		if !mask[pt.Y*width+pt.X] {
			continue
		}

		maxVal, maxN := p.Threshold-1, 0
		for n := 0; n < numangle; n++ {
			i := n*numrho + rhoIndex(n, pt.X, pt.Y)
			accum[i]++
			if accum[i] > maxVal {
				maxVal, maxN = accum[i], n
			}
		}
		if maxVal < p.Threshold {
			continue
		}

		// Direction of the strongest line through pt.
		a := -trig[maxN*2+1]
		bb := trig[maxN*2]
		x0, y0 := pt.X, pt.Y
		var dx0, dy0 int
		xflag := abs32(a) > abs32(bb)
		if xflag {
			dx0 = 1
			if a <= 0 {
				dx0 = -1
			}
			dy0 = int(math.RoundToEven(float64(bb * float32(1<<houghShift) / abs32(a))))
			y0 = (y0 << houghShift) + (1 << (houghShift - 1))
		} else {
			dy0 = 1
			if bb <= 0 {
				dy0 = -1
			}
			dx0 = int(math.RoundToEven(float64(a * float32(1<<houghShift) / abs32(bb))))
			x0 = (x0 << houghShift) + (1 << (houghShift - 1))
		}
		pixel := func(x, y int) (int, int) {
			if xflag {
				return x, y >> houghShift
			}
			return x >> houghShift, y
		}

		var ends [2]Point
		for k := 0; k < 2; k++ {
			gap := 0
			dx, dy := dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			for x, y := x0, y0; ; x, y = x+dx, y+dy {
				px, py := pixel(x, y)
				if px < 0 || px >= width || py < 0 || py >= height {
					break
				}
				if mask[py*width+px] {
					gap = 0
					ends[k] = Point{X: px, Y: py}
				} else if gap++; gap > p.MaxLineGap {
					break
				}
			}
		}

		good := absInt(ends[1].X-ends[0].X) >= p.MinLineLength ||
			absInt(ends[1].Y-ends[0].Y) >= p.MinLineLength

		for k := 0; k < 2; k++ {
			dx, dy := dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			for x, y := x0, y0; ; x, y = x+dx, y+dy {
				px, py := pixel(x, y)
				if mask[py*width+px] {
					if good {
						for n := 0; n < numangle; n++ {
							accum[n*numrho+rhoIndex(n, px, py)]--
						}
					}
					mask[py*width+px] = false
				}
				if px == ends[k].X && py == ends[k].Y {
					break
				}
			}
		}

		if good {
			segments = append(segments, Segment{
				X1: ends[0].X, Y1: ends[0].Y,
				X2: ends[1].X, Y2: ends[1].Y,
			})
		}
	}

	return segments
}

// mwc is a 64-bit multiply-with-carry generator. The state and multiplier
// match the generator most vision toolkits seed their probabilistic Hough
// transform with, which keeps segment selection reproducible.
type mwc struct {
	state uint64
}

func newMWC() *mwc {
	return &mwc{state: math.MaxUint64}
}

func (r *mwc) next() uint32 {
	r.state = uint64(uint32(r.state))*4164903690 + r.state>>32
	return uint32(r.state)
}

// intn returns a value in [0, n).
func (r *mwc) intn(n int) int {
	if n <= 1 {
		return 0
	}
	return int(r.next() % uint32(n))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
