package detection

import (
	"image"
	"math"

	"github.com/ironsheep/tictactoe-vision/internal/imaging"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// Both corners are inclusive: a single pixel at (3,4) has
// X1 = X2 = 3 and Y1 = Y2 = 4.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Width is the number of pixel columns covered (X2 - X1 + 1).
func (b Bounds) Width() int { return b.X2 - b.X1 + 1 }

// Height is the number of pixel rows covered (Y2 - Y1 + 1).
func (b Bounds) Height() int { return b.Y2 - b.Y1 + 1 }

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Contour is a closed border traced through the centres of foreground
// pixels.
//
// Contours form a two-level hierarchy: every connected foreground component
// contributes one outer border, and every hole inside that component one
// hole border whose Parent is the component's outer border. A component
// sitting inside another component's hole is again top level.
type Contour struct {
	// Points lists the border pixels in tracing order. The polygon is
	// implicitly closed.
	Points []Point

	// Hole is true for the border of a background hole.
	Hole bool

	// Parent is the index of the enclosing outer border for holes, -1 otherwise.
	Parent int

	// FirstChild is the index of the first hole of an outer border, -1 when
	// the component has no holes (and always for holes).
	FirstChild int
}

// HasHole reports whether the contour is an outer border enclosing at least
// one hole.
func (c Contour) HasHole() bool {
	return c.FirstChild != -1
}

// Area returns the polygon area enclosed by the contour (shoelace formula).
// Single-pixel and straight-line contours have zero area.
func (c Contour) Area() float64 {
	n := len(c.Points)
	if n < 3 {
		return 0
	}
	var sum int
	for i := 0; i < n; i++ {
		p, q := c.Points[i], c.Points[(i+1)%n]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(sum)) / 2
}

// Perimeter returns the length of the closed polygon through the contour
// points.
func (c Contour) Perimeter() float64 {
	n := len(c.Points)
	if n < 2 {
		return 0
	}
	var length float64
	for i := 0; i < n; i++ {
		p, q := c.Points[i], c.Points[(i+1)%n]
		length += math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
	}
	return length
}

// BoundingBox returns the inclusive bounds of the contour points.
func (c Contour) BoundingBox() Bounds {
	if len(c.Points) == 0 {
		return Bounds{}
	}
	b := Bounds{X1: c.Points[0].X, Y1: c.Points[0].Y, X2: c.Points[0].X, Y2: c.Points[0].Y}
	for _, p := range c.Points[1:] {
		b.X1 = min(b.X1, p.X)
		b.Y1 = min(b.Y1, p.Y)
		b.X2 = max(b.X2, p.X)
		b.Y2 = max(b.Y2, p.Y)
	}
	return b
}

// Circularity returns 4πA/P², 1.0 for a perfect disc. Contours with zero
// perimeter report 0.
func (c Contour) Circularity() float64 {
	p := c.Perimeter()
	if p == 0 {
		return 0
	}
	return 4 * math.Pi * c.Area() / (p * p)
}

// Neighbour offsets in counterclockwise order on screen (y grows downward):
// E, NE, N, NW, W, SW, S, SE.
var neighbours = [8]Point{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

const (
	dirE = 0
	dirW = 4
)

// FindContours traces the outer and hole borders of a binary mask. Any
// non-zero pixel is foreground.
//
// Foreground is 8-connected and background 4-connected. Pixels outside the
// mask count as background, so a component touching the mask edge has no
// hole along that edge.
//
// # Algorithm
//
//  1. Label foreground components with an iterative flood fill.
//  2. Label background regions; a region that does not reach the mask edge is
//     a hole of the component owning the pixel to the left of its first
//     raster pixel.
//  3. Follow each border (Suzuki-Abe): from the start pixel search clockwise
//     for the first foreground neighbour, then repeatedly search
//     counterclockwise from the previous pixel until the walk returns to the
//     start with the same successor.
//
// Components are reported in raster order of their first pixel, each outer
// border directly followed by its holes.
func FindContours(mask *image.Gray) []Contour {
	mask = imaging.Normalize(mask)
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	fg := func(x, y int) bool {
		return x >= 0 && x < w && y >= 0 && y < h && mask.Pix[y*w+x] != 0
	}

	// Foreground components
	labels := make([]int, w*h)
	var starts []Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if fg(x, y) && labels[y*w+x] == 0 {
				starts = append(starts, Point{X: x, Y: y})
				floodFill(labels, len(starts), x, y, w, h, fg, true)
			}
		}
	}
	if len(starts) == 0 {
		return nil
	}

	// Background regions and holes
	holes := make([][]Point, len(starts))
	bgLabels := make([]int, w*h)
	region := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if fg(x, y) || bgLabels[y*w+x] != 0 {
				continue
			}
			region++
			bg := func(px, py int) bool {
				return px >= 0 && px < w && py >= 0 && py < h && !fg(px, py)
			}
			if touchesEdge := floodFill(bgLabels, region, x, y, w, h, bg, false); touchesEdge {
				continue
			}
			owner := labels[y*w+x-1] - 1
			holes[owner] = append(holes[owner], Point{X: x - 1, Y: y})
		}
	}

	contours := make([]Contour, 0, len(starts))
	for i, s := range starts {
		outer := len(contours)
		contours = append(contours, Contour{
			Points:     traceBorder(s, dirW, fg),
			Parent:     -1,
			FirstChild: -1,
		})
		if len(holes[i]) > 0 {
			contours[outer].FirstChild = outer + 1
		}
		for _, hs := range holes[i] {
			contours = append(contours, Contour{
				Points:     traceBorder(hs, dirE, fg),
				Hole:       true,
				Parent:     outer,
				FirstChild: -1,
			})
		}
	}
	return contours
}

// floodFill labels the region containing (startX, startY) for which inside
// returns true, using an explicit stack. eight selects 8-connectivity,
// otherwise 4-connectivity is used. Reports whether the region reaches the
// mask edge.
func floodFill(labels []int, label, startX, startY, width, height int, inside func(x, y int) bool, eight bool) bool {
	stack := []Point{{X: startX, Y: startY}}
	labels[startY*width+startX] = label
	touchesEdge := false

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X == 0 || p.Y == 0 || p.X == width-1 || p.Y == height-1 {
			touchesEdge = true
		}

		for d, n := range neighbours {
			if !eight && d%2 == 1 {
				continue
			}
			nx, ny := p.X+n.X, p.Y+n.Y
			if !inside(nx, ny) || labels[ny*width+nx] != 0 {
				continue
			}
			labels[ny*width+nx] = label
			stack = append(stack, Point{X: nx, Y: ny})
		}
	}
	return touchesEdge
}

// traceBorder follows the border that starts at foreground pixel start,
// entered from the background neighbour in direction from.
func traceBorder(start Point, from int, fg func(x, y int) bool) []Point {
	step := func(p Point, d int) Point {
		return Point{X: p.X + neighbours[d].X, Y: p.Y + neighbours[d].Y}
	}

	// Clockwise search for the first foreground neighbour.
	first := -1
	for i := 0; i < 8; i++ {
		d := (from - i + 8) % 8
		if q := step(start, d); fg(q.X, q.Y) {
			first = d
			break
		}
	}
	if first == -1 {
		return []Point{start}
	}

	p1 := step(start, first)
	points := []Point{start}
	prev, cur := p1, start
	for {
		back := direction(cur, prev)
		var next Point
		for i := 1; i <= 8; i++ {
			d := (back + i) % 8
			if q := step(cur, d); fg(q.X, q.Y) {
				next = q
				break
			}
		}
		if next == start && cur == p1 {
			break
		}
		// The start pixel is recorded again when a thin branch passes
		// through it before the border closes.
		prev, cur = cur, next
		points = append(points, cur)
	}
	return points
}

// direction returns the neighbour index d such that from + neighbours[d] == to.
func direction(from, to Point) int {
	dx, dy := to.X-from.X, to.Y-from.Y
	for d, n := range neighbours {
		if n.X == dx && n.Y == dy {
			return d
		}
	}
	return 0
}
