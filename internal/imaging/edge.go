package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"
)

// Border selects how Sobel reads pixels outside the buffer.
type Border int

const (
	// BorderReflect101 mirrors around the edge pixel without repeating it
	// (gfedcb|abcdefgh|gfedcba).
	BorderReflect101 Border = iota

	// BorderReplicate repeats the edge pixel (aaaaaa|abcdefgh|hhhhhhh).
	BorderReplicate
)

// Default Canny thresholds used by the crossing detector and the edge tool.
const (
	DefaultCannyLow  = 50
	DefaultCannyHigh = 150
)

// tan(22.5°), the sector boundary for non-maximum suppression.
const tan22 = 0.4142135623730950488016887242097

// EdgeDetectResult contains an edge-detected image encoded as base64 PNG.
//
// The result is a grayscale image where white pixels (255) represent detected
// edges and black pixels (0) represent non-edges.
type EdgeDetectResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// EdgePixels is the number of pixels marked as edges.
	EdgePixels int `json:"edge_pixels"`

	// ImageBase64 is the edge image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png" for edge detection results.
	MimeType string `json:"mime_type"`
}

// EdgeDetect runs the same edge pipeline the crossing detector uses
// (grayscale, 5x5 Gaussian blur, Canny with L2 gradient) and returns the
// edge map as a PNG.
//
// Zero thresholds fall back to DefaultCannyLow and DefaultCannyHigh.
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh int) (*EdgeDetectResult, error) {
	if thresholdLow <= 0 {
		thresholdLow = DefaultCannyLow
	}
	if thresholdHigh <= 0 {
		thresholdHigh = DefaultCannyHigh
	}
	if thresholdLow > thresholdHigh {
		return nil, fmt.Errorf("threshold_low (%d) must not exceed threshold_high (%d)", thresholdLow, thresholdHigh)
	}

	edges := Canny(GaussianBlur(ToGray(img), 5), float64(thresholdLow), float64(thresholdHigh))

	var buf bytes.Buffer
	if err := png.Encode(&buf, edges); err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	b := edges.Bounds()
	return &EdgeDetectResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		EdgePixels:  CountNonZero(edges),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Sobel computes the 3x3 Sobel derivatives of g.
//
// Both results are row-major with len == width*height:
//
//	gx = [-1 0 1; -2 0 2; -1 0 1]
//	gy = [-1 -2 -1; 0 0 0; 1 2 1]
func Sobel(g *image.Gray, border Border) (gx, gy []float64) {
	g = Normalize(g)
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	gx = make([]float64, w*h)
	gy = make([]float64, w*h)
	if w == 0 || h == 0 {
		return gx, gy
	}

	at := func(x, y int) float64 {
		return float64(g.Pix[borderIndex(y, h, border)*w+borderIndex(x, w, border)])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tl, tc, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
			ml, mr := at(x-1, y), at(x+1, y)
			bl, bc, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)

			gx[y*w+x] = (tr + 2*mr + br) - (tl + 2*ml + bl)
			gy[y*w+x] = (bl + 2*bc + br) - (tl + 2*tc + tr)
		}
	}
	return gx, gy
}

func borderIndex(i, n int, border Border) int {
	if i >= 0 && i < n {
		return i
	}
	if border == BorderReplicate || n == 1 {
		return clamp(i, 0, n-1)
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

// Canny detects edges in g with hysteresis thresholds low and high on the
// L2 gradient magnitude.
//
// # Algorithm
//
//  1. Gradients: 3x3 Sobel with replicated borders,
//     magnitude = sqrt(gx² + gy²).
//
//  2. Non-maximum suppression in four sectors split at 22.5° and 67.5°.
//     Along the horizontal and vertical sectors a pixel must be strictly
//     greater than its predecessor and not less than its successor; along the
//     diagonals it must be strictly greater than both. Magnitude outside the
//     image counts as 0.
//
//  3. Hysteresis: survivors above high are edges; survivors above low become
//     edges when 8-connected to an edge.
//
// The result is an origin-based mask with edges at 255.
func Canny(g *image.Gray, low, high float64) *image.Gray {
	g = Normalize(g)
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}
	if low > high {
		low, high = high, low
	}

	gx, gy := Sobel(g, BorderReplicate)
	mag := make([]float64, w*h)
	for i := range mag {
		mag[i] = math.Sqrt(gx[i]*gx[i] + gy[i]*gy[i])
	}
	magAt := func(x, y int) float64 {
		if x < 0 || x >= w || y < 0 || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	const (
		notEdge = iota
		weak
		strong
	)
	state := make([]uint8, w*h)
	var stack []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}

			dx, dy := gx[i], gy[i]
			xs, ys := math.Abs(dx), math.Abs(dy)
			tg22x := xs * tan22
			tg67x := tg22x + 2*xs

			var keep bool
			switch {
			case ys < tg22x:
				keep = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ys > tg67x:
				keep = m > magAt(x, y-1) && m >= magAt(x, y+1)
			default:
				s := 1
				if (dx < 0) != (dy < 0) {
					s = -1
				}
				keep = m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
			}
			if !keep {
				continue
			}

			if m > high {
				state[i] = strong
				stack = append(stack, i)
			} else {
				state[i] = weak
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out.Pix[i] = 255

		x, y := i%w, i/w
		for ny := y - 1; ny <= y+1; ny++ {
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				j := ny*w + nx
				if state[j] == weak {
					state[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}

	return out
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
