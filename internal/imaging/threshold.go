package imaging

import (
	"image"
)

// OtsuThreshold computes the optimal global threshold of a grayscale buffer
// using Otsu's method (maximum between-class variance).
//
// Returns the threshold t such that pixels <= t form one class and pixels > t
// the other. A buffer with a single intensity level has no separating
// threshold; 0 is returned in that case, which leaves uniform bright cells
// entirely "off" after inverted binarization.
func OtsuThreshold(g *image.Gray) uint8 {
	var hist [256]int
	total := 0

	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := g.PixOffset(b.Min.X, y)
		for _, v := range g.Pix[off : off+b.Dx()] {
			hist[v]++
			total++
		}
	}
	if total == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < 256; i++ {
		sum += float64(i) * float64(hist[i])
	}

	var sumB float64
	var wB, wF int
	var maxVar float64
	threshold := uint8(0)

	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF = total - wB
		if wF == 0 {
			break
		}

		sumB += float64(t) * float64(hist[t])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)

		// Between-class variance
		variance := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if variance > maxVar {
			maxVar = variance
			threshold = uint8(t)
		}
	}

	return threshold
}

// BinarizeInv produces a mask in which pixels <= t are 255 ("on") and all
// others 0. With a dark-ink-on-light-paper board this makes the ink the
// foreground.
func BinarizeInv(g *image.Gray, t uint8) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		off := g.PixOffset(b.Min.X, b.Min.Y+y)
		row := g.Pix[off : off+w]
		out := dst.Pix[y*dst.Stride:]
		for x, v := range row {
			if v <= t {
				out[x] = 255
			}
		}
	}
	return dst
}

// OtsuBinarizeInv applies Otsu's threshold with inverted polarity and returns
// the resulting mask together with the fraction of "on" pixels.
//
// An empty buffer yields an empty mask and a ratio of 0.
func OtsuBinarizeInv(g *image.Gray) (*image.Gray, float64) {
	b := g.Bounds()
	if b.Empty() {
		return image.NewGray(image.Rect(0, 0, 0, 0)), 0
	}
	mask := BinarizeInv(g, OtsuThreshold(g))
	return mask, float64(CountNonZero(mask)) / float64(b.Dx()*b.Dy())
}
