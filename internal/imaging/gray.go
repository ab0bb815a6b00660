package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// ITU-R BT.601 luma weights, the same ones used by the decoders of most
// vision toolkits when collapsing BGR/RGB to a single channel.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// ToGray converts any image to an 8-bit intensity buffer whose bounds start
// at the origin.
//
// Uses bild's weighted grayscale conversion (rounded to nearest) with
// BT.601 weights: Y = 0.299*R + 0.587*G + 0.114*B.
//
// Alpha is discarded: the stored colour of every pixel is used as if it were
// opaque, so a transparent white background reads as white, not black.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	if b.Empty() {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	if g, ok := img.(*image.Gray); ok {
		return Normalize(g)
	}
	return FromRGBA(effect.GrayscaleWithWeights(Opaque(img), lumaR, lumaG, lumaB))
}

// Opaque returns a straight-alpha copy of img with every alpha byte set to
// 255. bild works on premultiplied RGBA, where a transparent pixel would
// otherwise collapse to black.
func Opaque(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// FromRGBA copies the red channel of an RGBA buffer into an origin-based gray
// buffer. bild operations return RGBA even for gray input, with the three
// color channels equal.
func FromRGBA(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcRow := src.Pix[y*src.Stride:]
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			dstRow[x] = srcRow[x*4]
		}
	}
	return dst
}

// Normalize returns g unchanged if it is already origin-based and tightly
// packed, otherwise a compact copy of it whose bounds start at (0,0).
//
// Cell regions are sub-image views that share the parent's Pix slice; the
// per-pixel algorithms in this module index Pix directly and expect
// Stride == width and Min == (0,0).
func Normalize(g *image.Gray) *image.Gray {
	b := g.Bounds()
	if b.Min == (image.Point{}) && g.Stride == b.Dx() {
		return g
	}
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		off := g.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*w:(y+1)*w], g.Pix[off:off+w])
	}
	return dst
}

// CountNonZero returns the number of pixels with a non-zero intensity.
func CountNonZero(g *image.Gray) int {
	b := g.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := g.PixOffset(b.Min.X, y)
		for _, v := range g.Pix[off : off+b.Dx()] {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
