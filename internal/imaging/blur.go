package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// GaussianSigma returns the standard deviation implied by a kernel size when
// no explicit sigma is given: 0.3*((ksize-1)*0.5 - 1) + 0.8.
//
// For the 5x5 kernel used by the classifier this is 1.1.
func GaussianSigma(ksize int) float64 {
	return 0.3*(float64(ksize-1)*0.5-1) + 0.8
}

// binomialKernels are the fixed smoothing tables used for small kernels
// when sigma is derived from the size. Sampling exp() at sigma 1.1 gives a
// flatter 5-tap kernel than this table.
var binomialKernels = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// smoothingKernel returns the 1-D kernel GaussianBlur uses for ksize.
func smoothingKernel(ksize int) *convolution.Kernel {
	if tab, ok := binomialKernels[ksize]; ok {
		k := convolution.NewKernel(ksize, 1)
		copy(k.Matrix, tab)
		return k
	}
	return gaussianKernel(ksize, GaussianSigma(ksize))
}

// gaussianKernel builds a normalized 1-D Gaussian kernel of odd length ksize.
func gaussianKernel(ksize int, sigma float64) *convolution.Kernel {
	k := convolution.NewKernel(ksize, 1)
	r := ksize / 2
	var sum float64
	for i := 0; i < ksize; i++ {
		x := float64(i - r)
		k.Matrix[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += k.Matrix[i]
	}
	for i := range k.Matrix {
		k.Matrix[i] /= sum
	}
	return k
}

// padReflect101 returns src surrounded by r pixels mirrored around the edge
// pixel (gfedcb|abcdefgh|gfedcba).
func padReflect101(src *image.Gray, r int) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	pw := w + 2*r
	dst := image.NewGray(image.Rect(0, 0, pw, h+2*r))
	for y := 0; y < h+2*r; y++ {
		sy := borderIndex(y-r, h, BorderReflect101)
		row := src.Pix[sy*src.Stride:]
		for x := 0; x < pw; x++ {
			dst.Pix[y*pw+x] = row[borderIndex(x-r, w, BorderReflect101)]
		}
	}
	return dst
}

// GaussianBlur smooths a grayscale buffer with a ksize x ksize Gaussian
// kernel whose sigma is derived from the kernel size. Sizes up to 7 use the
// binomial table.
//
// The kernel is separable, so the blur runs as two 1-D passes through bild's
// convolution engine (horizontal, then vertical) over a reflect-101 padded
// copy. A bias of 0.5 turns bild's truncating uint8 store into rounding.
//
// The returned buffer is origin-based. Empty input yields an empty buffer.
func GaussianBlur(src *image.Gray, ksize int) *image.Gray {
	b := src.Bounds()
	if b.Empty() {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	if ksize < 3 || ksize%2 == 0 {
		return Normalize(src)
	}

	r := ksize / 2
	padded := padReflect101(Normalize(src), r)
	k := smoothingKernel(ksize)
	opts := &convolution.Options{Bias: 0.5, Wrap: false, KeepAlpha: true}

	horizontal := convolution.Convolve(padded, k, opts)
	vertical := convolution.Convolve(horizontal, k.Transposed(), opts)
	inner := vertical.SubImage(image.Rect(r, r, r+b.Dx(), r+b.Dy())).(*image.RGBA)
	return FromRGBA(inner)
}
