package detection

import (
	"image"

	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/tictactoe-vision/internal/imaging"
)

// Erode shrinks the foreground of a mask: each pixel takes the minimum of
// its (2*radius+1) square neighbourhood. Pixels beyond the edge replicate
// the edge, so the border neither adds nor removes foreground.
func Erode(mask *image.Gray, radius int) *image.Gray {
	if radius <= 0 || mask.Bounds().Empty() {
		return imaging.Normalize(mask)
	}
	return imaging.FromRGBA(effect.Erode(imaging.Normalize(mask), float64(radius)))
}

// Dilate grows the foreground of a mask: each pixel takes the maximum of
// its (2*radius+1) square neighbourhood.
func Dilate(mask *image.Gray, radius int) *image.Gray {
	if radius <= 0 || mask.Bounds().Empty() {
		return imaging.Normalize(mask)
	}
	return imaging.FromRGBA(effect.Dilate(imaging.Normalize(mask), float64(radius)))
}

// Open performs a morphological opening (erosion then dilation) with a
// square structuring element of side 2*radius+1. Specks and bridges thinner
// than the element are removed; larger shapes keep their outline.
func Open(mask *image.Gray, radius int) *image.Gray {
	return Dilate(Erode(mask, radius), radius)
}
