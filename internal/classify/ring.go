package classify

import (
	"image"
	"math"

	"github.com/ironsheep/tictactoe-vision/internal/detection"
)

// LooksLikeRing reports whether an ink mask contains a round, roughly square
// contour: the outline of an O.
//
// The mask is opened with a 3x3 element first so specks and hairline
// bridges do not split or merge contours. Every outer and hole border is
// then considered. A contour qualifies when its area is at least
// MinContourAreaFrac of the mask, its circularity exceeds Circularity, its
// bounding box has |1 - w/h| below Aspect, and it either encloses a hole or
// covers more than FilledAreaFrac of the mask.
func LooksLikeRing(mask *image.Gray, th Thresholds) bool {
	b := mask.Bounds()
	areaImg := float64(b.Dx() * b.Dy())
	if areaImg == 0 {
		return false
	}

	for _, c := range detection.FindContours(detection.Open(mask, 1)) {
		area := c.Area()
		if area < th.MinContourAreaFrac*areaImg {
			continue
		}
		peri := c.Perimeter()
		if peri == 0 {
			continue
		}

		circularity := 4 * math.Pi * area / (peri * peri)
		box := c.BoundingBox()
		aspectErr := math.Abs(1 - float64(box.Width())/(float64(box.Height())+1e-6))

		if circularity > th.Circularity && aspectErr < th.Aspect {
			if c.HasHole() || area > th.FilledAreaFrac*areaImg {
				return true
			}
		}
	}
	return false
}
