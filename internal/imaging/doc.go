// Package imaging provides the image loading and pixel-level operations the
// board reader is built on.
//
// Images are decoded with EXIF auto-orientation and cached by path together
// with their grayscale buffers. Grayscale conversion uses BT.601 weights;
// blur, thresholding and edge detection operate on *image.Gray and accept
// sub-images, so board cells never need to be copied.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Board Geometry
//
// A board image is split into a 3x3 grid of (Dy/3) x (Dx/3) cells; rows and
// columns left over at the bottom and right belong to no cell. Before
// classification each cell loses a margin of 10% of its shorter side so that
// grid lines drawn on the cell borders are ignored.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Buffers returned by the
// cache are shared and must be treated as read-only; every other function
// allocates its output.
//
// # Error Handling
//
// Load and decode failures are reported as *ImageLoadError, which wraps the
// underlying cause. Other functions return errors for invalid inputs such as
// regions outside the image or cells outside the 3x3 board.
package imaging
