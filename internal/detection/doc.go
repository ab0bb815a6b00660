// Package detection implements the shape primitives used by the cell
// classifier: binary morphology, contour tracing with a two-level
// outer/hole hierarchy, and the probabilistic Hough line transform.
//
// All functions take binary masks (*image.Gray, nonzero = foreground) and
// return freshly allocated results. Coordinates are relative to the mask's
// top-left pixel, so sub-image views can be passed directly.
package detection
