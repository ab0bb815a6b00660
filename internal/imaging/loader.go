package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageLoadError reports that a board image could not be opened or decoded.
//
// It is the only error the board pipeline surfaces to its callers. Use
// errors.As to detect it; Unwrap exposes the underlying I/O or decode error.
type ImageLoadError struct {
	// Path is the path that was passed to the loader.
	Path string

	// Err is the underlying open or decode failure.
	Err error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("failed to load image %q: %v", e.Path, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path, along
// with the grayscale buffer derived from each one. Once an image is loaded,
// subsequent Load() or LoadGray() calls for the same path return the cached
// copy without disk I/O.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// For long-running processes handling many images, consider periodic cleanup to
// prevent unbounded memory growth.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	gray, err := cache.LoadGray("/path/to/board.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cells := imaging.SplitCells(gray)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
	grays  map[string]*image.Gray
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
		grays:  make(map[string]*image.Gray),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Decoding goes through disintegration/imaging with EXIF auto-orientation
// enabled, so phone photographs of a board come out upright. Supported
// formats are PNG, JPEG, GIF, BMP and TIFF.
//
// # Errors
//
// Any open or decode failure is returned as *ImageLoadError.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &ImageLoadError{Path: path, Err: err}
	}
	if b := img.Bounds(); b.Dx() < 1 || b.Dy() < 1 {
		return nil, &ImageLoadError{Path: path, Err: fmt.Errorf("image has no pixels (%dx%d)", b.Dx(), b.Dy())}
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// LoadGray returns the grayscale intensity buffer for the image at path.
//
// The conversion uses ITU-R BT.601 luminance weights (see ToGray). The
// returned buffer is shared by every caller and must be treated as read-only.
func (c *ImageCache) LoadGray(path string) (*image.Gray, error) {
	c.mu.RLock()
	if g, ok := c.grays[path]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	g := ToGray(img)

	c.mu.Lock()
	c.grays[path] = g
	c.mu.Unlock()

	return g, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.grays = make(map[string]*image.Gray)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	delete(c.grays, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded board image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "png", "jpeg", "gif", or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// CellWidth is the width of one board cell (Width / 3, truncated).
	CellWidth int `json:"cell_width"`

	// CellHeight is the height of one board cell (Height / 3, truncated).
	CellHeight int `json:"cell_height"`

	// DroppedColumns is the number of pixel columns at the right edge that
	// belong to no cell.
	DroppedColumns int `json:"dropped_columns"`

	// DroppedRows is the number of pixel rows at the bottom edge that belong
	// to no cell.
	DroppedRows int `json:"dropped_rows"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and reports its dimensions together with the
// 3x3 cell geometry the classifier will use.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	w, h := bounds.Dx(), bounds.Dy()
	return &ImageInfo{
		Width:          w,
		Height:         h,
		Format:         format,
		CellWidth:      w / 3,
		CellHeight:     h / 3,
		DroppedColumns: w - 3*(w/3),
		DroppedRows:    h - 3*(h/3),
		FileSizeBytes:  stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
