package board

import (
	"image"
	"sync"

	"github.com/ironsheep/tictactoe-vision/internal/classify"
	"github.com/ironsheep/tictactoe-vision/internal/game"
	"github.com/ironsheep/tictactoe-vision/internal/imaging"
)

// CellBounds is the pixel rectangle of a cell in image coordinates,
// half-open on the right and bottom.
type CellBounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// CellReading is the classification of one cell.
type CellReading struct {
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Bounds CellBounds `json:"bounds"`
	classify.Result
}

// Reading is the full result of reading a board image.
type Reading struct {
	Board   game.Board        `json:"board"`
	Verdict game.Verdict      `json:"verdict"`
	Cells   [3][3]CellReading `json:"cells"`
}

// Reader classifies board images. It is safe for concurrent use.
type Reader struct {
	cache      *imaging.ImageCache
	classifier *classify.Classifier
}

// NewReader creates a reader. A nil cache gets a private one; a nil
// classifier uses the default thresholds and strategies.
func NewReader(cache *imaging.ImageCache, c *classify.Classifier) *Reader {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	if c == nil {
		c = classify.Default()
	}
	return &Reader{cache: cache, classifier: c}
}

// Classifier returns the classifier used by the reader.
func (r *Reader) Classifier() *classify.Classifier {
	return r.classifier
}

// Read loads the image at path and classifies all nine cells.
//
// Load and decode failures are returned as *imaging.ImageLoadError; no
// partial reading is produced.
func (r *Reader) Read(path string) (*Reading, error) {
	g, err := r.cache.LoadGray(path)
	if err != nil {
		return nil, err
	}
	return r.ReadImage(g), nil
}

// ReadImage classifies the cells of an already decoded image.
//
// Each cell is classified in its own goroutine and writes only its own
// slot; the board is evaluated once all nine are done.
func (r *Reader) ReadImage(img image.Image) *Reading {
	g, ok := img.(*image.Gray)
	if !ok {
		g = imaging.ToGray(img)
	}

	cells := imaging.SplitCells(g)
	reading := &Reading{}

	var wg sync.WaitGroup
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			wg.Add(1)
			go func(row, col int) {
				defer wg.Done()
				reading.Cells[row][col] = r.readCell(cells[row][col], row, col)
			}(row, col)
		}
	}
	wg.Wait()

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			reading.Board[row][col] = reading.Cells[row][col].Symbol
		}
	}
	reading.Verdict = game.Evaluate(reading.Board)
	return reading
}

// ReadCell loads the image at path and classifies a single cell.
func (r *Reader) ReadCell(path string, row, col int) (*CellReading, error) {
	g, err := r.cache.LoadGray(path)
	if err != nil {
		return nil, err
	}
	cell, err := imaging.CellAt(g, row, col)
	if err != nil {
		return nil, err
	}
	cr := r.readCell(cell, row, col)
	return &cr, nil
}

func (r *Reader) readCell(cell *image.Gray, row, col int) CellReading {
	b := cell.Bounds()
	return CellReading{
		Row:    row,
		Col:    col,
		Bounds: CellBounds{X1: b.Min.X, Y1: b.Min.Y, X2: b.Max.X, Y2: b.Max.Y},
		Result: r.classifier.Explain(cell),
	}
}

// CheckState returns the verdict for the board image at path.
func (r *Reader) CheckState(path string) (string, error) {
	reading, err := r.Read(path)
	if err != nil {
		return "", err
	}
	return reading.Verdict.String(), nil
}

// CheckState reads the board image at path with default thresholds and
// returns "X Wins", "O Wins", "Draw" or "Ongoing".
func CheckState(path string) (string, error) {
	return NewReader(nil, nil).CheckState(path)
}
