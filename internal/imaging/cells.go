package imaging

import (
	"fmt"
	"image"
)

// MarginFrac is the fraction of the shorter cell side trimmed from every
// edge before classification, to keep grid lines out of the region.
const MarginFrac = 0.1

// CellBounds returns the rectangle of cell (row, col) within an image whose
// bounds are b. Cells are (Dy/3) x (Dx/3) pixels; remainder rows and columns
// at the bottom and right belong to no cell.
func CellBounds(b image.Rectangle, row, col int) image.Rectangle {
	cw, ch := b.Dx()/3, b.Dy()/3
	x0 := b.Min.X + col*cw
	y0 := b.Min.Y + row*ch
	return image.Rect(x0, y0, x0+cw, y0+ch)
}

// SplitCells partitions g into its 3x3 cells in row-major order.
//
// The cells are sub-image views sharing g's pixels; nothing is copied.
func SplitCells(g *image.Gray) [3][3]*image.Gray {
	var cells [3][3]*image.Gray
	b := g.Bounds()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cells[row][col] = g.SubImage(CellBounds(b, row, col)).(*image.Gray)
		}
	}
	return cells
}

// CellAt returns the view of a single cell, validating the coordinates.
func CellAt(g *image.Gray, row, col int) (*image.Gray, error) {
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return nil, fmt.Errorf("cell (%d,%d) outside the 3x3 board", row, col)
	}
	return g.SubImage(CellBounds(g.Bounds(), row, col)).(*image.Gray), nil
}

// CropMargin trims m = int(0.1*min(h,w)) pixels from every side of a cell.
// The region is returned unchanged when it is too small to leave anything
// after trimming.
func CropMargin(g *image.Gray) *image.Gray {
	b := g.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	m := int(MarginFrac * float64(side))
	if side <= 2*m {
		return g
	}
	return g.SubImage(b.Inset(m)).(*image.Gray)
}
