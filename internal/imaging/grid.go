package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Default annotation palette.
var (
	defaultXColor    = colorful.Hsv(0, 0.85, 0.90)
	defaultOColor    = colorful.Hsv(210, 0.85, 0.90)
	defaultGridColor = colorful.Hsv(120, 0.80, 0.70)
	labelPaper       = colorful.Color{R: 1, G: 1, B: 1}
)

// AnnotateOptions controls the board overlay. Zero values select defaults.
type AnnotateOptions struct {
	// Scale resizes the image before drawing (Lanczos). 0 or 1 keeps the size.
	Scale float64

	// XColor, OColor and GridColor are "#RRGGBB" or "#RGB" strings. Invalid
	// or empty values fall back to red, blue and green.
	XColor    string
	OColor    string
	GridColor string
}

// AnnotateResult contains the annotated board image.
type AnnotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	CellWidth   int    `json:"cell_width"`
	CellHeight  int    `json:"cell_height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Annotate draws the 3x3 cell grid the classifier uses over img and stamps
// each cell with its label ("X", "O" or "" for an empty cell, drawn as "-").
func Annotate(img image.Image, labels [3][3]string, opts AnnotateOptions) (*AnnotateResult, error) {
	src := img
	if opts.Scale > 0 && opts.Scale != 1.0 {
		w := int(float64(img.Bounds().Dx()) * opts.Scale)
		h := int(float64(img.Bounds().Dy()) * opts.Scale)
		if w < 3 || h < 3 {
			return nil, fmt.Errorf("scale %.3f leaves no room for a 3x3 board", opts.Scale)
		}
		src = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	b := src.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(result, result.Bounds(), src, b.Min, draw.Src)
	rb := result.Bounds()

	xCol := parseColor(opts.XColor, defaultXColor)
	oCol := parseColor(opts.OColor, defaultOColor)
	gridCol := parseColor(opts.GridColor, defaultGridColor)

	cw, ch := rb.Dx()/3, rb.Dy()/3
	side := min(cw, ch)
	thickness := max(1, side/100)

	// Cell boundaries, including the right and bottom edges of the last cells.
	for i := 0; i <= 3; i++ {
		x := i * cw
		y := i * ch
		fillRect(result, image.Rect(x-thickness/2, 0, x-thickness/2+thickness, 3*ch), gridCol)
		fillRect(result, image.Rect(0, y-thickness/2, 3*cw, y-thickness/2+thickness), gridCol)
	}

	glyphScale := max(1, side/25)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			label := labels[row][col]
			fg := gridCol
			switch label {
			case "X":
				fg = xCol
			case "O":
				fg = oCol
			case "":
				label = "-"
			}
			bg := fg.BlendLab(labelPaper, 0.8)
			drawLabel(result, col*cw+thickness+1, row*ch+thickness+1, label, glyphScale, toRGBA(fg), toRGBA(bg))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &AnnotateResult{
		Width:       rb.Dx(),
		Height:      rb.Dy(),
		CellWidth:   cw,
		CellHeight:  ch,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// parseColor parses a hex colour, returning fallback when s is empty or
// malformed.
func parseColor(s string, fallback colorful.Color) colorful.Color {
	if s == "" {
		return fallback
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func fillRect(img *image.RGBA, r image.Rectangle, c colorful.Color) {
	draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{C: toRGBA(c)}, image.Point{}, draw.Src)
}

// 3x5 pixel glyphs for cell labels and digits.
var glyphs = map[rune][]string{
	'X': {"101", "101", "010", "101", "101"},
	'O': {"111", "101", "101", "101", "111"},
	'-': {"000", "000", "111", "000", "000"},
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel draws text at (x, y) with each glyph pixel enlarged to a
// scale x scale block, on a background box one block wider than the text.
func drawLabel(img *image.RGBA, x, y int, text string, scale int, fg, bg color.RGBA) {
	if scale < 1 {
		scale = 1
	}
	bounds := img.Bounds()
	charWidth := 4 * scale
	labelWidth := len(text) * charWidth
	labelHeight := 7 * scale

	set := func(px, py int, c color.RGBA) {
		if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
			img.SetRGBA(px, py, c)
		}
	}

	for dy := -scale; dy < labelHeight; dy++ {
		for dx := -scale; dx < labelWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				for sy := 0; sy < scale; sy++ {
					for sx := 0; sx < scale; sx++ {
						set(cx+col*scale+sx, y+row*scale+sy, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
