package detection

import (
	"testing"

	"github.com/ironsheep/tictactoe-vision/internal/imaging"
)

func TestOpen_RemovesSpecks(t *testing.T) {
	m := newMask(30, 30)
	fillRect(m, 10, 10, 19, 19)
	m.Pix[2*30+2] = 255        // isolated speck
	fillRect(m, 25, 5, 25, 20) // one pixel wide stroke

	opened := Open(m, 1)

	if got := imaging.CountNonZero(opened); got != 100 {
		t.Errorf("foreground after opening: got %d, want 100", got)
	}
	if opened.Pix[2*30+2] != 0 {
		t.Error("speck survived opening")
	}
	if opened.Pix[10*30+10] != 255 || opened.Pix[19*30+19] != 255 {
		t.Error("square corners lost during opening")
	}
}

func TestErodeDilate(t *testing.T) {
	m := newMask(20, 20)
	fillRect(m, 5, 5, 14, 14)

	eroded := Erode(m, 1)
	if got := imaging.CountNonZero(eroded); got != 64 {
		t.Errorf("eroded foreground: got %d, want 64", got)
	}

	dilated := Dilate(m, 1)
	if got := imaging.CountNonZero(dilated); got != 144 {
		t.Errorf("dilated foreground: got %d, want 144", got)
	}
}

func TestErode_FullMaskUnchanged(t *testing.T) {
	m := newMask(8, 8)
	fillRect(m, 0, 0, 7, 7)

	if got := imaging.CountNonZero(Erode(m, 1)); got != 64 {
		t.Errorf("edge pixels eroded: got %d, want 64", got)
	}
}

func TestOpen_ZeroRadius(t *testing.T) {
	m := newMask(5, 5)
	m.Pix[12] = 255

	if got := imaging.CountNonZero(Open(m, 0)); got != 1 {
		t.Errorf("radius 0 should be identity, got %d pixels", got)
	}
}
