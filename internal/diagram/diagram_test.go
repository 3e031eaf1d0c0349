package diagram

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestWriteSVG(t *testing.T) {
	l := board.StartLayout()

	var buf bytes.Buffer
	if err := WriteSVG(&buf, &l, DefaultOptions()); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `viewBox="0 0 480 480"`) {
		t.Error("missing viewBox")
	}
	if n := strings.Count(out, "<rect"); n != 64 {
		t.Errorf("%d squares, want 64", n)
	}
	if strings.Count(out, "♔") != 1 || strings.Count(out, "♟") != 8 {
		t.Error("piece glyphs do not match the start position")
	}
}

func TestOrigin(t *testing.T) {
	o := DefaultOptions()

	if x, y := o.origin(board.A1); x != 0 || y != 7*o.SquareSize {
		t.Errorf("a1 at (%d,%d)", x, y)
	}
	if x, y := o.origin(board.H8); x != 7*o.SquareSize || y != 0 {
		t.Errorf("h8 at (%d,%d)", x, y)
	}

	o.Flip = true
	if x, y := o.origin(board.A1); x != 7*o.SquareSize || y != 0 {
		t.Errorf("flipped a1 at (%d,%d)", x, y)
	}
}

func TestRender(t *testing.T) {
	l := board.StartLayout()
	o := DefaultOptions()

	img, err := Render(&l, o)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 480 || b.Dy() != 480 {
		t.Fatalf("bounds = %v", b)
	}

	// e4 is an empty light square; d4 an empty dark one.
	tests := []struct {
		sq      board.Square
		r, g, b uint8
	}{
		{board.E4, 0xf0, 0xd9, 0xb5},
		{board.NewSquare(3, 3), 0xb5, 0x88, 0x63},
	}
	for _, tc := range tests {
		x, y := o.origin(tc.sq)
		c := img.RGBAAt(x+o.SquareSize/2, y+o.SquareSize/2)
		if absDiff(c.R, tc.r) > 2 || absDiff(c.G, tc.g) > 2 || absDiff(c.B, tc.b) > 2 {
			t.Errorf("%s centre = %v, want #%02x%02x%02x", tc.sq, c, tc.r, tc.g, tc.b)
		}
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestSave(t *testing.T) {
	l := board.StartLayout()
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "start.png")
	if err := Save(pngPath, &l, DefaultOptions()); err != nil {
		t.Fatalf("Save png: %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("decode written png: %v", err)
	}

	if err := Save(filepath.Join(dir, "start.svg"), &l, DefaultOptions()); err != nil {
		t.Fatalf("Save svg: %v", err)
	}

	if err := Save(filepath.Join(dir, "start.gif"), &l, DefaultOptions()); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Save gif = %v, want ErrUnknownFormat", err)
	}

	o := DefaultOptions()
	o.SquareSize = 0
	if err := WriteSVG(&bytes.Buffer{}, &l, o); err == nil {
		t.Error("expected an error for a zero square size")
	}
}
