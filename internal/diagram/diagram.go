// Package diagram draws a board layout as an SVG or PNG image.
package diagram

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chesscore/internal/board"
)

// ErrUnknownFormat is returned by Save for an extension other than .svg or .png.
var ErrUnknownFormat = errors.New("unknown image format")

// Options controls the look of a diagram.
type Options struct {
	SquareSize  int
	Light       string // CSS color of light squares
	Dark        string // CSS color of dark squares
	Flip        bool   // draw with Black at the bottom
	Coordinates bool
}

// DefaultOptions returns a 60px board with file and rank labels.
func DefaultOptions() Options {
	return Options{
		SquareSize:  60,
		Light:       "#f0d9b5",
		Dark:        "#b58863",
		Coordinates: true,
	}
}

// Unicode glyphs for the SVG, indexed by board.Piece.
var glyphs = [board.NoPiece]string{
	"♙", "♘", "♗", "♖", "♕", "♔",
	"♟", "♞", "♝", "♜", "♛", "♚",
}

// origin returns the top-left pixel of sq.
func (o Options) origin(sq board.Square) (x, y int) {
	file, rank := sq.File(), 7-sq.Rank()
	if o.Flip {
		file, rank = 7-file, 7-rank
	}
	return file * o.SquareSize, rank * o.SquareSize
}

func (o Options) squareColor(sq board.Square) string {
	if (sq.File()+sq.Rank())%2 == 0 {
		return o.Dark
	}
	return o.Light
}

// writeSquares draws the 64 squares and, if pieces is set, the pieces and labels.
func writeSquares(w io.Writer, l *board.Layout, o Options, pieces bool) {
	size := 8 * o.SquareSize
	canvas := svg.New(w)
	canvas.Startview(size, size, 0, 0, size, size)

	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := o.origin(sq)
		canvas.Rect(x, y, o.SquareSize, o.SquareSize, "fill:"+o.squareColor(sq))
	}

	if pieces {
		pieceStyle := fmt.Sprintf("font-family:serif;font-size:%dpx;text-anchor:middle", o.SquareSize*4/5)
		for sq := board.A1; sq <= board.H8; sq++ {
			p := l.At(sq)
			if p == board.NoPiece {
				continue
			}
			x, y := o.origin(sq)
			canvas.Text(x+o.SquareSize/2, y+o.SquareSize*4/5, glyphs[p], pieceStyle)
		}

		if o.Coordinates {
			labelStyle := fmt.Sprintf("font-family:sans-serif;font-size:%dpx;fill:#333", o.SquareSize/6)
			for i := 0; i < 8; i++ {
				file := board.NewSquare(i, 0)
				x, _ := o.origin(file)
				canvas.Text(x+o.SquareSize-o.SquareSize/6, size-3, string(rune('a'+i)), labelStyle)

				rank := board.NewSquare(0, i)
				_, y := o.origin(rank)
				canvas.Text(2, y+o.SquareSize/5, string(rune('1'+i)), labelStyle)
			}
		}
	}

	canvas.End()
}

// WriteSVG writes an SVG diagram of l.
func WriteSVG(w io.Writer, l *board.Layout, o Options) error {
	if o.SquareSize <= 0 {
		return fmt.Errorf("square size must be positive, got %d", o.SquareSize)
	}
	writeSquares(w, l, o, true)
	return nil
}

// Render rasterises l. The squares go through the SVG renderer; the pieces
// are drawn as letters, since the rasteriser has no text support.
func Render(l *board.Layout, o Options) (*image.RGBA, error) {
	if o.SquareSize <= 0 {
		return nil, fmt.Errorf("square size must be positive, got %d", o.SquareSize)
	}
	size := 8 * o.SquareSize

	var buf bytes.Buffer
	writeSquares(&buf, l, o, false)

	icon, err := oksvg.ReadIconStream(&buf)
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceFace, err := newFace(gobold.TTF, float64(o.SquareSize)*0.6)
	if err != nil {
		return nil, err
	}
	defer pieceFace.Close()

	for sq := board.A1; sq <= board.H8; sq++ {
		p := l.At(sq)
		if p == board.NoPiece {
			continue
		}
		x, y := o.origin(sq)
		drawPiece(rgba, pieceFace, p, x, y, o.SquareSize)
	}

	if o.Coordinates {
		labelFace, err := newFace(goregular.TTF, float64(o.SquareSize)/5)
		if err != nil {
			return nil, err
		}
		defer labelFace.Close()

		ink := image.NewUniform(color.RGBA{0x33, 0x33, 0x33, 0xff})
		for i := 0; i < 8; i++ {
			x, _ := o.origin(board.NewSquare(i, 0))
			drawString(rgba, labelFace, ink, string(rune('a'+i)), x+o.SquareSize-o.SquareSize/5, size-3)

			_, y := o.origin(board.NewSquare(0, i))
			drawString(rgba, labelFace, ink, string(rune('1'+i)), 2, y+o.SquareSize/5)
		}
	}

	return rgba, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

func drawString(dst *image.RGBA, face font.Face, src image.Image, s string, x, y int) {
	d := font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawPiece centres the piece letter in its square. White pieces are white
// letters outlined in black, black pieces the reverse.
func drawPiece(dst *image.RGBA, face font.Face, p board.Piece, x, y, squareSize int) {
	letter := strings.ToUpper(string(p.Symbol()))

	width := font.MeasureString(face, letter).Round()
	ascent := face.Metrics().Ascent.Round()
	px := x + (squareSize-width)/2
	py := y + (squareSize+ascent)/2 - 2

	fill, outline := color.RGBA{0xff, 0xff, 0xff, 0xff}, color.RGBA{0x00, 0x00, 0x00, 0xff}
	if p.Color() == board.Black {
		fill, outline = outline, fill
	}

	for _, off := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		drawString(dst, face, image.NewUniform(outline), letter, px+off[0], py+off[1])
	}
	drawString(dst, face, image.NewUniform(fill), letter, px, py)
}

// WritePNG writes a PNG diagram of l.
func WritePNG(w io.Writer, l *board.Layout, o Options) error {
	img, err := Render(l, o)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Save writes a diagram to path, choosing the format from its extension.
func Save(path string, l *board.Layout, o Options) (err error) {
	var write func(io.Writer, *board.Layout, Options) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		write = WriteSVG
	case ".png":
		write = WritePNG
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return write(f, l, o)
}
