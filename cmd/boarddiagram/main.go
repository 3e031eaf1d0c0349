package main

import (
	"flag"
	"log"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/diagram"
)

var (
	fen    = flag.String("fen", board.StartFEN, "position to draw")
	layout = flag.String("layout", "", "64-symbol layout (a1 first, 0 for empty); overrides -fen")
	out    = flag.String("o", "board.svg", "output file (.svg or .png)")
	size   = flag.Int("size", 60, "square size in pixels")
	flip   = flag.Bool("flip", false, "draw with Black at the bottom")
	coords = flag.Bool("coords", true, "draw file and rank labels")
)

func main() {
	flag.Parse()

	var (
		l   board.Layout
		err error
	)
	if *layout != "" {
		l, err = board.ParseLayout(*layout)
	} else {
		l, _, err = board.ParseFEN(*fen)
	}
	if err != nil {
		log.Fatal(err)
	}

	opts := diagram.DefaultOptions()
	opts.SquareSize = *size
	opts.Flip = *flip
	opts.Coordinates = *coords

	if err := diagram.Save(*out, &l, opts); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *out)
}
