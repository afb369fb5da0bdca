// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package artifact renders chess positions to images and publishes them under
// fresh names so they can be fetched by URL.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/notnil/chess"
	chessimage "github.com/notnil/chess/image"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Supported output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Renderer turns a FEN position into image bytes.
type Renderer interface {
	Render(ctx context.Context, fen string) ([]byte, error)
	MimeType() string
	Extension() string
}

// NewRenderer returns the renderer for format. Unknown formats are an error.
func NewRenderer(format string, size int) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatPNG:
		return NewPNGRenderer(size), nil
	case FormatSVG:
		return SVGRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown artifact format %q", format)
	}
}

func boardOf(fen string) (*chess.Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	return chess.NewGame(opt).Position().Board(), nil
}

const cell = 16

var (
	lightSquare = color.RGBA{0xf0, 0xd9, 0xb5, 0xff}
	darkSquare  = color.RGBA{0xb5, 0x88, 0x63, 0xff}
	whiteInk    = color.RGBA{0xff, 0xff, 0xff, 0xff}
	blackInk    = color.RGBA{0x10, 0x10, 0x10, 0xff}
)

// PNGRenderer draws the board with one letter per piece (uppercase white,
// lowercase black) and scales it to Size pixels.
type PNGRenderer struct {
	Size int
}

// NewPNGRenderer returns a PNG renderer. Sizes below the native 128px are
// raised to 128.
func NewPNGRenderer(size int) PNGRenderer {
	if size < 8*cell {
		size = 8 * cell
	}
	return PNGRenderer{Size: size}
}

func (PNGRenderer) MimeType() string  { return "image/png" }
func (PNGRenderer) Extension() string { return ".png" }

func (r PNGRenderer) Render(ctx context.Context, fen string) ([]byte, error) {
	board, err := boardOf(fen)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := image.NewRGBA(image.Rect(0, 0, 8*cell, 8*cell))
	for file := 0; file < 8; file++ {
		for row := 0; row < 8; row++ {
			bg := lightSquare
			if (file+row)%2 == 1 {
				bg = darkSquare
			}
			rect := image.Rect(file*cell, row*cell, (file+1)*cell, (row+1)*cell)
			draw.Draw(src, rect, image.NewUniform(bg), image.Point{}, draw.Src)
		}
	}

	face := basicfont.Face7x13
	for sq, piece := range board.SquareMap() {
		if piece == chess.NoPiece {
			continue
		}
		file := int(sq.File())
		row := 7 - int(sq.Rank())
		letter := piece.Type().String()
		ink := blackInk
		if piece.Color() == chess.White {
			letter = strings.ToUpper(letter)
			ink = whiteInk
		}
		x := file*cell + (cell-face.Advance)/2
		y := row*cell + (cell+face.Ascent-face.Descent)/2
		// Shadow keeps white letters readable on light squares.
		if ink == whiteInk {
			drawLetter(src, face, blackInk, letter, x+1, y+1)
		}
		drawLetter(src, face, ink, letter, x, y)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Size, r.Size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLetter(dst draw.Image, face font.Face, ink color.Color, s string, x, y int) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// SVGRenderer emits the vector board of github.com/notnil/chess/image.
type SVGRenderer struct{}

func (SVGRenderer) MimeType() string  { return "image/svg+xml" }
func (SVGRenderer) Extension() string { return ".svg" }

func (SVGRenderer) Render(ctx context.Context, fen string) ([]byte, error) {
	board, err := boardOf(fen)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := chessimage.SVG(&buf, board); err != nil {
		return nil, fmt.Errorf("encode svg: %w", err)
	}
	return buf.Bytes(), nil
}
