// Package board renders a position with its hint arrows, as an SVG
// snapshot or as a grid of cells for the terminal UI.
package board

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/corentings/chess/v2"

	"github.com/corentings/repertoire/trainer"
)

const (
	squareSize = 45
	boardSize  = squareSize * 8

	lightColor = "#f0d9b5"
	darkColor  = "#b58863"
	arrowColor = "#15781b"
)

// A Cell is one square of the board as seen from one side.
type Cell struct {
	Square chess.Square
	Piece  chess.Piece
	Light  bool
	// From and To are set when an arrow starts or ends on the square.
	From bool
	To   bool
}

// Grid returns the 64 cells in display order: the top left square first.
// With flipped set the board is seen from Black.
func Grid(pos *chess.Position, arrows []trainer.Arrow, flipped bool) [8][8]Cell {
	from := map[chess.Square]bool{}
	to := map[chess.Square]bool{}
	for _, a := range arrows {
		from[a.From] = true
		to[a.To] = true
	}

	var grid [8][8]Cell
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := squareAt(row, col, flipped)
			grid[row][col] = Cell{
				Square: sq,
				Piece:  pos.Board().Piece(sq),
				Light:  (int(sq.File())+int(sq.Rank()))%2 == 1,
				From:   from[sq],
				To:     to[sq],
			}
		}
	}
	return grid
}

func squareAt(row, col int, flipped bool) chess.Square {
	file, rank := col, 7-row
	if flipped {
		file, rank = 7-col, row
	}
	return chess.Square(rank*8 + file)
}

// center returns the pixel center of sq.
func center(sq chess.Square, flipped bool) (int, int) {
	col, row := int(sq.File()), 7-int(sq.Rank())
	if flipped {
		col, row = 7-col, 7-row
	}
	return col*squareSize + squareSize/2, row*squareSize + squareSize/2
}

// WriteSVG draws pos and arrows as an SVG document.
//
// Example:
//
//	f, _ := os.Create("board.svg")
//	defer f.Close()
//	_ = board.WriteSVG(f, pos, []trainer.Arrow{{From: chess.E2, To: chess.E4}}, false)
func WriteSVG(w io.Writer, pos *chess.Position, arrows []trainer.Arrow, flipped bool) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(boardSize, boardSize)
	canvas.Title(pos.String())

	canvas.Def()
	canvas.Marker("head", 2, 2, 4, 4, "orient=\"auto\" markerUnits=\"strokeWidth\"")
	canvas.Polygon([]int{0, 4, 0}, []int{0, 2, 4}, "fill:"+arrowColor)
	canvas.MarkerEnd()
	canvas.DefEnd()

	for row, cells := range Grid(pos, nil, flipped) {
		for col, cell := range cells {
			fill := darkColor
			if cell.Light {
				fill = lightColor
			}
			x, y := col*squareSize, row*squareSize
			canvas.Rect(x, y, squareSize, squareSize, "fill:"+fill)
			if cell.Piece == chess.NoPiece {
				continue
			}
			canvas.Text(x+squareSize/2, y+squareSize*3/4, cell.Piece.String(),
				"text-anchor:middle;font-size:36px;font-family:serif")
		}
	}

	canvas.Group("opacity:0.8")
	for _, a := range arrows {
		x1, y1 := center(a.From, flipped)
		x2, y2 := center(a.To, flipped)
		canvas.Line(x1, y1, x2, y2,
			fmt.Sprintf("stroke:%s;stroke-width:8;stroke-linecap:round", arrowColor),
			`marker-end="url(#head)"`)
	}
	canvas.Gend()
	canvas.End()
	return ew.err
}

// errWriter keeps the first write error; svgo drops them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
