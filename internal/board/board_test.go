package board

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/corentings/chess/v2"

	"github.com/corentings/repertoire/trainer"
)

func TestGridOrientation(t *testing.T) {
	pos := chess.NewGame().Position()
	tests := []struct {
		name     string
		flipped  bool
		topLeft  chess.Square
		botRight chess.Square
	}{
		{name: "white", topLeft: chess.A8, botRight: chess.H1},
		{name: "black", flipped: true, topLeft: chess.H1, botRight: chess.A8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := Grid(pos, nil, tt.flipped)
			if got := grid[0][0].Square; got != tt.topLeft {
				t.Fatalf("expected %s top left but got %s", tt.topLeft, got)
			}
			if got := grid[7][7].Square; got != tt.botRight {
				t.Fatalf("expected %s bottom right but got %s", tt.botRight, got)
			}
			// the bottom right square is light from either side
			if !grid[7][7].Light {
				t.Fatalf("expected %s to be light", tt.botRight)
			}
		})
	}
}

func TestGridPiecesAndArrows(t *testing.T) {
	pos := chess.NewGame().Position()
	grid := Grid(pos, []trainer.Arrow{{From: chess.E2, To: chess.E4}}, false)

	e2 := grid[6][4]
	if e2.Square != chess.E2 || e2.Piece != chess.WhitePawn || !e2.From || e2.To {
		t.Fatalf("unexpected e2 cell %+v", e2)
	}
	e4 := grid[4][4]
	if e4.Square != chess.E4 || e4.Piece != chess.NoPiece || !e4.To {
		t.Fatalf("unexpected e4 cell %+v", e4)
	}
	if grid[0][4].Piece != chess.BlackKing {
		t.Fatalf("expected the black king on e8 but got %v", grid[0][4].Piece)
	}
}

func TestWriteSVG(t *testing.T) {
	pos := chess.NewGame().Position()
	var buf bytes.Buffer
	arrows := []trainer.Arrow{{From: chess.E2, To: chess.E4}, {From: chess.E7, To: chess.E5}}
	if err := WriteSVG(&buf, pos, arrows, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") {
		t.Fatalf("expected an XML document but got %q", out[:40])
	}
	if n := strings.Count(out, "<rect"); n != 64 {
		t.Fatalf("expected 64 squares but got %d", n)
	}
	if n := strings.Count(out, "<line"); n != len(arrows) {
		t.Fatalf("expected %d arrows but got %d", len(arrows), n)
	}
	if !strings.Contains(out, `marker-end="url(#head)"`) {
		t.Fatal("expected arrow heads")
	}
	// e2 center, white at the bottom
	if !strings.Contains(out, `x1="202" y1="292"`) {
		t.Fatalf("expected the e2 arrow origin in %s", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteSVGReportsWriteError(t *testing.T) {
	err := WriteSVG(failingWriter{}, chess.NewGame().Position(), nil, false)
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("expected the write error but got %v", err)
	}
}
