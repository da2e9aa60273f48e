package trainer

import (
	"context"
	"fmt"

	"github.com/corentings/chess/v2"
)

// An Arrow marks a move on the board, from one square to another.
type Arrow struct {
	From chess.Square
	To   chess.Square
}

// String implements the fmt.Stringer interface.
func (a Arrow) String() string {
	return a.From.String() + a.To.String()
}

// ArrowFor returns the arrow for m.
func ArrowFor(m *chess.Move) Arrow {
	return Arrow{From: m.S1(), To: m.S2()}
}

func arrowsFor(moves []*chess.Move) []Arrow {
	arrows := make([]Arrow, 0, len(moves))
	for _, m := range moves {
		arrows = append(arrows, ArrowFor(m))
	}
	return arrows
}

// An Action is a control command sent by the user while a line is played.
type Action uint8

const (
	// Restart replays the current line from its first move.
	Restart Action = iota
	// NextLevel draws a new random line.
	NextLevel
	// ToggleExplore switches exploration mode on or off.
	ToggleExplore
)

var actionNames = [...]string{"restart", "next-level", "toggle-explore"}

// String implements the fmt.Stringer interface.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// UI is what a Session drives. PlayMove, UpdateArrows, Shake and Reset are
// called from the session goroutines and must not block for long. The two
// Await methods block until the user does something or ctx is done, in which
// case they return ctx.Err().
type UI interface {
	// Reset shows pos as the start of a line.
	Reset(pos *chess.Position)
	// PlayMove shows m being played; pos is the position after it.
	PlayMove(pos *chess.Position, m *chess.Move, arrows []Arrow)
	// UpdateArrows replaces the arrows on the board.
	UpdateArrows(arrows []Arrow)
	// Shake signals a wrong move.
	Shake()
	AwaitUserMove(ctx context.Context) (*chess.Move, error)
	AwaitUserAction(ctx context.Context) (Action, error)
	// ShowHints reports whether the user currently wants hint arrows.
	ShowHints() bool
}
