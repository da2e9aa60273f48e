package repertoire

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
)

var errMoveNotApplied = errors.New("move could not be applied")

// IllegalMoveError reports a move of the repertoire that does not parse or
// cannot be played in the position reached by the moves before it. It is a
// corpus fault, never a user error.
type IllegalMoveError struct {
	Moves []string // moves played before the faulty one
	Ply   int      // 1-based ply of the faulty move
	SAN   string
	Err   error
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("repertoire: illegal move %q at ply %d after [%s]: %v",
		e.SAN, e.Ply, strings.Join(e.Moves, " "), e.Err)
}

func (e *IllegalMoveError) Unwrap() error {
	return e.Err
}

// SameMove reports whether a and b are the same move: same origin and
// destination squares, same capture flag and same promotion piece. Two nil
// moves are equal.
func SameMove(a, b *chess.Move) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.S1() == b.S1() &&
		a.S2() == b.S2() &&
		a.Promo() == b.Promo() &&
		isCapture(a) == isCapture(b)
}

// clonePosition returns a copy of pos that shares nothing with it, so the
// copy's lazily computed move list can be filled from another goroutine.
func clonePosition(pos *chess.Position) *chess.Position {
	raw, err := pos.MarshalBinary()
	if err == nil {
		clone := new(chess.Position)
		if err = clone.UnmarshalBinary(raw); err == nil {
			return clone
		}
	}
	panic(fmt.Sprintf("repertoire: copying position %s: %v", pos, err))
}

func isCapture(m *chess.Move) bool {
	return m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant)
}
