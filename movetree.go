package repertoire

import (
	"math/rand/v2"
	"sync"

	"github.com/corentings/chess/v2"
	"github.com/corentings/repertoire/tree"
)

// A MoveTree holds every line of a repertoire. Lines sharing their first
// moves share the nodes for those moves. Node values are SAN strings exactly
// as they appear in the source text.
//
// A MoveTree is built with AddText by a single goroutine. Once built it is
// never modified and may be read and iterated concurrently.
type MoveTree struct {
	t *tree.Tree[string]
}

// Line is a handle on one complete line of a MoveTree. It is only
// meaningful for the tree that returned it.
type Line struct {
	leaf tree.NodeID
}

// NewMoveTree returns an empty tree.
func NewMoveTree() *MoveTree {
	return &MoveTree{t: tree.New[string]()}
}

// AddText folds the movetext of one game into the tree. Moves already
// present are reused, so adding several games merges their common prefixes.
// Tag pairs, comments, NAGs, annotations and results are skipped.
//
// A *ParseError is returned for unbalanced variations; the tree is left
// unchanged in that case.
//
// Example:
//
//	mt := NewMoveTree()
//	_ = mt.AddText("e4 e5 Nf3")
//	_ = mt.AddText("e4 e5 Nc3 Nf6")
//	len(mt.Lines()) // 2
func (mt *MoveTree) AddText(text string) error {
	p := newParser(mt.t, Tokenize(text))
	if err := p.check(); err != nil {
		return err
	}
	p.foldLine(mt.t.Root())
	return nil
}

// Lines returns every complete line, depth first in the order the moves were
// first added.
func (mt *MoveTree) Lines() []Line {
	root := mt.t.Root()
	if mt.t.IsLeaf(root) {
		return nil
	}
	leaves := mt.t.Leaves(root)
	lines := make([]Line, len(leaves))
	for i, leaf := range leaves {
		lines[i] = Line{leaf: leaf}
	}
	return lines
}

// Resolve returns the moves of line from the first move to the last.
func (mt *MoveTree) Resolve(line Line) []string {
	return mt.t.Values(mt.t.Path(line.leaf))
}

// Depth returns the number of plies in line.
func (mt *MoveTree) Depth(line Line) int {
	return mt.t.Depth(line.leaf)
}

// Size returns the number of moves stored in the tree.
func (mt *MoveTree) Size() int {
	return mt.t.Len() - 1
}

// Choose picks a line uniformly at random. Every line is equally likely no
// matter how many moves it shares with others. It returns false for an
// empty tree.
func (mt *MoveTree) Choose(r *rand.Rand) (Line, bool) {
	lines := mt.Lines()
	if len(lines) == 0 {
		return Line{}, false
	}
	return lines[r.IntN(len(lines))], true
}

// Verify replays every move of the tree from the starting position and
// returns an *IllegalMoveError for the first one that does not parse or
// cannot be played.
func (mt *MoveTree) Verify() error {
	var walk func(n tree.NodeID, pos *chess.Position) error
	walk = func(n tree.NodeID, pos *chess.Position) error {
		for _, child := range mt.t.Children(n) {
			_, next, err := mt.play(pos, child)
			if err != nil {
				return err
			}
			if err := walk(child, next); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(mt.t.Root(), startingPosition())
}

// play decodes the move stored at n against pos and applies it.
func (mt *MoveTree) play(pos *chess.Position, n tree.NodeID) (*chess.Move, *chess.Position, error) {
	m, err := mt.decode(pos, n)
	if err != nil {
		return nil, nil, err
	}
	next := pos.Update(m)
	if next == nil {
		return nil, nil, mt.illegal(n, errMoveNotApplied)
	}
	return m, next, nil
}

func (mt *MoveTree) decode(pos *chess.Position, n tree.NodeID) (*chess.Move, error) {
	san, _ := mt.t.Value(n)
	m, err := chess.AlgebraicNotation{}.Decode(pos, san)
	if err != nil {
		return nil, mt.illegal(n, err)
	}
	return m, nil
}

func (mt *MoveTree) illegal(n tree.NodeID, err error) *IllegalMoveError {
	moves := mt.t.Values(mt.t.Path(n))
	return &IllegalMoveError{
		Moves: moves[:len(moves)-1],
		Ply:   len(moves),
		SAN:   moves[len(moves)-1],
		Err:   err,
	}
}

// startingPosition is built once and shared by every iterator. Building a
// position from FEN writes package state in the rules library, and the
// first ValidMoves call fills a cache, so both happen here before the
// position is shared; afterwards it is only read.
var startingPosition = sync.OnceValue(func() *chess.Position {
	pos := chess.StartingPosition()
	pos.ValidMoves()
	return pos
})
