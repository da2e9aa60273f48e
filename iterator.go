package repertoire

import (
	"github.com/corentings/chess/v2"
	"github.com/corentings/repertoire/tree"
)

// VariationIterator walks one line of a MoveTree move by move while keeping
// a position that reflects exactly the moves consumed so far.
//
// An iterator is not safe for concurrent use. Several iterators may walk the
// same tree at once.
type VariationIterator struct {
	mt    *MoveTree
	path  []tree.NodeID
	depth int
	start *chess.Position
	pos   *chess.Position
}

// Iterate returns an iterator positioned before the first move of line.
//
// Example:
//
//	it := mt.Iterate(line)
//	for {
//		m, err := it.Next()
//		if err != nil || m == nil {
//			break
//		}
//		fmt.Println(m, it.Position())
//	}
func (mt *MoveTree) Iterate(line Line) *VariationIterator {
	start := startingPosition()
	return &VariationIterator{
		mt:    mt,
		path:  mt.t.Path(line.leaf),
		start: start,
		pos:   start,
	}
}

// Next plays the next move of the line and returns it. At the end of the
// line it returns a nil move and a nil error.
func (it *VariationIterator) Next() (*chess.Move, error) {
	if it.AtEnd() {
		return nil, nil
	}
	m, next, err := it.mt.play(it.pos, it.path[it.depth])
	if err != nil {
		return nil, err
	}
	it.pos = next
	it.depth++
	return m, nil
}

// Peek returns the move Next would play without playing it.
func (it *VariationIterator) Peek() (*chess.Move, error) {
	if it.AtEnd() {
		return nil, nil
	}
	return it.mt.decode(it.pos, it.path[it.depth])
}

// PeekAll returns every move the tree knows in the current position: the
// move Next would play and all of its siblings, in tree order. It is empty
// at the end of the line.
func (it *VariationIterator) PeekAll() ([]*chess.Move, error) {
	if it.AtEnd() {
		return nil, nil
	}
	siblings := it.mt.t.Children(it.parent())
	moves := make([]*chess.Move, 0, len(siblings))
	for _, n := range siblings {
		m, err := it.mt.decode(it.pos, n)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// TrySwitch looks for candidate among the moves PeekAll would return. When
// found, the iterator continues along the first line through that move and
// true is returned; the depth and position do not change until Next is
// called. Otherwise nothing changes and false is returned.
func (it *VariationIterator) TrySwitch(candidate *chess.Move) (bool, error) {
	if it.AtEnd() || candidate == nil {
		return false, nil
	}
	for _, n := range it.mt.t.Children(it.parent()) {
		m, err := it.mt.decode(it.pos, n)
		if err != nil {
			return false, err
		}
		if !SameMove(m, candidate) {
			continue
		}
		if n != it.path[it.depth] {
			it.path = it.mt.t.Path(it.mt.t.FirstLeaf(n))
		}
		return true, nil
	}
	return false, nil
}

// Reset rewinds the iterator to the start of its current line.
func (it *VariationIterator) Reset() {
	it.depth = 0
	it.pos = it.start
}

// Depth returns the number of moves played so far.
func (it *VariationIterator) Depth() int {
	return it.depth
}

// Len returns the number of moves in the current line.
func (it *VariationIterator) Len() int {
	return len(it.path)
}

// AtEnd reports whether every move of the line has been played.
func (it *VariationIterator) AtEnd() bool {
	return it.depth >= len(it.path)
}

// Position returns a copy of the position after the moves played so far.
// The copy belongs to the caller and may be handed to another goroutine.
func (it *VariationIterator) Position() *chess.Position {
	return clonePosition(it.pos)
}

// Line returns the line currently followed. It changes after a successful
// TrySwitch.
func (it *VariationIterator) Line() Line {
	if len(it.path) == 0 {
		return Line{leaf: it.mt.t.Root()}
	}
	return Line{leaf: it.path[len(it.path)-1]}
}

// Moves returns the SAN moves of the current line.
func (it *VariationIterator) Moves() []string {
	return it.mt.t.Values(it.path)
}

// parent returns the node whose children are the candidates for the next
// move.
func (it *VariationIterator) parent() tree.NodeID {
	if it.depth == 0 {
		return it.mt.t.Root()
	}
	return it.path[it.depth-1]
}
