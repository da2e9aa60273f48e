/*
Package tree provides a minimal branching tree of comparable values stored in
an arena. Nodes are addressed by NodeID; children are kept in insertion order
and a node never moves once created.

Example usage:

	t := tree.New[string]()
	e4 := t.BranchOrFind(t.Root(), "e4")
	e5 := t.BranchOrFind(e4, "e5")
	d4 := t.ForkOrFind(e4, "d4") // sibling of e4

	for _, leaf := range t.Leaves(t.Root()) {
		fmt.Println(t.Path(leaf))
	}

A Tree is built by a single writer. Once construction is finished it may be
shared by any number of concurrent readers.
*/
package tree

// NodeID addresses a node inside a Tree.
type NodeID int32

// NoNode is the parent of the root.
const NoNode NodeID = -1

type node[T comparable] struct {
	parent   NodeID
	value    T
	hasValue bool
	children []NodeID
}

// Tree is an arena of nodes. The zero value is not usable, use New.
type Tree[T comparable] struct {
	nodes []node[T]
	root  NodeID
}

// New returns a tree holding only a value-less root.
func New[T comparable]() *Tree[T] {
	t := &Tree[T]{}
	t.root = t.alloc(NoNode, nil)
	return t
}

func (t *Tree[T]) alloc(parent NodeID, value *T) NodeID {
	n := node[T]{parent: parent}
	if value != nil {
		n.value = *value
		n.hasValue = true
	}
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// Root returns the current root. Fork on the root introduces a new one.
func (t *Tree[T]) Root() NodeID {
	return t.root
}

// Len returns the number of nodes, root included.
func (t *Tree[T]) Len() int {
	return len(t.nodes)
}

// Branch appends a new child holding value under n and returns it.
func (t *Tree[T]) Branch(n NodeID, value T) NodeID {
	child := t.alloc(n, &value)
	t.nodes[n].children = append(t.nodes[n].children, child)
	return child
}

// BranchOrFind returns the child of n holding value, branching a new one if
// there is none.
func (t *Tree[T]) BranchOrFind(n NodeID, value T) NodeID {
	if child, ok := t.findChild(n, value); ok {
		return child
	}
	return t.Branch(n, value)
}

// Fork branches value from the parent of n, creating a sibling of n. If n has
// no parent a value-less parent is introduced and becomes the root.
func (t *Tree[T]) Fork(n NodeID, value T) NodeID {
	return t.Branch(t.parentOrCreate(n), value)
}

// ForkOrFind is Fork, except that n itself or an existing sibling holding
// value is returned when there is one.
func (t *Tree[T]) ForkOrFind(n NodeID, value T) NodeID {
	if v, ok := t.Value(n); ok && v == value {
		return n
	}
	return t.BranchOrFind(t.parentOrCreate(n), value)
}

func (t *Tree[T]) parentOrCreate(n NodeID) NodeID {
	if p := t.nodes[n].parent; p != NoNode {
		return p
	}
	p := t.alloc(NoNode, nil)
	t.nodes[p].children = append(t.nodes[p].children, n)
	t.nodes[n].parent = p
	t.root = p
	return p
}

func (t *Tree[T]) findChild(n NodeID, value T) (NodeID, bool) {
	for _, c := range t.nodes[n].children {
		if t.nodes[c].hasValue && t.nodes[c].value == value {
			return c, true
		}
	}
	return NoNode, false
}

// Children returns the children of n in insertion order. The returned slice
// must not be modified.
func (t *Tree[T]) Children(n NodeID) []NodeID {
	return t.nodes[n].children
}

// Parent returns the parent of n, or false for the root.
func (t *Tree[T]) Parent(n NodeID) (NodeID, bool) {
	p := t.nodes[n].parent
	return p, p != NoNode
}

// Value returns the payload of n. Only value-less roots report false.
func (t *Tree[T]) Value(n NodeID) (T, bool) {
	return t.nodes[n].value, t.nodes[n].hasValue
}

// IsLeaf reports whether n has no children.
func (t *Tree[T]) IsLeaf(n NodeID) bool {
	return len(t.nodes[n].children) == 0
}

// FirstLeaf follows the first child at each level until it reaches a node
// without children.
func (t *Tree[T]) FirstLeaf(n NodeID) NodeID {
	for len(t.nodes[n].children) > 0 {
		n = t.nodes[n].children[0]
	}
	return n
}

// Depth returns the number of edges between n and the top of its tree.
func (t *Tree[T]) Depth(n NodeID) int {
	d := 0
	for p := t.nodes[n].parent; p != NoNode; p = t.nodes[p].parent {
		d++
	}
	return d
}

// Path returns the nodes from just below the top of the tree down to n,
// inclusive. The path of the root is empty.
func (t *Tree[T]) Path(n NodeID) []NodeID {
	path := make([]NodeID, t.Depth(n))
	for i := len(path) - 1; i >= 0; i-- {
		path[i] = n
		n = t.nodes[n].parent
	}
	return path
}

// Values resolves a path into its payloads.
func (t *Tree[T]) Values(path []NodeID) []T {
	values := make([]T, 0, len(path))
	for _, n := range path {
		values = append(values, t.nodes[n].value)
	}
	return values
}

// Leaves returns every leaf below n, depth first and left to right.
func (t *Tree[T]) Leaves(n NodeID) []NodeID {
	var leaves []NodeID
	var walk func(NodeID)
	walk = func(n NodeID) {
		children := t.nodes[n].children
		if len(children) == 0 {
			leaves = append(leaves, n)
			return
		}
		for _, c := range children {
			walk(c)
		}
	}
	walk(n)
	return leaves
}
