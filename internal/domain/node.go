package domain

import "strconv"

// Node is a named leaf atom. Two nodes are equal when type and name match.
type Node struct {
	atomBase
	name string
}

func NewNode(ids IDSource, t AtomType, name string, opts ...AtomOption) (*Node, error) {
	if !t.Valid() {
		return nil, newValidationError("type", "unknown atom type %d", t)
	}
	if !t.IsNode() {
		return nil, newValidationError("type", "%s is not a node type", t.Name())
	}
	base, err := newAtomBase(ids, t, opts)
	if err != nil {
		return nil, err
	}
	n := &Node{atomBase: base, name: name}
	n.key = nodeKey(t, name)
	return n, nil
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) String() string {
	return "(" + n.atomType.Name() + " " + strconv.Quote(n.name) + ")"
}

func nodeKey(t AtomType, name string) string {
	return t.Name() + ":" + strconv.Quote(name)
}
