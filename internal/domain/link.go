package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"iter"
	"strings"
)

// Link is an atom over an ordered, immutable outgoing set. Two links are
// equal when their types match and their outgoing sets are pairwise equal.
type Link struct {
	atomBase
	outgoing []Atom
}

func NewLink(ids IDSource, t AtomType, outgoing []Atom, opts ...AtomOption) (*Link, error) {
	if !t.Valid() {
		return nil, newValidationError("type", "unknown atom type %d", t)
	}
	if !t.IsLink() {
		return nil, newValidationError("type", "%s is not a link type", t.Name())
	}
	if len(outgoing) == 0 {
		return nil, newValidationError("outgoing", "a link needs at least one child")
	}
	for i, child := range outgoing {
		if IsNil(child) {
			return nil, newValidationError("outgoing", "child %d is nil", i)
		}
	}
	base, err := newAtomBase(ids, t, opts)
	if err != nil {
		return nil, err
	}
	l := &Link{atomBase: base, outgoing: append([]Atom(nil), outgoing...)}
	l.key = linkKey(t, l.outgoing)
	return l, nil
}

func (l *Link) Arity() int {
	return len(l.outgoing)
}

// Child returns the i-th element of the outgoing set.
func (l *Link) Child(i int) (Atom, error) {
	if i < 0 || i >= len(l.outgoing) {
		return nil, &ValidationError{
			Field:  "index",
			Reason: "child index out of range",
			Err:    ErrIndexOutOfRange,
		}
	}
	return l.outgoing[i], nil
}

// Outgoing returns a copy of the outgoing set.
func (l *Link) Outgoing() []Atom {
	return append([]Atom(nil), l.outgoing...)
}

// All iterates over the outgoing set in order.
func (l *Link) All() iter.Seq2[int, Atom] {
	return func(yield func(int, Atom) bool) {
		for i, child := range l.outgoing {
			if !yield(i, child) {
				return
			}
		}
	}
}

func (l *Link) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(l.atomType.Name())
	for _, child := range l.outgoing {
		b.WriteString(" ")
		b.WriteString(child.String())
	}
	b.WriteString(")")
	return b.String()
}

// Equal compares type and children one level down, so two links that
// only share a key digest are still told apart.
func (l *Link) Equal(other Atom) bool {
	o, ok := other.(*Link)
	if !ok || o == nil || o.key != l.key || o.atomType != l.atomType || len(o.outgoing) != len(l.outgoing) {
		return false
	}
	for i, child := range l.outgoing {
		if child.Key() != o.outgoing[i].Key() {
			return false
		}
	}
	return true
}

// linkKey digests the type and the children's keys. Each child contributes
// a fixed-size key when it is a link, so keys stay short however deeply
// shared sub-structures nest.
func linkKey(t AtomType, outgoing []Atom) string {
	h := sha256.New()
	h.Write([]byte(t.Name()))
	var size [binary.MaxVarintLen64]byte
	for _, child := range outgoing {
		key := child.Key()
		h.Write(size[:binary.PutUvarint(size[:], uint64(len(key)))])
		h.Write([]byte(key))
	}
	return t.Name() + "#" + hex.EncodeToString(h.Sum(nil))
}
