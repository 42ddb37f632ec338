package domain

import (
	"maps"
	"sync/atomic"
)

// AtomID identifies an atom. Identifiers come from an IDSource at
// construction time and are never reused by that source.
type AtomID uint64

// IDSource hands out atom identifiers.
type IDSource interface {
	NextID() AtomID
}

// Sequence is a monotonic IDSource. The zero value starts at 1.
type Sequence struct {
	last atomic.Uint64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) NextID() AtomID {
	return AtomID(s.last.Add(1))
}

// Atom is a Node or a Link. Equality (Equal/Key) is structural and ignores
// the identifier, truth value and metadata.
type Atom interface {
	ID() AtomID
	Type() AtomType
	TruthValue() TruthValue
	SetTruthValue(tv TruthValue)
	Metadata(key string) (any, bool)
	SetMetadata(key string, value any)
	MetadataMap() map[string]any
	Equal(other Atom) bool
	// Key is the structural identity of the atom; two atoms are equal
	// exactly when their keys are.
	Key() string
	String() string

	isAtom()
}

type AtomOption func(*atomBase)

func WithTruthValue(tv TruthValue) AtomOption {
	return func(a *atomBase) { a.tv = tv }
}

func WithMetadata(md map[string]any) AtomOption {
	return func(a *atomBase) {
		if len(md) == 0 {
			return
		}
		if a.metadata == nil {
			a.metadata = make(map[string]any, len(md))
		}
		maps.Copy(a.metadata, md)
	}
}

type atomBase struct {
	id       AtomID
	atomType AtomType
	tv       TruthValue
	metadata map[string]any
	key      string
}

func newAtomBase(ids IDSource, t AtomType, opts []AtomOption) (atomBase, error) {
	if ids == nil {
		return atomBase{}, newValidationError("ids", "an identifier source is required")
	}
	a := atomBase{atomType: t, tv: DefaultTruthValue()}
	for _, opt := range opts {
		opt(&a)
	}
	if err := a.tv.Validate(); err != nil {
		return atomBase{}, err
	}
	a.id = ids.NextID()
	return a, nil
}

func (a *atomBase) ID() AtomID             { return a.id }
func (a *atomBase) Type() AtomType         { return a.atomType }
func (a *atomBase) TruthValue() TruthValue { return a.tv }
func (a *atomBase) Key() string            { return a.key }
func (a *atomBase) isAtom()                {}

// SetTruthValue replaces the truth value directly, bypassing revision.
func (a *atomBase) SetTruthValue(tv TruthValue) {
	a.tv = tv
}

func (a *atomBase) Metadata(key string) (any, bool) {
	v, ok := a.metadata[key]
	return v, ok
}

func (a *atomBase) SetMetadata(key string, value any) {
	if a.metadata == nil {
		a.metadata = make(map[string]any)
	}
	a.metadata[key] = value
}

// MetadataMap returns a copy of the metadata.
func (a *atomBase) MetadataMap() map[string]any {
	if len(a.metadata) == 0 {
		return nil
	}
	return maps.Clone(a.metadata)
}

func (a *atomBase) Equal(other Atom) bool {
	if other == nil {
		return false
	}
	return a.key == other.Key()
}

// Reassign gives a a fresh identifier from ids. A store calls it when the
// identifier a was built with is already held by a different atom.
func Reassign(a Atom, ids IDSource) {
	switch v := a.(type) {
	case *Node:
		v.id = ids.NextID()
	case *Link:
		v.id = ids.NextID()
	}
}

// IsNil reports whether a is nil or a typed nil Node/Link.
func IsNil(a Atom) bool {
	switch v := a.(type) {
	case nil:
		return true
	case *Node:
		return v == nil
	case *Link:
		return v == nil
	}
	return false
}

// IsVariable reports whether a is a variable placeholder.
func IsVariable(a Atom) bool {
	n, ok := a.(*Node)
	return ok && n.Type().IsA(TypeVariableNode)
}

// IsNode reports whether a is a Node.
func IsNode(a Atom) bool {
	_, ok := a.(*Node)
	return ok
}

// IsLink reports whether a is a Link.
func IsLink(a Atom) bool {
	_, ok := a.(*Link)
	return ok
}
