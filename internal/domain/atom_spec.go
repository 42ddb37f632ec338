package domain

// AtomSpec describes an atom in request bodies and fact files. A spec is
// either a reference to a stored atom (Ref), a node (Type + Name) or a link
// (Type + Outgoing).
type AtomSpec struct {
	Ref        *AtomID        `json:"ref,omitempty" yaml:"ref,omitempty"`
	Type       string         `json:"type,omitempty" yaml:"type,omitempty"`
	Name       string         `json:"name,omitempty" yaml:"name,omitempty"`
	Outgoing   []AtomSpec     `json:"outgoing,omitempty" yaml:"outgoing,omitempty"`
	TruthValue *TruthValue    `json:"tv,omitempty" yaml:"tv,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// AtomView is a read-only rendering of a stored atom, safe to hand out
// after the store lock is released.
type AtomView struct {
	ID         AtomID         `json:"id"`
	Type       string         `json:"type"`
	Kind       string         `json:"kind"`
	Name       string         `json:"name,omitempty"`
	Outgoing   []AtomID       `json:"outgoing,omitempty"`
	TruthValue TruthValue     `json:"tv"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Text       string         `json:"text"`
}

// NewAtomView renders a. resolve maps a child to the identifier it should be
// reported under; nil keeps the child's own identifier.
func NewAtomView(a Atom, resolve func(Atom) AtomID) AtomView {
	v := AtomView{
		ID:         a.ID(),
		Type:       a.Type().Name(),
		Kind:       a.Type().Kind().String(),
		TruthValue: a.TruthValue(),
		Metadata:   a.MetadataMap(),
		Text:       a.String(),
	}
	switch x := a.(type) {
	case *Node:
		v.Name = x.Name()
	case *Link:
		v.Outgoing = make([]AtomID, 0, x.Arity())
		for _, child := range x.All() {
			if resolve != nil {
				v.Outgoing = append(v.Outgoing, resolve(child))
			} else {
				v.Outgoing = append(v.Outgoing, child.ID())
			}
		}
	}
	return v
}
