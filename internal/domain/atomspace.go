package domain

import (
	"context"

	"github.com/google/uuid"
)

// AtomIndex is the read side of an AtomSpace used by the pattern matcher.
type AtomIndex interface {
	Find(a Atom) (Atom, bool)
	LookupNode(t AtomType, name string) (*Node, bool)
	AtomsOfType(t AtomType) []Atom
	All() []Atom
}

// AtomStore is the full AtomSpace contract.
type AtomStore interface {
	AtomIndex
	Insert(a Atom) (Atom, error)
	LookupByID(id AtomID) (Atom, bool)
	IncidenceOf(a Atom) []*Link
	Remove(a Atom) bool
	Clear()
	Size() int
	Contains(a Atom) bool
	Statistics() Statistics
	Export() Snapshot
}

// SnapshotStore archives exported snapshots. Archived snapshots are never
// loaded back into an AtomSpace.
type SnapshotStore interface {
	Create(ctx context.Context, s *ArchivedSnapshot) error
	GetByID(ctx context.Context, id uuid.UUID) (*ArchivedSnapshot, error)
	List(ctx context.Context, limit int) ([]ArchivedSnapshot, error)
}
