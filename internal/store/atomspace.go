package store

import (
	"slices"

	"github.com/Harshitk-cp/atomspace/internal/domain"
	"go.uber.org/zap"
)

// AtomSpace is the in-memory hypergraph store. It keeps four synchronized
// indexes (identifier, type, node name, incidence) plus a structural-key
// index used for duplicate detection.
//
// AtomSpace is not safe for concurrent use; service.KnowledgeService puts a
// lock in front of it.
type AtomSpace struct {
	ids    *domain.Sequence
	logger *zap.Logger

	byID      map[domain.AtomID]domain.Atom
	byKey     map[string]domain.Atom
	byType    map[domain.AtomType][]domain.Atom
	byName    map[domain.AtomType]map[string]*domain.Node
	incidence map[string][]*domain.Link
	order     []domain.Atom
}

type AtomSpaceOption func(*AtomSpace)

func WithLogger(logger *zap.Logger) AtomSpaceOption {
	return func(s *AtomSpace) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewAtomSpace(opts ...AtomSpaceOption) *AtomSpace {
	s := &AtomSpace{
		ids:    domain.NewSequence(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *AtomSpace) reset() {
	s.byID = make(map[domain.AtomID]domain.Atom)
	s.byKey = make(map[string]domain.Atom)
	s.byType = make(map[domain.AtomType][]domain.Atom)
	s.byName = make(map[domain.AtomType]map[string]*domain.Node)
	s.incidence = make(map[string][]*domain.Link)
	s.order = nil
}

// IDs is the identifier source owned by this space.
func (s *AtomSpace) IDs() domain.IDSource {
	return s.ids
}

// NewNode builds a node with an identifier from this space. It does not insert it.
func (s *AtomSpace) NewNode(t domain.AtomType, name string, opts ...domain.AtomOption) (*domain.Node, error) {
	return domain.NewNode(s.ids, t, name, opts...)
}

// NewLink builds a link with an identifier from this space. It does not insert it.
func (s *AtomSpace) NewLink(t domain.AtomType, outgoing []domain.Atom, opts ...domain.AtomOption) (*domain.Link, error) {
	return domain.NewLink(s.ids, t, outgoing, opts...)
}

// Insert adds a to the space. When an equal atom is already stored, its
// truth value is revised with a's and the stored atom is returned instead.
// A new atom whose identifier is already held here is given a fresh one.
func (s *AtomSpace) Insert(a domain.Atom) (domain.Atom, error) {
	if domain.IsNil(a) {
		return nil, &domain.ValidationError{Field: "atom", Reason: "atom is required"}
	}

	if existing, ok := s.byKey[a.Key()]; ok {
		if !existing.Equal(a) {
			return nil, &domain.ValidationError{
				Field:  "atom",
				Reason: "structural key collides with " + existing.String(),
			}
		}
		revised := existing.TruthValue().Revision(a.TruthValue())
		existing.SetTruthValue(revised)
		s.logger.Debug("merged duplicate atom",
			zap.Uint64("atom_id", uint64(existing.ID())),
			zap.Uint64("discarded_id", uint64(a.ID())),
			zap.String("type", existing.Type().Name()),
			zap.Stringer("truth_value", revised))
		return existing, nil
	}

	for {
		if _, taken := s.byID[a.ID()]; !taken {
			break
		}
		previous := a.ID()
		domain.Reassign(a, s.ids)
		s.logger.Debug("reassigned atom identifier",
			zap.Uint64("previous_id", uint64(previous)),
			zap.Uint64("atom_id", uint64(a.ID())))
	}

	s.byID[a.ID()] = a
	s.byKey[a.Key()] = a
	s.byType[a.Type()] = append(s.byType[a.Type()], a)
	s.order = append(s.order, a)

	switch v := a.(type) {
	case *domain.Node:
		names, ok := s.byName[v.Type()]
		if !ok {
			names = make(map[string]*domain.Node)
			s.byName[v.Type()] = names
		}
		names[v.Name()] = v
	case *domain.Link:
		for _, childKey := range distinctChildKeys(v) {
			s.incidence[childKey] = append(s.incidence[childKey], v)
		}
	}

	return a, nil
}

func (s *AtomSpace) LookupByID(id domain.AtomID) (domain.Atom, bool) {
	a, ok := s.byID[id]
	return a, ok
}

func (s *AtomSpace) LookupNode(t domain.AtomType, name string) (*domain.Node, bool) {
	n, ok := s.byName[t][name]
	return n, ok
}

// Find returns the stored atom equal to a.
func (s *AtomSpace) Find(a domain.Atom) (domain.Atom, bool) {
	if domain.IsNil(a) {
		return nil, false
	}
	stored, ok := s.byKey[a.Key()]
	if !ok || !stored.Equal(a) {
		return nil, false
	}
	return stored, true
}

// AtomsOfType returns the atoms of exactly type t in insertion order.
func (s *AtomSpace) AtomsOfType(t domain.AtomType) []domain.Atom {
	return slices.Clone(s.byType[t])
}

// IncidenceOf returns the links whose outgoing set contains a, in insertion order.
func (s *AtomSpace) IncidenceOf(a domain.Atom) []*domain.Link {
	if domain.IsNil(a) {
		return nil
	}
	return slices.Clone(s.incidence[a.Key()])
}

// All returns every atom in insertion order.
func (s *AtomSpace) All() []domain.Atom {
	return slices.Clone(s.order)
}

func (s *AtomSpace) Contains(a domain.Atom) bool {
	_, ok := s.Find(a)
	return ok
}

func (s *AtomSpace) Size() int {
	return len(s.byID)
}

// Remove deletes the stored atom equal to a from every index. Links that
// reference it are left in place and remain its incidence, so an equal atom
// inserted later sees them again.
func (s *AtomSpace) Remove(a domain.Atom) bool {
	stored, ok := s.Find(a)
	if !ok {
		return false
	}

	delete(s.byID, stored.ID())
	delete(s.byKey, stored.Key())
	s.byType[stored.Type()] = removeAtom(s.byType[stored.Type()], stored)
	if len(s.byType[stored.Type()]) == 0 {
		delete(s.byType, stored.Type())
	}
	s.order = removeAtom(s.order, stored)

	switch v := stored.(type) {
	case *domain.Node:
		if names, ok := s.byName[v.Type()]; ok {
			delete(names, v.Name())
			if len(names) == 0 {
				delete(s.byName, v.Type())
			}
		}
	case *domain.Link:
		for _, childKey := range distinctChildKeys(v) {
			bucket := slices.DeleteFunc(s.incidence[childKey], func(l *domain.Link) bool { return l == v })
			if len(bucket) == 0 {
				delete(s.incidence, childKey)
			} else {
				s.incidence[childKey] = bucket
			}
		}
	}

	s.logger.Debug("removed atom",
		zap.Uint64("atom_id", uint64(stored.ID())),
		zap.String("type", stored.Type().Name()))
	return true
}

// Clear empties every index. The identifier sequence keeps counting.
func (s *AtomSpace) Clear() {
	s.reset()
}

// Types returns the types that currently have atoms, in registration order.
func (s *AtomSpace) Types() []domain.AtomType {
	types := make([]domain.AtomType, 0, len(s.byType))
	for t := range s.byType {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

func distinctChildKeys(l *domain.Link) []string {
	keys := make([]string, 0, l.Arity())
	for _, child := range l.All() {
		if !slices.Contains(keys, child.Key()) {
			keys = append(keys, child.Key())
		}
	}
	return keys
}

func removeAtom(atoms []domain.Atom, target domain.Atom) []domain.Atom {
	return slices.DeleteFunc(atoms, func(a domain.Atom) bool { return a == target })
}
