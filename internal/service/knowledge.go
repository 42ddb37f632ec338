package service

import (
	"context"
	"errors"
	"sync"

	"github.com/Harshitk-cp/atomspace/internal/domain"
	"github.com/Harshitk-cp/atomspace/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAtomNotFound      = errors.New("atom not found")
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrSnapshotsDisabled = errors.New("snapshot archive not configured")
	ErrUnknownType       = errors.New("unknown atom type")
)

// AddResult reports the stored atom and whether the insert merged into an
// existing equal atom.
type AddResult struct {
	Atom   domain.AtomView `json:"atom"`
	Merged bool            `json:"merged"`
}

// Grounding is one pattern match result rendered for callers outside the lock.
type Grounding map[string]domain.AtomView

// BindingConstraint is a serializable post-match filter on one variable.
type BindingConstraint struct {
	Variable      string   `json:"variable"`
	Type          string   `json:"type,omitempty"`
	MinStrength   *float64 `json:"min_strength,omitempty"`
	MinConfidence *float64 `json:"min_confidence,omitempty"`
	DistinctFrom  string   `json:"distinct_from,omitempty"`
}

type QueryRequest struct {
	Pattern     domain.AtomSpec     `json:"pattern"`
	Constraints []BindingConstraint `json:"constraints,omitempty"`
	Limit       int                 `json:"limit,omitempty"`
}

// KnowledgeService serializes access to one AtomSpace: writers take the
// lock exclusively, lookups and pattern matches share it.
type KnowledgeService struct {
	mu        sync.RWMutex
	space     *store.AtomSpace
	matcher   *PatternMatcher
	snapshots domain.SnapshotStore
	logger    *zap.Logger
}

// NewKnowledgeService wraps space. snapshots may be nil, which disables the
// snapshot archive.
func NewKnowledgeService(space *store.AtomSpace, snapshots domain.SnapshotStore, logger *zap.Logger, opts ...MatcherOption) *KnowledgeService {
	opts = append([]MatcherOption{WithMatcherLogger(logger)}, opts...)
	return &KnowledgeService{
		space:     space,
		matcher:   NewPatternMatcher(space, opts...),
		snapshots: snapshots,
		logger:    logger,
	}
}

// Add inserts the atom described by spec. Nested child specs are stored
// before their link; a child without an explicit truth value reuses an equal
// stored atom as is, so mentioning an atom never revises it. The whole spec
// is validated before anything is stored.
func (s *KnowledgeService) Add(spec domain.AtomSpec) (*AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if spec.Ref != nil {
		return nil, &domain.ValidationError{Field: "ref", Reason: "cannot add a reference; describe the atom instead"}
	}

	a, err := s.materialize(spec)
	if err != nil {
		atomInsertTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if err := s.commitChildren(a, spec); err != nil {
		atomInsertTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	merged := s.space.Contains(a)
	stored, err := s.space.Insert(a)
	if err != nil {
		atomInsertTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if merged {
		atomInsertTotal.WithLabelValues("merged").Inc()
	} else {
		atomInsertTotal.WithLabelValues("created").Inc()
		s.logger.Debug("atom added",
			zap.Uint64("atom_id", uint64(stored.ID())),
			zap.String("type", stored.Type().Name()))
	}

	return &AddResult{Atom: s.view(stored), Merged: merged}, nil
}

// materialize builds the atom described by spec without storing anything.
func (s *KnowledgeService) materialize(spec domain.AtomSpec) (domain.Atom, error) {
	if spec.Ref != nil {
		a, ok := s.space.LookupByID(*spec.Ref)
		if !ok {
			return nil, ErrAtomNotFound
		}
		return a, nil
	}

	t, err := resolveType(spec.Type)
	if err != nil {
		return nil, err
	}

	var opts []domain.AtomOption
	if spec.TruthValue != nil {
		if err := spec.TruthValue.Validate(); err != nil {
			return nil, err
		}
		opts = append(opts, domain.WithTruthValue(*spec.TruthValue))
	}
	if len(spec.Metadata) > 0 {
		opts = append(opts, domain.WithMetadata(spec.Metadata))
	}

	if t.IsNode() {
		if len(spec.Outgoing) > 0 {
			return nil, &domain.ValidationError{Field: "outgoing", Reason: t.Name() + " cannot have children"}
		}
		return s.space.NewNode(t, spec.Name, opts...)
	}

	children := make([]domain.Atom, 0, len(spec.Outgoing))
	for _, childSpec := range spec.Outgoing {
		child, err := s.materialize(childSpec)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return s.space.NewLink(t, children, opts...)
}

// commitChildren stores the described (non-reference) children of a, depth first.
func (s *KnowledgeService) commitChildren(a domain.Atom, spec domain.AtomSpec) error {
	l, ok := a.(*domain.Link)
	if !ok {
		return nil
	}
	for i, childSpec := range spec.Outgoing {
		if childSpec.Ref != nil {
			continue
		}
		child, err := l.Child(i)
		if err != nil {
			return err
		}
		if err := s.commitChildren(child, childSpec); err != nil {
			return err
		}
		if childSpec.TruthValue == nil && s.space.Contains(child) {
			continue
		}
		if _, err := s.space.Insert(child); err != nil {
			return err
		}
	}
	return nil
}

func (s *KnowledgeService) Get(id domain.AtomID) (*domain.AtomView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.space.LookupByID(id)
	if !ok {
		return nil, ErrAtomNotFound
	}
	v := s.view(a)
	return &v, nil
}

func (s *KnowledgeService) GetNode(typeName, name string) (*domain.AtomView, error) {
	t, err := resolveType(typeName)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.space.LookupNode(t, name)
	if !ok {
		return nil, ErrAtomNotFound
	}
	v := s.view(n)
	return &v, nil
}

func (s *KnowledgeService) ListByType(typeName string) ([]domain.AtomView, error) {
	t, err := resolveType(typeName)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.views(s.space.AtomsOfType(t)), nil
}

// Incoming lists the links whose outgoing set contains the atom with id.
func (s *KnowledgeService) Incoming(id domain.AtomID) ([]domain.AtomView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.space.LookupByID(id)
	if !ok {
		return nil, ErrAtomNotFound
	}
	links := s.space.IncidenceOf(a)
	out := make([]domain.AtomView, len(links))
	for i, l := range links {
		out[i] = s.view(l)
	}
	return out, nil
}

// SetTruthValue overwrites a stored atom's truth value without revision.
func (s *KnowledgeService) SetTruthValue(id domain.AtomID, tv domain.TruthValue) (*domain.AtomView, error) {
	if err := tv.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.space.LookupByID(id)
	if !ok {
		return nil, ErrAtomNotFound
	}
	a.SetTruthValue(tv)
	v := s.view(a)
	return &v, nil
}

func (s *KnowledgeService) Delete(id domain.AtomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.space.LookupByID(id)
	if !ok || !s.space.Remove(a) {
		return ErrAtomNotFound
	}
	atomRemoveTotal.Inc()
	return nil
}

func (s *KnowledgeService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.space.Size()
	s.space.Clear()
	atomRemoveTotal.Add(float64(removed))
	s.logger.Info("atomspace cleared", zap.Int("removed", removed))
}

func (s *KnowledgeService) Stats() domain.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.space.Statistics()
}

func (s *KnowledgeService) Export() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.space.Export()
}

// Match grounds the pattern described by spec.
func (s *KnowledgeService) Match(spec domain.AtomSpec) ([]Grounding, error) {
	return s.Query(QueryRequest{Pattern: spec})
}

// Query grounds req.Pattern and keeps the groundings that satisfy every constraint.
func (s *KnowledgeService) Query(req QueryRequest) ([]Grounding, error) {
	if req.Limit < 0 {
		return nil, &domain.ValidationError{Field: "limit", Reason: "limit must not be negative"}
	}
	filters, err := compileConstraints(req.Constraints)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	template, err := s.buildTemplate(req.Pattern)
	if err != nil {
		return nil, err
	}

	q := NewQuery(s.matcher).Pattern(template).Limit(req.Limit)
	for _, f := range filters {
		q.Where(f)
	}
	results := q.Execute()

	out := make([]Grounding, len(results))
	for i, b := range results {
		g := make(Grounding, len(b))
		for name, a := range b {
			g[name] = s.view(a)
		}
		out[i] = g
	}

	s.logger.Debug("pattern matched",
		zap.String("pattern", template.String()),
		zap.Int("results", len(out)))
	return out, nil
}

// buildTemplate materializes a pattern with a private identifier source so
// queries do not consume identifiers of the space.
func (s *KnowledgeService) buildTemplate(spec domain.AtomSpec) (domain.Atom, error) {
	b := templateBuilder{ids: domain.NewSequence(), space: s.space}
	return b.build(spec)
}

type templateBuilder struct {
	ids   domain.IDSource
	space *store.AtomSpace
}

func (b templateBuilder) build(spec domain.AtomSpec) (domain.Atom, error) {
	if spec.Ref != nil {
		a, ok := b.space.LookupByID(*spec.Ref)
		if !ok {
			return nil, ErrAtomNotFound
		}
		return a, nil
	}
	t, err := resolveType(spec.Type)
	if err != nil {
		return nil, err
	}
	if t.IsNode() {
		if len(spec.Outgoing) > 0 {
			return nil, &domain.ValidationError{Field: "outgoing", Reason: t.Name() + " cannot have children"}
		}
		return domain.NewNode(b.ids, t, spec.Name)
	}
	children := make([]domain.Atom, 0, len(spec.Outgoing))
	for _, childSpec := range spec.Outgoing {
		child, err := b.build(childSpec)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return domain.NewLink(b.ids, t, children)
}

// RegisterType adds a new atom type under the named parent.
func (s *KnowledgeService) RegisterType(name, parent string) (domain.AtomType, error) {
	p, err := resolveType(parent)
	if err != nil {
		return 0, err
	}
	t, err := domain.RegisterType(name, p)
	if err != nil {
		return 0, err
	}
	s.logger.Info("atom type registered",
		zap.String("type", t.Name()),
		zap.String("parent", p.Name()))
	return t, nil
}

// SaveSnapshot exports the space and archives it under label.
func (s *KnowledgeService) SaveSnapshot(ctx context.Context, label string) (*domain.ArchivedSnapshot, error) {
	if s.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	snap := s.Export()
	archived := &domain.ArchivedSnapshot{Label: label, Snapshot: &snap}
	if err := s.snapshots.Create(ctx, archived); err != nil {
		return nil, err
	}
	s.logger.Info("snapshot archived",
		zap.String("snapshot_id", archived.ID.String()),
		zap.Int("nodes", archived.NodeCount),
		zap.Int("links", archived.LinkCount))
	return archived, nil
}

func (s *KnowledgeService) GetSnapshot(ctx context.Context, id uuid.UUID) (*domain.ArchivedSnapshot, error) {
	if s.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	snap, err := s.snapshots.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return snap, nil
}

func (s *KnowledgeService) ListSnapshots(ctx context.Context, limit int) ([]domain.ArchivedSnapshot, error) {
	if s.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	return s.snapshots.List(ctx, limit)
}

func (s *KnowledgeService) view(a domain.Atom) domain.AtomView {
	return domain.NewAtomView(a, s.resolveChild)
}

func (s *KnowledgeService) views(atoms []domain.Atom) []domain.AtomView {
	out := make([]domain.AtomView, len(atoms))
	for i, a := range atoms {
		out[i] = s.view(a)
	}
	return out
}

func (s *KnowledgeService) resolveChild(child domain.Atom) domain.AtomID {
	if stored, ok := s.space.Find(child); ok {
		return stored.ID()
	}
	return child.ID()
}

func resolveType(name string) (domain.AtomType, error) {
	if name == "" {
		return 0, &domain.ValidationError{Field: "type", Reason: "type is required"}
	}
	t, ok := domain.TypeByName(name)
	if !ok {
		return 0, &domain.ValidationError{Field: "type", Reason: "unknown type " + name, Err: ErrUnknownType}
	}
	return t, nil
}

func compileConstraints(constraints []BindingConstraint) ([]BindingFilter, error) {
	var filters []BindingFilter
	for _, c := range constraints {
		if c.Variable == "" {
			return nil, &domain.ValidationError{Field: "constraints.variable", Reason: "variable is required"}
		}
		if c.Type != "" {
			t, err := resolveType(c.Type)
			if err != nil {
				return nil, err
			}
			filters = append(filters, BoundToType(c.Variable, t))
		}
		if c.MinStrength != nil {
			filters = append(filters, MinStrength(c.Variable, *c.MinStrength))
		}
		if c.MinConfidence != nil {
			filters = append(filters, MinConfidence(c.Variable, *c.MinConfidence))
		}
		if c.DistinctFrom != "" {
			filters = append(filters, Distinct(c.Variable, c.DistinctFrom))
		}
	}
	return filters, nil
}
