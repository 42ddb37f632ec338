package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harshitk-cp/atomspace/internal/domain"
	"github.com/Harshitk-cp/atomspace/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSnapshotStore mocks the SnapshotStore interface.
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Create(ctx context.Context, s *domain.ArchivedSnapshot) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil {
		s.ID = uuid.New()
		s.NodeCount = len(s.Snapshot.Nodes)
		s.LinkCount = len(s.Snapshot.Links)
		s.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockSnapshotStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ArchivedSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArchivedSnapshot), args.Error(1)
}

func (m *MockSnapshotStore) List(ctx context.Context, limit int) ([]domain.ArchivedSnapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ArchivedSnapshot), args.Error(1)
}

func newTestKnowledgeService(snapshots domain.SnapshotStore) *KnowledgeService {
	return NewKnowledgeService(store.NewAtomSpace(), snapshots, zap.NewNop())
}

func conceptSpec(name string) domain.AtomSpec {
	return domain.AtomSpec{Type: "ConceptNode", Name: name}
}

func variableSpec(name string) domain.AtomSpec {
	return domain.AtomSpec{Type: "VariableNode", Name: name}
}

func inheritanceSpec(child, parent domain.AtomSpec) domain.AtomSpec {
	return domain.AtomSpec{Type: "InheritanceLink", Outgoing: []domain.AtomSpec{child, parent}}
}

func tvPtr(s, c float64) *domain.TruthValue {
	return &domain.TruthValue{Strength: s, Confidence: c}
}

func TestKnowledgeService_AddNodeMerges(t *testing.T) {
	svc := newTestKnowledgeService(nil)

	first, err := svc.Add(domain.AtomSpec{Type: "ConceptNode", Name: "Cat", TruthValue: tvPtr(0.8, 0.7)})
	require.NoError(t, err)
	assert.False(t, first.Merged)

	second, err := svc.Add(domain.AtomSpec{Type: "ConceptNode", Name: "Cat", TruthValue: tvPtr(0.6, 0.8)})
	require.NoError(t, err)
	assert.True(t, second.Merged)
	assert.Equal(t, first.Atom.ID, second.Atom.ID)

	want := domain.TruthValue{Strength: 0.8, Confidence: 0.7}.Revision(domain.TruthValue{Strength: 0.6, Confidence: 0.8})
	assert.True(t, second.Atom.TruthValue.Equal(want))
	assert.Equal(t, 1, svc.Stats().Total)
}

func TestKnowledgeService_AddLinkStoresChildren(t *testing.T) {
	svc := newTestKnowledgeService(nil)
	cat, err := svc.Add(domain.AtomSpec{Type: "ConceptNode", Name: "Cat", TruthValue: tvPtr(0.5, 0.5)})
	require.NoError(t, err)

	res, err := svc.Add(inheritanceSpec(conceptSpec("Cat"), conceptSpec("Animal")))
	require.NoError(t, err)
	assert.Equal(t, "link", res.Atom.Kind)

	stats := svc.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Nodes)

	// mentioning Cat inside the link does not revise it
	got, err := svc.Get(cat.Atom.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TruthValue{Strength: 0.5, Confidence: 0.5}, got.TruthValue)

	animal, err := svc.GetNode("ConceptNode", "Animal")
	require.NoError(t, err)
	assert.Equal(t, []domain.AtomID{cat.Atom.ID, animal.ID}, res.Atom.Outgoing)

	incoming, err := svc.Incoming(animal.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, res.Atom.ID, incoming[0].ID)
}

func TestKnowledgeService_AddByReference(t *testing.T) {
	svc := newTestKnowledgeService(nil)
	cat, err := svc.Add(conceptSpec("Cat"))
	require.NoError(t, err)
	animal, err := svc.Add(conceptSpec("Animal"))
	require.NoError(t, err)

	catID, animalID := cat.Atom.ID, animal.Atom.ID
	res, err := svc.Add(inheritanceSpec(domain.AtomSpec{Ref: &catID}, domain.AtomSpec{Ref: &animalID}))
	require.NoError(t, err)
	assert.Equal(t, []domain.AtomID{catID, animalID}, res.Atom.Outgoing)

	missing := domain.AtomID(999)
	_, err = svc.Add(inheritanceSpec(domain.AtomSpec{Ref: &missing}, conceptSpec("Animal")))
	assert.ErrorIs(t, err, ErrAtomNotFound)

	_, err = svc.Add(domain.AtomSpec{Ref: &catID})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestKnowledgeService_AddValidation(t *testing.T) {
	svc := newTestKnowledgeService(nil)

	tests := []struct {
		name string
		spec domain.AtomSpec
	}{
		{"missing type", domain.AtomSpec{Name: "Cat"}},
		{"unknown type", domain.AtomSpec{Type: "NopeNode", Name: "Cat"}},
		{"bad truth value", domain.AtomSpec{Type: "ConceptNode", Name: "Cat", TruthValue: tvPtr(1.5, 0.5)}},
		{"zero arity link", domain.AtomSpec{Type: "ListLink"}},
		{"node with children", domain.AtomSpec{Type: "ConceptNode", Name: "Cat", Outgoing: []domain.AtomSpec{conceptSpec("Dog")}}},
		{"bad nested child", domain.AtomSpec{Type: "ListLink", Outgoing: []domain.AtomSpec{conceptSpec("Dog"), {Type: "Bogus"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(tt.spec)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Equal(t, 0, svc.Stats().Total, "failed adds leave the space untouched")
}

func TestKnowledgeService_GetDeleteClear(t *testing.T) {
	svc := newTestKnowledgeService(nil)
	res, err := svc.Add(inheritanceSpec(conceptSpec("Cat"), conceptSpec("Animal")))
	require.NoError(t, err)

	_, err = svc.Get(12345)
	assert.ErrorIs(t, err, ErrAtomNotFound)
	_, err = svc.GetNode("ConceptNode", "Unicorn")
	assert.ErrorIs(t, err, ErrAtomNotFound)
	_, err = svc.Incoming(12345)
	assert.ErrorIs(t, err, ErrAtomNotFound)

	require.NoError(t, svc.Delete(res.Atom.ID))
	assert.ErrorIs(t, svc.Delete(res.Atom.ID), ErrAtomNotFound)
	assert.Equal(t, 2, svc.Stats().Total)

	svc.Clear()
	assert.Equal(t, 0, svc.Stats().Total)
	assert.Empty(t, svc.Export().Nodes)
}

func TestKnowledgeService_ListByType(t *testing.T) {
	svc := newTestKnowledgeService(nil)
	for _, name := range []string{"Cat", "Dog"} {
		_, err := svc.Add(conceptSpec(name))
		require.NoError(t, err)
	}

	atoms, err := svc.ListByType("ConceptNode")
	require.NoError(t, err)
	require.Len(t, atoms, 2)
	assert.Equal(t, "Cat", atoms[0].Name)
	assert.Equal(t, "Dog", atoms[1].Name)

	_, err = svc.ListByType("NopeNode")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestKnowledgeService_SetTruthValue(t *testing.T) {
	svc := newTestKnowledgeService(nil)
	res, err := svc.Add(conceptSpec("Cat"))
	require.NoError(t, err)

	updated, err := svc.SetTruthValue(res.Atom.ID, domain.TruthValue{Strength: 0.2, Confidence: 0.1})
	require.NoError(t, err)
	assert.Equal(t, domain.TruthValue{Strength: 0.2, Confidence: 0.1}, updated.TruthValue)

	_, err = svc.SetTruthValue(res.Atom.ID, domain.TruthValue{Strength: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.SetTruthValue(999, domain.TruthValue{})
	assert.ErrorIs(t, err, ErrAtomNotFound)
}

func TestKnowledgeService_Match(t *testing.T) {
	svc := newTestKnowledgeService(nil)
	for _, name := range []string{"Cat", "Dog"} {
		_, err := svc.Add(inheritanceSpec(conceptSpec(name), conceptSpec("Animal")))
		require.NoError(t, err)
	}
	sizeBefore := svc.Stats().Total

	results, err := svc.Match(inheritanceSpec(variableSpec("$x"), conceptSpec("Animal")))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Cat", results[0]["$x"].Name)
	assert.Equal(t, "Dog", results[1]["$x"].Name)
	assert.Equal(t, sizeBefore, svc.Stats().Total, "matching does not store the template")

	none, err := svc.Match(inheritanceSpec(variableSpec("$x"), conceptSpec("Plant")))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.Match(domain.AtomSpec{Type: "Bogus"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestKnowledgeService_Query(t *testing.T) {
	svc := newTestKnowledgeService(nil)
	_, err := svc.Add(domain.AtomSpec{Type: "ConceptNode", Name: "Cat", TruthValue: tvPtr(0.9, 0.9)})
	require.NoError(t, err)
	_, err = svc.Add(domain.AtomSpec{Type: "ConceptNode", Name: "Dog", TruthValue: tvPtr(0.2, 0.9)})
	require.NoError(t, err)
	for _, name := range []string{"Cat", "Dog"} {
		_, err := svc.Add(inheritanceSpec(conceptSpec(name), conceptSpec("Animal")))
		require.NoError(t, err)
	}

	minStrength := 0.5
	results, err := svc.Query(QueryRequest{
		Pattern:     inheritanceSpec(variableSpec("$x"), conceptSpec("Animal")),
		Constraints: []BindingConstraint{{Variable: "$x", Type: "ConceptNode", MinStrength: &minStrength}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Cat", results[0]["$x"].Name)

	_, err = svc.Query(QueryRequest{Pattern: conceptSpec("Cat"), Limit: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Query(QueryRequest{Pattern: conceptSpec("Cat"), Constraints: []BindingConstraint{{Type: "ConceptNode"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestKnowledgeService_RegisterType(t *testing.T) {
	svc := newTestKnowledgeService(nil)

	typ, err := svc.RegisterType("KnowledgeTestMemberLink", "Link")
	require.NoError(t, err)
	assert.True(t, typ.IsLink())

	res, err := svc.Add(domain.AtomSpec{Type: "KnowledgeTestMemberLink", Outgoing: []domain.AtomSpec{conceptSpec("Cat"), conceptSpec("Pets")}})
	require.NoError(t, err)
	assert.Equal(t, "KnowledgeTestMemberLink", res.Atom.Type)

	results, err := svc.Match(domain.AtomSpec{Type: "KnowledgeTestMemberLink", Outgoing: []domain.AtomSpec{variableSpec("$m"), conceptSpec("Pets")}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	_, err = svc.RegisterType("Other", "NoSuchParent")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestKnowledgeService_SnapshotsDisabled(t *testing.T) {
	svc := newTestKnowledgeService(nil)
	ctx := context.Background()

	_, err := svc.SaveSnapshot(ctx, "x")
	assert.ErrorIs(t, err, ErrSnapshotsDisabled)
	_, err = svc.GetSnapshot(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSnapshotsDisabled)
	_, err = svc.ListSnapshots(ctx, 10)
	assert.ErrorIs(t, err, ErrSnapshotsDisabled)
}

func TestKnowledgeService_SaveSnapshot(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	svc := newTestKnowledgeService(snapshots)
	ctx := context.Background()
	_, err := svc.Add(inheritanceSpec(conceptSpec("Cat"), conceptSpec("Animal")))
	require.NoError(t, err)

	snapshots.On("Create", ctx, mock.MatchedBy(func(s *domain.ArchivedSnapshot) bool {
		return s.Label == "nightly" && len(s.Snapshot.Nodes) == 2 && len(s.Snapshot.Links) == 1
	})).Return(nil)

	archived, err := svc.SaveSnapshot(ctx, "nightly")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, archived.ID)
	assert.Equal(t, 2, archived.NodeCount)
	assert.Equal(t, 1, archived.LinkCount)
	snapshots.AssertExpectations(t)
}

func TestKnowledgeService_GetSnapshot(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	svc := newTestKnowledgeService(snapshots)
	ctx := context.Background()
	found := uuid.New()
	missing := uuid.New()

	snapshots.On("GetByID", ctx, found).Return(&domain.ArchivedSnapshot{ID: found, Label: "a"}, nil)
	snapshots.On("GetByID", ctx, missing).Return(nil, store.ErrNotFound)
	snapshots.On("List", ctx, 5).Return([]domain.ArchivedSnapshot{{ID: found}}, nil)

	snap, err := svc.GetSnapshot(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, "a", snap.Label)

	_, err = svc.GetSnapshot(ctx, missing)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	list, err := svc.ListSnapshots(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	snapshots.AssertExpectations(t)
}

func TestKnowledgeService_SaveSnapshotError(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	svc := newTestKnowledgeService(snapshots)
	ctx := context.Background()
	boom := errors.New("db down")

	snapshots.On("Create", ctx, mock.Anything).Return(boom)

	_, err := svc.SaveSnapshot(ctx, "x")
	assert.ErrorIs(t, err, boom)
}
