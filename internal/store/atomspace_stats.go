package store

import "github.com/Harshitk-cp/atomspace/internal/domain"

// Statistics counts atoms per type. Node/link classification comes from
// each atom's own kind, so buckets emptied by Remove cannot skew it.
func (s *AtomSpace) Statistics() domain.Statistics {
	stats := domain.Statistics{
		Total:  len(s.byID),
		ByType: make(map[string]int, len(s.byType)),
	}
	for t, atoms := range s.byType {
		stats.ByType[t.Name()] = len(atoms)
		for _, a := range atoms {
			if domain.IsLink(a) {
				stats.Links++
			} else {
				stats.Nodes++
			}
		}
	}
	return stats
}

// Export returns a structural snapshot in insertion order. Children are
// referenced by the identifier of the stored atom equal to them; a child
// with no stored counterpart keeps its own identifier.
func (s *AtomSpace) Export() domain.Snapshot {
	snap := domain.Snapshot{
		Nodes: []domain.NodeRecord{},
		Links: []domain.LinkRecord{},
	}
	for _, a := range s.order {
		switch v := a.(type) {
		case *domain.Node:
			snap.Nodes = append(snap.Nodes, domain.NodeRecord{
				Type:       v.Type().Name(),
				Name:       v.Name(),
				ID:         v.ID(),
				TruthValue: v.TruthValue(),
			})
		case *domain.Link:
			outgoing := make([]domain.AtomID, 0, v.Arity())
			for _, child := range v.All() {
				if stored, ok := s.byKey[child.Key()]; ok {
					outgoing = append(outgoing, stored.ID())
				} else {
					outgoing = append(outgoing, child.ID())
				}
			}
			snap.Links = append(snap.Links, domain.LinkRecord{
				Type:       v.Type().Name(),
				ID:         v.ID(),
				Outgoing:   outgoing,
				TruthValue: v.TruthValue(),
			})
		}
	}
	return snap
}
