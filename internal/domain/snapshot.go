package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the structural export of an AtomSpace. Links reference their
// children by identifier; variables get no special treatment.
type Snapshot struct {
	Nodes []NodeRecord `json:"nodes" yaml:"nodes"`
	Links []LinkRecord `json:"links" yaml:"links"`
}

type NodeRecord struct {
	Type       string     `json:"type" yaml:"type"`
	Name       string     `json:"name" yaml:"name"`
	ID         AtomID     `json:"id" yaml:"id"`
	TruthValue TruthValue `json:"truth_value" yaml:"truth_value"`
}

type LinkRecord struct {
	Type       string     `json:"type" yaml:"type"`
	ID         AtomID     `json:"id" yaml:"id"`
	Outgoing   []AtomID   `json:"outgoing" yaml:"outgoing"`
	TruthValue TruthValue `json:"truth_value" yaml:"truth_value"`
}

// Statistics summarizes the contents of an AtomSpace.
type Statistics struct {
	Total  int            `json:"total"`
	Nodes  int            `json:"nodes"`
	Links  int            `json:"links"`
	ByType map[string]int `json:"by_type"`
}

// ArchivedSnapshot is an exported snapshot kept in the snapshot archive.
type ArchivedSnapshot struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	NodeCount int       `json:"node_count"`
	LinkCount int       `json:"link_count"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
