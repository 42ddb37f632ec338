package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Harshitk-cp/atomspace/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SnapshotStore struct {
	db *pgxpool.Pool
}

func NewSnapshotStore(db *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) Create(ctx context.Context, snap *domain.ArchivedSnapshot) error {
	if snap.Snapshot == nil {
		return &domain.ValidationError{Field: "snapshot", Reason: "snapshot payload is required"}
	}
	payload, err := json.Marshal(snap.Snapshot)
	if err != nil {
		return err
	}
	snap.NodeCount = len(snap.Snapshot.Nodes)
	snap.LinkCount = len(snap.Snapshot.Links)

	return s.db.QueryRow(ctx,
		`INSERT INTO atomspace_snapshots (label, node_count, link_count, payload)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		snap.Label, snap.NodeCount, snap.LinkCount, payload,
	).Scan(&snap.ID, &snap.CreatedAt)
}

func (s *SnapshotStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ArchivedSnapshot, error) {
	snap := &domain.ArchivedSnapshot{}
	var payload []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, label, node_count, link_count, payload, created_at
		 FROM atomspace_snapshots WHERE id = $1`,
		id,
	).Scan(&snap.ID, &snap.Label, &snap.NodeCount, &snap.LinkCount, &payload, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	snap.Snapshot = &domain.Snapshot{}
	if err := json.Unmarshal(payload, snap.Snapshot); err != nil {
		return nil, err
	}
	return snap, nil
}

// List returns archived snapshot headers, newest first, without payloads.
func (s *SnapshotStore) List(ctx context.Context, limit int) ([]domain.ArchivedSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, label, node_count, link_count, created_at
		 FROM atomspace_snapshots
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []domain.ArchivedSnapshot
	for rows.Next() {
		var snap domain.ArchivedSnapshot
		if err := rows.Scan(&snap.ID, &snap.Label, &snap.NodeCount, &snap.LinkCount, &snap.CreatedAt); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
