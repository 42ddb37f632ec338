package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultSnapshotInterval = 1 * time.Hour

// SnapshotScheduler periodically archives the space while it has changed
// since the last archived snapshot.
type SnapshotScheduler struct {
	knowledge *KnowledgeService
	logger    *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup

	lastSize int
	lastSeen bool
}

func NewSnapshotScheduler(knowledge *KnowledgeService, logger *zap.Logger) *SnapshotScheduler {
	return &SnapshotScheduler{
		knowledge: knowledge,
		logger:    logger,
		interval:  defaultSnapshotInterval,
		stopCh:    make(chan struct{}),
	}
}

func (s *SnapshotScheduler) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// Start runs the scheduler on a periodic schedule in a background goroutine.
func (s *SnapshotScheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("snapshot scheduler started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.run(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("snapshot scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *SnapshotScheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// run archives one snapshot unless the space is empty or its size has not
// moved since the previous run. Truth value updates alone do not trigger a
// new snapshot.
func (s *SnapshotScheduler) run(ctx context.Context) {
	size := s.knowledge.Stats().Total
	if size == 0 || (s.lastSeen && size == s.lastSize) {
		return
	}

	snap, err := s.knowledge.SaveSnapshot(ctx, "scheduled")
	if err != nil {
		s.logger.Error("scheduled snapshot failed", zap.Error(err))
		return
	}
	s.lastSize = size
	s.lastSeen = true
	s.logger.Debug("scheduled snapshot saved", zap.String("snapshot_id", snap.ID.String()))
}
