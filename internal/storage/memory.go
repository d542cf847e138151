package storage

import (
	"context"
	"sync"

	"github.com/xaenox/coach-bot/internal/models"
)

// MemoryStorage keeps the snapshot in process. Writes replace the snapshot
// pointer, so snapshots handed out earlier never change.
type MemoryStorage struct {
	mu       sync.RWMutex
	snapshot *models.TeamSnapshot
}

func NewMemoryStorage(seed *models.TeamSnapshot) *MemoryStorage {
	if seed == nil {
		seed = &models.TeamSnapshot{}
	}
	return &MemoryStorage{snapshot: seed}
}

func (s *MemoryStorage) LoadSnapshot(ctx context.Context) (*models.TeamSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, nil
}

func (s *MemoryStorage) AddPlayer(ctx context.Context, player models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = s.snapshot.WithPlayer(player)
	return nil
}

func (s *MemoryStorage) AddTrainingPlan(ctx context.Context, plan models.TrainingPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = s.snapshot.WithTrainingPlan(plan)
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
