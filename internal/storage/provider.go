package storage

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xaenox/coach-bot/internal/models"
	"github.com/xaenox/coach-bot/internal/schedule"
	"go.uber.org/zap"
)

// Provider holds the snapshot the engine reads. Until the first successful
// load, and whenever loading fails, it serves the last good snapshot or the
// fallback one.
type Provider struct {
	store   Storage
	current atomic.Pointer[models.TeamSnapshot]
	loaded  atomic.Bool
	logger  *zap.Logger

	// mu orders refreshes and writes so a refresh cannot overwrite a newer
	// mutation.
	mu sync.Mutex
}

func NewProvider(store Storage, fallback *models.TeamSnapshot, logger *zap.Logger) *Provider {
	if fallback == nil {
		fallback = &models.TeamSnapshot{}
	}
	p := &Provider{store: store, logger: logger}
	p.current.Store(fallback)
	return p
}

func (p *Provider) Current() *models.TeamSnapshot {
	return p.current.Load()
}

// Loaded reports whether a snapshot has been loaded from storage yet.
func (p *Provider) Loaded() bool {
	return p.loaded.Load()
}

func (p *Provider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap, err := p.store.LoadSnapshot(ctx)
	if err != nil {
		p.logger.Warn("Failed to refresh team data, keeping previous snapshot", zap.Error(err))
		return fmt.Errorf("load snapshot: %w", err)
	}
	p.current.Store(snap)
	p.loaded.Store(true)
	return nil
}

// Apply persists m and then swaps in the resulting snapshot. On error the
// current snapshot is left as it was.
func (p *Provider) Apply(ctx context.Context, m *models.Mutation) error {
	if m == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if m.AddPlayer != nil {
		if err := p.store.AddPlayer(ctx, *m.AddPlayer); err != nil {
			return fmt.Errorf("add player: %w", err)
		}
	}
	if m.AddTrainingPlan != nil {
		if err := p.store.AddTrainingPlan(ctx, *m.AddTrainingPlan); err != nil {
			return fmt.Errorf("add training plan: %w", err)
		}
	}
	p.current.Store(p.current.Load().Apply(m))
	return nil
}

// StartRefresh reloads the snapshot every period. Each load is bounded by
// timeout.
func (p *Provider) StartRefresh(s schedule.Scheduler, period, timeout time.Duration) (stop func()) {
	return s.Every(period, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = p.Refresh(ctx)
	})
}
