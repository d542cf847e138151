package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/coach-bot/internal/models"
	"github.com/xaenox/coach-bot/internal/schedule"
	"go.uber.org/zap"
)

type flakyStorage struct {
	*MemoryStorage
	loadErr  error
	writeErr error
	loads    int
}

func (s *flakyStorage) LoadSnapshot(ctx context.Context) (*models.TeamSnapshot, error) {
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.MemoryStorage.LoadSnapshot(ctx)
}

func (s *flakyStorage) AddPlayer(ctx context.Context, p models.Player) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	return s.MemoryStorage.AddPlayer(ctx, p)
}

func TestMemoryStorageCopyOnWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage(DemoSnapshot(time.Now()))

	before, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, before.Players, 5)

	require.NoError(t, store.AddPlayer(ctx, models.Player{ID: "p9", Name: "John Doe"}))
	require.NoError(t, store.AddTrainingPlan(ctx, models.TrainingPlan{ID: "t1", Name: "Recovery"}))

	after, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, after.Players, 6)
	assert.Len(t, after.TrainingPlans, 1)

	// Snapshots handed out earlier are unchanged.
	assert.Len(t, before.Players, 5)
	assert.Empty(t, before.TrainingPlans)
	assert.NoError(t, store.Close())
}

func TestProviderServesFallbackUntilLoaded(t *testing.T) {
	store := &flakyStorage{MemoryStorage: NewMemoryStorage(DemoSnapshot(time.Now()))}
	fallback := DefaultSnapshot("FC Default", "")
	p := NewProvider(store, fallback, zap.NewNop())

	assert.False(t, p.Loaded())
	assert.Same(t, fallback, p.Current())
	assert.Equal(t, "football", p.Current().Sport)
	assert.Empty(t, p.Current().Players)

	require.NoError(t, p.Refresh(context.Background()))
	assert.True(t, p.Loaded())
	assert.Equal(t, "FC Riverside", p.Current().TeamName)
}

func TestProviderRefreshFailureKeepsLastSnapshot(t *testing.T) {
	store := &flakyStorage{MemoryStorage: NewMemoryStorage(DemoSnapshot(time.Now()))}
	p := NewProvider(store, nil, zap.NewNop())
	require.NoError(t, p.Refresh(context.Background()))
	good := p.Current()

	store.loadErr = errors.New("connection refused")
	err := p.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.loadErr)
	assert.Same(t, good, p.Current())
}

func TestProviderApply(t *testing.T) {
	ctx := context.Background()
	store := &flakyStorage{MemoryStorage: NewMemoryStorage(DemoSnapshot(time.Now()))}
	p := NewProvider(store, nil, zap.NewNop())
	require.NoError(t, p.Refresh(ctx))
	old := p.Current()

	player := models.Player{ID: "p9", Name: "John Doe"}
	require.NoError(t, p.Apply(ctx, &models.Mutation{AddPlayer: &player}))

	assert.Len(t, p.Current().Players, 6)
	assert.Len(t, old.Players, 5)

	stored, err := store.MemoryStorage.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, stored.Players, 6)

	assert.NoError(t, p.Apply(ctx, nil))
	assert.Len(t, p.Current().Players, 6)
}

func TestProviderApplyFailureLeavesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := &flakyStorage{MemoryStorage: NewMemoryStorage(DemoSnapshot(time.Now())), writeErr: errors.New("disk full")}
	p := NewProvider(store, nil, zap.NewNop())
	require.NoError(t, p.Refresh(ctx))
	before := p.Current()

	player := models.Player{ID: "p9", Name: "John Doe"}
	err := p.Apply(ctx, &models.Mutation{AddPlayer: &player})
	require.Error(t, err)
	assert.Same(t, before, p.Current())
}

func TestProviderStartRefresh(t *testing.T) {
	store := &flakyStorage{MemoryStorage: NewMemoryStorage(DemoSnapshot(time.Now()))}
	p := NewProvider(store, nil, zap.NewNop())
	sched := schedule.NewManual()

	stop := p.StartRefresh(sched, time.Minute, time.Second)
	sched.Advance(3 * time.Minute)
	assert.Equal(t, 3, store.loads)
	assert.True(t, p.Loaded())

	stop()
	sched.Advance(time.Minute)
	assert.Equal(t, 3, store.loads)
}

func TestDemoSnapshotNextMatch(t *testing.T) {
	now := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	snap := DemoSnapshot(now)

	next, ok := snap.NextMatch(now)
	require.True(t, ok)
	assert.Equal(t, "City Rovers", next.Opponent)

	pred, ok := snap.PredictionFor("city rovers")
	require.True(t, ok)
	assert.LessOrEqual(t, pred.WinProbability+pred.DrawProbability+pred.LossProbability, 100.0)
}

func TestRedisCacheUnreachable(t *testing.T) {
	_, err := NewRedisCache(NewMemoryStorage(nil), RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, err)
}
