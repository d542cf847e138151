package storage

import (
	"context"

	"github.com/xaenox/coach-bot/internal/models"
)

// Storage is the team data layer behind the engine.
type Storage interface {
	LoadSnapshot(ctx context.Context) (*models.TeamSnapshot, error)
	AddPlayer(ctx context.Context, player models.Player) error
	AddTrainingPlan(ctx context.Context, plan models.TrainingPlan) error
	Close() error
}
