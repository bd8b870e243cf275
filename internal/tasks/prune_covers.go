package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// CoverPruner removes stale cached covers.
type CoverPruner interface {
	Prune(maxAge time.Duration) (int, error)
}

// PruneCoversTask deletes cached covers older than MaxAge.
type PruneCoversTask struct {
	MaxAge time.Duration `json:"max_age"`
}

// Config returns the queue configuration for cover pruning tasks.
func (t PruneCoversTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_covers",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PruneCoversProcessor creates a processor function for PruneCoversTask.
func PruneCoversProcessor(pruner CoverPruner, logger *zap.Logger) backlite.QueueProcessor[PruneCoversTask] {
	return func(ctx context.Context, task PruneCoversTask) error {
		if pruner == nil {
			return fmt.Errorf("cover cache not configured")
		}

		removed, err := pruner.Prune(task.MaxAge)
		if err != nil {
			return fmt.Errorf("prune covers: %w", err)
		}

		logger.Info("Pruned cached covers", zap.Int("removed", removed), zap.Duration("max_age", task.MaxAge))
		return nil
	}
}

// NewPruneCoversQueue creates a backlite queue for cover pruning tasks.
func NewPruneCoversQueue(pruner CoverPruner, logger *zap.Logger) backlite.Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return backlite.NewQueue(PruneCoversProcessor(pruner, logger))
}
