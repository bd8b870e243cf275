package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// CoverFetcher downloads a cover into the local cache.
type CoverFetcher interface {
	Warm(ctx context.Context, coverID int) error
}

// WarmCoverTask downloads the cover images of a newly added favorite.
type WarmCoverTask struct {
	CoverID int `json:"cover_id"`
}

// Config returns the queue configuration for cover warm-up tasks.
func (t WarmCoverTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_cover",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// WarmCoverProcessor creates a processor function for WarmCoverTask.
func WarmCoverProcessor(fetcher CoverFetcher, logger *zap.Logger) backlite.QueueProcessor[WarmCoverTask] {
	return func(ctx context.Context, task WarmCoverTask) error {
		if fetcher == nil {
			return fmt.Errorf("cover cache not configured")
		}
		if err := fetcher.Warm(ctx, task.CoverID); err != nil {
			return fmt.Errorf("warm cover %d: %w", task.CoverID, err)
		}
		logger.Debug("Cover warmed", zap.Int("cover_id", task.CoverID))
		return nil
	}
}

// NewWarmCoverQueue creates a backlite queue for cover warm-up tasks.
func NewWarmCoverQueue(fetcher CoverFetcher, logger *zap.Logger) backlite.Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return backlite.NewQueue(WarmCoverProcessor(fetcher, logger))
}

// CoverWarmer enqueues a WarmCoverTask for every cover it is given.
type CoverWarmer struct {
	client *Client
	logger *zap.Logger
}

func NewCoverWarmer(client *Client, logger *zap.Logger) *CoverWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoverWarmer{client: client, logger: logger}
}

// WarmCover enqueues the download. Enqueue failures are only logged.
func (w *CoverWarmer) WarmCover(coverID int) {
	if _, err := w.client.Add(WarmCoverTask{CoverID: coverID}).Save(); err != nil {
		w.logger.Warn("Failed to enqueue cover warm-up", zap.Int("cover_id", coverID), zap.Error(err))
	}
}
