package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/clipstudio/internal/repository"
)

// HistoryPruneJob removes publish history older than the retention window.
type HistoryPruneJob struct {
	hr        repository.PublishHistoryRepository
	retention time.Duration
	now       func() time.Time
}

func NewHistoryPruneJob(hr repository.PublishHistoryRepository, retentionDays int) *HistoryPruneJob {
	return &HistoryPruneJob{
		hr:        hr,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

func (c *HistoryPruneJob) PruneHistory() {
	if c.retention <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := c.now().Add(-c.retention)
	removed, err := c.hr.RemoveOlderThan(ctx, cutoff)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	slog.Info("publish history pruned", "removed", removed, "before", cutoff.Format(time.RFC3339))
}
