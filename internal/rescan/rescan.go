package rescan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-co-op/gocron/v2"
)

// Rebuilder re-reads the vault.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// RescanScheduler rebuilds the vault index on a cron schedule and whenever
// asked to, then runs onRescan so cached pages can be dropped.
type RescanScheduler struct {
	s        gocron.Scheduler
	index    Rebuilder
	onRescan func()
	mu       sync.Mutex
}

// NewRescanScheduler starts the scheduler. An empty cron expression
// disables the periodic job; Rescan still works.
func NewRescanScheduler(index Rebuilder, cron string, onRescan func()) (*RescanScheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create new scheduler: %w", err)
	}

	rs := &RescanScheduler{s: s, index: index, onRescan: onRescan}

	if cron != "" {
		_, err = rs.s.NewJob(gocron.CronJob(cron, false), gocron.NewTask(func(rs *RescanScheduler) {
			if err := rs.Rescan(context.Background()); err != nil {
				slog.Error("failed to execute vault rescan cron job", slog.String("error", err.Error()))
			}
		}, rs))
		if err != nil {
			_ = s.Shutdown()
			return nil, fmt.Errorf("failed to schedule rescan job with '%s': %w", cron, err)
		}
	}

	rs.s.Start()
	return rs, nil
}

// Rescan rebuilds the index now. Concurrent calls run one after another.
func (rs *RescanScheduler) Rescan(ctx context.Context) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if err := rs.index.Rebuild(ctx); err != nil {
		return fmt.Errorf("failed to rebuild vault index: %w", err)
	}
	if rs.onRescan != nil {
		rs.onRescan()
	}
	slog.Debug("vault rescanned")
	return nil
}

func (rs *RescanScheduler) Close() error {
	return rs.s.Shutdown()
}
