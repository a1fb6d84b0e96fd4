package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RunRetention prunes the store on the configured schedule. It blocks until
// ctx is done. With no schedule or no bounds configured it just waits.
func (c *Client) RunRetention(ctx context.Context) error {
	cfg := c.cfg.Store
	if cfg.PruneSchedule == "" || (cfg.RetentionDays <= 0 && cfg.MaxPerDialog <= 0) {
		<-ctx.Done()
		return ctx.Err()
	}

	st, err := c.store()
	if err != nil {
		return err
	}

	var maxAge time.Duration
	if cfg.RetentionDays > 0 {
		maxAge = time.Duration(cfg.RetentionDays) * 24 * time.Hour
	}

	sched := cron.New()
	_, err = sched.AddFunc(cfg.PruneSchedule, func() {
		if dropped := st.Prune(maxAge, cfg.MaxPerDialog); dropped > 0 {
			slog.Info("store: pruned messages", "dropped", dropped)
		}
		if err := st.Flush(); err != nil {
			slog.Warn("store: flush after prune", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("telegram: retention schedule %q: %w", cfg.PruneSchedule, err)
	}

	sched.Start()
	slog.Info("telegram: retention scheduled", "schedule", cfg.PruneSchedule)
	<-ctx.Done()
	<-sched.Stop().Done()
	return ctx.Err()
}
