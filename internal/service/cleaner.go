package service

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"reprasp/internal/crash"
	"reprasp/internal/logger"
)

// Purger removes schedule entries that are already in the past.
type Purger interface {
	PurgePast(ctx context.Context) (int64, error)
}

// Cleaner runs PurgePast at start and then every interval.
type Cleaner struct {
	purger   Purger
	interval time.Duration
	cron     *cron.Cron

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewCleaner(purger Purger, interval time.Duration) *Cleaner {
	return &Cleaner{
		purger:   purger,
		interval: interval,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start performs one sweep synchronously and schedules the periodic job.
func (c *Cleaner) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	c.Sweep(ctx)

	c.cron.Schedule(cron.Every(c.interval), cron.FuncJob(func() {
		c.Sweep(ctx)
	}))
	c.cron.Start()
	logger.Infof("Schedule cleanup running every %v", c.interval)
}

// Sweep purges past entries once. Failures are logged.
func (c *Cleaner) Sweep(ctx context.Context) {
	var purged int64
	err := crash.Guard("schedule-cleanup", func() error {
		var err error
		purged, err = c.purger.PurgePast(ctx)
		return err
	})
	if err != nil {
		if ctx.Err() == nil {
			logger.Errorf("Schedule cleanup failed: %v", err)
		}
		return
	}
	if purged > 0 {
		logger.Infof("Schedule cleanup removed %d past entries", purged)
	}
}

// Stop cancels future sweeps and waits for a running one to finish.
func (c *Cleaner) Stop() {
	<-c.cron.Stop().Done()
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
}
