package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher reloads cached data.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Warmer refreshes the candidate pool cache on a cron schedule.
type Warmer struct {
	cron    *cron.Cron
	target  Refresher
	spec    string
	timeout time.Duration
	log     *zap.Logger
}

// NewWarmer schedules target.Refresh on spec, e.g. "@every 5m" or "*/10 * * * *".
// Each run is bounded by timeout.
func NewWarmer(target Refresher, spec string, timeout time.Duration, log *zap.Logger) (*Warmer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Warmer{
		cron:    cron.New(),
		target:  target,
		spec:    spec,
		timeout: timeout,
		log:     log,
	}
	if _, err := w.cron.AddFunc(spec, w.run); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return w, nil
}

// Start runs one refresh immediately in the background and starts the schedule.
func (w *Warmer) Start() {
	w.cron.Start()
	go w.run()
	w.log.Info("pool cache warmer started", zap.String("schedule", w.spec))
}

// Stop stops the schedule and waits for a running refresh to finish or ctx to end.
func (w *Warmer) Stop(ctx context.Context) {
	done := w.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	w.log.Info("pool cache warmer stopped")
}

// run logs a failed refresh and leaves the next tick to retry.
func (w *Warmer) run() {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := w.target.Refresh(ctx); err != nil {
		w.log.Warn("pool cache refresh failed", zap.Error(err))
		return
	}
	w.log.Debug("pool cache refresh complete", zap.Duration("duration", time.Since(start)))
}
