package scheduler

import (
	"context"
	"time"

	"jobtracker/internal/logging"
)

type Task func(ctx context.Context) error

// Every runs task once right away and then on each tick until ctx ends.
// Runs never overlap; a failed run is logged and the next tick proceeds.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	log := logging.New("scheduler").With("task", name)

	run := func() {
		if err := task(ctx); err != nil {
			log.Warn("task failed", "err", err)
		}
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
