// Package scheduler runs monitor cycles on fixed intervals.
//
// All jobs of a runner share one goroutine, so two cycles never overlap and the
// monitor's dedup state needs no coordination beyond that.
package scheduler

import (
	"context"
	"df-boss-monitor/internal/middleware"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Task struct {
	Name     string
	Every    time.Duration
	Job      middleware.Job
	RunFirst bool // run once immediately on start
}

type Runner struct {
	tasks  []Task
	logger zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(logger zerolog.Logger, tasks ...Task) *Runner {
	wrapped := make([]Task, len(tasks))
	for i, t := range tasks {
		t.Job = middleware.Cycle(logger, t.Name, t.Job)
		wrapped[i] = t
	}
	return &Runner{tasks: wrapped, logger: logger}
}

// Start launches the loop. It returns immediately; call Stop to end it.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.loop(ctx)
	}()
}

// Stop cancels the loop and waits for the running cycle, if any, to return.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context) {
	for _, t := range r.tasks {
		r.logger.Info().Str("job", t.Name).Dur("every", t.Every).Msg("job scheduled")
	}
	for _, t := range r.tasks {
		if t.RunFirst {
			t.Job(ctx)
		}
	}

	// Next due time per task; a single timer wakes the loop for the earliest one.
	next := make([]time.Time, len(r.tasks))
	for i, t := range r.tasks {
		next[i] = time.Now().Add(t.Every)
	}

	for {
		if len(r.tasks) == 0 {
			<-ctx.Done()
			return
		}
		due := 0
		for i := range next {
			if next[i].Before(next[due]) {
				due = i
			}
		}

		timer := time.NewTimer(time.Until(next[due]))
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info().Msg("scheduler stopped")
			return
		case <-timer.C:
		}

		now := time.Now()
		for i, t := range r.tasks {
			if ctx.Err() != nil {
				return
			}
			if !now.Before(next[i]) {
				t.Job(ctx)
				next[i] = next[i].Add(t.Every)
				if next[i].Before(time.Now()) {
					next[i] = time.Now().Add(t.Every)
				}
			}
		}
	}
}
