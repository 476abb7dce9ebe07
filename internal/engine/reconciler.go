package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/asteritime/asteritime/internal/adapter/otel"
	"github.com/asteritime/asteritime/internal/domain/task"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

// reconcileParallelism bounds concurrent persistence calls during one tick.
const reconcileParallelism = 4

// Refresh fetches today's tasks and, when autoUpdate is set, runs the
// evaluator over each one and persists any automatic transition before
// swapping the owned list. A persistence failure for one task is logged and
// that task keeps its fetched state; the rest of the tick proceeds.
//
// With autoUpdate false this is a plain re-fetch, used after manual
// transitions so the user's choice is not immediately second-guessed.
func (e *Engine) Refresh(ctx context.Context, autoUpdate bool) ([]task.Task, error) {
	now := e.now()
	dayStart, dayEnd := wallclock.DayBounds(now)

	fetched, err := e.store.ListTasks(ctx, task.Filter{
		StartTime: &dayStart,
		EndTime:   &dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if !autoUpdate {
		e.replaceAll(fetched)
		return e.Snapshot(), nil
	}

	ctx, span := otel.StartReconcileSpan(ctx, len(fetched))
	defer span.End()

	results := make([]task.Task, len(fetched))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileParallelism)
	for i, fetchedTask := range fetched {
		g.Go(func() error {
			evaluated, _ := task.Evaluate(fetchedTask, now)
			if !task.Diverged(fetchedTask, evaluated) {
				results[i] = fetchedTask
				return nil
			}
			updated, err := e.store.UpdateTask(gctx, fetchedTask.ID, task.FullUpdate(evaluated))
			if err != nil {
				slog.Error("reconcile: persist automatic transition",
					"task_id", fetchedTask.ID,
					"status", evaluated.Status,
					"error", err)
				results[i] = fetchedTask
				return nil
			}
			results[i] = *updated
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	e.replaceAll(results)
	return e.Snapshot(), nil
}

// Start launches the reconciliation loop: one immediate pass, then one per
// interval. The returned stop function cancels the loop and waits for an
// in-flight tick to finish.
func (e *Engine) Start(ctx context.Context) (stop func()) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		e.tick(runCtx)
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				e.tick(runCtx)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (e *Engine) tick(ctx context.Context) {
	if _, err := e.Refresh(ctx, true); err != nil {
		slog.Error("reconcile tick failed", "error", err)
	}
}
