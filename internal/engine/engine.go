// Package engine implements the task status lifecycle engine: an owned
// in-memory view of the day's tasks, a periodic reconciliation loop that
// applies wall-clock-driven automatic transitions, and the controller for
// user-initiated status changes.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/task"
)

// Store is the engine's view of the remote task collection. *client.Client
// satisfies it; tests substitute a fake.
type Store interface {
	ListTasks(ctx context.Context, filter task.Filter) ([]task.Task, error)
	CreateTask(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	UpdateTask(ctx context.Context, id int64, req task.UpdateRequest) (*task.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// DefaultInterval is how often the reconciliation loop re-evaluates the
// day's tasks.
const DefaultInterval = 60 * time.Second

// Engine owns the materialized task list. All mutations, whether from the
// reconciliation loop or from manual transitions, funnel through the three
// locked entry points below, which makes the last-write-wins interleaving
// between the two paths explicit rather than accidental.
type Engine struct {
	store    Store
	interval time.Duration
	now      func() time.Time

	mu    sync.RWMutex
	tasks map[int64]task.Task
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval overrides the reconciliation interval.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given store.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		interval: DefaultInterval,
		now:      time.Now,
		tasks:    make(map[int64]task.Task),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns the current task list, ordered by id. The slice is a
// copy; callers may not observe later mutations through it.
func (e *Engine) Snapshot() []task.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]task.Task, 0, len(e.tasks))
	for _, t := range e.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns one task from the materialized list.
func (e *Engine) Get(id int64) (task.Task, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.tasks[id]
	return t, ok
}

// Board returns the kanban projection of the current list.
func (e *Engine) Board() task.Board {
	return task.GroupByStatus(e.Snapshot())
}

// Quadrants returns the Eisenhower projection of the current list.
func (e *Engine) Quadrants() task.Quadrants {
	return task.GroupByQuadrant(e.Snapshot())
}

// CreateTask creates a task remotely and adds it to the owned list. The
// server forces status to TODO; the fresh task needs no evaluation pass.
func (e *Engine) CreateTask(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	created, err := e.store.CreateTask(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	e.apply(*created)
	return created, nil
}

// DeleteTask removes a task remotely and from the owned list.
func (e *Engine) DeleteTask(ctx context.Context, id int64) error {
	if err := e.store.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	e.remove(id)
	return nil
}

// lookup returns the task or a not-found error phrased for callers.
func (e *Engine) lookup(id int64) (task.Task, error) {
	t, ok := e.Get(id)
	if !ok {
		return task.Task{}, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// replaceAll swaps the whole list in one step. The reconciliation loop uses
// this so readers never see a half-applied tick.
func (e *Engine) replaceAll(tasks []task.Task) {
	next := make(map[int64]task.Task, len(tasks))
	for _, t := range tasks {
		next[t.ID] = t
	}
	e.mu.Lock()
	e.tasks = next
	e.mu.Unlock()
}

func (e *Engine) apply(t task.Task) {
	e.mu.Lock()
	e.tasks[t.ID] = t
	e.mu.Unlock()
}

func (e *Engine) remove(id int64) {
	e.mu.Lock()
	delete(e.tasks, id)
	e.mu.Unlock()
}
