package engine

import (
	"context"
	"fmt"

	"github.com/asteritime/asteritime/internal/domain/task"
)

// RequestTransition applies a user-initiated status change to a task from
// the owned list. Requesting the current status is a no-op that touches
// neither the store nor the list. Forbidden transitions are rejected before
// any remote call. On success only the changed fields go over the wire and
// the server's merged record replaces the local one.
//
// Timestamps on this path reflect when the user acted, not the plan: moving
// to DOING stamps actualStartTime with the current clock, finishing stamps
// actualEndTime the same way.
func (e *Engine) RequestTransition(ctx context.Context, id int64, next task.Status) (*task.Task, error) {
	current, err := e.lookup(id)
	if err != nil {
		return nil, err
	}

	if current.Status == next {
		unchanged := current
		return &unchanged, nil
	}

	if err := task.ValidateTransition(current.Status, next); err != nil {
		return nil, err
	}

	updated, err := e.store.UpdateTask(ctx, id, task.TransitionUpdate(current.Status, next, e.now()))
	if err != nil {
		return nil, fmt.Errorf("transition task %d to %s: %w", id, next, err)
	}

	e.apply(*updated)
	return updated, nil
}
