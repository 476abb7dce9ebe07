package task

import (
	"fmt"
	"time"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

// ValidateTransition checks whether a user-requested status change from cur
// to next is legal. It does not treat cur == next as an error; the
// controller short-circuits that case into a no-op before calling here.
//
// DONE and CANCEL are enforced as terminal at this layer, not just in the
// UI. DELAY is deliberately left re-openable: the observed system locks it
// only by UI convention, and reopening a delayed task is a real workflow.
func ValidateTransition(cur, next Status) error {
	if !ValidStatuses[next] {
		return fmt.Errorf("%w: invalid status %q", domain.ErrValidation, next)
	}
	if cur.Terminal() {
		return fmt.Errorf("%w: task is already %s and cannot change status", domain.ErrValidation, cur)
	}
	if cur == StatusTodo && next == StatusDone {
		return fmt.Errorf("%w: a TODO task must pass through DOING before it can be marked DONE", domain.ErrValidation)
	}
	if cur == StatusDoing && next == StatusTodo {
		return fmt.Errorf("%w: a DOING task cannot revert to TODO", domain.ErrValidation)
	}
	return nil
}

// TransitionUpdate builds the partial update for a validated manual
// transition, stamping actual times with the clock reading at the moment of
// the user action. This is the documented divergence from the automatic
// path, which stamps planned times instead.
func TransitionUpdate(cur Status, next Status, now time.Time) UpdateRequest {
	req := UpdateRequest{Status: &next}

	if cur == StatusTodo && next == StatusDoing {
		at := wallclock.At(now)
		req.ActualStartTime = &at
	}
	// TODO -> DONE is already rejected by ValidateTransition, so any DONE
	// arrival here comes from a state that really was in flight.
	if next == StatusDone && cur != StatusDone && cur != StatusTodo {
		at := wallclock.At(now)
		req.ActualEndTime = &at
	}
	return req
}
