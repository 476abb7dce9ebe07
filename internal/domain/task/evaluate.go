package task

import (
	"time"

	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

// Evaluate applies the automatic status transition rules to a snapshot of t
// at the given wall-clock instant. It is pure: callers decide whether to
// persist the result. The second return value reports whether anything
// changed (status or actual-time bookkeeping).
//
// Rules are an ordered guard chain; the first match wins. The order is
// product behavior, not an implementation detail: a DOING task that reaches
// its planned end is completed, never delayed, because the deadline check
// for in-progress tasks runs before the missed-deadline check. Reordering
// these guards silently changes what users see.
func Evaluate(t Task, now time.Time) (Task, bool) {
	// Terminal statuses never move automatically.
	if t.Status.Terminal() {
		return t, false
	}

	end := t.PlannedEndTime
	start := t.PlannedStartTime

	// An in-progress task that reaches its planned end is deemed completed
	// exactly at the scheduled end, not at evaluation time, so that a late
	// reconciliation tick does not skew the record.
	if t.Status == StatusDoing && end != nil && !now.Before(end.Time()) {
		t.Status = StatusDone
		endCopy := *end
		t.ActualEndTime = &endCopy
		return t, true
	}

	// Past the deadline while not in progress: the task is delayed.
	if end != nil && now.After(end.Time()) && t.Status != StatusDelay && t.Status != StatusDone {
		t.Status = StatusDelay
		return t, true
	}

	// Inside the planned window and still pending: promote to in-progress.
	// The system detected the start after the fact, so the recorded actual
	// start is the planned start, not the evaluation instant.
	if start != nil && end != nil && t.Status == StatusTodo &&
		!now.Before(start.Time()) && !now.After(end.Time()) {
		t.Status = StatusDoing
		startCopy := *start
		t.ActualStartTime = &startCopy
		return t, true
	}

	return t, false
}

// Diverged reports whether b differs from a in any of the fields the
// evaluator writes. The reconciliation loop persists only on divergence.
func Diverged(a, b Task) bool {
	if a.Status != b.Status {
		return true
	}
	if !sameTime(a.ActualStartTime, b.ActualStartTime) {
		return true
	}
	return !sameTime(a.ActualEndTime, b.ActualEndTime)
}

func sameTime(a, b *wallclock.DateTime) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
