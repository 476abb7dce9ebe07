package task

// Projections are pure groupings over a materialized task list. They carry
// no caching semantics; callers recompute as needed.

// Quadrants partitions tasks by Eisenhower quadrant for the planning view.
// Delayed and cancelled tasks have left active planning and are excluded.
type Quadrants map[int][]Task

// GroupByQuadrant builds the quadrant view.
func GroupByQuadrant(tasks []Task) Quadrants {
	q := Quadrants{1: nil, 2: nil, 3: nil, 4: nil}
	for _, t := range tasks {
		if t.Status == StatusDelay || t.Status == StatusCancel {
			continue
		}
		if t.Quadrant < 1 || t.Quadrant > 4 {
			continue
		}
		q[t.Quadrant] = append(q[t.Quadrant], t)
	}
	return q
}

// Board is the kanban view: one column per working status, with DELAY and
// CANCEL merged into a single combined column.
type Board struct {
	Todo          []Task `json:"todo"`
	Doing         []Task `json:"doing"`
	Done          []Task `json:"done"`
	DelayOrCancel []Task `json:"delayOrCancel"`
}

// GroupByStatus builds the kanban view.
func GroupByStatus(tasks []Task) Board {
	var b Board
	for _, t := range tasks {
		switch t.Status {
		case StatusTodo:
			b.Todo = append(b.Todo, t)
		case StatusDoing:
			b.Doing = append(b.Doing, t)
		case StatusDone:
			b.Done = append(b.Done, t)
		case StatusDelay, StatusCancel:
			b.DelayOrCancel = append(b.DelayOrCancel, t)
		}
	}
	return b
}
