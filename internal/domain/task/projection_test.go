package task

import "testing"

func sampleTasks() []Task {
	return []Task{
		{ID: 1, Quadrant: 1, Status: StatusTodo},
		{ID: 2, Quadrant: 1, Status: StatusDoing},
		{ID: 3, Quadrant: 2, Status: StatusDone},
		{ID: 4, Quadrant: 3, Status: StatusDelay},
		{ID: 5, Quadrant: 4, Status: StatusCancel},
		{ID: 6, Quadrant: 2, Status: StatusTodo},
	}
}

func TestGroupByQuadrant(t *testing.T) {
	q := GroupByQuadrant(sampleTasks())

	if len(q[1]) != 2 {
		t.Fatalf("quadrant 1 size = %d, want 2", len(q[1]))
	}
	if len(q[2]) != 2 {
		t.Fatalf("quadrant 2 size = %d, want 2 (DONE stays visible)", len(q[2]))
	}
	// DELAY and CANCEL have left the planning view.
	if len(q[3]) != 0 || len(q[4]) != 0 {
		t.Fatalf("quadrants 3/4 = %d/%d, want empty", len(q[3]), len(q[4]))
	}
}

func TestGroupByStatus(t *testing.T) {
	b := GroupByStatus(sampleTasks())

	if len(b.Todo) != 2 || len(b.Doing) != 1 || len(b.Done) != 1 {
		t.Fatalf("columns = %d/%d/%d, want 2/1/1", len(b.Todo), len(b.Doing), len(b.Done))
	}
	if len(b.DelayOrCancel) != 2 {
		t.Fatalf("merged column size = %d, want 2", len(b.DelayOrCancel))
	}
}

func TestCreateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRequest
		wantErr bool
	}{
		{"valid", CreateRequest{Title: "t", Quadrant: 1}, false},
		{"missing title", CreateRequest{Quadrant: 1}, true},
		{"quadrant too low", CreateRequest{Title: "t", Quadrant: 0}, true},
		{"quadrant too high", CreateRequest{Title: "t", Quadrant: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
