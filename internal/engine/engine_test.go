package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/task"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

// fakeStore is an in-memory Store recording every call.
type fakeStore struct {
	mu      sync.Mutex
	tasks   map[int64]task.Task
	nextID  int64
	updates []updateCall
	lists   []task.Filter

	failUpdate map[int64]error
	listErr    error
}

type updateCall struct {
	id  int64
	req task.UpdateRequest
}

func newFakeStore(tasks ...task.Task) *fakeStore {
	s := &fakeStore{
		tasks:      make(map[int64]task.Task),
		nextID:     1,
		failUpdate: make(map[int64]error),
	}
	for _, t := range tasks {
		s.tasks[t.ID] = t
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	return s
}

func (s *fakeStore) ListTasks(_ context.Context, filter task.Filter) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = append(s.lists, filter)
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeStore) CreateTask(_ context.Context, req task.CreateRequest) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := task.Task{
		ID:               s.nextID,
		Title:            req.Title,
		Description:      req.Description,
		Quadrant:         req.Quadrant,
		Status:           task.StatusTodo,
		PlannedStartTime: req.PlannedStartTime,
		PlannedEndTime:   req.PlannedEndTime,
	}
	s.nextID++
	s.tasks[t.ID] = t
	return &t, nil
}

func (s *fakeStore) UpdateTask(_ context.Context, id int64, req task.UpdateRequest) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, updateCall{id: id, req: req})
	if err := s.failUpdate[id]; err != nil {
		return nil, err
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.ActualStartTime != nil {
		t.ActualStartTime = req.ActualStartTime
	}
	if req.ActualEndTime != nil {
		t.ActualEndTime = req.ActualEndTime
	}
	t.Version++
	s.tasks[id] = t
	return &t, nil
}

func (s *fakeStore) DeleteTask(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

func dt(t *testing.T, s string) *wallclock.DateTime {
	t.Helper()
	d, err := wallclock.ParseDateTime(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return &d
}

func fixedClock(t *testing.T, s string) func() time.Time {
	t.Helper()
	d := dt(t, s)
	return func() time.Time { return d.Time() }
}

func TestRefreshPersistsAutomaticTransitions(t *testing.T) {
	store := newFakeStore(
		task.Task{
			ID:               1,
			Title:            "write report",
			Quadrant:         1,
			Status:           task.StatusDoing,
			PlannedStartTime: dt(t, "2024-03-15T09:00:00"),
			PlannedEndTime:   dt(t, "2024-03-15T10:00:00"),
			ActualStartTime:  dt(t, "2024-03-15T09:00:00"),
		},
		task.Task{
			ID:               2,
			Title:            "team standup",
			Quadrant:         2,
			Status:           task.StatusTodo,
			PlannedStartTime: dt(t, "2024-03-15T10:30:00"),
			PlannedEndTime:   dt(t, "2024-03-15T11:00:00"),
		},
	)
	e := New(store, WithClock(fixedClock(t, "2024-03-15T10:45:00")))

	tasks, err := e.Refresh(context.Background(), true)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}

	got, _ := e.Get(1)
	if got.Status != task.StatusDone {
		t.Errorf("task 1 status = %s, want DONE", got.Status)
	}
	if got.ActualEndTime == nil || !got.ActualEndTime.Equal(*dt(t, "2024-03-15T10:00:00")) {
		t.Errorf("task 1 actualEndTime = %v, want planned end 10:00:00", got.ActualEndTime)
	}

	got, _ = e.Get(2)
	if got.Status != task.StatusDoing {
		t.Errorf("task 2 status = %s, want DOING", got.Status)
	}
	if got.ActualStartTime == nil || !got.ActualStartTime.Equal(*dt(t, "2024-03-15T10:30:00")) {
		t.Errorf("task 2 actualStartTime = %v, want planned start 10:30:00", got.ActualStartTime)
	}

	if n := store.updateCount(); n != 2 {
		t.Errorf("store saw %d updates, want 2", n)
	}
}

func TestRefreshQueriesCurrentDayWindow(t *testing.T) {
	store := newFakeStore()
	e := New(store, WithClock(fixedClock(t, "2024-03-15T14:30:00")))

	if _, err := e.Refresh(context.Background(), true); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if len(store.lists) != 1 {
		t.Fatalf("store saw %d list calls, want 1", len(store.lists))
	}
	f := store.lists[0]
	if f.StartTime == nil || f.StartTime.String() != "2024-03-15T00:00:00" {
		t.Errorf("filter start = %v, want 2024-03-15T00:00:00", f.StartTime)
	}
	if f.EndTime == nil || f.EndTime.String() != "2024-03-15T23:59:59" {
		t.Errorf("filter end = %v, want 2024-03-15T23:59:59", f.EndTime)
	}
}

func TestRefreshWithoutAutoUpdateNeverWrites(t *testing.T) {
	store := newFakeStore(task.Task{
		ID:               1,
		Title:            "overdue errand",
		Quadrant:         3,
		Status:           task.StatusTodo,
		PlannedStartTime: dt(t, "2024-03-15T08:00:00"),
		PlannedEndTime:   dt(t, "2024-03-15T09:00:00"),
	})
	e := New(store, WithClock(fixedClock(t, "2024-03-15T12:00:00")))

	tasks, err := e.Refresh(context.Background(), false)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if tasks[0].Status != task.StatusTodo {
		t.Errorf("status = %s, want TODO untouched", tasks[0].Status)
	}
	if n := store.updateCount(); n != 0 {
		t.Errorf("store saw %d updates, want 0", n)
	}
}

func TestRefreshIsolatesPerTaskFailures(t *testing.T) {
	store := newFakeStore(
		task.Task{
			ID:               1,
			Title:            "flaky row",
			Quadrant:         1,
			Status:           task.StatusTodo,
			PlannedStartTime: dt(t, "2024-03-15T08:00:00"),
			PlannedEndTime:   dt(t, "2024-03-15T09:00:00"),
		},
		task.Task{
			ID:               2,
			Title:            "healthy row",
			Quadrant:         1,
			Status:           task.StatusTodo,
			PlannedStartTime: dt(t, "2024-03-15T08:00:00"),
			PlannedEndTime:   dt(t, "2024-03-15T09:00:00"),
		},
	)
	store.failUpdate[1] = errors.New("backend unavailable")
	e := New(store, WithClock(fixedClock(t, "2024-03-15T12:00:00")))

	if _, err := e.Refresh(context.Background(), true); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got, _ := e.Get(1)
	if got.Status != task.StatusTodo {
		t.Errorf("failed task status = %s, want fetched TODO kept", got.Status)
	}
	got, _ = e.Get(2)
	if got.Status != task.StatusDelay {
		t.Errorf("healthy task status = %s, want DELAY", got.Status)
	}
}

func TestRefreshListErrorLeavesListIntact(t *testing.T) {
	store := newFakeStore(task.Task{ID: 1, Title: "kept", Quadrant: 1, Status: task.StatusTodo})
	e := New(store, WithClock(fixedClock(t, "2024-03-15T12:00:00")))
	if _, err := e.Refresh(context.Background(), true); err != nil {
		t.Fatalf("seed Refresh: %v", err)
	}

	store.mu.Lock()
	store.listErr = errors.New("connection refused")
	store.mu.Unlock()

	if _, err := e.Refresh(context.Background(), true); err == nil {
		t.Fatal("Refresh returned nil error, want failure")
	}
	if _, ok := e.Get(1); !ok {
		t.Error("previous snapshot was discarded on fetch failure")
	}
}

func TestRequestTransitionStampsActualStart(t *testing.T) {
	store := newFakeStore(task.Task{ID: 1, Title: "errand", Quadrant: 2, Status: task.StatusTodo})
	e := New(store, WithClock(fixedClock(t, "2024-03-15T09:15:30")))
	if _, err := e.Refresh(context.Background(), false); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	updated, err := e.RequestTransition(context.Background(), 1, task.StatusDoing)
	if err != nil {
		t.Fatalf("RequestTransition: %v", err)
	}
	if updated.Status != task.StatusDoing {
		t.Errorf("status = %s, want DOING", updated.Status)
	}
	if updated.ActualStartTime == nil || updated.ActualStartTime.String() != "2024-03-15T09:15:30" {
		t.Errorf("actualStartTime = %v, want manual clock 09:15:30", updated.ActualStartTime)
	}

	sent := store.updates[0].req
	if sent.Title != nil || sent.Quadrant != nil || sent.PlannedStartTime != nil {
		t.Error("manual transition sent unrelated fields, want sparse update")
	}

	got, _ := e.Get(1)
	if got.Status != task.StatusDoing {
		t.Errorf("owned list status = %s, want DOING after apply", got.Status)
	}
}

func TestRequestTransitionSameStatusIsNoOp(t *testing.T) {
	store := newFakeStore(task.Task{ID: 1, Title: "errand", Quadrant: 2, Status: task.StatusDoing})
	e := New(store, WithClock(fixedClock(t, "2024-03-15T09:15:30")))
	if _, err := e.Refresh(context.Background(), false); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	updated, err := e.RequestTransition(context.Background(), 1, task.StatusDoing)
	if err != nil {
		t.Fatalf("RequestTransition: %v", err)
	}
	if updated.Status != task.StatusDoing {
		t.Errorf("status = %s, want DOING", updated.Status)
	}
	if n := store.updateCount(); n != 0 {
		t.Errorf("store saw %d updates, want 0 for same-status request", n)
	}
}

func TestRequestTransitionRejectsForbiddenMoves(t *testing.T) {
	store := newFakeStore(
		task.Task{ID: 1, Title: "pending", Quadrant: 1, Status: task.StatusTodo},
		task.Task{ID: 2, Title: "finished", Quadrant: 1, Status: task.StatusDone},
	)
	e := New(store, WithClock(fixedClock(t, "2024-03-15T09:00:00")))
	if _, err := e.Refresh(context.Background(), false); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, err := e.RequestTransition(context.Background(), 1, task.StatusDone); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("TODO->DONE err = %v, want ErrValidation", err)
	}
	if _, err := e.RequestTransition(context.Background(), 2, task.StatusTodo); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("DONE->TODO err = %v, want ErrValidation", err)
	}
	if _, err := e.RequestTransition(context.Background(), 99, task.StatusDoing); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown task err = %v, want ErrNotFound", err)
	}
	if n := store.updateCount(); n != 0 {
		t.Errorf("store saw %d updates, want 0 after rejections", n)
	}
}

func TestCreateAndDeleteMaintainOwnedList(t *testing.T) {
	store := newFakeStore()
	e := New(store, WithClock(fixedClock(t, "2024-03-15T09:00:00")))

	created, err := e.CreateTask(context.Background(), task.CreateRequest{Title: "new", Quadrant: 1})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.Status != task.StatusTodo {
		t.Errorf("created status = %s, want TODO", created.Status)
	}
	if _, ok := e.Get(created.ID); !ok {
		t.Error("created task missing from owned list")
	}

	if _, err := e.CreateTask(context.Background(), task.CreateRequest{Quadrant: 1}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty title err = %v, want ErrValidation", err)
	}

	if err := e.DeleteTask(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, ok := e.Get(created.ID); ok {
		t.Error("deleted task still in owned list")
	}
}

func TestStartRunsPeriodicTicks(t *testing.T) {
	store := newFakeStore(task.Task{
		ID:               1,
		Title:            "window task",
		Quadrant:         1,
		Status:           task.StatusTodo,
		PlannedStartTime: dt(t, "2024-03-15T08:00:00"),
		PlannedEndTime:   dt(t, "2024-03-15T18:00:00"),
	})
	e := New(store,
		WithClock(fixedClock(t, "2024-03-15T12:00:00")),
		WithInterval(10*time.Millisecond))

	stop := e.Start(context.Background())
	deadline := time.After(2 * time.Second)
	for {
		store.mu.Lock()
		n := len(store.lists)
		store.mu.Unlock()
		if n >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("loop never reached a second tick")
		case <-time.After(5 * time.Millisecond):
		}
	}
	stop()

	got, _ := e.Get(1)
	if got.Status != task.StatusDoing {
		t.Errorf("status = %s, want DOING after ticks", got.Status)
	}
}
