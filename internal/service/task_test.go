package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/task"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
	"github.com/asteritime/asteritime/internal/port/database"
	"github.com/asteritime/asteritime/internal/port/messagequeue"
)

// taskStore fakes the task-related store methods; the rest of the port
// comes from the embedded nil interface and panics if reached.
type taskStore struct {
	database.Store

	tasks     map[int64]task.Task
	nextID    int64
	updates   []task.Task
	conflicts int // remaining UpdateTask calls to reject with ErrConflict
}

func newTaskStore() *taskStore {
	return &taskStore{tasks: map[int64]task.Task{}}
}

func (s *taskStore) GetTask(_ context.Context, _ int64, id int64) (*task.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *taskStore) CreateTask(_ context.Context, _ int64, t task.Task) (*task.Task, error) {
	s.nextID++
	t.ID = s.nextID
	t.Version = 1
	s.tasks[t.ID] = t
	return &t, nil
}

func (s *taskStore) UpdateTask(_ context.Context, _ int64, t task.Task) (*task.Task, error) {
	if s.conflicts > 0 {
		s.conflicts--
		return nil, domain.ErrConflict
	}
	stored, ok := s.tasks[t.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if t.Version != stored.Version {
		return nil, domain.ErrConflict
	}
	t.Version++
	s.tasks[t.ID] = t
	s.updates = append(s.updates, t)
	return &t, nil
}

func (s *taskStore) DeleteTask(_ context.Context, _ int64, id int64) error {
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// recordingQueue captures published subjects and payloads.
type recordingQueue struct {
	published []publishedMsg
}

type publishedMsg struct {
	subject string
	data    []byte
}

func (q *recordingQueue) Publish(_ context.Context, subject string, data []byte) error {
	q.published = append(q.published, publishedMsg{subject, data})
	return nil
}

func (q *recordingQueue) Subscribe(context.Context, string, messagequeue.Handler) (func(), error) {
	return func() {}, nil
}
func (q *recordingQueue) Drain() error      { return nil }
func (q *recordingQueue) Close() error      { return nil }
func (q *recordingQueue) IsConnected() bool { return true }

func fixedNow(t *testing.T, s string) func() time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return func() time.Time { return parsed }
}

func seedTask(s *taskStore, status task.Status) task.Task {
	s.nextID++
	t := task.Task{
		ID:       s.nextID,
		Title:    "seeded",
		Quadrant: 2,
		Status:   status,
		Version:  1,
	}
	s.tasks[t.ID] = t
	return t
}

func TestUpdateSparseFieldsKeepStoredValues(t *testing.T) {
	store := newTaskStore()
	svc := NewTaskService(store, nil)
	seeded := seedTask(store, task.StatusTodo)

	title := "renamed"
	got, err := svc.Update(context.Background(), 1, seeded.ID, task.UpdateRequest{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "renamed" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Quadrant != 2 || got.Status != task.StatusTodo {
		t.Errorf("sparse update disturbed other fields: %+v", got)
	}
}

func TestUpdateStatusBackfillsActualTimes(t *testing.T) {
	store := newTaskStore()
	svc := NewTaskService(store, nil)
	svc.now = fixedNow(t, "2024-03-15T09:15:30")

	seeded := seedTask(store, task.StatusTodo)
	doing := task.StatusDoing
	got, err := svc.Update(context.Background(), 1, seeded.ID, task.UpdateRequest{Status: &doing})
	if err != nil {
		t.Fatal(err)
	}
	if got.ActualStartTime == nil || got.ActualStartTime.String() != "2024-03-15T09:15:30" {
		t.Errorf("actualStartTime = %v, want server clock stamp", got.ActualStartTime)
	}

	done := task.StatusDone
	got, err = svc.Update(context.Background(), 1, seeded.ID, task.UpdateRequest{Status: &done})
	if err != nil {
		t.Fatal(err)
	}
	if got.ActualEndTime == nil || got.ActualEndTime.String() != "2024-03-15T09:15:30" {
		t.Errorf("actualEndTime = %v, want server clock stamp", got.ActualEndTime)
	}
	// The earlier DOING stamp must survive the DONE transition.
	if got.ActualStartTime == nil {
		t.Error("actualStartTime was lost on the DONE transition")
	}
}

func TestUpdateRejectsForbiddenTransitions(t *testing.T) {
	tests := []struct {
		name string
		from task.Status
		to   task.Status
	}{
		{"skip straight to done", task.StatusTodo, task.StatusDone},
		{"reopen a done task", task.StatusDone, task.StatusTodo},
		{"restart a done task", task.StatusDone, task.StatusDoing},
		{"leave cancel", task.StatusCancel, task.StatusDoing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTaskStore()
			svc := NewTaskService(store, nil)
			seeded := seedTask(store, tt.from)

			_, err := svc.Update(context.Background(), 1, seeded.ID, task.UpdateRequest{Status: &tt.to})
			if err == nil {
				t.Fatalf("%s -> %s was allowed", tt.from, tt.to)
			}
			if len(store.updates) != 0 {
				t.Error("rejected transition reached the store")
			}
		})
	}
}

func TestUpdateRetriesVersionConflict(t *testing.T) {
	store := newTaskStore()
	svc := NewTaskService(store, nil)
	seeded := seedTask(store, task.StatusTodo)
	store.conflicts = 2 // two stale writes, third attempt lands

	title := "eventually"
	got, err := svc.Update(context.Background(), 1, seeded.ID, task.UpdateRequest{Title: &title})
	if err != nil {
		t.Fatalf("update should have absorbed the conflicts: %v", err)
	}
	if got.Title != "eventually" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestUpdateGivesUpAfterRepeatedConflicts(t *testing.T) {
	store := newTaskStore()
	svc := NewTaskService(store, nil)
	seeded := seedTask(store, task.StatusTodo)
	store.conflicts = conflictRetries

	title := "never"
	_, err := svc.Update(context.Background(), 1, seeded.ID, task.UpdateRequest{Title: &title})
	if err == nil {
		t.Fatal("expected conflict error")
	}
}

func TestUpdatePinnedStaleVersionConflicts(t *testing.T) {
	store := newTaskStore()
	svc := NewTaskService(store, nil)
	seeded := seedTask(store, task.StatusTodo)

	// Advance the stored row past the version the caller read.
	stored := store.tasks[seeded.ID]
	stored.Version = 5
	store.tasks[seeded.ID] = stored

	title := "stale"
	_, err := svc.Update(context.Background(), 1, seeded.ID, task.UpdateRequest{
		Title: &title, Version: int64Ptr(1),
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if len(store.updates) != 0 {
		t.Errorf("stale pinned write landed %d times", len(store.updates))
	}
}

func TestUpdatePinnedCurrentVersionSucceeds(t *testing.T) {
	store := newTaskStore()
	svc := NewTaskService(store, nil)
	seeded := seedTask(store, task.StatusTodo)

	title := "fresh"
	got, err := svc.Update(context.Background(), 1, seeded.ID, task.UpdateRequest{
		Title: &title, Version: int64Ptr(seeded.Version),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != seeded.Version+1 {
		t.Errorf("version = %d, want %d", got.Version, seeded.Version+1)
	}
}

func TestEventSourceTagging(t *testing.T) {
	stamp, err := wallclock.ParseDateTime("2024-03-15T10:00:00")
	if err != nil {
		t.Fatal(err)
	}
	doing := task.StatusDoing

	tests := []struct {
		name       string
		req        task.UpdateRequest
		wantSource string
	}{
		{
			name:       "plain edit",
			req:        task.UpdateRequest{Quadrant: intPtr(3)},
			wantSource: "edit",
		},
		{
			name:       "user transition",
			req:        task.UpdateRequest{Status: &doing},
			wantSource: "manual",
		},
		{
			name:       "engine transition carries actual times",
			req:        task.UpdateRequest{Status: &doing, ActualStartTime: &stamp},
			wantSource: "auto",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTaskStore()
			queue := &recordingQueue{}
			svc := NewTaskService(store, queue)
			seeded := seedTask(store, task.StatusTodo)

			if _, err := svc.Update(context.Background(), 1, seeded.ID, tt.req); err != nil {
				t.Fatal(err)
			}
			if len(queue.published) != 1 {
				t.Fatalf("published %d events, want 1", len(queue.published))
			}
			msg := queue.published[0]
			if msg.subject != messagequeue.SubjectTaskUpdated {
				t.Errorf("subject = %s", msg.subject)
			}
			if want := `"source":"` + tt.wantSource + `"`; !strings.Contains(string(msg.data), want) {
				t.Errorf("payload %s missing %s", msg.data, want)
			}
		})
	}
}

func TestDeletePublishesDeletionEvent(t *testing.T) {
	store := newTaskStore()
	queue := &recordingQueue{}
	svc := NewTaskService(store, queue)
	seeded := seedTask(store, task.StatusTodo)

	if err := svc.Delete(context.Background(), 1, seeded.ID); err != nil {
		t.Fatal(err)
	}
	if len(queue.published) != 1 || queue.published[0].subject != messagequeue.SubjectTaskDeleted {
		t.Fatalf("published = %+v", queue.published)
	}
}

func intPtr(n int) *int { return &n }

func int64Ptr(n int64) *int64 { return &n }
