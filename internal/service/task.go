package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/asteritime/asteritime/internal/adapter/otel"
	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/task"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
	"github.com/asteritime/asteritime/internal/port/database"
	"github.com/asteritime/asteritime/internal/port/messagequeue"
)

// conflictRetries is how many times a version-conflicted update is retried
// against a fresh read before giving up.
const conflictRetries = 3

// TaskService handles task business logic: merge-style updates guarded by
// optimistic locking, transition enforcement, and event publication. Change
// events go to the queue only; the EventBridge relays them to connected
// WebSocket clients, so every instance, this one included, pushes each
// change exactly once.
type TaskService struct {
	store database.Store
	queue messagequeue.Queue
	now   func() time.Time
}

// NewTaskService creates a new TaskService. queue may be nil in tests;
// events are then skipped.
func NewTaskService(store database.Store, queue messagequeue.Queue) *TaskService {
	return &TaskService{store: store, queue: queue, now: time.Now}
}

// List returns the user's tasks narrowed by filter.
func (s *TaskService) List(ctx context.Context, userID int64, filter task.Filter) ([]task.Task, error) {
	return s.store.ListTasks(ctx, userID, filter)
}

// Get returns one of the user's tasks.
func (s *TaskService) Get(ctx context.Context, userID, id int64) (*task.Task, error) {
	return s.store.GetTask(ctx, userID, id)
}

// Create validates and persists a new task. Status is forced to TODO no
// matter what the client sent.
func (s *TaskService) Create(ctx context.Context, userID int64, req task.CreateRequest) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := task.Task{
		Title:            req.Title,
		Description:      req.Description,
		Quadrant:         req.Quadrant,
		Status:           task.StatusTodo,
		PlannedStartTime: req.PlannedStartTime,
		PlannedEndTime:   req.PlannedEndTime,
	}
	if req.CategoryID != 0 {
		c, err := s.store.GetCategory(ctx, userID, req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("resolve category: %w", err)
		}
		t.Type = &task.CategoryRef{ID: c.ID, Name: c.Name}
	}
	if req.RecurrenceRuleID != 0 {
		r, err := s.store.GetRecurrenceRule(ctx, userID, req.RecurrenceRuleID)
		if err != nil {
			return nil, fmt.Errorf("resolve recurrence rule: %w", err)
		}
		t.RecurrenceRule = &task.RecurrenceRef{ID: r.ID}
	}

	created, err := s.store.CreateTask(ctx, userID, t)
	if err != nil {
		return nil, err
	}

	s.publishTaskEvent(ctx, userID, messagequeue.SubjectTaskCreated, *created, "edit")
	return created, nil
}

// Update merges the request onto the stored record and persists it under
// the version guard. Only fields present in the request change; everything
// else keeps its stored value, so a sparse manual transition cannot wipe
// planned times. A version conflict triggers a re-read and re-merge, up to
// conflictRetries attempts, which gives the engine's full-record writes and
// the user's sparse writes last-write-wins semantics instead of hard
// failures.
//
// A request carrying an explicit version opts out of that: the write goes to
// the store under the caller's version, and a mismatch surfaces as
// ErrConflict without retrying, since a re-read would erase the staleness
// the caller asked to detect.
func (s *TaskService) Update(ctx context.Context, userID, id int64, req task.UpdateRequest) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for range conflictRetries {
		current, err := s.store.GetTask(ctx, userID, id)
		if err != nil {
			return nil, err
		}

		merged, source, err := s.merge(ctx, userID, *current, req)
		if err != nil {
			return nil, err
		}
		if req.Version != nil {
			merged.Version = *req.Version
		}

		writeCtx := ctx
		if merged.Status != current.Status {
			var span trace.Span
			writeCtx, span = otel.StartTransitionSpan(ctx, id, string(current.Status), string(merged.Status))
			defer span.End()
		}

		updated, err := s.store.UpdateTask(writeCtx, userID, merged)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				if req.Version != nil {
					return nil, err
				}
				lastErr = err
				continue
			}
			return nil, err
		}

		s.publishTaskEvent(ctx, userID, messagequeue.SubjectTaskUpdated, *updated, source)
		return updated, nil
	}
	return nil, lastErr
}

// merge applies req on top of current and enforces the transition rules for
// any status change. The returned source tags the resulting event.
func (s *TaskService) merge(ctx context.Context, userID int64, current task.Task, req task.UpdateRequest) (task.Task, string, error) {
	merged := current
	source := "edit"

	if req.Title != nil {
		merged.Title = *req.Title
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.Quadrant != nil {
		merged.Quadrant = *req.Quadrant
	}
	if req.PlannedStartTime != nil {
		merged.PlannedStartTime = req.PlannedStartTime
	}
	if req.PlannedEndTime != nil {
		merged.PlannedEndTime = req.PlannedEndTime
	}
	if req.ActualStartTime != nil {
		merged.ActualStartTime = req.ActualStartTime
	}
	if req.ActualEndTime != nil {
		merged.ActualEndTime = req.ActualEndTime
	}
	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			merged.Type = nil
		} else {
			c, err := s.store.GetCategory(ctx, userID, *req.CategoryID)
			if err != nil {
				return task.Task{}, "", fmt.Errorf("resolve category: %w", err)
			}
			merged.Type = &task.CategoryRef{ID: c.ID, Name: c.Name}
		}
	}
	if req.RecurrenceRuleID != nil {
		if *req.RecurrenceRuleID == 0 {
			merged.RecurrenceRule = nil
		} else {
			r, err := s.store.GetRecurrenceRule(ctx, userID, *req.RecurrenceRuleID)
			if err != nil {
				return task.Task{}, "", fmt.Errorf("resolve recurrence rule: %w", err)
			}
			merged.RecurrenceRule = &task.RecurrenceRef{ID: r.ID, FrequencyExpression: r.FrequencyExpression}
		}
	}

	if req.Status != nil && *req.Status != current.Status {
		if err := task.ValidateTransition(current.Status, *req.Status); err != nil {
			return task.Task{}, "", err
		}
		merged.Status = *req.Status
		source = "manual"

		// Backfill actual times the client did not supply, so the record
		// is consistent no matter which path wrote the transition.
		if merged.Status == task.StatusDoing && merged.ActualStartTime == nil {
			at := wallclock.At(s.now())
			merged.ActualStartTime = &at
		}
		if merged.Status == task.StatusDone && merged.ActualEndTime == nil {
			at := wallclock.At(s.now())
			merged.ActualEndTime = &at
		}
		if req.ActualStartTime != nil || req.ActualEndTime != nil {
			source = "auto"
		}
	}

	return merged, source, nil
}

// Delete removes one of the user's tasks.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteTask(ctx, userID, id); err != nil {
		return err
	}

	if s.queue != nil {
		payload := messagequeue.TaskDeletedPayload{UserID: userID, TaskID: id}
		data, err := json.Marshal(payload)
		if err == nil {
			if err := s.queue.Publish(ctx, messagequeue.SubjectTaskDeleted, data); err != nil {
				slog.Error("failed to publish task deletion", "task_id", id, "error", err)
			}
		}
	}
	return nil
}

func (s *TaskService) publishTaskEvent(ctx context.Context, userID int64, subject string, t task.Task, source string) {
	if s.queue == nil {
		return
	}
	payload := messagequeue.TaskEventPayload{UserID: userID, Task: t, Source: source}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal task event", "task_id", t.ID, "error", err)
		return
	}
	if err := s.queue.Publish(ctx, subject, data); err != nil {
		// The task is saved; losing the event only delays other clients
		// until their next reconcile fetch.
		slog.Error("failed to publish task event", "task_id", t.ID, "subject", subject, "error", err)
	}
}
