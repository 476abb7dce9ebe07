package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/task"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

// taskColumns is the SELECT list shared by every task query. Category and
// recurrence rule are joined in so the wire representation carries their
// embedded references without a second round trip.
const taskColumns = `
	t.id, t.title, t.description, t.quadrant, t.status,
	t.planned_start_time, t.planned_end_time, t.actual_start_time, t.actual_end_time,
	t.category_id, c.name, t.recurrence_rule_id, r.frequency_expression,
	t.version, t.created_at, t.updated_at`

const taskFrom = `
	 FROM tasks t
	 LEFT JOIN task_categories c ON c.id = t.category_id
	 LEFT JOIN task_recurrence_rules r ON r.id = t.recurrence_rule_id`

func scanTask(row scannable) (task.Task, error) {
	var (
		t                  task.Task
		plannedStart       *time.Time
		plannedEnd         *time.Time
		actualStart        *time.Time
		actualEnd          *time.Time
		categoryID         *int64
		categoryName       *string
		recurrenceID       *int64
		recurrenceFreqExpr *string
		createdAt          time.Time
		updatedAt          time.Time
	)

	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Quadrant, &t.Status,
		&plannedStart, &plannedEnd, &actualStart, &actualEnd,
		&categoryID, &categoryName, &recurrenceID, &recurrenceFreqExpr,
		&t.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return task.Task{}, err
	}

	t.PlannedStartTime = clockPtr(plannedStart)
	t.PlannedEndTime = clockPtr(plannedEnd)
	t.ActualStartTime = clockPtr(actualStart)
	t.ActualEndTime = clockPtr(actualEnd)
	if categoryID != nil {
		ref := &task.CategoryRef{ID: *categoryID}
		if categoryName != nil {
			ref.Name = *categoryName
		}
		t.Type = ref
	}
	if recurrenceID != nil {
		ref := &task.RecurrenceRef{ID: *recurrenceID}
		if recurrenceFreqExpr != nil {
			ref.FrequencyExpression = *recurrenceFreqExpr
		}
		t.RecurrenceRule = ref
	}
	t.CreatedAt = wallclock.At(createdAt)
	t.UpdatedAt = wallclock.At(updatedAt)
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, userID int64, filter task.Filter) ([]task.Task, error) {
	query := `SELECT` + taskColumns + taskFrom + ` WHERE t.user_id = $1`
	args := []any{userID}

	if filter.Quadrant != 0 {
		args = append(args, filter.Quadrant)
		query += fmt.Sprintf(" AND t.quadrant = $%d", len(args))
	}
	if filter.CategoryID != 0 {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND t.category_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if filter.StartTime != nil && filter.EndTime != nil {
		args = append(args, filter.StartTime.Time(), filter.EndTime.Time())
		query += fmt.Sprintf(" AND t.planned_start_time BETWEEN $%d AND $%d", len(args)-1, len(args))
	}
	query += " ORDER BY t.planned_start_time NULLS LAST, t.id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, userID, id int64) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+taskColumns+taskFrom+` WHERE t.id = $1 AND t.user_id = $2`, id, userID)

	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundWrap(err, "get task %d", id)
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, userID int64, t task.Task) (*task.Task, error) {
	var categoryID, recurrenceID any
	if t.Type != nil {
		categoryID = t.Type.ID
	}
	if t.RecurrenceRule != nil {
		recurrenceID = t.RecurrenceRule.ID
	}

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, quadrant, status,
		                    planned_start_time, planned_end_time, category_id, recurrence_rule_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		userID, t.Title, t.Description, t.Quadrant, string(t.Status),
		nullClock(t.PlannedStartTime), nullClock(t.PlannedEndTime), categoryID, recurrenceID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return s.GetTask(ctx, userID, id)
}

// UpdateTask persists the full merged record, guarded by the version column.
// A stale version yields ErrConflict so the caller can re-read and retry.
func (s *Store) UpdateTask(ctx context.Context, userID int64, t task.Task) (*task.Task, error) {
	var categoryID, recurrenceID any
	if t.Type != nil {
		categoryID = t.Type.ID
	}
	if t.RecurrenceRule != nil {
		recurrenceID = t.RecurrenceRule.ID
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks
		 SET title = $3, description = $4, quadrant = $5, status = $6,
		     planned_start_time = $7, planned_end_time = $8,
		     actual_start_time = $9, actual_end_time = $10,
		     category_id = $11, recurrence_rule_id = $12,
		     version = version + 1, updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND version = $13`,
		t.ID, userID, t.Title, t.Description, t.Quadrant, string(t.Status),
		nullClock(t.PlannedStartTime), nullClock(t.PlannedEndTime),
		nullClock(t.ActualStartTime), nullClock(t.ActualEndTime),
		categoryID, recurrenceID, t.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a stale version from a missing row.
		if _, err := s.GetTask(ctx, userID, t.ID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("update task %d: %w", t.ID, domain.ErrConflict)
	}

	return s.GetTask(ctx, userID, t.ID)
}

func (s *Store) DeleteTask(ctx context.Context, userID, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete task %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
