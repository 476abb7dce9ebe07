package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/asteritime/asteritime/internal/domain/category"
	"github.com/asteritime/asteritime/internal/domain/recurrence"
	"github.com/asteritime/asteritime/internal/domain/task"
)

// ListTasks returns tasks matching the filter. When both StartTime and
// EndTime are set, the server bounds plannedStartTime to that window.
func (c *Client) ListTasks(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	params := url.Values{}
	if filter.Quadrant != 0 {
		params.Set("quadrant", strconv.Itoa(filter.Quadrant))
	}
	if filter.CategoryID != 0 {
		params.Set("categoryId", strconv.FormatInt(filter.CategoryID, 10))
	}
	if filter.Status != "" {
		params.Set("status", string(filter.Status))
	}
	if filter.StartTime != nil {
		params.Set("startTime", filter.StartTime.String())
	}
	if filter.EndTime != nil {
		params.Set("endTime", filter.EndTime.String())
	}

	path := "/api/tasks"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	data, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return decode[[]task.Task](data)
}

// CreateTask creates a task. The server forces status to TODO.
func (c *Client) CreateTask(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/api/tasks", req)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	t, err := decode[task.Task](data)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask applies a partial update; only the supplied fields change.
func (c *Client) UpdateTask(ctx context.Context, id int64, req task.UpdateRequest) (*task.Task, error) {
	data, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), req)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	t, err := decode[task.Task](data)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTask removes a task permanently.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// ListCategories returns the user's task categories.
func (c *Client) ListCategories(ctx context.Context) ([]category.Category, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/api/task-categories", nil)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return decode[[]category.Category](data)
}

// CreateCategory creates a task category.
func (c *Client) CreateCategory(ctx context.Context, name string) (*category.Category, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/api/task-categories", category.CreateRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	cat, err := decode[category.Category](data)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// ListRecurrenceRules returns the user's recurrence rules.
func (c *Client) ListRecurrenceRules(ctx context.Context) ([]recurrence.Rule, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/api/task-recurrence-rules", nil)
	if err != nil {
		return nil, fmt.Errorf("list recurrence rules: %w", err)
	}
	return decode[[]recurrence.Rule](data)
}

// CreateRecurrenceRule creates a recurrence rule like "1/day".
func (c *Client) CreateRecurrenceRule(ctx context.Context, expr string) (*recurrence.Rule, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/api/task-recurrence-rules",
		recurrence.CreateRequest{FrequencyExpression: expr})
	if err != nil {
		return nil, fmt.Errorf("create recurrence rule: %w", err)
	}
	rule, err := decode[recurrence.Rule](data)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
