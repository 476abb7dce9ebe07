// Package task defines the Task entity and its status lifecycle rules.
package task

import (
	"fmt"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

// Status represents the lifecycle state of a task.
//
// DONE and CANCEL are terminal: neither the automatic evaluator nor the
// manual controller moves a task out of them. DELAY is terminal for the
// automatic path but may be reopened manually.
type Status string

const (
	StatusTodo   Status = "TODO"
	StatusDoing  Status = "DOING"
	StatusDone   Status = "DONE"
	StatusDelay  Status = "DELAY"
	StatusCancel Status = "CANCEL"
)

// ValidStatuses enumerates every accepted status value.
var ValidStatuses = map[Status]bool{
	StatusTodo:   true,
	StatusDoing:  true,
	StatusDone:   true,
	StatusDelay:  true,
	StatusCancel: true,
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancel
}

// CategoryRef is the embedded category reference carried on the wire.
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// RecurrenceRef is the embedded recurrence-rule reference carried on the
// wire. Rules are stored and referenced only; expansion is not implemented.
type RecurrenceRef struct {
	ID                  int64  `json:"id"`
	FrequencyExpression string `json:"frequencyExpression,omitempty"`
}

// Task is the central entity of the planner.
//
// Planned times are user-set and never touched by the lifecycle engine.
// Actual times are written only by the engine (automatic or manual path).
type Task struct {
	ID               int64               `json:"id"`
	Title            string              `json:"title"`
	Description      string              `json:"description,omitempty"`
	Quadrant         int                 `json:"quadrant"`
	Status           Status              `json:"status"`
	PlannedStartTime *wallclock.DateTime `json:"plannedStartTime,omitempty"`
	PlannedEndTime   *wallclock.DateTime `json:"plannedEndTime,omitempty"`
	ActualStartTime  *wallclock.DateTime `json:"actualStartTime,omitempty"`
	ActualEndTime    *wallclock.DateTime `json:"actualEndTime,omitempty"`
	Type             *CategoryRef        `json:"type,omitempty"`
	RecurrenceRule   *RecurrenceRef      `json:"recurrenceRule,omitempty"`
	Version          int64               `json:"version"`
	CreatedAt        wallclock.DateTime  `json:"createdAt"`
	UpdatedAt        wallclock.DateTime  `json:"updatedAt"`
}

// CreateRequest holds the fields accepted when creating a task.
// Status is forced to TODO server-side regardless of input.
type CreateRequest struct {
	Title            string              `json:"title"`
	Description      string              `json:"description,omitempty"`
	Quadrant         int                 `json:"quadrant"`
	CategoryID       int64               `json:"categoryId,omitempty"`
	RecurrenceRuleID int64               `json:"recurrenceRuleId,omitempty"`
	PlannedStartTime *wallclock.DateTime `json:"plannedStartTime,omitempty"`
	PlannedEndTime   *wallclock.DateTime `json:"plannedEndTime,omitempty"`
}

// Validate checks the create request against domain rules.
func (r *CreateRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if r.Quadrant < 1 || r.Quadrant > 4 {
		return fmt.Errorf("%w: quadrant must be between 1 and 4", domain.ErrValidation)
	}
	if r.PlannedStartTime != nil && r.PlannedEndTime != nil &&
		r.PlannedEndTime.Before(*r.PlannedStartTime) {
		return fmt.Errorf("%w: plannedEndTime must not precede plannedStartTime", domain.ErrValidation)
	}
	return nil
}

// UpdateRequest is a partial update: only non-nil fields are applied.
// The manual transition controller sends only the changed fields; the
// reconciliation loop sends the full merged record.
type UpdateRequest struct {
	Title            *string             `json:"title,omitempty"`
	Description      *string             `json:"description,omitempty"`
	Quadrant         *int                `json:"quadrant,omitempty"`
	CategoryID       *int64              `json:"categoryId,omitempty"`
	RecurrenceRuleID *int64              `json:"recurrenceRuleId,omitempty"`
	Status           *Status             `json:"status,omitempty"`
	PlannedStartTime *wallclock.DateTime `json:"plannedStartTime,omitempty"`
	PlannedEndTime   *wallclock.DateTime `json:"plannedEndTime,omitempty"`
	ActualStartTime  *wallclock.DateTime `json:"actualStartTime,omitempty"`
	ActualEndTime    *wallclock.DateTime `json:"actualEndTime,omitempty"`
	Version          *int64              `json:"version,omitempty"`
}

// Validate checks the update request against domain rules.
func (r *UpdateRequest) Validate() error {
	if r.Title != nil && *r.Title == "" {
		return fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
	}
	if r.Quadrant != nil && (*r.Quadrant < 1 || *r.Quadrant > 4) {
		return fmt.Errorf("%w: quadrant must be between 1 and 4", domain.ErrValidation)
	}
	if r.Status != nil && !ValidStatuses[*r.Status] {
		return fmt.Errorf("%w: invalid status %q", domain.ErrValidation, *r.Status)
	}
	return nil
}

// FullUpdate builds an UpdateRequest carrying every field of t. The
// reconciliation loop uses it so a persisted automatic transition writes the
// complete merged record back, never a sparse diff.
func FullUpdate(t Task) UpdateRequest {
	req := UpdateRequest{
		Title:            &t.Title,
		Description:      &t.Description,
		Quadrant:         &t.Quadrant,
		Status:           &t.Status,
		PlannedStartTime: t.PlannedStartTime,
		PlannedEndTime:   t.PlannedEndTime,
		ActualStartTime:  t.ActualStartTime,
		ActualEndTime:    t.ActualEndTime,
	}
	if t.Type != nil {
		req.CategoryID = &t.Type.ID
	}
	if t.RecurrenceRule != nil {
		req.RecurrenceRuleID = &t.RecurrenceRule.ID
	}
	return req
}

// Filter narrows task list queries. Zero values mean "no constraint".
// StartTime/EndTime bound plannedStartTime when both are set.
type Filter struct {
	Quadrant   int
	CategoryID int64
	Status     Status
	StartTime  *wallclock.DateTime
	EndTime    *wallclock.DateTime
}
