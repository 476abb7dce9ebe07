package service

import (
	"context"

	"github.com/asteritime/asteritime/internal/domain/recurrence"
	"github.com/asteritime/asteritime/internal/port/database"
)

// RecurrenceService handles recurrence rule CRUD. Rules are referenced by
// tasks; AsteriTime does not expand them into occurrences.
type RecurrenceService struct {
	store database.Store
}

// NewRecurrenceService creates a new RecurrenceService.
func NewRecurrenceService(store database.Store) *RecurrenceService {
	return &RecurrenceService{store: store}
}

// List returns the user's recurrence rules.
func (s *RecurrenceService) List(ctx context.Context, userID int64) ([]recurrence.Rule, error) {
	return s.store.ListRecurrenceRules(ctx, userID)
}

// Get returns one rule.
func (s *RecurrenceService) Get(ctx context.Context, userID, id int64) (*recurrence.Rule, error) {
	return s.store.GetRecurrenceRule(ctx, userID, id)
}

// Create validates and persists a new rule.
func (s *RecurrenceService) Create(ctx context.Context, userID int64, req recurrence.CreateRequest) (*recurrence.Rule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateRecurrenceRule(ctx, userID, recurrence.Rule{FrequencyExpression: req.FrequencyExpression})
}

// Delete removes a rule.
func (s *RecurrenceService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.DeleteRecurrenceRule(ctx, userID, id)
}
