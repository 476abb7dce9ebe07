package postgres

import (
	"context"
	"fmt"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/recurrence"
)

func (s *Store) ListRecurrenceRules(ctx context.Context, userID int64) ([]recurrence.Rule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, frequency_expression, version, created_at, updated_at
		FROM task_recurrence_rules WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recurrence rules: %w", err)
	}
	defer rows.Close()

	var rules []recurrence.Rule
	for rows.Next() {
		var r recurrence.Rule
		if err := rows.Scan(&r.ID, &r.FrequencyExpression, &r.Version, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recurrence rule: %w", err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *Store) GetRecurrenceRule(ctx context.Context, userID, id int64) (*recurrence.Rule, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, frequency_expression, version, created_at, updated_at
		FROM task_recurrence_rules WHERE id = $1 AND user_id = $2`, id, userID)

	var r recurrence.Rule
	if err := row.Scan(&r.ID, &r.FrequencyExpression, &r.Version, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, notFoundWrap(err, "get recurrence rule %d", id)
	}
	return &r, nil
}

func (s *Store) CreateRecurrenceRule(ctx context.Context, userID int64, r recurrence.Rule) (*recurrence.Rule, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO task_recurrence_rules (user_id, frequency_expression)
		VALUES ($1, $2)
		RETURNING id, frequency_expression, version, created_at, updated_at`,
		userID, r.FrequencyExpression)

	var created recurrence.Rule
	if err := row.Scan(&created.ID, &created.FrequencyExpression, &created.Version, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create recurrence rule: %w", err)
	}
	return &created, nil
}

func (s *Store) DeleteRecurrenceRule(ctx context.Context, userID, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM task_recurrence_rules WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete recurrence rule %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete recurrence rule %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
