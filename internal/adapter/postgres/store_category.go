package postgres

import (
	"context"
	"fmt"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/category"
)

func (s *Store) ListCategories(ctx context.Context, userID int64) ([]category.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, version, created_at, updated_at
		FROM task_categories WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []category.Category
	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, userID, id int64) (*category.Category, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, version, created_at, updated_at
		FROM task_categories WHERE id = $1 AND user_id = $2`, id, userID)

	var c category.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, notFoundWrap(err, "get category %d", id)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, userID int64, c category.Category) (*category.Category, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO task_categories (user_id, name)
		VALUES ($1, $2)
		RETURNING id, name, version, created_at, updated_at`,
		userID, c.Name)

	var created category.Category
	if err := row.Scan(&created.ID, &created.Name, &created.Version, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &created, nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM task_categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete category %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
