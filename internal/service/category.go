package service

import (
	"context"

	"github.com/asteritime/asteritime/internal/domain/category"
	"github.com/asteritime/asteritime/internal/port/database"
)

// CategoryService handles task category CRUD.
type CategoryService struct {
	store database.Store
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store database.Store) *CategoryService {
	return &CategoryService{store: store}
}

// List returns the user's categories sorted by name.
func (s *CategoryService) List(ctx context.Context, userID int64) ([]category.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

// Get returns one category.
func (s *CategoryService) Get(ctx context.Context, userID, id int64) (*category.Category, error) {
	return s.store.GetCategory(ctx, userID, id)
}

// Create validates and persists a new category.
func (s *CategoryService) Create(ctx context.Context, userID int64, req category.CreateRequest) (*category.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateCategory(ctx, userID, category.Category{Name: req.Name})
}

// Delete removes a category. Tasks referencing it keep running with their
// category cleared by the foreign key.
func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.DeleteCategory(ctx, userID, id)
}
