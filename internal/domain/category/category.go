// Package category defines user-scoped task categories.
package category

import (
	"fmt"
	"time"

	"github.com/asteritime/asteritime/internal/domain"
)

// Category labels tasks for grouping and analytics. Names are unique per
// user. Categories play no part in the status lifecycle.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateRequest is the input for creating a category.
type CreateRequest struct {
	Name string `json:"name"`
}

// Validate checks the create request.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if len(r.Name) > 100 {
		return fmt.Errorf("%w: name too long (max 100 chars)", domain.ErrValidation)
	}
	return nil
}
