// Package recurrence defines task recurrence rules. Rules are stored and
// referenced by tasks; expansion into concrete occurrences is not
// implemented.
package recurrence

import (
	"fmt"
	"regexp"
	"time"

	"github.com/asteritime/asteritime/internal/domain"
)

// Rule holds a recurrence frequency expression such as "1/day" or "2/week",
// unique per user.
type Rule struct {
	ID                  int64     `json:"id"`
	FrequencyExpression string    `json:"frequencyExpression"`
	Version             int64     `json:"version"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// frequencyPattern matches "<count>/<unit>" with a day/week/month/year unit.
var frequencyPattern = regexp.MustCompile(`^[1-9][0-9]*/(day|week|month|year)$`)

// CreateRequest is the input for creating a recurrence rule.
type CreateRequest struct {
	FrequencyExpression string `json:"frequencyExpression"`
}

// Validate checks the create request.
func (r *CreateRequest) Validate() error {
	if r.FrequencyExpression == "" {
		return fmt.Errorf("%w: frequencyExpression is required", domain.ErrValidation)
	}
	if !frequencyPattern.MatchString(r.FrequencyExpression) {
		return fmt.Errorf("%w: frequencyExpression must look like \"1/day\" or \"2/week\"", domain.ErrValidation)
	}
	return nil
}
