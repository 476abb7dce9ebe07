// Package journal defines free-form daily journal entries, including the
// per-day focus-minute totals accumulated by Pomodoro sessions.
package journal

import (
	"fmt"
	"time"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

// Entry is one journal record. A user may have several entries per day;
// focus minutes accumulate on the day's first entry.
type Entry struct {
	ID                int64          `json:"id"`
	Date              wallclock.Date `json:"date"`
	Title             string         `json:"title,omitempty"`
	ContentText       string         `json:"contentText,omitempty"`
	Weather           string         `json:"weather,omitempty"`
	Mood              string         `json:"mood,omitempty"`
	Activity          string         `json:"activity,omitempty"`
	VoiceNoteURL      string         `json:"voiceNoteUrl,omitempty"`
	TotalFocusMinutes int            `json:"totalFocusMinutes"`
	Evaluation        string         `json:"evaluation,omitempty"`
	Version           int64          `json:"version"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// CreateRequest is the input for creating a journal entry.
type CreateRequest struct {
	Date         wallclock.Date `json:"date"`
	Title        string         `json:"title,omitempty"`
	ContentText  string         `json:"contentText,omitempty"`
	Weather      string         `json:"weather,omitempty"`
	Mood         string         `json:"mood,omitempty"`
	Activity     string         `json:"activity,omitempty"`
	VoiceNoteURL string         `json:"voiceNoteUrl,omitempty"`
	Evaluation   string         `json:"evaluation,omitempty"`
}

// Validate checks the create request.
func (r *CreateRequest) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if r.Title == "" && r.ContentText == "" {
		return fmt.Errorf("%w: an entry needs a title or content", domain.ErrValidation)
	}
	return nil
}

// UpdateRequest is a partial update of an existing entry.
type UpdateRequest struct {
	Title        *string `json:"title,omitempty"`
	ContentText  *string `json:"contentText,omitempty"`
	Weather      *string `json:"weather,omitempty"`
	Mood         *string `json:"mood,omitempty"`
	Activity     *string `json:"activity,omitempty"`
	VoiceNoteURL *string `json:"voiceNoteUrl,omitempty"`
	Evaluation   *string `json:"evaluation,omitempty"`
	Version      *int64  `json:"version,omitempty"`
}

// FocusRequest accumulates Pomodoro focus minutes onto a day.
type FocusRequest struct {
	Date         wallclock.Date `json:"date"`
	FocusMinutes int            `json:"focusMinutes"`
}

// Validate checks the focus request. Minutes are bounded to the Pomodoro
// timer's input range.
func (r *FocusRequest) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if r.FocusMinutes <= 0 || r.FocusMinutes > 120 {
		return fmt.Errorf("%w: focusMinutes must be between 1 and 120", domain.ErrValidation)
	}
	return nil
}

// EvaluationRequest sets the day's evaluation text. An empty evaluation
// clears it.
type EvaluationRequest struct {
	Date       wallclock.Date `json:"date"`
	Evaluation string         `json:"evaluation"`
}

// Validate checks the evaluation request.
func (r *EvaluationRequest) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	return nil
}
