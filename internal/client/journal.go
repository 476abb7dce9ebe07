package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/asteritime/asteritime/internal/domain/journal"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

// CreateEntry creates a journal entry.
func (c *Client) CreateEntry(ctx context.Context, req journal.CreateRequest) (*journal.Entry, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/api/journal-entries", req)
	if err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}
	e, err := decode[journal.Entry](data)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEntries returns the user's journal entries, newest first.
func (c *Client) ListEntries(ctx context.Context) ([]journal.Entry, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/api/journal-entries", nil)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return decode[[]journal.Entry](data)
}

// EntriesByDate returns the entries for one calendar date.
func (c *Client) EntriesByDate(ctx context.Context, date wallclock.Date) ([]journal.Entry, error) {
	path := "/api/journal-entries/by-date?date=" + url.QueryEscape(date.String())
	data, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("journal entries for %s: %w", date, err)
	}
	return decode[[]journal.Entry](data)
}

// FocusTime returns the accumulated focus minutes for a date.
func (c *Client) FocusTime(ctx context.Context, date wallclock.Date) (int, error) {
	path := "/api/journal-entries/focus-time?date=" + url.QueryEscape(date.String())
	data, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, fmt.Errorf("focus time for %s: %w", date, err)
	}
	type focusResponse struct {
		FocusMinutes int `json:"focusMinutes"`
	}
	resp, err := decode[focusResponse](data)
	if err != nil {
		return 0, err
	}
	return resp.FocusMinutes, nil
}

// Evaluation fetches the entry carrying the day's evaluation text.
func (c *Client) Evaluation(ctx context.Context, date wallclock.Date) (*journal.Entry, error) {
	path := "/api/journal-entries/evaluation?date=" + url.QueryEscape(date.String())
	data, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("evaluation for %s: %w", date, err)
	}
	e, err := decode[journal.Entry](data)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SetEvaluation upserts the day's evaluation text.
func (c *Client) SetEvaluation(ctx context.Context, req journal.EvaluationRequest) (*journal.Entry, error) {
	data, err := c.doRequest(ctx, http.MethodPut, "/api/journal-entries/evaluation", req)
	if err != nil {
		return nil, fmt.Errorf("set evaluation: %w", err)
	}
	e, err := decode[journal.Entry](data)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// AddFocusMinutes accumulates completed Pomodoro minutes onto a date's
// journal entry, creating the entry if the day has none.
func (c *Client) AddFocusMinutes(ctx context.Context, req journal.FocusRequest) (*journal.Entry, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/api/journal-entries/focus-time", req)
	if err != nil {
		return nil, fmt.Errorf("add focus minutes: %w", err)
	}
	e, err := decode[journal.Entry](data)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
