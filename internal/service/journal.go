package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/journal"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
	"github.com/asteritime/asteritime/internal/port/cache"
	"github.com/asteritime/asteritime/internal/port/database"
	"github.com/asteritime/asteritime/internal/port/messagequeue"
)

// JournalService handles journal entries and per-day focus accumulation.
type JournalService struct {
	store    database.Store
	queue    messagequeue.Queue
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewJournalService creates a new JournalService. queue and c may be nil;
// events and caching are then skipped.
func NewJournalService(store database.Store, queue messagequeue.Queue, c cache.Cache, cacheTTL time.Duration) *JournalService {
	return &JournalService{store: store, queue: queue, cache: c, cacheTTL: cacheTTL}
}

// List returns all of the user's journal entries, newest first.
func (s *JournalService) List(ctx context.Context, userID int64) ([]journal.Entry, error) {
	return s.store.ListJournalEntries(ctx, userID)
}

// ListByDate returns the user's entries for one calendar date.
func (s *JournalService) ListByDate(ctx context.Context, userID int64, date wallclock.Date) ([]journal.Entry, error) {
	return s.store.ListJournalEntriesByRange(ctx, userID, date, date)
}

// ListByRange returns the user's entries between from and to inclusive.
func (s *JournalService) ListByRange(ctx context.Context, userID int64, from, to wallclock.Date) ([]journal.Entry, error) {
	if to.Time().Before(from.Time()) {
		return nil, fmt.Errorf("%w: range end precedes start", domain.ErrValidation)
	}
	return s.store.ListJournalEntriesByRange(ctx, userID, from, to)
}

// Get returns one of the user's entries.
func (s *JournalService) Get(ctx context.Context, userID, id int64) (*journal.Entry, error) {
	return s.store.GetJournalEntry(ctx, userID, id)
}

// Create validates and persists a new journal entry.
func (s *JournalService) Create(ctx context.Context, userID int64, req journal.CreateRequest) (*journal.Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e := journal.Entry{
		Date:         req.Date,
		Title:        req.Title,
		ContentText:  req.ContentText,
		Weather:      req.Weather,
		Mood:         req.Mood,
		Activity:     req.Activity,
		VoiceNoteURL: req.VoiceNoteURL,
		Evaluation:   req.Evaluation,
	}

	created, err := s.store.CreateJournalEntry(ctx, userID, e)
	if err != nil {
		return nil, err
	}

	s.invalidateFocusCache(ctx, userID, created.Date)
	s.publishUpsert(ctx, userID, created.ID)
	return created, nil
}

// Update merges a partial update onto the stored entry.
func (s *JournalService) Update(ctx context.Context, userID, id int64, req journal.UpdateRequest) (*journal.Entry, error) {
	current, err := s.store.GetJournalEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if req.Title != nil {
		merged.Title = *req.Title
	}
	if req.ContentText != nil {
		merged.ContentText = *req.ContentText
	}
	if req.Weather != nil {
		merged.Weather = *req.Weather
	}
	if req.Mood != nil {
		merged.Mood = *req.Mood
	}
	if req.Activity != nil {
		merged.Activity = *req.Activity
	}
	if req.VoiceNoteURL != nil {
		merged.VoiceNoteURL = *req.VoiceNoteURL
	}
	if req.Evaluation != nil {
		merged.Evaluation = *req.Evaluation
	}
	if req.Version != nil {
		merged.Version = *req.Version
	}

	updated, err := s.store.UpdateJournalEntry(ctx, userID, merged)
	if err != nil {
		return nil, err
	}

	s.publishUpsert(ctx, userID, updated.ID)
	return updated, nil
}

// Delete removes one of the user's entries.
func (s *JournalService) Delete(ctx context.Context, userID, id int64) error {
	e, err := s.store.GetJournalEntry(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteJournalEntry(ctx, userID, id); err != nil {
		return err
	}
	s.invalidateFocusCache(ctx, userID, e.Date)
	return nil
}

// FocusTime returns the total focus minutes recorded for the given date.
// The total lives on the day's earliest entry; no entry means zero.
func (s *JournalService) FocusTime(ctx context.Context, userID int64, date wallclock.Date) (int, error) {
	if cached, ok := s.focusFromCache(ctx, userID, date); ok {
		return cached, nil
	}

	e, err := s.store.GetJournalEntryByDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	s.focusToCache(ctx, userID, date, e.TotalFocusMinutes)
	return e.TotalFocusMinutes, nil
}

// AddFocusMinutes credits a completed Pomodoro interval to the given date.
// The minutes accumulate on the day's earliest entry; if the day has no
// entry yet, a bare one is created to carry the total.
func (s *JournalService) AddFocusMinutes(ctx context.Context, userID int64, req journal.FocusRequest) (*journal.Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e, err := s.store.GetJournalEntryByDate(ctx, userID, req.Date)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		created, cerr := s.store.CreateJournalEntry(ctx, userID, journal.Entry{
			Date:              req.Date,
			Title:             "Focus log",
			TotalFocusMinutes: req.FocusMinutes,
		})
		if cerr != nil {
			return nil, cerr
		}
		e = created
	case err != nil:
		return nil, err
	default:
		e.TotalFocusMinutes += req.FocusMinutes
		e, err = s.store.UpdateJournalEntry(ctx, userID, *e)
		if err != nil {
			return nil, err
		}
	}

	s.invalidateFocusCache(ctx, userID, req.Date)
	s.publishFocus(ctx, userID, req, e.TotalFocusMinutes)
	return e, nil
}

// Evaluation returns the entry carrying the day's evaluation. When several
// entries exist the first with a non-empty evaluation wins, otherwise the
// first entry of the day.
func (s *JournalService) Evaluation(ctx context.Context, userID int64, date wallclock.Date) (*journal.Entry, error) {
	entries, err := s.store.ListJournalEntriesByRange(ctx, userID, date, date)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no journal entry for %s", domain.ErrNotFound, date)
	}
	for i := range entries {
		if entries[i].Evaluation != "" {
			return &entries[i], nil
		}
	}
	return &entries[0], nil
}

// UpsertEvaluation sets the day's evaluation on its earliest entry, creating
// a bare entry when the day has none.
func (s *JournalService) UpsertEvaluation(ctx context.Context, userID int64, req journal.EvaluationRequest) (*journal.Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e, err := s.store.GetJournalEntryByDate(ctx, userID, req.Date)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		created, cerr := s.store.CreateJournalEntry(ctx, userID, journal.Entry{
			Date:       req.Date,
			Title:      "Daily review",
			Evaluation: req.Evaluation,
		})
		if cerr != nil {
			return nil, cerr
		}
		e = created
	case err != nil:
		return nil, err
	default:
		e.Evaluation = req.Evaluation
		e, err = s.store.UpdateJournalEntry(ctx, userID, *e)
		if err != nil {
			return nil, err
		}
	}

	s.publishUpsert(ctx, userID, e.ID)
	return e, nil
}

func focusCacheKey(userID int64, date wallclock.Date) string {
	return fmt.Sprintf("focus:%d:%s", userID, date)
}

func (s *JournalService) focusFromCache(ctx context.Context, userID int64, date wallclock.Date) (int, bool) {
	if s.cache == nil {
		return 0, false
	}
	data, found, err := s.cache.Get(ctx, focusCacheKey(userID, date))
	if err != nil || !found {
		return 0, false
	}
	var minutes int
	if err := json.Unmarshal(data, &minutes); err != nil {
		return 0, false
	}
	return minutes, true
}

func (s *JournalService) focusToCache(ctx context.Context, userID int64, date wallclock.Date, minutes int) {
	if s.cache == nil {
		return
	}
	data, _ := json.Marshal(minutes)
	if err := s.cache.Set(ctx, focusCacheKey(userID, date), data, s.cacheTTL); err != nil {
		slog.Debug("focus cache set failed", "error", err)
	}
}

func (s *JournalService) invalidateFocusCache(ctx context.Context, userID int64, date wallclock.Date) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, focusCacheKey(userID, date)); err != nil {
		slog.Debug("focus cache delete failed", "error", err)
	}
}

func (s *JournalService) publishFocus(ctx context.Context, userID int64, req journal.FocusRequest, total int) {
	if s.queue == nil {
		return
	}
	payload := messagequeue.FocusPayload{
		UserID:       userID,
		Date:         req.Date.String(),
		FocusMinutes: req.FocusMinutes,
		TotalMinutes: total,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, messagequeue.SubjectJournalFocus, data); err != nil {
		slog.Error("failed to publish focus event", "error", err)
	}
}

func (s *JournalService) publishUpsert(ctx context.Context, userID, entryID int64) {
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(messagequeue.JournalUpsertPayload{UserID: userID, EntryID: entryID})
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, messagequeue.SubjectJournalUpserted, data); err != nil {
		slog.Error("failed to publish journal event", "error", err)
	}
}
