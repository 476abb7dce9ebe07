package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/journal"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

const journalColumns = `
	id, entry_date, title, content_text, weather, mood, activity,
	voice_note_url, total_focus_minutes, evaluation, version, created_at, updated_at`

func scanJournalEntry(row scannable) (journal.Entry, error) {
	var (
		e    journal.Entry
		date time.Time
	)
	err := row.Scan(
		&e.ID, &date, &e.Title, &e.ContentText, &e.Weather, &e.Mood, &e.Activity,
		&e.VoiceNoteURL, &e.TotalFocusMinutes, &e.Evaluation, &e.Version, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return journal.Entry{}, err
	}
	e.Date = wallclock.DateOf(date)
	return e, nil
}

func (s *Store) ListJournalEntries(ctx context.Context, userID int64) ([]journal.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+journalColumns+` FROM journal_entries
		 WHERE user_id = $1 ORDER BY entry_date DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()
	return collectJournalEntries(rows)
}

func (s *Store) ListJournalEntriesByRange(ctx context.Context, userID int64, from, to wallclock.Date) ([]journal.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+journalColumns+` FROM journal_entries
		 WHERE user_id = $1 AND entry_date BETWEEN $2 AND $3
		 ORDER BY entry_date, id`, userID, from.Time(), to.Time())
	if err != nil {
		return nil, fmt.Errorf("list journal entries by range: %w", err)
	}
	defer rows.Close()
	return collectJournalEntries(rows)
}

func collectJournalEntries(rows pgx.Rows) ([]journal.Entry, error) {
	var entries []journal.Entry
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetJournalEntry(ctx context.Context, userID, id int64) (*journal.Entry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+journalColumns+` FROM journal_entries
		 WHERE id = $1 AND user_id = $2`, id, userID)

	e, err := scanJournalEntry(row)
	if err != nil {
		return nil, notFoundWrap(err, "get journal entry %d", id)
	}
	return &e, nil
}

// GetJournalEntryByDate returns the earliest entry on the given date, the
// row that accumulates the day's focus minutes.
func (s *Store) GetJournalEntryByDate(ctx context.Context, userID int64, date wallclock.Date) (*journal.Entry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+journalColumns+` FROM journal_entries
		 WHERE user_id = $1 AND entry_date = $2
		 ORDER BY id LIMIT 1`, userID, date.Time())

	e, err := scanJournalEntry(row)
	if err != nil {
		return nil, notFoundWrap(err, "get journal entry for %s", date)
	}
	return &e, nil
}

func (s *Store) CreateJournalEntry(ctx context.Context, userID int64, e journal.Entry) (*journal.Entry, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO journal_entries (user_id, entry_date, title, content_text, weather,
		                              mood, activity, voice_note_url, total_focus_minutes, evaluation)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING`+journalColumns,
		userID, e.Date.Time(), e.Title, e.ContentText, e.Weather,
		e.Mood, e.Activity, e.VoiceNoteURL, e.TotalFocusMinutes, e.Evaluation)

	created, err := scanJournalEntry(row)
	if err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}
	return &created, nil
}

// UpdateJournalEntry persists the full record guarded by its version column.
func (s *Store) UpdateJournalEntry(ctx context.Context, userID int64, e journal.Entry) (*journal.Entry, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE journal_entries
		 SET title = $3, content_text = $4, weather = $5, mood = $6, activity = $7,
		     voice_note_url = $8, total_focus_minutes = $9, evaluation = $10,
		     version = version + 1, updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND version = $11`,
		e.ID, userID, e.Title, e.ContentText, e.Weather, e.Mood, e.Activity,
		e.VoiceNoteURL, e.TotalFocusMinutes, e.Evaluation, e.Version)
	if err != nil {
		return nil, fmt.Errorf("update journal entry %d: %w", e.ID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.GetJournalEntry(ctx, userID, e.ID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("update journal entry %d: %w", e.ID, domain.ErrConflict)
	}

	return s.GetJournalEntry(ctx, userID, e.ID)
}

func (s *Store) DeleteJournalEntry(ctx context.Context, userID, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete journal entry %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete journal entry %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
