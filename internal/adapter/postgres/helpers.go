package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

// scannable abstracts pgx.Row and pgx.Rows for shared scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

// nullClock converts an optional wall-clock timestamp to a nullable column
// value. The zone-less domain value is stored as-is in a TIMESTAMP column.
func nullClock(d *wallclock.DateTime) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time()
}

// clockPtr converts a nullable TIMESTAMP scan target back to the domain type.
func clockPtr(t *time.Time) *wallclock.DateTime {
	if t == nil {
		return nil
	}
	d := wallclock.At(*t)
	return &d
}

// notFoundWrap checks whether err is pgx.ErrNoRows and, if so, wraps
// domain.ErrNotFound with the given message. Otherwise it wraps the
// original error.
func notFoundWrap(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
