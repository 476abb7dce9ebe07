// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/asteritime/asteritime/internal/domain/category"
	"github.com/asteritime/asteritime/internal/domain/journal"
	"github.com/asteritime/asteritime/internal/domain/recurrence"
	"github.com/asteritime/asteritime/internal/domain/task"
	"github.com/asteritime/asteritime/internal/domain/user"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

// Store is the port interface for database operations. Every entity except
// users is scoped to its owning user; callers pass the authenticated user ID
// and never see other users' rows.
type Store interface {
	// Users
	CreateUser(ctx context.Context, username, email, passwordHash string) (*user.User, error)
	GetUser(ctx context.Context, id int64) (*user.User, error)
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)

	// Refresh tokens
	StoreRefreshToken(ctx context.Context, rt user.RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*user.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, tokenHash string) error
	DeleteExpiredRefreshTokens(ctx context.Context) (int64, error)

	// Tasks. UpdateTask persists the full record guarded by its version
	// column and returns ErrConflict on a stale version.
	ListTasks(ctx context.Context, userID int64, filter task.Filter) ([]task.Task, error)
	GetTask(ctx context.Context, userID, id int64) (*task.Task, error)
	CreateTask(ctx context.Context, userID int64, t task.Task) (*task.Task, error)
	UpdateTask(ctx context.Context, userID int64, t task.Task) (*task.Task, error)
	DeleteTask(ctx context.Context, userID, id int64) error

	// Categories
	ListCategories(ctx context.Context, userID int64) ([]category.Category, error)
	GetCategory(ctx context.Context, userID, id int64) (*category.Category, error)
	CreateCategory(ctx context.Context, userID int64, c category.Category) (*category.Category, error)
	DeleteCategory(ctx context.Context, userID, id int64) error

	// Recurrence rules
	ListRecurrenceRules(ctx context.Context, userID int64) ([]recurrence.Rule, error)
	GetRecurrenceRule(ctx context.Context, userID, id int64) (*recurrence.Rule, error)
	CreateRecurrenceRule(ctx context.Context, userID int64, r recurrence.Rule) (*recurrence.Rule, error)
	DeleteRecurrenceRule(ctx context.Context, userID, id int64) error

	// Journal entries. GetJournalEntryByDate returns the earliest entry on
	// the date, which is where focus minutes accumulate.
	ListJournalEntries(ctx context.Context, userID int64) ([]journal.Entry, error)
	ListJournalEntriesByRange(ctx context.Context, userID int64, from, to wallclock.Date) ([]journal.Entry, error)
	GetJournalEntry(ctx context.Context, userID, id int64) (*journal.Entry, error)
	GetJournalEntryByDate(ctx context.Context, userID int64, date wallclock.Date) (*journal.Entry, error)
	CreateJournalEntry(ctx context.Context, userID int64, e journal.Entry) (*journal.Entry, error)
	UpdateJournalEntry(ctx context.Context, userID int64, e journal.Entry) (*journal.Entry, error)
	DeleteJournalEntry(ctx context.Context, userID, id int64) error
}
