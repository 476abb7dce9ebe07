package messagequeue

import "github.com/asteritime/asteritime/internal/domain/task"

// TaskEventPayload is the schema for tasks.created / tasks.updated messages.
// Source distinguishes engine-driven changes ("auto") from user actions
// ("manual") and plain edits ("edit").
type TaskEventPayload struct {
	UserID int64     `json:"userId"`
	Task   task.Task `json:"task"`
	Source string    `json:"source"`
}

// TaskDeletedPayload is the schema for tasks.deleted messages.
type TaskDeletedPayload struct {
	UserID int64 `json:"userId"`
	TaskID int64 `json:"taskId"`
}

// FocusPayload is the schema for journal.focus messages.
type FocusPayload struct {
	UserID       int64  `json:"userId"`
	Date         string `json:"date"`
	FocusMinutes int    `json:"focusMinutes"`
	TotalMinutes int    `json:"totalMinutes"`
}

// JournalUpsertPayload is the schema for journal.upsert messages.
type JournalUpsertPayload struct {
	UserID  int64 `json:"userId"`
	EntryID int64 `json:"entryId"`
}
