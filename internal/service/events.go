package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/asteritime/asteritime/internal/port/broadcast"
	"github.com/asteritime/asteritime/internal/port/messagequeue"
)

// EventBridge relays task and journal events from the message queue to the
// WebSocket broadcaster, so every instance pushes changes made on any
// instance to its own connected clients.
type EventBridge struct {
	queue messagequeue.Queue
	bcast broadcast.Broadcaster
}

// NewEventBridge creates a new EventBridge.
func NewEventBridge(queue messagequeue.Queue, bcast broadcast.Broadcaster) *EventBridge {
	return &EventBridge{queue: queue, bcast: bcast}
}

// Start subscribes to all relayed subjects. The returned stop function
// cancels every subscription.
func (b *EventBridge) Start(ctx context.Context) (stop func(), err error) {
	subjects := []string{
		messagequeue.SubjectTaskCreated,
		messagequeue.SubjectTaskUpdated,
		messagequeue.SubjectTaskDeleted,
		messagequeue.SubjectJournalFocus,
		messagequeue.SubjectJournalUpserted,
	}

	cancels := make([]func(), 0, len(subjects))
	stopAll := func() {
		for _, cancel := range cancels {
			cancel()
		}
	}

	for _, subject := range subjects {
		cancel, err := b.queue.Subscribe(ctx, subject, b.relay)
		if err != nil {
			stopAll()
			return nil, fmt.Errorf("subscribe %s: %w", subject, err)
		}
		cancels = append(cancels, cancel)
	}
	return stopAll, nil
}

// relay validates the message, extracts the owning user, and forwards the
// payload to that user's connections.
func (b *EventBridge) relay(ctx context.Context, subject string, data []byte) error {
	if err := messagequeue.Validate(subject, data); err != nil {
		slog.Warn("dropping malformed event", "subject", subject, "error", err)
		return nil
	}

	var envelope struct {
		UserID int64 `json:"userId"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.UserID == 0 {
		slog.Warn("dropping event without user", "subject", subject)
		return nil
	}

	b.bcast.BroadcastEvent(ctx, envelope.UserID, subject, json.RawMessage(data))
	return nil
}
