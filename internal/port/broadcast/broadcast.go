// Package broadcast defines the port for pushing real-time events to connected clients.
package broadcast

import "context"

// Broadcaster sends real-time events to a user's connected clients.
type Broadcaster interface {
	// BroadcastEvent sends a typed event to every connection owned by userID.
	BroadcastEvent(ctx context.Context, userID int64, eventType string, payload any)
}
