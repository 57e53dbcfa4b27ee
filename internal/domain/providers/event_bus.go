package providers

import (
	"context"

	"github.com/luminacart/discovery/internal/domain/entities"
)

// EventBus fans tracked behavior events out to external consumers. The
// recommendation engines only ever write to the bus; nothing in this service
// reads its own events back.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.BehaviorEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.BehaviorEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelBehaviorUpdates carries every tracked behavior event.
	EventChannelBehaviorUpdates = "behavior:updates"

	// EventChannelUserPrefix is the prefix for user-specific channels
	EventChannelUserPrefix = "behavior:user:"
)

// GetUserChannel returns the channel name for a specific user's events.
func GetUserChannel(userID string) string {
	if userID == "" {
		userID = entities.AnonymousUserID
	}
	return EventChannelUserPrefix + userID
}
