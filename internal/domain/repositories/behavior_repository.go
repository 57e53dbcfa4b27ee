package repositories

import (
	"context"

	"github.com/luminacart/discovery/internal/domain/entities"
)

// BehaviorRepository owns the per-user interaction logs. Writes for the same
// user must serialize, and reads must observe a consistent snapshot, so
// implementations guard the log with their own synchronization.
type BehaviorRepository interface {
	// Append records an event at the tail of its user's log. Once a log is at
	// capacity the oldest entry is evicted first.
	Append(ctx context.Context, event *entities.BehaviorEvent) error

	// ListByUser returns a snapshot of one user's events in arrival order.
	ListByUser(ctx context.Context, userID string) ([]*entities.BehaviorEvent, error)

	// ListAll returns a snapshot of every user's events, keyed by user id.
	ListAll(ctx context.Context) (map[string][]*entities.BehaviorEvent, error)
}
