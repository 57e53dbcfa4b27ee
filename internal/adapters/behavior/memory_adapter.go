package behavior

import (
	"context"
	"sync"

	"github.com/luminacart/discovery/internal/domain/entities"
	"github.com/luminacart/discovery/internal/domain/repositories"
	"github.com/luminacart/discovery/pkg/errors"
)

// MaxEventsPerUser caps the per-user history. Once a user reaches the cap
// the oldest event is dropped for each new one.
const MaxEventsPerUser = 1000

// ring is a fixed-capacity event buffer. Until the cap is reached events are
// simply appended; after that next points at the slot holding the oldest
// event, which the next write overwrites.
type ring struct {
	buf  []*entities.BehaviorEvent
	next int
	full bool
}

func (r *ring) append(event *entities.BehaviorEvent) {
	if !r.full {
		r.buf = append(r.buf, event)
		if len(r.buf) == MaxEventsPerUser {
			r.full = true
		}
		return
	}
	r.buf[r.next] = event
	r.next = (r.next + 1) % MaxEventsPerUser
}

// snapshot returns the events oldest first.
func (r *ring) snapshot() []*entities.BehaviorEvent {
	out := make([]*entities.BehaviorEvent, 0, len(r.buf))
	if r.full {
		out = append(out, r.buf[r.next:]...)
		out = append(out, r.buf[:r.next]...)
		return out
	}
	return append(out, r.buf...)
}

// MemoryAdapter implements BehaviorRepository with per-user in-process ring
// buffers. It is safe for concurrent use.
type MemoryAdapter struct {
	mu    sync.RWMutex
	users map[string]*ring
}

// NewMemoryAdapter creates an empty in-memory behavior store.
func NewMemoryAdapter() repositories.BehaviorRepository {
	return &MemoryAdapter{
		users: make(map[string]*ring),
	}
}

// Append records one event for its user, evicting the user's oldest event
// once the per-user cap is reached.
func (a *MemoryAdapter) Append(ctx context.Context, event *entities.BehaviorEvent) error {
	if event == nil {
		return errors.NewValidationError("behavior event is required")
	}
	userID := event.UserID
	if userID == "" {
		userID = entities.AnonymousUserID
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.users[userID]
	if !ok {
		r = &ring{}
		a.users[userID] = r
	}
	r.append(event)
	return nil
}

// ListByUser returns the user's events oldest first. An unknown user yields
// an empty list.
func (a *MemoryAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.BehaviorEvent, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	r, ok := a.users[userID]
	if !ok {
		return nil, nil
	}
	return r.snapshot(), nil
}

// ListAll returns every user's events keyed by user id, oldest first per user.
func (a *MemoryAdapter) ListAll(ctx context.Context) (map[string][]*entities.BehaviorEvent, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[string][]*entities.BehaviorEvent, len(a.users))
	for userID, r := range a.users {
		out[userID] = r.snapshot()
	}
	return out, nil
}
