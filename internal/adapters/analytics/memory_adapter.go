package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luminacart/discovery/internal/domain/entities"
	"github.com/luminacart/discovery/internal/domain/repositories"
)

// maxStoredEvents caps the retained event log; query frequency counts keep
// accumulating past it.
const maxStoredEvents = 5000

// MemoryAdapter implements SearchAnalyticsRepository in process. Events feed
// two views: a bounded newest-last log and an unbounded per-query counter.
type MemoryAdapter struct {
	mu     sync.RWMutex
	events []*entities.SearchEvent
	counts map[string]int
}

func NewMemoryAdapter() repositories.SearchAnalyticsRepository {
	return &MemoryAdapter{
		counts: make(map[string]int),
	}
}

func (a *MemoryAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.events = append(a.events, event)
	if len(a.events) > maxStoredEvents {
		a.events = a.events[len(a.events)-maxStoredEvents:]
	}
	if event.NormalizedQuery != "" {
		a.counts[event.NormalizedQuery]++
	}
	return nil
}

func (a *MemoryAdapter) PopularQueries(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	a.mu.RLock()
	queries := make([]string, 0, len(a.counts))
	for q := range a.counts {
		queries = append(queries, q)
	}
	counts := make(map[string]int, len(a.counts))
	for q, c := range a.counts {
		counts[q] = c
	}
	a.mu.RUnlock()

	sort.Slice(queries, func(i, j int) bool {
		if counts[queries[i]] != counts[queries[j]] {
			return counts[queries[i]] > counts[queries[j]]
		}
		return queries[i] < queries[j]
	})
	if len(queries) > limit {
		queries = queries[:limit]
	}
	return queries, nil
}

func (a *MemoryAdapter) ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []*entities.SearchEvent
	for i := len(a.events) - 1; i >= 0 && len(out) < limit; i-- {
		if a.events[i].ResultCount == 0 {
			out = append(out, a.events[i])
		}
	}
	return out, nil
}
