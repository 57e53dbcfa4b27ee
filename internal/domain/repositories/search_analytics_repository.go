package repositories

import (
	"context"

	"github.com/luminacart/discovery/internal/domain/entities"
)

// SearchAnalyticsRepository records search interactions and answers the
// aggregate questions the suggestion engine and merchandising tools ask.
type SearchAnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error

	// PopularQueries returns the most frequently seen normalized queries,
	// most popular first.
	PopularQueries(ctx context.Context, limit int) ([]string, error)

	// ZeroResultQueries returns recent searches that produced no results,
	// newest first.
	ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
