package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/luminacart/discovery/internal/domain/entities"
	"github.com/luminacart/discovery/internal/domain/repositories"
	"github.com/luminacart/discovery/internal/infrastructure/observability"
	apperrors "github.com/luminacart/discovery/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Additive score contributions, applied in this order. The totals are part of
// the ranking contract, so changing any value reshuffles results.
const (
	scoreFullQueryInName   = 100.0
	scoreWordInName        = 20.0
	scoreCategoryMatch     = 30.0
	scoreBrandMatch        = 25.0
	scoreWordInDescription = 5.0
	scorePriceInRange      = 15.0
	scoreAttributeMatch    = 10.0
	scoreWordInTag         = 8.0
	scoreHighRating        = 5.0
	scoreBestseller        = 10.0

	highRatingThreshold = 4.5
)

// Intent post-filter thresholds.
const (
	priceConsciousCeiling = 100.0
	premiumFloor          = 200.0
	informationMinRating  = 4.0
)

// DefaultSearchLimit bounds a result page when the caller does not say.
const DefaultSearchLimit = 20

// ScoredResult pairs a product with its relevance score and the qualitative
// reasons it matched. Reasons are re-derived independently of the numeric
// score so the UI can explain a hit without exposing point values.
type ScoredResult struct {
	Product      *entities.Product `json:"product"`
	Score        float64           `json:"score"`
	MatchReasons []string          `json:"match_reasons,omitempty"`
}

// SearchOptions carries pagination and attribution for one search call.
type SearchOptions struct {
	Limit     int
	Offset    int
	UserID    string
	SessionID string
}

// SearchResult is the full response for one search call.
type SearchResult struct {
	Results            []ScoredResult        `json:"results"`
	TotalFound         int                   `json:"total_found"`
	ParsedQuery        *ParsedQuery          `json:"parsed_query"`
	Suggestions        []entities.Suggestion `json:"suggestions,omitempty"`
	AlternativeQueries []string              `json:"alternative_queries,omitempty"`
}

// SearchService scores and ranks the catalog against a parsed query.
type SearchService struct {
	parser      *QueryUnderstandingService
	catalog     repositories.CatalogRepository
	suggestions *SuggestionService
	analytics   repositories.SearchAnalyticsRepository
	metrics     *observability.Metrics
}

// NewSearchService creates a search service. The suggestion service and the
// analytics repository are optional; a nil value disables that concern.
func NewSearchService(
	parser *QueryUnderstandingService,
	catalog repositories.CatalogRepository,
	suggestions *SuggestionService,
	analytics repositories.SearchAnalyticsRepository,
) *SearchService {
	return &SearchService{
		parser:      parser,
		catalog:     catalog,
		suggestions: suggestions,
		analytics:   analytics,
	}
}

// SetMetrics attaches the metrics instruments. Without them search duration
// is still measured for analytics but not exported.
func (s *SearchService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Search parses the query, scores every product, filters by intent, and
// paginates. An empty or unmatched query produces an empty result, never an
// error.
func (s *SearchService) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	start := time.Now()

	parsed := s.parser.Parse(query)

	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load catalog", err)
	}

	// Catalog order is preserved into the stable sort, so equal scores keep
	// their original relative order.
	var scored []ScoredResult
	for _, p := range products {
		score := s.scoreProduct(p, parsed)
		if score <= 0 {
			continue
		}
		scored = append(scored, ScoredResult{
			Product:      p,
			Score:        score,
			MatchReasons: s.matchReasons(p, parsed),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	scored = filterByIntent(scored, parsed.Intent)

	result := &SearchResult{
		Results:            paginate(scored, opts.Offset, opts.Limit),
		TotalFound:         len(scored),
		ParsedQuery:        parsed,
		AlternativeQueries: alternativeQueries(parsed),
	}
	if s.suggestions != nil {
		result.Suggestions = s.suggestions.Suggest(ctx, query)
	}

	elapsed := time.Since(start)
	s.logSearchEvent(ctx, parsed, opts, result.TotalFound, elapsed)
	if s.metrics != nil {
		observability.RecordSearchMetric(ctx, s.metrics, string(parsed.Intent), result.TotalFound, elapsed)
	}

	return result, nil
}

func (s *SearchService) scoreProduct(p *entities.Product, q *ParsedQuery) float64 {
	if q.CleanQuery == "" {
		return 0
	}

	name := strings.ToLower(p.Name)
	words := strings.Fields(q.CleanQuery)
	score := 0.0

	if strings.Contains(name, q.CleanQuery) {
		score += scoreFullQueryInName
	}
	for _, w := range words {
		if strings.Contains(name, w) {
			score += scoreWordInName
		}
	}
	if q.HasCategory(p.Category) {
		score += scoreCategoryMatch
	}
	if p.Brand != "" && q.HasBrand(p.Brand) {
		score += scoreBrandMatch
	}
	if p.Description != "" {
		desc := strings.ToLower(p.Description)
		for _, w := range words {
			if strings.Contains(desc, w) {
				score += scoreWordInDescription
			}
		}
	}
	if !q.PriceRange.Empty() && q.PriceRange.Contains(p.Price) {
		score += scorePriceInRange
	}
	for attr, value := range q.Attributes {
		if strings.EqualFold(p.Attribute(attr), value) {
			score += scoreAttributeMatch
		}
	}
	if len(p.Tags) > 0 {
		for _, w := range words {
			for _, tag := range p.Tags {
				if strings.Contains(strings.ToLower(tag), w) {
					score += scoreWordInTag
					break
				}
			}
		}
	}
	if p.Rating >= highRatingThreshold {
		score += scoreHighRating
	}
	if p.IsBestseller {
		score += scoreBestseller
	}

	return score
}

func (s *SearchService) matchReasons(p *entities.Product, q *ParsedQuery) []string {
	var reasons []string

	name := strings.ToLower(p.Name)
	if strings.Contains(name, q.CleanQuery) {
		reasons = append(reasons, "Matches your search")
	} else {
		for _, w := range strings.Fields(q.CleanQuery) {
			if strings.Contains(name, w) {
				reasons = append(reasons, "Name matches your search")
				break
			}
		}
	}
	if q.HasCategory(p.Category) {
		reasons = append(reasons, fmt.Sprintf("In %s", p.Category))
	}
	if p.Brand != "" && q.HasBrand(p.Brand) {
		reasons = append(reasons, fmt.Sprintf("From %s", p.Brand))
	}
	if p.Rating >= highRatingThreshold {
		reasons = append(reasons, "Highly rated")
	}
	if p.IsBestseller {
		reasons = append(reasons, "Bestseller")
	}
	return reasons
}

// filterByIntent narrows an already-ranked list. It runs after scoring so a
// product can match strongly and still be cut by a price or rating gate.
func filterByIntent(results []ScoredResult, intent Intent) []ScoredResult {
	var keep func(r ScoredResult) bool
	switch intent {
	case IntentPriceConscious:
		keep = func(r ScoredResult) bool { return r.Product.Price <= priceConsciousCeiling }
	case IntentPremiumFocused:
		keep = func(r ScoredResult) bool { return r.Product.Price >= premiumFloor }
	case IntentInformation:
		keep = func(r ScoredResult) bool { return r.Product.Rating >= informationMinRating }
	default:
		return results
	}

	filtered := results[:0:0]
	for _, r := range results {
		if keep(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func paginate(results []ScoredResult, offset, limit int) []ScoredResult {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) {
		return nil
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

// alternativeQueries proposes at most one rewrite per detected signal:
// category, then brand, then color.
func alternativeQueries(q *ParsedQuery) []string {
	var alts []string
	if len(q.Categories) > 0 {
		alts = append(alts, fmt.Sprintf("All %s products", q.Categories[0]))
	}
	if len(q.Brands) > 0 {
		alts = append(alts, fmt.Sprintf("%s products", q.Brands[0]))
	}
	if color, ok := q.Attributes["color"]; ok {
		alts = append(alts, fmt.Sprintf("%s products", color))
	}
	return alts
}

func (s *SearchService) logSearchEvent(ctx context.Context, parsed *ParsedQuery, opts SearchOptions, resultCount int, latency time.Duration) {
	if s.analytics == nil {
		return
	}
	event := &entities.SearchEvent{
		Query:           parsed.OriginalQuery,
		NormalizedQuery: parsed.CleanQuery,
		DetectedIntent:  string(parsed.Intent),
		ResultCount:     resultCount,
		LatencyMs:       int(latency.Milliseconds()),
		UserID:          opts.UserID,
		SessionID:       opts.SessionID,
	}
	if err := s.analytics.LogEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("query", parsed.OriginalQuery).Msg("failed to log search event")
	}
}
