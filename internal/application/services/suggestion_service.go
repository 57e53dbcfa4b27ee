package services

import (
	"context"
	"strings"

	"github.com/luminacart/discovery/internal/domain/entities"
	"github.com/luminacart/discovery/internal/domain/repositories"
	"github.com/rs/zerolog/log"
)

// maxSuggestions caps the merged suggestion list across all three sources.
const maxSuggestions = 8

// popularQueryScan bounds how many tracked queries are considered per call.
const popularQueryScan = 50

// SuggestionService produces completions for a partial query from three
// sources: catalog product names, configured category keywords, and
// previously tracked popular searches.
type SuggestionService struct {
	catalog   repositories.CatalogRepository
	parser    *QueryUnderstandingService
	analytics repositories.SearchAnalyticsRepository
}

// NewSuggestionService creates a suggestion service. The analytics repository
// is optional; without it the popular source stays empty.
func NewSuggestionService(
	catalog repositories.CatalogRepository,
	parser *QueryUnderstandingService,
	analytics repositories.SearchAnalyticsRepository,
) *SuggestionService {
	return &SuggestionService{
		catalog:   catalog,
		parser:    parser,
		analytics: analytics,
	}
}

// Suggest returns up to maxSuggestions completions for the partial query.
// Sources are merged in a fixed order: autocomplete, category, popular.
func (s *SuggestionService) Suggest(ctx context.Context, partial string) []entities.Suggestion {
	q := strings.ToLower(strings.TrimSpace(partial))
	if q == "" {
		return nil
	}

	var suggestions []entities.Suggestion
	add := func(text string, kind entities.SuggestionType) bool {
		if len(suggestions) >= maxSuggestions {
			return false
		}
		suggestions = append(suggestions, entities.Suggestion{Text: text, Type: kind})
		return true
	}

	products, err := s.catalog.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load catalog for suggestions")
	}
	for _, p := range products {
		name := strings.ToLower(p.Name)
		if name != q && strings.Contains(name, q) {
			if !add(p.Name, entities.SuggestionAutocomplete) {
				return suggestions
			}
		}
	}

	vocab := s.parser.Vocabulary()
	for _, category := range s.parser.CategoryOrder() {
		for _, keyword := range vocab.Categories[category] {
			if strings.Contains(keyword, q) {
				if !add(keyword, entities.SuggestionCategory) {
					return suggestions
				}
			}
		}
	}

	if s.analytics != nil {
		popular, err := s.analytics.PopularQueries(ctx, popularQueryScan)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load popular queries for suggestions")
		}
		for _, query := range popular {
			if query != q && strings.Contains(query, q) {
				if !add(query, entities.SuggestionPopular) {
					return suggestions
				}
			}
		}
	}

	return suggestions
}
