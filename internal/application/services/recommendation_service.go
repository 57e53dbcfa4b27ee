package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luminacart/discovery/internal/domain/entities"
	"github.com/luminacart/discovery/internal/domain/providers"
	"github.com/luminacart/discovery/internal/domain/repositories"
	"github.com/rs/zerolog/log"
)

// Tunables for the recommendation strategies. The hybrid weights are a design
// decision to trust personal signals over pure popularity; keep them summing
// to 1.0.
const (
	minUserSimilarity    = 0.1
	maxSimilarUsers      = 10
	minProductSimilarity = 0.3
	maxSimilarProducts   = 20
	maxRecentBehaviors   = 20

	recentWindow   = 30 * 24 * time.Hour
	trendingWindow = 7 * 24 * time.Hour

	hybridCollaborativeWeight = 0.4
	hybridContentWeight       = 0.4
	hybridTrendingWeight      = 0.2
)

// DefaultRecommendationLimit bounds a recommendation list when the caller
// does not say.
const DefaultRecommendationLimit = 10

// Reason strings surfaced alongside each recommendation flavor.
const (
	ReasonCollaborative = "Users with similar interests also liked this"
	ReasonContentBased  = "Based on your recent interests"
	ReasonTrending      = "Trending now"
	ReasonHybrid        = "Personalized for you"
	ReasonRelated       = "Similar products"
	ReasonCrossSell     = "Frequently bought together"
)

// Recommendation pairs a product with its strategy score and a display reason.
type Recommendation struct {
	Product *entities.Product `json:"product"`
	Score   float64           `json:"score"`
	Reason  string            `json:"reason"`
}

// RecommendationService maintains per-user weighted interaction logs and
// computes collaborative, content-based, trending and hybrid recommendations
// plus product similarity. Every read recomputes from the current behavior
// snapshot; nothing is cached, so freshly tracked events take effect
// immediately. Catalogs are assumed demo-sized; a large deployment would want
// a product-pair similarity index before anything else.
type RecommendationService struct {
	catalog  repositories.CatalogRepository
	behavior repositories.BehaviorRepository
	bus      providers.EventBus
	now      func() time.Time
}

// NewRecommendationService creates a recommendation service over the given
// catalog and behavior store.
func NewRecommendationService(
	catalog repositories.CatalogRepository,
	behavior repositories.BehaviorRepository,
) *RecommendationService {
	return &RecommendationService{
		catalog:  catalog,
		behavior: behavior,
		now:      time.Now,
	}
}

// SetEventBus enables fan-out of tracked events to external consumers.
func (s *RecommendationService) SetEventBus(bus providers.EventBus) {
	s.bus = bus
}

// TrackBehavior records one weighted interaction. Unknown actions are kept
// with the default weight rather than rejected. Publishing to the event bus
// is best-effort; a bus failure never fails the track call.
func (s *RecommendationService) TrackBehavior(ctx context.Context, userID string, action entities.Action, productID string, metadata map[string]string) error {
	if userID == "" {
		userID = entities.AnonymousUserID
	}

	event := &entities.BehaviorEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		ProductID: productID,
		Weight:    action.Weight(),
		Metadata:  metadata,
		Timestamp: s.now(),
	}

	if err := s.behavior.Append(ctx, event); err != nil {
		return err
	}

	if s.bus != nil {
		// Fan out on the firehose channel and on the per-user channel, so
		// consumers can follow one user without filtering the full stream.
		for _, channel := range []string{providers.EventChannelBehaviorUpdates, providers.GetUserChannel(userID)} {
			if err := s.bus.Publish(ctx, channel, event); err != nil {
				log.Warn().Err(err).Str("channel", channel).Str("user_id", userID).Msg("failed to publish behavior event")
			}
		}
	}
	return nil
}

// GetPersonalRecommendations is the hybrid blend: it degrades gracefully from
// fully personalized down to pure trending as a user's history thins out.
func (s *RecommendationService) GetPersonalRecommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	return s.GetHybridRecommendations(ctx, userID, limit)
}

// GetCollaborativeRecommendations scores products liked by behaviorally
// similar users that the querying user has not touched yet.
func (s *RecommendationService) GetCollaborativeRecommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	limit = normalizeLimit(limit)
	if userID == "" {
		userID = entities.AnonymousUserID
	}

	all, err := s.behavior.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	mine := interactedProducts(all[userID])
	if len(mine) == 0 {
		return nil, nil
	}

	type similarUser struct {
		id         string
		similarity float64
	}
	var similar []similarUser
	for otherID, events := range all {
		if otherID == userID {
			continue
		}
		sim := jaccard(mine, interactedProducts(events))
		if sim > minUserSimilarity {
			similar = append(similar, similarUser{id: otherID, similarity: sim})
		}
	}
	sort.Slice(similar, func(i, j int) bool {
		if similar[i].similarity != similar[j].similarity {
			return similar[i].similarity > similar[j].similarity
		}
		return similar[i].id < similar[j].id
	})
	if len(similar) > maxSimilarUsers {
		similar = similar[:maxSimilarUsers]
	}

	scores := make(map[string]float64)
	var order []string
	for _, su := range similar {
		for _, ev := range all[su.id] {
			if ev.ProductID == "" {
				continue
			}
			if _, seen := mine[ev.ProductID]; seen {
				continue
			}
			if _, ok := scores[ev.ProductID]; !ok {
				order = append(order, ev.ProductID)
			}
			scores[ev.ProductID] += float64(ev.Weight) * su.similarity
		}
	}

	return s.buildRecommendations(ctx, scores, order, limit, ReasonCollaborative)
}

// GetContentBasedRecommendations scores products similar to what the user
// touched in the last 30 days. A user with no recent signal falls back
// entirely to trending; there is no blending in that case.
func (s *RecommendationService) GetContentBasedRecommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	limit = normalizeLimit(limit)
	if userID == "" {
		userID = entities.AnonymousUserID
	}

	events, err := s.behavior.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent := s.recentProductEvents(events)
	if len(recent) == 0 {
		return s.GetTrendingRecommendations(ctx, limit)
	}

	products, index, err := s.catalogIndex(ctx)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64)
	var order []string
	for _, ev := range recent {
		src, ok := index[ev.ProductID]
		if !ok {
			continue
		}
		for _, match := range s.similarProducts(src, products) {
			pid := match.product.ID
			if _, ok := scores[pid]; !ok {
				order = append(order, pid)
			}
			scores[pid] += match.similarity * float64(ev.Weight)
		}
	}

	return s.buildRecommendations(ctx, scores, order, limit, ReasonContentBased)
}

// GetTrendingRecommendations aggregates behavior weight across all users over
// the last seven days. It doubles as the cold-start fallback.
func (s *RecommendationService) GetTrendingRecommendations(ctx context.Context, limit int) ([]Recommendation, error) {
	limit = normalizeLimit(limit)

	all, err := s.behavior.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-trendingWindow)
	weights := make(map[string]float64)
	for _, events := range all {
		for _, ev := range events {
			if ev.ProductID == "" || ev.Timestamp.Before(cutoff) {
				continue
			}
			weights[ev.ProductID] += float64(ev.Weight)
		}
	}

	// Candidates are collected in catalog order so equal aggregates keep a
	// stable, catalog-defined ordering.
	products, _, err := s.catalogIndex(ctx)
	if err != nil {
		return nil, err
	}
	var order []string
	for _, p := range products {
		if weights[p.ID] > 0 {
			order = append(order, p.ID)
		}
	}

	return s.buildRecommendations(ctx, weights, order, limit, ReasonTrending)
}

// GetHybridRecommendations merges the three strategies per product id with
// fixed weights: collaborative 40%, content-based 40%, trending 20%.
func (s *RecommendationService) GetHybridRecommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	limit = normalizeLimit(limit)

	collaborative, err := s.GetCollaborativeRecommendations(ctx, userID, 2*limit)
	if err != nil {
		return nil, err
	}
	contentBased, err := s.GetContentBasedRecommendations(ctx, userID, 2*limit)
	if err != nil {
		return nil, err
	}
	trending, err := s.GetTrendingRecommendations(ctx, limit)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64)
	var order []string
	merge := func(recs []Recommendation, weight float64) {
		for _, r := range recs {
			pid := r.Product.ID
			if _, ok := scores[pid]; !ok {
				order = append(order, pid)
			}
			scores[pid] += r.Score * weight
		}
	}
	merge(collaborative, hybridCollaborativeWeight)
	merge(contentBased, hybridContentWeight)
	merge(trending, hybridTrendingWeight)

	return s.buildRecommendations(ctx, scores, order, limit, ReasonHybrid)
}

// GetRelatedProducts returns the products most similar to the given one.
// An unknown id yields an empty list, not an error.
func (s *RecommendationService) GetRelatedProducts(ctx context.Context, productID string, limit int) ([]Recommendation, error) {
	limit = normalizeLimit(limit)

	products, index, err := s.catalogIndex(ctx)
	if err != nil {
		return nil, err
	}
	src, ok := index[productID]
	if !ok {
		return nil, nil
	}

	matches := s.similarProducts(src, products)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	recs := make([]Recommendation, 0, len(matches))
	for _, m := range matches {
		recs = append(recs, Recommendation{Product: m.product, Score: m.similarity, Reason: ReasonRelated})
	}
	return recs, nil
}

// GetCrossSellRecommendations suggests companions for a cart. Similarity
// scores accumulate when several cart items point at the same candidate, and
// anything already in the cart is excluded.
func (s *RecommendationService) GetCrossSellRecommendations(ctx context.Context, cartProductIDs []string, limit int) ([]Recommendation, error) {
	limit = normalizeLimit(limit)
	if len(cartProductIDs) == 0 {
		return nil, nil
	}

	products, index, err := s.catalogIndex(ctx)
	if err != nil {
		return nil, err
	}

	inCart := make(map[string]struct{}, len(cartProductIDs))
	for _, id := range cartProductIDs {
		inCart[id] = struct{}{}
	}

	scores := make(map[string]float64)
	var order []string
	for _, id := range cartProductIDs {
		src, ok := index[id]
		if !ok {
			continue
		}
		for _, match := range s.similarProducts(src, products) {
			pid := match.product.ID
			if _, dup := inCart[pid]; dup {
				continue
			}
			if _, ok := scores[pid]; !ok {
				order = append(order, pid)
			}
			scores[pid] += match.similarity
		}
	}

	return s.buildRecommendations(ctx, scores, order, limit, ReasonCrossSell)
}

// CalculateProductSimilarity returns a similarity in [0,1] as a weighted sum:
// category 0.4, price ratio 0.2, brand 0.2, rating closeness 0.1, tag Jaccard
// 0.1. A missing factor contributes 0; the remaining weights are never
// re-normalized.
func (s *RecommendationService) CalculateProductSimilarity(a, b *entities.Product) float64 {
	if a == nil || b == nil {
		return 0
	}

	score := 0.0
	if strings.EqualFold(a.Category, b.Category) {
		score += 0.4
	}
	if a.Price == b.Price {
		score += 0.2
	} else if a.Price > 0 && b.Price > 0 {
		score += math.Min(a.Price, b.Price) / math.Max(a.Price, b.Price) * 0.2
	}
	if strings.EqualFold(a.Brand, b.Brand) {
		score += 0.2
	}
	// Missing ratings stay at 0 and participate in the difference.
	score += math.Max(0, 1-math.Abs(a.Rating-b.Rating)/5) * 0.1
	score += jaccard(tagSet(a.Tags), tagSet(b.Tags)) * 0.1
	return score
}

type similarityMatch struct {
	product    *entities.Product
	similarity float64
}

// similarProducts returns up to maxSimilarProducts catalog entries whose
// similarity to src exceeds minProductSimilarity, best first.
func (s *RecommendationService) similarProducts(src *entities.Product, products []*entities.Product) []similarityMatch {
	var matches []similarityMatch
	for _, p := range products {
		if p.ID == src.ID {
			continue
		}
		sim := s.CalculateProductSimilarity(src, p)
		if sim > minProductSimilarity {
			matches = append(matches, similarityMatch{product: p, similarity: sim})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})
	if len(matches) > maxSimilarProducts {
		matches = matches[:maxSimilarProducts]
	}
	return matches
}

// recentProductEvents returns the user's product-linked events from the last
// 30 days, newest first, capped at maxRecentBehaviors.
func (s *RecommendationService) recentProductEvents(events []*entities.BehaviorEvent) []*entities.BehaviorEvent {
	cutoff := s.now().Add(-recentWindow)
	var recent []*entities.BehaviorEvent
	for i := len(events) - 1; i >= 0 && len(recent) < maxRecentBehaviors; i-- {
		ev := events[i]
		if ev.ProductID == "" || ev.Timestamp.Before(cutoff) {
			continue
		}
		recent = append(recent, ev)
	}
	return recent
}

// buildRecommendations resolves product ids, sorts descending by score with
// first-seen order breaking ties, and truncates to limit.
func (s *RecommendationService) buildRecommendations(ctx context.Context, scores map[string]float64, order []string, limit int, reason string) ([]Recommendation, error) {
	if len(order) == 0 {
		return nil, nil
	}

	_, index, err := s.catalogIndex(ctx)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(order))
	for _, pid := range order {
		product, ok := index[pid]
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{Product: product, Score: scores[pid], Reason: reason})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *RecommendationService) catalogIndex(ctx context.Context) ([]*entities.Product, map[string]*entities.Product, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	index := make(map[string]*entities.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return products, index, nil
}

func interactedProducts(events []*entities.BehaviorEvent) map[string]struct{} {
	set := make(map[string]struct{})
	for _, ev := range events {
		if ev.ProductID != "" {
			set[ev.ProductID] = struct{}{}
		}
	}
	return set
}

func tagSet(tags []string) map[string]struct{} {
	if len(tags) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}

// jaccard is |intersection| / |union|; two empty sets score 0.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecommendationLimit
	}
	return limit
}
