package services

import (
	"context"
	"testing"
	"time"

	"github.com/luminacart/discovery/internal/domain/entities"
	"github.com/luminacart/discovery/internal/domain/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBus struct {
	published map[string][]*entities.BehaviorEvent
}

func newStubBus() *stubBus {
	return &stubBus{published: make(map[string][]*entities.BehaviorEvent)}
}

func (b *stubBus) Publish(ctx context.Context, channel string, event *entities.BehaviorEvent) error {
	b.published[channel] = append(b.published[channel], event)
	return nil
}

func (b *stubBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.BehaviorEvent, error) {
	return nil, nil
}

func (b *stubBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *stubBus) Close() error { return nil }

type stubBehavior struct {
	events map[string][]*entities.BehaviorEvent
}

func newStubBehavior() *stubBehavior {
	return &stubBehavior{events: make(map[string][]*entities.BehaviorEvent)}
}

func (b *stubBehavior) Append(ctx context.Context, event *entities.BehaviorEvent) error {
	userID := event.UserID
	if userID == "" {
		userID = entities.AnonymousUserID
	}
	b.events[userID] = append(b.events[userID], event)
	return nil
}

func (b *stubBehavior) ListByUser(ctx context.Context, userID string) ([]*entities.BehaviorEvent, error) {
	return b.events[userID], nil
}

func (b *stubBehavior) ListAll(ctx context.Context) (map[string][]*entities.BehaviorEvent, error) {
	return b.events, nil
}

var recTestTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// recCatalog has two near-identical wireless headphones, one loosely related
// speaker, and one unrelated book.
func recCatalog() *stubCatalog {
	return &stubCatalog{products: []*entities.Product{
		{
			ID: "p1", Name: "Aura Headphones", Category: "electronics", Brand: "Aura",
			Price: 200, Rating: 4.5, Tags: []string{"wireless", "audio"},
		},
		{
			ID: "p2", Name: "Aura Headphones Mini", Category: "electronics", Brand: "Aura",
			Price: 200, Rating: 4.5, Tags: []string{"wireless", "audio"},
		},
		{
			ID: "p3", Name: "Boom Speaker", Category: "electronics", Brand: "Boom",
			Price: 150, Rating: 4.0, Tags: []string{"audio"},
		},
		{
			ID: "p4", Name: "Garden Almanac", Category: "books", Brand: "Fern",
			Price: 25, Rating: 3.9, Tags: []string{"gardening"},
		},
	}}
}

func newTestRecommendationService(catalog *stubCatalog, behavior *stubBehavior) *RecommendationService {
	svc := NewRecommendationService(catalog, behavior)
	svc.now = func() time.Time { return recTestTime }
	return svc
}

func track(t *testing.T, svc *RecommendationService, userID string, action entities.Action, productID string) {
	t.Helper()
	require.NoError(t, svc.TrackBehavior(context.Background(), userID, action, productID, nil))
}

// --- Tracking tests ---

func TestTrackBehavior_RecordsWeightedEvent(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	track(t, svc, "u1", entities.ActionPurchase, "p1")

	events, err := behavior.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.Equal(t, entities.ActionPurchase, events[0].Action)
	assert.Equal(t, 10, events[0].Weight)
	assert.Equal(t, recTestTime, events[0].Timestamp)
}

func TestTrackBehavior_AnonymousFallback(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	track(t, svc, "", entities.ActionView, "p1")

	events, err := behavior.ListByUser(context.Background(), entities.AnonymousUserID)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestTrackBehavior_UnknownActionGetsDefaultWeight(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	track(t, svc, "u1", entities.Action("poke"), "p1")

	events, _ := behavior.ListByUser(context.Background(), "u1")
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].Weight)
}

func TestTrackBehavior_PublishesToBothChannels(t *testing.T) {
	behavior := newStubBehavior()
	bus := newStubBus()
	svc := newTestRecommendationService(recCatalog(), behavior)
	svc.SetEventBus(bus)

	track(t, svc, "u1", entities.ActionCart, "p1")

	require.Len(t, bus.published[providers.EventChannelBehaviorUpdates], 1)
	userEvents := bus.published[providers.GetUserChannel("u1")]
	require.Len(t, userEvents, 1)
	assert.Equal(t, "p1", userEvents[0].ProductID)
}

func TestTrackBehavior_AnonymousUserChannel(t *testing.T) {
	behavior := newStubBehavior()
	bus := newStubBus()
	svc := newTestRecommendationService(recCatalog(), behavior)
	svc.SetEventBus(bus)

	track(t, svc, "", entities.ActionView, "p1")

	require.Len(t, bus.published[providers.GetUserChannel(entities.AnonymousUserID)], 1)
}

// --- Collaborative filtering tests ---

func TestCollaborative_RecommendsFromSimilarUsers(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	// u1 and u2 overlap on p1 and p2; u2 additionally carted p3.
	track(t, svc, "u1", entities.ActionView, "p1")
	track(t, svc, "u1", entities.ActionPurchase, "p2")
	track(t, svc, "u2", entities.ActionView, "p1")
	track(t, svc, "u2", entities.ActionView, "p2")
	track(t, svc, "u2", entities.ActionCart, "p3")

	recs, err := svc.GetCollaborativeRecommendations(context.Background(), "u1", 10)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, "p3", recs[0].Product.ID)
	// Jaccard({p1,p2},{p1,p2,p3}) = 2/3; cart weight 4.
	assert.InDelta(t, 4.0*2.0/3.0, recs[0].Score, 1e-9)
	assert.Equal(t, ReasonCollaborative, recs[0].Reason)
}

func TestCollaborative_NoHistoryYieldsNothing(t *testing.T) {
	svc := newTestRecommendationService(recCatalog(), newStubBehavior())

	recs, err := svc.GetCollaborativeRecommendations(context.Background(), "stranger", 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCollaborative_DisjointUsersAreNotSimilar(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	track(t, svc, "u1", entities.ActionView, "p1")
	track(t, svc, "u2", entities.ActionPurchase, "p4")

	recs, err := svc.GetCollaborativeRecommendations(context.Background(), "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

// --- Content-based tests ---

func TestContentBased_RecommendsSimilarToRecentInteractions(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	track(t, svc, "u1", entities.ActionView, "p1")

	recs, err := svc.GetContentBasedRecommendations(context.Background(), "u1", 10)
	require.NoError(t, err)

	require.NotEmpty(t, recs)
	assert.Equal(t, "p2", recs[0].Product.ID)
	// p2 is identical to p1 on every similarity factor.
	assert.InDelta(t, 1.0, recs[0].Score, 1e-9)
	assert.Equal(t, ReasonContentBased, recs[0].Reason)

	for _, r := range recs {
		assert.NotEqual(t, "p4", r.Product.ID)
	}
}

func TestContentBased_IgnoresStaleEvents(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	stale := &entities.BehaviorEvent{
		ID: "old", UserID: "u1", Action: entities.ActionView, ProductID: "p1",
		Weight: 1, Timestamp: recTestTime.Add(-31 * 24 * time.Hour),
	}
	require.NoError(t, behavior.Append(context.Background(), stale))

	// Only stale history: falls back to trending, which is empty here too.
	recs, err := svc.GetContentBasedRecommendations(context.Background(), "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestContentBased_FallsBackToTrending(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	track(t, svc, "other", entities.ActionPurchase, "p3")

	recs, err := svc.GetContentBasedRecommendations(context.Background(), "newcomer", 10)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, "p3", recs[0].Product.ID)
	assert.Equal(t, ReasonTrending, recs[0].Reason)
}

// --- Trending tests ---

func TestTrending_AggregatesRecentWeights(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	track(t, svc, "u1", entities.ActionPurchase, "p2") // weight 10
	track(t, svc, "u2", entities.ActionView, "p1")     // weight 1
	track(t, svc, "u3", entities.ActionView, "p1")     // weight 1

	recs, err := svc.GetTrendingRecommendations(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, "p2", recs[0].Product.ID)
	assert.Equal(t, 10.0, recs[0].Score)
	assert.Equal(t, "p1", recs[1].Product.ID)
	assert.Equal(t, 2.0, recs[1].Score)
	assert.Equal(t, ReasonTrending, recs[0].Reason)
}

func TestTrending_ExcludesEventsOutsideWindow(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	old := &entities.BehaviorEvent{
		ID: "old", UserID: "u1", Action: entities.ActionPurchase, ProductID: "p1",
		Weight: 10, Timestamp: recTestTime.Add(-8 * 24 * time.Hour),
	}
	require.NoError(t, behavior.Append(context.Background(), old))
	track(t, svc, "u2", entities.ActionView, "p2")

	recs, err := svc.GetTrendingRecommendations(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, "p2", recs[0].Product.ID)
}

func TestTrending_EqualWeightsKeepCatalogOrder(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	track(t, svc, "u1", entities.ActionView, "p3")
	track(t, svc, "u2", entities.ActionView, "p1")

	recs, err := svc.GetTrendingRecommendations(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, "p1", recs[0].Product.ID)
	assert.Equal(t, "p3", recs[1].Product.ID)
}

// --- Hybrid tests ---

func TestHybrid_BlendsStrategyScores(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	// The querying user has no history: collaborative yields nothing and
	// content-based falls back to trending, so the hybrid score is
	// 0.4*trending + 0.2*trending.
	track(t, svc, "other", entities.ActionView, "p3")

	recs, err := svc.GetHybridRecommendations(context.Background(), "newcomer", 10)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, "p3", recs[0].Product.ID)
	assert.InDelta(t, 0.6, recs[0].Score, 1e-9)
	assert.Equal(t, ReasonHybrid, recs[0].Reason)
}

func TestPersonal_IsHybrid(t *testing.T) {
	behavior := newStubBehavior()
	svc := newTestRecommendationService(recCatalog(), behavior)

	track(t, svc, "other", entities.ActionView, "p3")

	hybrid, err := svc.GetHybridRecommendations(context.Background(), "newcomer", 10)
	require.NoError(t, err)
	personal, err := svc.GetPersonalRecommendations(context.Background(), "newcomer", 10)
	require.NoError(t, err)

	assert.Equal(t, hybrid, personal)
}

// --- Similarity tests ---

func TestSimilarity_IdenticalProducts(t *testing.T) {
	svc := newTestRecommendationService(recCatalog(), newStubBehavior())

	p := recCatalog().products[0]
	assert.InDelta(t, 1.0, svc.CalculateProductSimilarity(p, p), 1e-9)
}

func TestSimilarity_PartialFactors(t *testing.T) {
	svc := newTestRecommendationService(recCatalog(), newStubBehavior())

	a := &entities.Product{ID: "a", Category: "electronics", Brand: "Aura", Price: 50, Rating: 4.0}
	b := &entities.Product{ID: "b", Category: "books", Brand: "Fern", Price: 100, Rating: 5.0}

	// Price ratio 0.5*0.2 plus rating closeness 0.8*0.1.
	assert.InDelta(t, 0.18, svc.CalculateProductSimilarity(a, b), 1e-9)
}

func TestSimilarity_CaseInsensitiveCategoryAndBrand(t *testing.T) {
	svc := newTestRecommendationService(recCatalog(), newStubBehavior())

	a := &entities.Product{ID: "a", Category: "Electronics", Brand: "AURA", Price: 100, Rating: 4.0}
	b := &entities.Product{ID: "b", Category: "electronics", Brand: "aura", Price: 100, Rating: 4.0}

	// Tags are empty on both, so the tag factor contributes zero.
	assert.InDelta(t, 0.9, svc.CalculateProductSimilarity(a, b), 1e-9)
}

// --- Related products tests ---

func TestRelated_ReturnsSimilarAboveThreshold(t *testing.T) {
	svc := newTestRecommendationService(recCatalog(), newStubBehavior())

	recs, err := svc.GetRelatedProducts(context.Background(), "p1", 10)
	require.NoError(t, err)

	require.NotEmpty(t, recs)
	assert.Equal(t, "p2", recs[0].Product.ID)
	assert.Equal(t, ReasonRelated, recs[0].Reason)
	for _, r := range recs {
		assert.NotEqual(t, "p1", r.Product.ID)
		assert.NotEqual(t, "p4", r.Product.ID)
		assert.Greater(t, r.Score, minProductSimilarity)
	}
}

func TestRelated_UnknownProduct(t *testing.T) {
	svc := newTestRecommendationService(recCatalog(), newStubBehavior())

	recs, err := svc.GetRelatedProducts(context.Background(), "ghost", 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

// --- Cross-sell tests ---

func TestCrossSell_ExcludesCartItems(t *testing.T) {
	svc := newTestRecommendationService(recCatalog(), newStubBehavior())

	recs, err := svc.GetCrossSellRecommendations(context.Background(), []string{"p1"}, 10)
	require.NoError(t, err)

	require.NotEmpty(t, recs)
	assert.Equal(t, "p2", recs[0].Product.ID)
	assert.Equal(t, ReasonCrossSell, recs[0].Reason)
	for _, r := range recs {
		assert.NotEqual(t, "p1", r.Product.ID)
	}
}

func TestCrossSell_AccumulatesAcrossCartItems(t *testing.T) {
	svc := newTestRecommendationService(recCatalog(), newStubBehavior())

	single, err := svc.GetCrossSellRecommendations(context.Background(), []string{"p1"}, 10)
	require.NoError(t, err)
	double, err := svc.GetCrossSellRecommendations(context.Background(), []string{"p1", "p2"}, 10)
	require.NoError(t, err)

	require.NotEmpty(t, single)
	require.NotEmpty(t, double)
	// p3 is similar to both cart items, so its score roughly doubles.
	var p3Single, p3Double float64
	for _, r := range single {
		if r.Product.ID == "p3" {
			p3Single = r.Score
		}
	}
	for _, r := range double {
		if r.Product.ID == "p3" {
			p3Double = r.Score
		}
	}
	require.Greater(t, p3Single, 0.0)
	assert.Greater(t, p3Double, p3Single)
}

func TestCrossSell_EmptyCart(t *testing.T) {
	svc := newTestRecommendationService(recCatalog(), newStubBehavior())

	recs, err := svc.GetCrossSellRecommendations(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
