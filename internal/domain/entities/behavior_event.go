package entities

import (
	"time"
)

// Action classifies a tracked user interaction.
type Action string

const (
	ActionView     Action = "view"
	ActionSearch   Action = "search"
	ActionWishlist Action = "wishlist"
	ActionCart     Action = "cart"
	ActionPurchase Action = "purchase"
	ActionReview   Action = "review"
	ActionShare    Action = "share"
)

// AnonymousUserID keys the behavior log for unauthenticated sessions.
const AnonymousUserID = "anonymous"

// actionWeights encodes intent strength: a purchase says far more about a
// user's taste than a page view. Ranking in every recommendation strategy
// derives directly from these values.
var actionWeights = map[Action]int{
	ActionView:     1,
	ActionSearch:   2,
	ActionWishlist: 3,
	ActionCart:     4,
	ActionPurchase: 10,
	ActionReview:   5,
	ActionShare:    3,
}

// Weight returns the ranking weight for the action. Unrecognized actions
// degrade to the view weight instead of being rejected, so new client event
// types never break tracking.
func (a Action) Weight() int {
	if w, ok := actionWeights[a]; ok {
		return w
	}
	return 1
}

// BehaviorEvent is one weighted interaction in a user's behavior log.
// Events are appended in arrival order and evicted oldest-first once the
// per-user log reaches its cap.
type BehaviorEvent struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Action    Action            `json:"action"`
	ProductID string            `json:"product_id,omitempty"`
	Weight    int               `json:"weight"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
