package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityView     ActivityType = "view"
	ActivitySearch   ActivityType = "search"
	ActivityCart     ActivityType = "add_to_cart" // reserved: stored but not scored yet
	ActivityPurchase ActivityType = "purchase"    // reserved: stored but not scored yet
)

func (t ActivityType) Known() bool {
	switch t {
	case ActivityView, ActivitySearch, ActivityCart, ActivityPurchase:
		return true
	}
	return false
}

// ActivityEvent is one append-only behavior record. ProductID, Query and
// StallID are optional depending on the type.
type ActivityEvent struct {
	ID         string
	UserID     string
	Type       ActivityType
	ProductID  string
	Query      string
	StallID    string
	OccurredAt time.Time
}

// NewActivityEvent validates and builds an event for ingestion. Unknown types
// are rejected at the boundary; readers are tolerant of whatever is stored.
func NewActivityEvent(userID string, typ ActivityType, productID, query, stallID string, now time.Time) (*ActivityEvent, error) {
	userID = strings.TrimSpace(userID)
	productID = strings.TrimSpace(productID)
	query = strings.TrimSpace(query)

	if userID == "" {
		return nil, ErrValidation("user_id is required")
	}
	if !typ.Known() {
		return nil, ErrValidationMeta("invalid activity type", map[string]string{
			"activity_type": "must be one of: view, search, add_to_cart, purchase",
		})
	}
	if typ == ActivityView && productID == "" {
		return nil, ErrValidation("product_id is required for view events")
	}
	if typ == ActivitySearch && query == "" {
		return nil, ErrValidation("query is required for search events")
	}

	return &ActivityEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       typ,
		ProductID:  productID,
		Query:      query,
		StallID:    strings.TrimSpace(stallID),
		OccurredAt: now.UTC(),
	}, nil
}
