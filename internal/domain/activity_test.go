package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivityEvent(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.FixedZone("AEST", 10*3600))

	t.Run("valid_view", func(t *testing.T) {
		ev, err := NewActivityEvent(" u1 ", ActivityView, " p1 ", "", "stall-9", now)
		require.NoError(t, err)
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, "u1", ev.UserID)
		assert.Equal(t, "p1", ev.ProductID)
		assert.Equal(t, "stall-9", ev.StallID)
		assert.Equal(t, time.UTC, ev.OccurredAt.Location())
	})

	t.Run("valid_search", func(t *testing.T) {
		ev, err := NewActivityEvent("u1", ActivitySearch, "", "  pottery  ", "", now)
		require.NoError(t, err)
		assert.Equal(t, "pottery", ev.Query)
	})

	t.Run("cart_and_purchase_need_no_extras", func(t *testing.T) {
		for _, typ := range []ActivityType{ActivityCart, ActivityPurchase} {
			_, err := NewActivityEvent("u1", typ, "", "", "", now)
			assert.NoError(t, err, string(typ))
		}
	})

	t.Run("missing_user", func(t *testing.T) {
		_, err := NewActivityEvent("  ", ActivityView, "p1", "", "", now)
		assert.Error(t, err)
	})

	t.Run("unknown_type", func(t *testing.T) {
		_, err := NewActivityEvent("u1", ActivityType("click"), "p1", "", "", now)
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, CodeValidation, appErr.Code)
		assert.Contains(t, appErr.Meta, "activity_type")
	})

	t.Run("view_requires_product", func(t *testing.T) {
		_, err := NewActivityEvent("u1", ActivityView, "  ", "", "", now)
		assert.Error(t, err)
	})

	t.Run("search_requires_query", func(t *testing.T) {
		_, err := NewActivityEvent("u1", ActivitySearch, "", "  ", "", now)
		assert.Error(t, err)
	})
}

func TestActivityTypeKnown(t *testing.T) {
	assert.True(t, ActivityView.Known())
	assert.True(t, ActivitySearch.Known())
	assert.False(t, ActivityType("").Known())
	assert.False(t, ActivityType("VIEW").Known())
}
