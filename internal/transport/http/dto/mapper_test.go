package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
)

func TestFromProduct(t *testing.T) {
	created := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	c := domain.RGB{R: 1, G: 2, B: 3}

	got := FromProduct(domain.Product{
		ID: "p1", Title: "Clay Pot", Description: "internal only",
		Category: "pottery", Price: 25, SellerID: "s1",
		ImageURL: "products/p1.jpg", AvgColor: &c, AHash: "a1b2c3d4e5f60789",
		CreatedAt: created,
	})

	assert.Equal(t, ProductResponse{
		ID: "p1", Title: "Clay Pot", Category: "pottery", Price: 25,
		ImageURL: "products/p1.jpg", CreatedAt: created,
	}, got)

	// Scoring internals stay out of the wire shape.
	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ahash")
	assert.NotContains(t, string(raw), "seller")
}

func TestFromProductsNeverNil(t *testing.T) {
	got := FromProducts(nil)

	require.NotNil(t, got.Products)
	assert.Empty(t, got.Products)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[]}`, string(raw))
}
