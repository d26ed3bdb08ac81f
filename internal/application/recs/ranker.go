package recs

import (
	"sort"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
)

// maxResults caps the recommendation list.
const maxResults = 12

// rank filters to positively scored, non-viewed products and orders them
// score descending, created_at descending, id descending. The full ordering
// is total, so equal float sums cannot reorder between identical snapshots.
func rank(res scoreResult, catalog []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(res.scores))
	for _, p := range catalog {
		if res.viewed[p.ID] {
			continue
		}
		if res.scores[p.ID] > 0 {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := res.scores[out[i].ID], res.scores[out[j].ID]
		if si != sj {
			return si > sj
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

// RecommendProducts is the pure core: it scores and ranks a catalog snapshot
// against an activity snapshot. No data source is touched, so it is usable in
// tests and offline tooling without any backing store.
func RecommendProducts(activity []domain.ActivityEvent, catalog []domain.Product) []domain.Product {
	if len(activity) == 0 || len(catalog) == 0 {
		return nil
	}
	return rank(score(activity, catalog), catalog)
}
