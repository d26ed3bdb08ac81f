package recs

import (
	"strings"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/similarity"
)

// Signal weights. These mirror the heuristics the marketplace web client
// shipped with; there is no labeled relevance data to retune them against,
// so they stay as-is for behavioral parity.
const (
	viewWeight      = 1.0
	searchWeight    = 2.0
	categoryWeight  = 2.0
	textSimWeight   = 3.0
	imageSimWeight  = 1.5 // per sub-signal; color + hash combined caps at 3.0
	duplicateWeight = 2.0
)

// scoreResult is the scorer output: accumulated per-product scores plus the
// set of product ids the user viewed in the window.
type scoreResult struct {
	scores map[string]float64
	viewed map[string]bool
}

// score runs all signals over in-memory snapshots. It never touches a data
// source and skips malformed records instead of failing.
func score(activity []domain.ActivityEvent, catalog []domain.Product) scoreResult {
	res := scoreResult{
		scores: make(map[string]float64),
		viewed: make(map[string]bool),
	}
	if len(activity) == 0 || len(catalog) == 0 {
		return res
	}

	byID := make(map[string]*domain.Product, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	viewedCategories := make(map[string]bool)

	// Signal 1 + 2: direct views and search substring matches.
	for _, a := range activity {
		switch a.Type {
		case domain.ActivityView:
			if a.ProductID == "" {
				continue // malformed: view without a product
			}
			res.viewed[a.ProductID] = true
			res.scores[a.ProductID] += viewWeight
			if p, ok := byID[a.ProductID]; ok && p.Category != "" {
				viewedCategories[p.Category] = true
			}
		case domain.ActivitySearch:
			q := strings.ToLower(strings.TrimSpace(a.Query))
			if q == "" {
				continue
			}
			for i := range catalog {
				p := &catalog[i]
				if strings.Contains(strings.ToLower(p.Title), q) ||
					strings.Contains(strings.ToLower(p.Description), q) ||
					strings.Contains(strings.ToLower(p.Category), q) {
					res.scores[p.ID] += searchWeight
				}
			}
		}
	}

	// Signal 3: category affinity, flat bonus per non-viewed product.
	if len(viewedCategories) > 0 {
		for i := range catalog {
			p := &catalog[i]
			if res.viewed[p.ID] {
				continue
			}
			if p.Category != "" && viewedCategories[p.Category] {
				res.scores[p.ID] += categoryWeight
			}
		}
	}

	// The remaining signals compare candidates against the viewed products
	// themselves, so they need viewed ids that actually exist in the catalog.
	viewedProducts := make([]*domain.Product, 0, len(res.viewed))
	for id := range res.viewed {
		if p, ok := byID[id]; ok {
			viewedProducts = append(viewedProducts, p)
		}
	}
	if len(viewedProducts) == 0 {
		return res
	}

	// Signal 4: best Jaccard over title+description tokens of viewed products.
	viewedTokens := make([]map[string]struct{}, len(viewedProducts))
	for i, vp := range viewedProducts {
		viewedTokens[i] = similarity.Tokenize(vp.Title + " " + vp.Description)
	}
	for i := range catalog {
		p := &catalog[i]
		if res.viewed[p.ID] {
			continue
		}
		candTokens := similarity.Tokenize(p.Title + " " + p.Description)
		best := 0.0
		for _, vt := range viewedTokens {
			if sim := similarity.Jaccard(candTokens, vt); sim > best {
				best = sim
			}
		}
		if best > 0 {
			bonus := best * textSimWeight
			if bonus > textSimWeight {
				bonus = textSimWeight
			}
			res.scores[p.ID] += bonus
		}
	}

	// Signal 5: image features. Color and hash maxima are taken independently
	// across viewed products; a candidate without features simply gets nothing.
	for i := range catalog {
		p := &catalog[i]
		if res.viewed[p.ID] {
			continue
		}
		if !p.HasColor() && !p.HasHash() {
			continue
		}
		colorBest, hashBest := 0.0, 0.0
		for _, vp := range viewedProducts {
			if p.HasColor() && vp.HasColor() {
				if sim := similarity.Color(*p.AvgColor, *vp.AvgColor); sim > colorBest {
					colorBest = sim
				}
			}
			if p.HasHash() && vp.HasHash() {
				if sim := similarity.Hash(p.AHash, vp.AHash); sim > hashBest {
					hashBest = sim
				}
			}
		}
		if combined := colorBest*imageSimWeight + hashBest*imageSimWeight; combined > 0 {
			res.scores[p.ID] += combined
		}
	}

	// Signal 6: same item relisted at a different price.
	viewedTitles := make(map[string]bool, len(viewedProducts))
	for _, vp := range viewedProducts {
		if nt := similarity.NormalizeTitle(vp.Title); nt != "" {
			viewedTitles[nt] = true
		}
	}
	if len(viewedTitles) > 0 {
		for i := range catalog {
			p := &catalog[i]
			if res.viewed[p.ID] {
				continue
			}
			if viewedTitles[similarity.NormalizeTitle(p.Title)] {
				res.scores[p.ID] += duplicateWeight
			}
		}
	}

	return res
}
