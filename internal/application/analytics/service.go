package analytics

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/similarity"
)

type Clock interface {
	Now() time.Time
}

type ProductRepo interface {
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error)
}

type ActivityRepo interface {
	CountViewsByProduct(ctx context.Context, productIDs []string, since time.Time) (map[string]int, error)
}

// ProductStats is one listing plus its view count in the window.
type ProductStats struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Views     int    `json:"views"`
}

// DuplicatePair flags two listings by the same seller that look like the
// same item (relisted title, or near-identical image hash).
type DuplicatePair struct {
	ProductID string `json:"product_id"`
	OtherID   string `json:"other_id"`
	Reason    string `json:"reason"` // "title_match" | "image_match"
}

type SellerStats struct {
	SellerID   string          `json:"seller_id"`
	WindowDays int             `json:"window_days"`
	Products   []ProductStats  `json:"products"`
	Duplicates []DuplicatePair `json:"duplicates"`
}

// maxDuplicateHashDist: aHashes within this many bits are treated as the
// same photo re-uploaded.
const maxDuplicateHashDist = 10

type Service struct {
	catalog  ProductRepo
	activity ActivityRepo
	clock    Clock
	window   time.Duration
}

func New(catalog ProductRepo, activity ActivityRepo, clock Clock, window time.Duration) *Service {
	if window == 0 {
		window = 30 * 24 * time.Hour
	}
	return &Service{catalog: catalog, activity: activity, clock: clock, window: window}
}

// SellerStats aggregates per-listing views and duplicate-listing pairs for
// one seller. Unlike recommendations this is a dashboard surface, so repo
// failures propagate as errors.
func (s *Service) SellerStats(ctx context.Context, sellerID string) (*SellerStats, error) {
	sellerID = strings.TrimSpace(sellerID)
	if sellerID == "" {
		return nil, domain.ErrValidation("seller_id is required")
	}

	products, err := s.catalog.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	stats := &SellerStats{
		SellerID:   sellerID,
		WindowDays: int(s.window.Hours() / 24),
		Products:   []ProductStats{},
		Duplicates: []DuplicatePair{},
	}
	if len(products) == 0 {
		return stats, nil
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	views, err := s.activity.CountViewsByProduct(ctx, ids, s.clock.Now().Add(-s.window))
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		stats.Products = append(stats.Products, ProductStats{
			ProductID: p.ID,
			Title:     p.Title,
			Views:     views[p.ID],
		})
	}
	sort.SliceStable(stats.Products, func(i, j int) bool {
		if stats.Products[i].Views != stats.Products[j].Views {
			return stats.Products[i].Views > stats.Products[j].Views
		}
		return stats.Products[i].ProductID < stats.Products[j].ProductID
	})

	stats.Duplicates = findDuplicates(products)
	return stats, nil
}

func findDuplicates(products []domain.Product) []DuplicatePair {
	out := []DuplicatePair{}
	norms := make([]string, len(products))
	for i, p := range products {
		norms[i] = similarity.NormalizeTitle(p.Title)
	}
	for i := 0; i < len(products); i++ {
		for j := i + 1; j < len(products); j++ {
			switch {
			case norms[i] != "" && norms[i] == norms[j]:
				out = append(out, DuplicatePair{
					ProductID: products[i].ID, OtherID: products[j].ID, Reason: "title_match",
				})
			case products[i].HasHash() && products[j].HasHash() &&
				similarity.HammingHex(products[i].AHash, products[j].AHash) <= maxDuplicateHashDist:
				out = append(out, DuplicatePair{
					ProductID: products[i].ID, OtherID: products[j].ID, Reason: "image_match",
				})
			}
		}
	}
	return out
}
