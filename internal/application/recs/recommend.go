package recs

import (
	"context"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// Recommend returns up to 12 products for the user. Recommendations are a
// best-effort surface: every failure mode (repo error, empty activity, empty
// catalog, nothing scored) degrades to an empty slice, never an error.
func (s *Service) Recommend(ctx context.Context, userID string) []domain.Product {
	if userID == "" {
		return nil
	}

	// 1. Try cache
	key := cacheKeyRecommendations(userID)
	if s.cache != nil {
		var cached []domain.Product
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("recs cache get failed")
		} else if found {
			zlog.Debug().Str("key", key).Msg("recs cache hit")
			return cached
		}
	}

	// 2. Fetch both snapshots concurrently; scoring needs both.
	since := s.clock.Now().Add(-s.window)

	type activityRes struct {
		events []domain.ActivityEvent
		err    error
	}
	actCh := make(chan activityRes, 1)
	go func() {
		events, err := s.activity.RecentByUser(ctx, userID, since)
		actCh <- activityRes{events: events, err: err}
	}()

	catalog, catErr := s.catalog.ListAll(ctx)
	act := <-actCh

	if act.err != nil {
		zlog.Warn().Err(act.err).Str("user_id", userID).Msg("activity fetch failed, returning empty recommendations")
		return nil
	}
	if catErr != nil {
		zlog.Warn().Err(catErr).Msg("catalog fetch failed, returning empty recommendations")
		return nil
	}

	// 3. Fast path: no signal sources at all.
	if len(act.events) == 0 || len(catalog) == 0 {
		return nil
	}

	ranked := RecommendProducts(act.events, catalog)

	// 4. Set cache (best effort); empty results are not cached so a user's
	// first tracked view shows up without waiting out the TTL.
	if s.cache != nil && len(ranked) > 0 {
		if err := s.cache.Set(ctx, key, ranked, s.ttlRecs); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("recs cache set failed")
		}
	}

	return ranked
}
