package recs

import (
	"time"
)

// Service orchestrates the recommendation pass: fetch the two snapshots,
// score, rank. The scoring core itself is pure; everything stateful (repos,
// cache) is injected through ports.
type Service struct {
	activity ActivityRepo
	catalog  ProductRepo
	cache    Cache
	clock    Clock

	window  time.Duration // trailing activity window
	ttlRecs time.Duration // cache TTL for the final list
}

func New(
	activity ActivityRepo,
	catalog ProductRepo,
	cache Cache,
	clock Clock,
	window, ttlRecs time.Duration,
) *Service {
	// Defaults if 0
	if window == 0 {
		window = 30 * 24 * time.Hour
	}
	if ttlRecs == 0 {
		ttlRecs = 60 * time.Second
	}

	return &Service{
		activity: activity,
		catalog:  catalog,
		cache:    cache,
		clock:    clock,
		window:   window,
		ttlRecs:  ttlRecs,
	}
}
