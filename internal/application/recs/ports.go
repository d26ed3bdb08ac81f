package recs

import (
	"context"
	"time"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type ActivityRepo interface {
	RecentByUser(ctx context.Context, userID string, since time.Time) ([]domain.ActivityEvent, error)
}

type ProductRepo interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
