package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
)

type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

func (r *ActivityRepo) Insert(ctx context.Context, e *domain.ActivityEvent) error {
	_, err := r.db.ExecContext(ctx, insertActivitySQL,
		e.ID, e.UserID, string(e.Type),
		nullIfEmpty(e.ProductID), nullIfEmpty(e.Query), nullIfEmpty(e.StallID),
		e.OccurredAt,
	)
	return err
}

// RecentByUser returns every event for the user since the given instant.
// Order is irrelevant to the scorer, so no ORDER BY.
func (r *ActivityRepo) RecentByUser(ctx context.Context, userID string, since time.Time) ([]domain.ActivityEvent, error) {
	rows, err := r.db.QueryContext(ctx, selectRecentActivitySQL, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActivityEvent
	for rows.Next() {
		var e domain.ActivityEvent
		var typ string
		var productID, query, stallID sql.NullString
		if err := rows.Scan(
			&e.ID, &e.UserID, &typ, &productID, &query, &stallID, &e.OccurredAt,
		); err != nil {
			return nil, err
		}
		e.Type = domain.ActivityType(typ)
		e.ProductID = productID.String
		e.Query = query.String
		e.StallID = stallID.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ActivityRepo) CountViewsByProduct(ctx context.Context, productIDs []string, since time.Time) (map[string]int, error) {
	counts := make(map[string]int, len(productIDs))
	if len(productIDs) == 0 {
		return counts, nil
	}

	rows, err := r.db.QueryContext(ctx, countViewsSQL, pq.Array(productIDs), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
