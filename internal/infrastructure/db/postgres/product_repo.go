package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, selectAllProductsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *ProductRepo) ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, selectProductsBySellerSQL, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *ProductRepo) UpdateImageFeatures(ctx context.Context, productID string, c domain.RGB, ahash string) error {
	res, err := r.db.ExecContext(ctx, updateImageFeaturesSQL,
		productID, int16(c.R), int16(c.G), int16(c.B), ahash,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound("product not found")
	}
	return nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		var r, g, b sql.NullInt16
		var ahash sql.NullString
		var imageURL sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Category, &p.Price, &p.SellerID,
			&imageURL, &r, &g, &b, &ahash, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		p.ImageURL = imageURL.String
		// Features are all-or-nothing per channel triple; a partial row is
		// treated as absent rather than guessed at.
		if r.Valid && g.Valid && b.Valid {
			p.AvgColor = &domain.RGB{R: uint8(r.Int16), G: uint8(g.Int16), B: uint8(b.Int16)}
		}
		p.AHash = ahash.String
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
