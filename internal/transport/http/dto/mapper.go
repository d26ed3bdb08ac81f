package dto

import "github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"

func FromProduct(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Title:     p.Title,
		Category:  p.Category,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}

func FromProducts(products []domain.Product) RecommendationsResponse {
	out := RecommendationsResponse{Products: make([]ProductResponse, 0, len(products))}
	for _, p := range products {
		out.Products = append(out.Products, FromProduct(p))
	}
	return out
}
