package dto

import "time"

// ProductResponse is the display subset of a catalog row: enough for a
// recommendation card, nothing the client does not render.
type ProductResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RecommendationsResponse struct {
	Products []ProductResponse `json:"products"`
}

// TrackRequest is the POST /track body. The user comes from the JWT, never
// from the body.
type TrackRequest struct {
	ActivityType string `json:"activity_type" validate:"required,oneof=view search add_to_cart purchase"`
	ProductID    string `json:"product_id,omitempty" validate:"omitempty,max=64"`
	Query        string `json:"query,omitempty" validate:"omitempty,max=200"`
	StallID      string `json:"stall_id,omitempty" validate:"omitempty,max=64"`
}
