package domain

import "time"

// RGB is the average color of a product image, one byte per channel.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Product is a catalog row. Image features are optional: extraction is
// best-effort at listing time and may have failed or been skipped.
type Product struct {
	ID          string
	Title       string
	Description string
	Category    string
	Price       float64
	SellerID    string
	ImageURL    string

	// AvgColor is nil and AHash empty when no features were extracted.
	AvgColor *RGB
	AHash    string // 64-bit aHash, 16 lowercase hex chars

	CreatedAt time.Time
}

func (p *Product) HasColor() bool { return p.AvgColor != nil }

func (p *Product) HasHash() bool { return len(p.AHash) == 16 }
