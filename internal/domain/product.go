package domain

import (
	"time"
)

// Product is a tracked item identified by name and scrape URL, owned by
// exactly one account. Names are unique within the owning account and
// matched case-sensitively after trimming, identically in every lookup.
type Product struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// PricePoint is one immutable timestamped price observation. The sequence
// for a product is append-only and chronological; points are never edited
// or reordered.
type PricePoint struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPricePoint creates an observation for a product. The price must be in
// canonical form; malformed values are rejected so they can never be stored.
func NewPricePoint(productID int64, price string) (*PricePoint, error) {
	if _, err := ParseComparable(price); err != nil {
		return nil, err
	}

	return &PricePoint{
		ProductID: productID,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ProductListing pairs a product with its most recent observed price.
type ProductListing struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

// PriceChange records one product whose observed price moved during an
// update run.
type PriceChange struct {
	Name     string `json:"name"`
	OldPrice string `json:"old_price"`
	NewPrice string `json:"new_price"`
}
