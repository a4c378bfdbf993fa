package ports

import "context"

// PriceScraper fetches the current price for a product page. The returned
// price is already in canonical "{value} {unit}" form; anything the scraper
// cannot turn into that form is domain.ErrScrapeFailed. The caller bounds
// each attempt through ctx.
type PriceScraper interface {
	FetchPrice(ctx context.Context, url string) (string, error)
}
