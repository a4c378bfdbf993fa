package ports

import "context"

// TrackingService defines the contract for account and product mutations.
type TrackingService interface {
	// Register creates an account for an external identity.
	Register(ctx context.Context, identity, displayName string) RegisterResult

	// AddProduct starts tracking a product after a successful initial scrape.
	AddProduct(ctx context.Context, identity, name, url string) AddProductResult

	// RemoveProduct stops tracking a product and drops its history.
	RemoveProduct(ctx context.Context, identity, name string) RemoveProductResult
}

// UpdateService defines the contract for batch price updates.
type UpdateService interface {
	// UpdatePrices re-scrapes every product owned by the identity and
	// reports which prices changed.
	UpdatePrices(ctx context.Context, identity string) UpdateResult
}

// QueryService defines the contract for read-only product queries.
type QueryService interface {
	// ListProducts returns the identity's products with their latest prices.
	ListProducts(ctx context.Context, identity string) ListResult

	// GetHistory resolves a named product and its full observation log.
	GetHistory(ctx context.Context, identity, name string) HistoryResult
}
