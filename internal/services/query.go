package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/okarv/pricetracker/internal/domain"
	"github.com/okarv/pricetracker/internal/ports"
)

// Query implements the ports.QueryService interface.
type Query struct {
	accounts ports.AccountRepository
	products ports.ProductRepository
	logger   *slog.Logger
}

// NewQuery creates a new query service.
func NewQuery(
	accounts ports.AccountRepository,
	products ports.ProductRepository,
	logger *slog.Logger,
) *Query {
	return &Query{
		accounts: accounts,
		products: products,
		logger:   logger.With("component", "query_service"),
	}
}

// ListProducts returns the identity's products with the value of each
// product's most recent price point.
func (s *Query) ListProducts(ctx context.Context, identity string) ports.ListResult {
	account, err := s.accounts.GetByIdentity(ctx, identity)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return ports.ListResult{Status: ports.ListNotRegistered}
	}
	if err != nil {
		s.logger.Error("failed to look up account", "identity", identity, "error", err)
		return ports.ListResult{Status: ports.ListError, Err: err}
	}

	products, err := s.products.List(ctx, account.ID)
	if err != nil {
		s.logger.Error("failed to list products", "identity", identity, "error", err)
		return ports.ListResult{Status: ports.ListError, Err: err}
	}

	listings := make([]domain.ProductListing, 0, len(products))
	for _, product := range products {
		latest, err := s.products.LatestPricePoint(ctx, product.ID)
		if err != nil {
			s.logger.Error("failed to read latest price", "name", product.Name, "error", err)
			return ports.ListResult{Status: ports.ListError, Err: err}
		}
		listings = append(listings, domain.ProductListing{
			Name:  product.Name,
			Price: latest.Price,
			URL:   product.URL,
		})
	}

	return ports.ListResult{Status: ports.ListSuccess, Products: listings}
}

// GetHistory resolves the named product owned by the identity's account
// together with its full observation log, oldest first. Compression to the
// changed-only timeline happens at the adapter.
func (s *Query) GetHistory(ctx context.Context, identity, name string) ports.HistoryResult {
	account, err := s.accounts.GetByIdentity(ctx, identity)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return ports.HistoryResult{Status: ports.HistoryNotRegistered}
	}
	if err != nil {
		s.logger.Error("failed to look up account", "identity", identity, "error", err)
		return ports.HistoryResult{Status: ports.HistoryError, Err: err}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ports.HistoryResult{Status: ports.HistoryNameMissing}
	}

	product, err := s.products.GetByName(ctx, account.ID, name)
	if errors.Is(err, domain.ErrProductNotFound) {
		return ports.HistoryResult{Status: ports.HistoryNameNotFound}
	}
	if err != nil {
		s.logger.Error("failed to look up product", "name", name, "error", err)
		return ports.HistoryResult{Status: ports.HistoryError, Err: err}
	}

	points, err := s.products.ListPricePoints(ctx, product.ID)
	if err != nil {
		s.logger.Error("failed to list price points", "name", name, "error", err)
		return ports.HistoryResult{Status: ports.HistoryError, Err: err}
	}

	return ports.HistoryResult{
		Status:  ports.HistorySuccess,
		Product: product,
		Points:  points,
	}
}

// Ensure Query implements ports.QueryService
var _ ports.QueryService = (*Query)(nil)
