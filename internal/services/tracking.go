package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/okarv/pricetracker/internal/domain"
	"github.com/okarv/pricetracker/internal/ports"
)

// Tracking implements the ports.TrackingService interface. Validation order
// is significant and surfaced to the user: registration, then field
// presence (name before url), then uniqueness or existence, then the
// external scrape.
type Tracking struct {
	accounts ports.AccountRepository
	products ports.ProductRepository
	scraper  ports.PriceScraper
	logger   *slog.Logger
}

// NewTracking creates a new tracking service.
func NewTracking(
	accounts ports.AccountRepository,
	products ports.ProductRepository,
	scraper ports.PriceScraper,
	logger *slog.Logger,
) *Tracking {
	return &Tracking{
		accounts: accounts,
		products: products,
		scraper:  scraper,
		logger:   logger.With("component", "tracking_service"),
	}
}

// Register creates an account for an external identity.
func (s *Tracking) Register(ctx context.Context, identity, displayName string) ports.RegisterResult {
	account := domain.NewAccount(identity, displayName)

	// The repository settles concurrent registrations of the same
	// identity: exactly one insert wins.
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return ports.RegisterResult{Status: ports.RegisterDuplicate}
		}
		s.logger.Error("failed to create account", "identity", identity, "error", err)
		return ports.RegisterResult{Status: ports.RegisterError, Err: err}
	}

	s.logger.Info("account registered", "identity", identity, "id", account.ID)
	return ports.RegisterResult{Status: ports.RegisterSuccess, Account: account}
}

// AddProduct starts tracking a product. The initial scrape must succeed;
// on scrape failure nothing is persisted and the user can retry.
func (s *Tracking) AddProduct(ctx context.Context, identity, name, url string) ports.AddProductResult {
	account, err := s.accounts.GetByIdentity(ctx, identity)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return ports.AddProductResult{Status: ports.AddNotRegistered}
	}
	if err != nil {
		s.logger.Error("failed to look up account", "identity", identity, "error", err)
		return ports.AddProductResult{Status: ports.AddError, Err: err}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ports.AddProductResult{Status: ports.AddNameMissing}
	}

	url = strings.TrimSpace(url)
	if url == "" {
		return ports.AddProductResult{Status: ports.AddURLMissing}
	}

	_, err = s.products.GetByName(ctx, account.ID, name)
	if err == nil {
		return ports.AddProductResult{Status: ports.AddProductExists}
	}
	if !errors.Is(err, domain.ErrProductNotFound) {
		s.logger.Error("failed to check product", "name", name, "error", err)
		return ports.AddProductResult{Status: ports.AddError, Err: err}
	}

	price, err := s.scraper.FetchPrice(ctx, url)
	if err != nil {
		s.logger.Info("initial scrape failed", "name", name, "url", url, "error", err)
		return ports.AddProductResult{Status: ports.AddUnableToScrape}
	}

	product := &domain.Product{AccountID: account.ID, Name: name, URL: url}
	first, err := domain.NewPricePoint(0, price)
	if err != nil {
		// The scraper handed back something the codec will not store.
		s.logger.Warn("scraped price not canonical", "name", name, "price", price)
		return ports.AddProductResult{Status: ports.AddUnableToScrape}
	}

	if err := s.products.Create(ctx, product, first); err != nil {
		if errors.Is(err, domain.ErrProductExists) {
			// Lost a race with a concurrent add of the same name.
			return ports.AddProductResult{Status: ports.AddProductExists}
		}
		s.logger.Error("failed to create product", "name", name, "error", err)
		return ports.AddProductResult{Status: ports.AddError, Err: err}
	}

	s.logger.Info("product added", "name", name, "id", product.ID, "price", price)
	return ports.AddProductResult{Status: ports.AddSuccess, Product: product}
}

// RemoveProduct stops tracking a product owned by the identity's account.
func (s *Tracking) RemoveProduct(ctx context.Context, identity, name string) ports.RemoveProductResult {
	account, err := s.accounts.GetByIdentity(ctx, identity)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return ports.RemoveProductResult{Status: ports.RemoveNotRegistered}
	}
	if err != nil {
		s.logger.Error("failed to look up account", "identity", identity, "error", err)
		return ports.RemoveProductResult{Status: ports.RemoveError, Err: err}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ports.RemoveProductResult{Status: ports.RemoveNameMissing}
	}

	product, err := s.products.GetByName(ctx, account.ID, name)
	if errors.Is(err, domain.ErrProductNotFound) {
		return ports.RemoveProductResult{Status: ports.RemoveProductNotFound}
	}
	if err != nil {
		s.logger.Error("failed to look up product", "name", name, "error", err)
		return ports.RemoveProductResult{Status: ports.RemoveError, Err: err}
	}

	if err := s.products.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return ports.RemoveProductResult{Status: ports.RemoveProductNotFound}
		}
		s.logger.Error("failed to delete product", "name", name, "error", err)
		return ports.RemoveProductResult{Status: ports.RemoveError, Err: err}
	}

	s.logger.Info("product removed", "name", name, "id", product.ID)
	return ports.RemoveProductResult{Status: ports.RemoveSuccess}
}

// Ensure Tracking implements ports.TrackingService
var _ ports.TrackingService = (*Tracking)(nil)
