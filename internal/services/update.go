package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okarv/pricetracker/internal/domain"
	"github.com/okarv/pricetracker/internal/ports"
)

const defaultScrapeConcurrency = 4

// Update implements the ports.UpdateService interface. One call re-scrapes
// every product the account owns; per-product scrape failures are
// swallowed so a single bad URL never aborts the batch, while a store
// failure fails the operation wholesale.
type Update struct {
	accounts    ports.AccountRepository
	products    ports.ProductRepository
	scraper     ports.PriceScraper
	metrics     *Metrics
	concurrency int
	logger      *slog.Logger
}

// NewUpdate creates a new update service. concurrency bounds the parallel
// scrapes per batch.
func NewUpdate(
	accounts ports.AccountRepository,
	products ports.ProductRepository,
	scraper ports.PriceScraper,
	metrics *Metrics,
	concurrency int,
	logger *slog.Logger,
) *Update {
	if concurrency < 1 {
		concurrency = defaultScrapeConcurrency
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Update{
		accounts:    accounts,
		products:    products,
		scraper:     scraper,
		metrics:     metrics,
		concurrency: concurrency,
		logger:      logger.With("component", "update_service"),
	}
}

// UpdatePrices re-scrapes every tracked product for the identity, appends
// an observation for each successful scrape, and reports the products
// whose comparable price moved. The stored history records every attempt;
// unchanged runs are hidden at read time by the compressor.
func (s *Update) UpdatePrices(ctx context.Context, identity string) ports.UpdateResult {
	start := time.Now()

	account, err := s.accounts.GetByIdentity(ctx, identity)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return ports.UpdateResult{Status: ports.UpdateNotRegistered}
	}
	if err != nil {
		s.logger.Error("failed to look up account", "identity", identity, "error", err)
		return ports.UpdateResult{Status: ports.UpdateError, Err: err}
	}

	products, err := s.products.List(ctx, account.ID)
	if err != nil {
		s.logger.Error("failed to list products", "identity", identity, "error", err)
		return ports.UpdateResult{Status: ports.UpdateError, Err: err}
	}

	attempted := len(products)
	if attempted == 0 {
		return ports.UpdateResult{Status: ports.UpdateSuccess, Attempted: 0}
	}

	// Scrapes have no ordering dependency between products; run them on a
	// bounded pool. Results land in per-product slots so the changed list
	// keeps the store's listing order.
	scraped := make([]string, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, product := range products {
		g.Go(func() error {
			price, err := s.scraper.FetchPrice(gctx, product.URL)
			if err != nil {
				s.logger.Debug("scrape failed, price kept as-is",
					"name", product.Name, "url", product.URL, "error", err)
				s.metrics.RecordScrapeFailure()
				return nil
			}
			if _, err := domain.ParseComparable(price); err != nil {
				s.logger.Warn("scraped price not canonical",
					"name", product.Name, "price", price)
				s.metrics.RecordScrapeFailure()
				return nil
			}
			s.metrics.RecordScrapeSuccess()
			scraped[i] = price
			return nil
		})
	}
	// Workers swallow their own failures, so Wait only synchronizes.
	_ = g.Wait()

	var changed []domain.PriceChange
	var appended int
	for i, product := range products {
		price := scraped[i]
		if price == "" {
			continue
		}

		latest, err := s.products.LatestPricePoint(ctx, product.ID)
		if err != nil {
			s.logger.Error("failed to read latest price", "name", product.Name, "error", err)
			return ports.UpdateResult{Status: ports.UpdateError, Err: err}
		}

		point, err := domain.NewPricePoint(product.ID, price)
		if err != nil {
			continue
		}
		if err := s.products.AppendPricePoint(ctx, point); err != nil {
			s.logger.Error("failed to append price point", "name", product.Name, "error", err)
			return ports.UpdateResult{Status: ports.UpdateError, Err: err}
		}
		appended++

		if !domain.SamePrice(latest.Price, price) {
			changed = append(changed, domain.PriceChange{
				Name:     product.Name,
				OldPrice: latest.Price,
				NewPrice: price,
			})
		}
	}

	duration := time.Since(start)
	s.metrics.RecordBatch(duration, appended)

	s.logger.Info("update completed",
		"identity", identity,
		"attempted", attempted,
		"appended", appended,
		"changed", len(changed),
		"duration_ms", duration.Milliseconds(),
	)

	return ports.UpdateResult{
		Status:    ports.UpdateSuccess,
		Attempted: attempted,
		Changed:   changed,
	}
}

// Ensure Update implements ports.UpdateService
var _ ports.UpdateService = (*Update)(nil)
