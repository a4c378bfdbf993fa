package services_test

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/okarv/pricetracker/internal/domain"
	"github.com/okarv/pricetracker/internal/ports"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.DiscardHandler)
}

type fakeAccounts struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	nextID   int64

	createErr error
	getErr    error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: make(map[string]*domain.Account)}
}

func (f *fakeAccounts) Create(ctx context.Context, account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.accounts[account.Identity]; ok {
		return domain.ErrAccountExists
	}
	f.nextID++
	account.ID = f.nextID
	f.accounts[account.Identity] = account
	return nil
}

func (f *fakeAccounts) GetByIdentity(ctx context.Context, identity string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	account, ok := f.accounts[identity]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

var _ ports.AccountRepository = (*fakeAccounts)(nil)

type fakeProducts struct {
	mu          sync.Mutex
	products    map[int64]*domain.Product
	points      map[int64][]domain.PricePoint
	nextID      int64
	nextPointID int64

	createErr error
	listErr   error
	latestErr error
	appendErr error
	deleteErr error
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{
		products: make(map[int64]*domain.Product),
		points:   make(map[int64][]domain.PricePoint),
	}
}

func (f *fakeProducts) Create(ctx context.Context, product *domain.Product, first *domain.PricePoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.products {
		if existing.AccountID == product.AccountID && existing.Name == product.Name {
			return domain.ErrProductExists
		}
	}
	f.nextID++
	product.ID = f.nextID
	f.products[product.ID] = product

	f.nextPointID++
	point := *first
	point.ID = f.nextPointID
	point.ProductID = product.ID
	f.points[product.ID] = []domain.PricePoint{point}
	return nil
}

func (f *fakeProducts) GetByName(ctx context.Context, accountID int64, name string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, product := range f.products {
		if product.AccountID == accountID && product.Name == name {
			return product, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (f *fakeProducts) List(ctx context.Context, accountID int64) ([]*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	var owned []*domain.Product
	for _, product := range f.products {
		if product.AccountID == accountID {
			owned = append(owned, product)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].Name < owned[j].Name })
	return owned, nil
}

func (f *fakeProducts) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(f.products, id)
	delete(f.points, id)
	return nil
}

func (f *fakeProducts) AppendPricePoint(ctx context.Context, point *domain.PricePoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.appendErr != nil {
		return f.appendErr
	}
	f.nextPointID++
	stored := *point
	stored.ID = f.nextPointID
	f.points[point.ProductID] = append(f.points[point.ProductID], stored)
	return nil
}

func (f *fakeProducts) LatestPricePoint(ctx context.Context, productID int64) (*domain.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.latestErr != nil {
		return nil, f.latestErr
	}
	points := f.points[productID]
	if len(points) == 0 {
		return nil, domain.ErrNoPricePoints
	}
	latest := points[len(points)-1]
	return &latest, nil
}

func (f *fakeProducts) ListPricePoints(ctx context.Context, productID int64) ([]domain.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	points := f.points[productID]
	out := make([]domain.PricePoint, len(points))
	copy(out, points)
	return out, nil
}

func (f *fakeProducts) pointCount(productID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.points[productID])
}

var _ ports.ProductRepository = (*fakeProducts)(nil)

// fakeScraper serves canonical prices by URL; unknown URLs fail the scrape.
type fakeScraper struct {
	mu     sync.Mutex
	prices map[string]string
	calls  int
}

func newFakeScraper(prices map[string]string) *fakeScraper {
	return &fakeScraper{prices: prices}
}

func (f *fakeScraper) FetchPrice(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	price, ok := f.prices[url]
	if !ok {
		return "", domain.ErrScrapeFailed
	}
	return price, nil
}

func (f *fakeScraper) setPrice(url, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[url] = price
}

var _ ports.PriceScraper = (*fakeScraper)(nil)
