package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okarv/pricetracker/internal/domain"
	"github.com/okarv/pricetracker/internal/ports"
	"github.com/okarv/pricetracker/internal/services"
)

func newTracking(t *testing.T, accounts *fakeAccounts, products *fakeProducts, scraper *fakeScraper) *services.Tracking {
	t.Helper()
	return services.NewTracking(accounts, products, scraper, testLogger(t))
}

func registered(t *testing.T, accounts *fakeAccounts, identity string) *domain.Account {
	t.Helper()
	account := domain.NewAccount(identity, identity)
	require.NoError(t, accounts.Create(context.Background(), account))
	return account
}

func TestTracking_Register(t *testing.T) {
	t.Run("creates account", func(t *testing.T) {
		accounts := newFakeAccounts()
		svc := newTracking(t, accounts, newFakeProducts(), newFakeScraper(nil))

		res := svc.Register(context.Background(), "user-1", "alex")
		assert.Equal(t, ports.RegisterSuccess, res.Status)
		require.NotNil(t, res.Account)
		assert.Equal(t, "user-1", res.Account.Identity)
		assert.Equal(t, "alex", res.Account.Name)
		assert.NotZero(t, res.Account.ID)
	})

	t.Run("duplicate identity", func(t *testing.T) {
		accounts := newFakeAccounts()
		svc := newTracking(t, accounts, newFakeProducts(), newFakeScraper(nil))

		first := svc.Register(context.Background(), "user-1", "alex")
		require.Equal(t, ports.RegisterSuccess, first.Status)

		second := svc.Register(context.Background(), "user-1", "alex")
		assert.Equal(t, ports.RegisterDuplicate, second.Status)
		assert.Nil(t, second.Account)
	})

	t.Run("store failure", func(t *testing.T) {
		accounts := newFakeAccounts()
		accounts.createErr = errors.New("connection refused")
		svc := newTracking(t, accounts, newFakeProducts(), newFakeScraper(nil))

		res := svc.Register(context.Background(), "user-1", "alex")
		assert.Equal(t, ports.RegisterError, res.Status)
		assert.Error(t, res.Err)
	})
}

func TestTracking_AddProduct(t *testing.T) {
	t.Run("creates product with first price point", func(t *testing.T) {
		accounts := newFakeAccounts()
		products := newFakeProducts()
		scraper := newFakeScraper(map[string]string{"https://shop.example/p/1": "423,90 €"})
		svc := newTracking(t, accounts, products, scraper)
		account := registered(t, accounts, "user-1")

		res := svc.AddProduct(context.Background(), "user-1", "headphones", "https://shop.example/p/1")
		require.Equal(t, ports.AddSuccess, res.Status)
		require.NotNil(t, res.Product)
		assert.Equal(t, account.ID, res.Product.AccountID)

		points, err := products.ListPricePoints(context.Background(), res.Product.ID)
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, "423,90 €", points[0].Price)
	})

	t.Run("requires registration", func(t *testing.T) {
		svc := newTracking(t, newFakeAccounts(), newFakeProducts(), newFakeScraper(nil))

		res := svc.AddProduct(context.Background(), "stranger", "headphones", "https://shop.example/p/1")
		assert.Equal(t, ports.AddNotRegistered, res.Status)
	})

	t.Run("name checked before url", func(t *testing.T) {
		accounts := newFakeAccounts()
		svc := newTracking(t, accounts, newFakeProducts(), newFakeScraper(nil))
		registered(t, accounts, "user-1")

		res := svc.AddProduct(context.Background(), "user-1", "   ", "")
		assert.Equal(t, ports.AddNameMissing, res.Status)
	})

	t.Run("missing url", func(t *testing.T) {
		accounts := newFakeAccounts()
		svc := newTracking(t, accounts, newFakeProducts(), newFakeScraper(nil))
		registered(t, accounts, "user-1")

		res := svc.AddProduct(context.Background(), "user-1", "headphones", "   ")
		assert.Equal(t, ports.AddURLMissing, res.Status)
	})

	t.Run("rejects duplicate name idempotently", func(t *testing.T) {
		accounts := newFakeAccounts()
		products := newFakeProducts()
		scraper := newFakeScraper(map[string]string{"https://shop.example/p/1": "423,90 €"})
		svc := newTracking(t, accounts, products, scraper)
		account := registered(t, accounts, "user-1")

		first := svc.AddProduct(context.Background(), "user-1", "headphones", "https://shop.example/p/1")
		require.Equal(t, ports.AddSuccess, first.Status)

		second := svc.AddProduct(context.Background(), "user-1", "headphones", "https://shop.example/p/1")
		assert.Equal(t, ports.AddProductExists, second.Status)

		owned, err := products.List(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Len(t, owned, 1)
	})

	t.Run("scrape failure persists nothing", func(t *testing.T) {
		accounts := newFakeAccounts()
		products := newFakeProducts()
		svc := newTracking(t, accounts, products, newFakeScraper(nil))
		account := registered(t, accounts, "user-1")

		res := svc.AddProduct(context.Background(), "user-1", "headphones", "https://shop.example/broken")
		assert.Equal(t, ports.AddUnableToScrape, res.Status)

		owned, err := products.List(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Empty(t, owned)
	})

	t.Run("non-canonical scrape result persists nothing", func(t *testing.T) {
		accounts := newFakeAccounts()
		products := newFakeProducts()
		scraper := newFakeScraper(map[string]string{"https://shop.example/p/1": "out of stock"})
		svc := newTracking(t, accounts, products, scraper)
		account := registered(t, accounts, "user-1")

		res := svc.AddProduct(context.Background(), "user-1", "headphones", "https://shop.example/p/1")
		assert.Equal(t, ports.AddUnableToScrape, res.Status)

		owned, err := products.List(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Empty(t, owned)
	})

	t.Run("store failure", func(t *testing.T) {
		accounts := newFakeAccounts()
		products := newFakeProducts()
		products.createErr = errors.New("connection refused")
		scraper := newFakeScraper(map[string]string{"https://shop.example/p/1": "423,90 €"})
		svc := newTracking(t, accounts, products, scraper)
		registered(t, accounts, "user-1")

		res := svc.AddProduct(context.Background(), "user-1", "headphones", "https://shop.example/p/1")
		assert.Equal(t, ports.AddError, res.Status)
		assert.Error(t, res.Err)
	})
}

func TestTracking_RemoveProduct(t *testing.T) {
	addProduct := func(t *testing.T, svc *services.Tracking, scraper *fakeScraper, identity, name, url string) *domain.Product {
		t.Helper()
		scraper.setPrice(url, "10,00 €")
		res := svc.AddProduct(context.Background(), identity, name, url)
		require.Equal(t, ports.AddSuccess, res.Status)
		return res.Product
	}

	t.Run("removes product and its history", func(t *testing.T) {
		accounts := newFakeAccounts()
		products := newFakeProducts()
		scraper := newFakeScraper(map[string]string{})
		svc := newTracking(t, accounts, products, scraper)
		registered(t, accounts, "user-1")
		product := addProduct(t, svc, scraper, "user-1", "headphones", "https://shop.example/p/1")

		res := svc.RemoveProduct(context.Background(), "user-1", "headphones")
		assert.Equal(t, ports.RemoveSuccess, res.Status)
		assert.Zero(t, products.pointCount(product.ID))

		_, err := products.GetByName(context.Background(), product.AccountID, "headphones")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("requires registration", func(t *testing.T) {
		svc := newTracking(t, newFakeAccounts(), newFakeProducts(), newFakeScraper(nil))

		res := svc.RemoveProduct(context.Background(), "stranger", "headphones")
		assert.Equal(t, ports.RemoveNotRegistered, res.Status)
	})

	t.Run("missing name", func(t *testing.T) {
		accounts := newFakeAccounts()
		svc := newTracking(t, accounts, newFakeProducts(), newFakeScraper(nil))
		registered(t, accounts, "user-1")

		res := svc.RemoveProduct(context.Background(), "user-1", "  ")
		assert.Equal(t, ports.RemoveNameMissing, res.Status)
	})

	t.Run("unknown name", func(t *testing.T) {
		accounts := newFakeAccounts()
		svc := newTracking(t, accounts, newFakeProducts(), newFakeScraper(nil))
		registered(t, accounts, "user-1")

		res := svc.RemoveProduct(context.Background(), "user-1", "headphones")
		assert.Equal(t, ports.RemoveProductNotFound, res.Status)
	})

	t.Run("cannot remove another account's product", func(t *testing.T) {
		accounts := newFakeAccounts()
		products := newFakeProducts()
		scraper := newFakeScraper(map[string]string{})
		svc := newTracking(t, accounts, products, scraper)
		registered(t, accounts, "owner")
		registered(t, accounts, "other")
		product := addProduct(t, svc, scraper, "owner", "headphones", "https://shop.example/p/1")

		res := svc.RemoveProduct(context.Background(), "other", "headphones")
		assert.Equal(t, ports.RemoveProductNotFound, res.Status)

		// Still tracked by the owner.
		_, err := products.GetByName(context.Background(), product.AccountID, "headphones")
		assert.NoError(t, err)
	})
}
