package ports

import (
	"context"

	"github.com/okarv/pricetracker/internal/domain"
)

// AccountRepository defines the contract for account persistence.
type AccountRepository interface {
	// Create inserts a new account if the identity is not yet registered.
	// The uniqueness check and the insert are atomic; a losing concurrent
	// call gets domain.ErrAccountExists.
	Create(ctx context.Context, account *domain.Account) error

	// GetByIdentity retrieves the account owning an external identity.
	GetByIdentity(ctx context.Context, identity string) (*domain.Account, error)
}

// ProductRepository defines the contract for product and price-point
// persistence.
type ProductRepository interface {
	// Create inserts a product together with its first price point. The
	// per-account name uniqueness check and the insert are atomic; a losing
	// concurrent call gets domain.ErrProductExists.
	Create(ctx context.Context, product *domain.Product, first *domain.PricePoint) error

	// GetByName retrieves a product owned by the account, matched exactly.
	GetByName(ctx context.Context, accountID int64, name string) (*domain.Product, error)

	// List returns all products owned by the account in name order.
	List(ctx context.Context, accountID int64) ([]*domain.Product, error)

	// Delete removes a product and cascades to its price points.
	Delete(ctx context.Context, id int64) error

	// AppendPricePoint appends one observation to a product's history.
	AppendPricePoint(ctx context.Context, point *domain.PricePoint) error

	// LatestPricePoint returns a product's most recent observation.
	LatestPricePoint(ctx context.Context, productID int64) (*domain.PricePoint, error)

	// ListPricePoints returns a product's observations oldest first.
	ListPricePoints(ctx context.Context, productID int64) ([]domain.PricePoint, error)
}
