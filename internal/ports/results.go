package ports

import "github.com/okarv/pricetracker/internal/domain"

// Every mutating and query operation returns a discriminated result: a
// typed status tag plus the payload for that outcome. Adapters switch on
// the tag exhaustively and treat an unknown tag as a programming error,
// never as a runtime outcome. User-input and precondition failures are
// ordinary statuses; only the error statuses carry an underlying error.

// RegisterStatus tags the outcome of Register.
type RegisterStatus string

const (
	RegisterSuccess   RegisterStatus = "success"
	RegisterDuplicate RegisterStatus = "duplicate"
	RegisterError     RegisterStatus = "error"
)

// RegisterResult is the outcome of Register.
type RegisterResult struct {
	Status  RegisterStatus
	Account *domain.Account
	Err     error
}

// AddProductStatus tags the outcome of AddProduct.
type AddProductStatus string

const (
	AddSuccess        AddProductStatus = "success"
	AddNotRegistered  AddProductStatus = "not_registered"
	AddNameMissing    AddProductStatus = "name_missing"
	AddURLMissing     AddProductStatus = "url_missing"
	AddProductExists  AddProductStatus = "product_exists"
	AddUnableToScrape AddProductStatus = "unable_to_scrape"
	AddError          AddProductStatus = "error"
)

// AddProductResult is the outcome of AddProduct.
type AddProductResult struct {
	Status  AddProductStatus
	Product *domain.Product
	Err     error
}

// RemoveProductStatus tags the outcome of RemoveProduct.
type RemoveProductStatus string

const (
	RemoveSuccess         RemoveProductStatus = "success"
	RemoveNotRegistered   RemoveProductStatus = "not_registered"
	RemoveNameMissing     RemoveProductStatus = "name_missing"
	RemoveProductNotFound RemoveProductStatus = "product_not_found"
	RemoveError           RemoveProductStatus = "error"
)

// RemoveProductResult is the outcome of RemoveProduct.
type RemoveProductResult struct {
	Status RemoveProductStatus
	Err    error
}

// UpdateStatus tags the outcome of UpdatePrices.
type UpdateStatus string

const (
	UpdateSuccess       UpdateStatus = "success"
	UpdateNotRegistered UpdateStatus = "not_registered"
	UpdateError         UpdateStatus = "error"
)

// UpdateResult is the outcome of UpdatePrices. Attempted counts every
// product owned by the account, independent of scrape outcome. Changed
// lists the products whose comparable price moved, in product listing
// order.
type UpdateResult struct {
	Status    UpdateStatus
	Attempted int
	Changed   []domain.PriceChange
	Err       error
}

// ListStatus tags the outcome of ListProducts.
type ListStatus string

const (
	ListSuccess       ListStatus = "success"
	ListNotRegistered ListStatus = "not_registered"
	ListError         ListStatus = "error"
)

// ListResult is the outcome of ListProducts.
type ListResult struct {
	Status   ListStatus
	Products []domain.ProductListing
	Err      error
}

// HistoryStatus tags the outcome of GetHistory.
type HistoryStatus string

const (
	HistorySuccess       HistoryStatus = "success"
	HistoryNotRegistered HistoryStatus = "not_registered"
	HistoryNameMissing   HistoryStatus = "name_missing"
	HistoryNameNotFound  HistoryStatus = "name_not_found"
	HistoryError         HistoryStatus = "error"
)

// HistoryResult is the outcome of GetHistory. Points carries the product's
// full observation log oldest first; the adapter compresses it for display.
type HistoryResult struct {
	Status  HistoryStatus
	Product *domain.Product
	Points  []domain.PricePoint
	Err     error
}
