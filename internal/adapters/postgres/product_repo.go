package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/okarv/pricetracker/internal/domain"
	"github.com/okarv/pricetracker/internal/ports"
)

// ProductRepository implements the ports.ProductRepository interface
type ProductRepository struct {
	db *DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *DB) ports.ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product together with its first price point in one
// transaction. The unique constraint on (account_id, name) settles
// concurrent adds of the same name: the losing insert maps to
// ErrProductExists and leaves no price point behind.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product, first *domain.PricePoint) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	productQuery := `
		INSERT INTO products (account_id, name, url, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, created_at
	`

	err = tx.QueryRow(ctx, productQuery,
		product.AccountID,
		product.Name,
		product.URL,
	).Scan(&product.ID, &product.CreatedAt)

	if isUniqueViolation(err) {
		return domain.ErrProductExists
	}
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	pointQuery := `
		INSERT INTO price_points (product_id, price, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	first.ProductID = product.ID
	if err := tx.QueryRow(ctx, pointQuery, first.ProductID, first.Price, first.CreatedAt).Scan(&first.ID); err != nil {
		return fmt.Errorf("failed to create first price point: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByName retrieves a product owned by the account, matched exactly
func (r *ProductRepository) GetByName(ctx context.Context, accountID int64, name string) (*domain.Product, error) {
	query := `
		SELECT id, account_id, name, url, created_at
		FROM products
		WHERE account_id = $1 AND name = $2
	`

	var product domain.Product
	err := r.db.Pool.QueryRow(ctx, query, accountID, name).Scan(
		&product.ID,
		&product.AccountID,
		&product.Name,
		&product.URL,
		&product.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// List returns all products owned by the account in name order
func (r *ProductRepository) List(ctx context.Context, accountID int64) ([]*domain.Product, error) {
	query := `
		SELECT id, account_id, name, url, created_at
		FROM products
		WHERE account_id = $1
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Name, &p.URL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Delete removes a product; the foreign key cascades to its price points
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// AppendPricePoint appends one observation to a product's history
func (r *ProductRepository) AppendPricePoint(ctx context.Context, point *domain.PricePoint) error {
	query := `
		INSERT INTO price_points (product_id, price, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		point.ProductID,
		point.Price,
		point.CreatedAt,
	).Scan(&point.ID)

	if err != nil {
		return fmt.Errorf("failed to append price point: %w", err)
	}

	return nil
}

// LatestPricePoint returns a product's most recent observation
func (r *ProductRepository) LatestPricePoint(ctx context.Context, productID int64) (*domain.PricePoint, error) {
	query := `
		SELECT id, product_id, price, created_at
		FROM price_points
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var point domain.PricePoint
	err := r.db.Pool.QueryRow(ctx, query, productID).Scan(
		&point.ID,
		&point.ProductID,
		&point.Price,
		&point.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoPricePoints
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest price point: %w", err)
	}

	return &point, nil
}

// ListPricePoints returns a product's observations oldest first
func (r *ProductRepository) ListPricePoints(ctx context.Context, productID int64) ([]domain.PricePoint, error) {
	query := `
		SELECT id, product_id, price, created_at
		FROM price_points
		WHERE product_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list price points: %w", err)
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Price, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price points: %w", err)
	}

	return points, nil
}

// Ensure ProductRepository implements ports.ProductRepository
var _ ports.ProductRepository = (*ProductRepository)(nil)
