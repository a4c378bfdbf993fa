package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/okarv/pricetracker/internal/domain"
	"github.com/okarv/pricetracker/internal/ports"
)

const uniqueViolation = "23505"

// AccountRepository implements the ports.AccountRepository interface
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *DB) ports.AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account. The unique constraint on identity settles
// concurrent registrations: the losing insert maps to ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (identity, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		account.Identity,
		account.Name,
		account.CreatedAt,
	).Scan(&account.ID)

	if isUniqueViolation(err) {
		return domain.ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByIdentity retrieves the account owning an external identity
func (r *AccountRepository) GetByIdentity(ctx context.Context, identity string) (*domain.Account, error) {
	query := `
		SELECT id, identity, name, created_at
		FROM accounts
		WHERE identity = $1
	`

	var account domain.Account
	err := r.db.Pool.QueryRow(ctx, query, identity).Scan(
		&account.ID,
		&account.Identity,
		&account.Name,
		&account.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Ensure AccountRepository implements ports.AccountRepository
var _ ports.AccountRepository = (*AccountRepository)(nil)
