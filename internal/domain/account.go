package domain

import (
	"strings"
	"time"
)

// Account is a registered chat-platform user that owns tracked products.
// The external identity (platform user id) is the natural key: one account
// per identity, never mutated after creation.
type Account struct {
	ID        int64     `json:"id"`
	Identity  string    `json:"identity"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccount creates an account for an external identity.
func NewAccount(identity, name string) *Account {
	return &Account{
		Identity:  strings.TrimSpace(identity),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
}
