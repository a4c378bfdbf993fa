package domain

import "errors"

var (
	// Price errors
	ErrMalformedPrice = errors.New("malformed price")
	ErrEmptyHistory   = errors.New("empty price history")

	// Account errors
	ErrAccountExists   = errors.New("account already registered")
	ErrAccountNotFound = errors.New("account not found")

	// Product errors
	ErrProductExists   = errors.New("product already tracked")
	ErrProductNotFound = errors.New("product not found")
	ErrNoPricePoints   = errors.New("product has no price points")

	// Scrape errors
	ErrScrapeFailed       = errors.New("unable to scrape price")
	ErrScraperUnavailable = errors.New("scrape target unavailable")
)
