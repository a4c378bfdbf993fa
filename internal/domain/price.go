package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Prices are carried as canonical strings of the form
// "{whole}{separator}{two fraction digits} {unit}", e.g. "423,90 €" or
// "332,55 $". The comparable value derived here is the single source of
// truth for price equality and ordering; surface-string differences never
// count as a change.

// ParseComparable converts a canonical price string into an integer whose
// ordering matches real-money ordering: "423,90 €" -> 42390.
func ParseComparable(price string) (int64, error) {
	fields := strings.Fields(strings.TrimSpace(price))
	if len(fields) == 0 {
		return 0, ErrMalformedPrice
	}

	token := strings.ReplaceAll(fields[0], ",", "")
	value, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, ErrMalformedPrice
	}

	return value, nil
}

// SamePrice reports whether two canonical prices have equal comparable
// values. A price that does not parse never equals anything.
func SamePrice(a, b string) bool {
	av, err := ParseComparable(a)
	if err != nil {
		return false
	}
	bv, err := ParseComparable(b)
	if err != nil {
		return false
	}
	return av == bv
}

// Canonical formats an amount and currency unit into the canonical price
// string. The unit symbol is carried verbatim, never reformatted.
func Canonical(amount decimal.Decimal, unit string) string {
	return strings.Replace(amount.StringFixed(2), ".", ",", 1) + " " + unit
}
