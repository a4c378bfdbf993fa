package domain

import (
	"iter"
	"time"
)

// RowKind discriminates the rows of a compressed price timeline.
type RowKind int

const (
	RowHeader RowKind = iota
	RowCurrent
	RowSeparator
	RowPrice
)

// Row is one display row of a compressed price history.
type Row struct {
	Kind      RowKind
	Name      string    // header rows
	Points    int       // header rows: total observation count
	Price     string    // current and price rows
	CreatedAt time.Time // price rows
}

// CompressHistory reduces a chronological price sequence (oldest first) to
// a changed-only timeline: a header, the first point as the current price,
// then a separator and a timestamped row for every point whose comparable
// value differs from its predecessor. Runs of identical prices collapse to
// their first occurrence.
func CompressHistory(name string, points []PricePoint) (iter.Seq[Row], error) {
	if len(points) == 0 {
		return nil, ErrEmptyHistory
	}

	return func(yield func(Row) bool) {
		if !yield(Row{Kind: RowHeader, Name: name, Points: len(points)}) {
			return
		}
		if !yield(Row{Kind: RowCurrent, Price: points[0].Price}) {
			return
		}

		prev, _ := ParseComparable(points[0].Price)
		for _, p := range points[1:] {
			// Stored prices are always canonical; a point that still
			// fails to parse is dropped rather than mis-compared.
			cur, err := ParseComparable(p.Price)
			if err != nil {
				continue
			}
			if cur != prev {
				if !yield(Row{Kind: RowSeparator}) {
					return
				}
				if !yield(Row{Kind: RowPrice, Price: p.Price, CreatedAt: p.CreatedAt}) {
					return
				}
			}
			prev = cur
		}
	}, nil
}
