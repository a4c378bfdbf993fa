package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okarv/pricetracker/internal/domain"
)

func pointsFromPrices(prices ...string) []domain.PricePoint {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	points := make([]domain.PricePoint, len(prices))
	for i, price := range prices {
		points[i] = domain.PricePoint{
			ID:        int64(i + 1),
			ProductID: 1,
			Price:     price,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return points
}

func collectRows(t *testing.T, name string, points []domain.PricePoint) []domain.Row {
	t.Helper()

	seq, err := domain.CompressHistory(name, points)
	require.NoError(t, err)

	var rows []domain.Row
	for row := range seq {
		rows = append(rows, row)
	}
	return rows
}

func TestCompressHistory(t *testing.T) {
	t.Run("empty sequence fails", func(t *testing.T) {
		_, err := domain.CompressHistory("headphones", nil)
		assert.ErrorIs(t, err, domain.ErrEmptyHistory)
	})

	t.Run("single point emits header and current only", func(t *testing.T) {
		rows := collectRows(t, "headphones", pointsFromPrices("423,90 €"))

		require.Len(t, rows, 2)
		assert.Equal(t, domain.RowHeader, rows[0].Kind)
		assert.Equal(t, "headphones", rows[0].Name)
		assert.Equal(t, 1, rows[0].Points)
		assert.Equal(t, domain.RowCurrent, rows[1].Kind)
		assert.Equal(t, "423,90 €", rows[1].Price)
	})

	t.Run("runs of identical prices collapse", func(t *testing.T) {
		points := pointsFromPrices("100,00 €", "100,00 €", "200,00 €", "200,00 €", "100,00 €")
		rows := collectRows(t, "headphones", points)

		// header, current, separator, 200, separator, 100
		require.Len(t, rows, 6)
		assert.Equal(t, domain.RowHeader, rows[0].Kind)
		assert.Equal(t, 5, rows[0].Points)
		assert.Equal(t, domain.RowCurrent, rows[1].Kind)
		assert.Equal(t, "100,00 €", rows[1].Price)
		assert.Equal(t, domain.RowSeparator, rows[2].Kind)
		assert.Equal(t, domain.RowPrice, rows[3].Kind)
		assert.Equal(t, "200,00 €", rows[3].Price)
		assert.Equal(t, points[2].CreatedAt, rows[3].CreatedAt)
		assert.Equal(t, domain.RowSeparator, rows[4].Kind)
		assert.Equal(t, domain.RowPrice, rows[5].Kind)
		assert.Equal(t, "100,00 €", rows[5].Price)
		assert.Equal(t, points[4].CreatedAt, rows[5].CreatedAt)
	})

	t.Run("all identical prices emit no price rows", func(t *testing.T) {
		rows := collectRows(t, "headphones", pointsFromPrices("50,00 €", "50,00 €", "50,00 €"))

		require.Len(t, rows, 2)
		assert.Equal(t, domain.RowHeader, rows[0].Kind)
		assert.Equal(t, domain.RowCurrent, rows[1].Kind)
	})

	t.Run("surface formatting differences are not changes", func(t *testing.T) {
		rows := collectRows(t, "headphones", pointsFromPrices("100,00 €", " 100,00  €"))

		require.Len(t, rows, 2)
	})

	t.Run("sequence stops early when consumer breaks", func(t *testing.T) {
		seq, err := domain.CompressHistory("headphones", pointsFromPrices("1,00 €", "2,00 €", "3,00 €"))
		require.NoError(t, err)

		var seen int
		for range seq {
			seen++
			if seen == 3 {
				break
			}
		}
		assert.Equal(t, 3, seen)
	})
}

func TestNewPricePoint(t *testing.T) {
	t.Run("accepts canonical price", func(t *testing.T) {
		point, err := domain.NewPricePoint(7, "423,90 €")
		require.NoError(t, err)
		assert.Equal(t, int64(7), point.ProductID)
		assert.Equal(t, "423,90 €", point.Price)
		assert.NotZero(t, point.CreatedAt)
	})

	t.Run("rejects malformed price", func(t *testing.T) {
		_, err := domain.NewPricePoint(7, "out of stock")
		assert.ErrorIs(t, err, domain.ErrMalformedPrice)
	})
}
