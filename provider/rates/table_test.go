package rates

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/largestbanks/provider/currencies"
)

func TestTable_New(t *testing.T) {
	t.Parallel()

	t.Run("duplicate currency", func(t *testing.T) {
		t.Parallel()

		_, err := New(
			Entry{Currency: currencies.EUR, Rate: 0.93},
			Entry{Currency: currencies.EUR, Rate: 0.94},
		)

		assert.ErrorIs(t, err, ErrDuplicateRate)
	})

	t.Run("source order kept", func(t *testing.T) {
		t.Parallel()

		table, err := New(
			Entry{Currency: currencies.INR, Rate: 82.95},
			Entry{Currency: currencies.EUR, Rate: 0.93},
		)
		require.NoError(t, err)

		assert.Equal(t, 2, table.Len())
		assert.Equal(t, []string{"INR", "EUR"}, toStrings(table))
	})
}

func TestTable_Rate(t *testing.T) {
	t.Parallel()

	table, err := New(
		Entry{Currency: currencies.EUR, Rate: 0.93},
		Entry{Currency: currencies.GBP, Rate: 0},
		Entry{Currency: currencies.INR, Rate: -1},
	)
	require.NoError(t, err)

	t.Run("present", func(t *testing.T) {
		t.Parallel()

		rate, err := table.Rate(currencies.EUR)
		require.NoError(t, err)

		assert.Equal(t, 0.93, rate)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, err := table.Rate(currencies.USD)

		assert.ErrorIs(t, err, ErrMissingRate)
	})

	t.Run("zero and negative", func(t *testing.T) {
		t.Parallel()

		_, err := table.Rate(currencies.GBP)
		assert.ErrorIs(t, err, ErrNonPositiveRate)

		_, err = table.Rate(currencies.INR)
		assert.ErrorIs(t, err, ErrNonPositiveRate)
	})

	t.Run("not a number and infinite", func(t *testing.T) {
		t.Parallel()

		nonFinite, err := New(
			Entry{Currency: currencies.EUR, Rate: math.NaN()},
			Entry{Currency: currencies.GBP, Rate: math.Inf(1)},
			Entry{Currency: currencies.INR, Rate: math.Inf(-1)},
		)
		require.NoError(t, err)

		for _, c := range currencies.Required() {
			_, err = nonFinite.Rate(c)
			assert.ErrorIs(t, err, ErrNonFiniteRate, c.String())
		}

		assert.ErrorIs(t, nonFinite.Require(currencies.Required()...), ErrNonFiniteRate)
	})

	t.Run("require", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, table.Require(currencies.EUR))

		err := table.Require(currencies.Required()...)
		assert.ErrorIs(t, err, ErrNonPositiveRate)

		err = table.Require(currencies.USD)
		assert.ErrorIs(t, err, ErrMissingRate)
	})
}

func toStrings(table *Table) []string {
	out := make([]string, 0, table.Len())

	for _, c := range table.Currencies() {
		out = append(out, c.String())
	}

	return out
}
