package sql

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/largestbanks/storage"
	"github.com/sig-0/largestbanks/storage/types"
)

const testTable = "Largest_banks"

func testBanks() []*types.EnrichedBank {
	return []*types.EnrichedBank{
		{
			Bank:         types.Bank{Name: "Bank A", MarketCapUSD: 432.92},
			MarketCapEUR: 402.616,
			MarketCapGBP: 346.336,
			MarketCapINR: 35910.714,
		},
		{
			Bank:         types.Bank{Name: "Bank B", MarketCapUSD: 231.52},
			MarketCapEUR: 215.314,
			MarketCapGBP: 185.216,
			MarketCapINR: 19204.584,
		},
	}
}

// openTestStorage opens a file-backed SQLite store in a temp dir
func openTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := Open(
		context.Background(),
		DriverSQLite,
		filepath.Join(t.TempDir(), "Banks.db"),
		testTable,
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestStorage_Open(t *testing.T) {
	t.Parallel()

	t.Run("unsupported driver", func(t *testing.T) {
		t.Parallel()

		_, err := Open(context.Background(), "mysql", "dsn", testTable)

		assert.ErrorIs(t, err, storage.ErrPersistence)
		assert.ErrorIs(t, err, ErrUnsupportedDriver)
	})

	t.Run("invalid table", func(t *testing.T) {
		t.Parallel()

		_, err := Open(context.Background(), DriverSQLite, ":memory:", "x; --")

		assert.ErrorIs(t, err, ErrInvalidTableName)
	})

	t.Run("unreachable database", func(t *testing.T) {
		t.Parallel()

		// Parent directory doesn't exist, the file can't be created
		dsn := filepath.Join(t.TempDir(), "missing", "Banks.db")

		_, err := Open(context.Background(), DriverSQLite, dsn, testTable)

		assert.ErrorIs(t, err, storage.ErrPersistence)
	})
}

func TestStorage_SaveBanks(t *testing.T) {
	t.Parallel()

	t.Run("save and list", func(t *testing.T) {
		t.Parallel()

		s := openTestStorage(t)

		require.NoError(t, s.SaveBanks(context.Background(), testBanks()))

		banks, err := s.ListBanks(context.Background())
		require.NoError(t, err)

		assert.Equal(t, testBanks(), banks)
	})

	t.Run("source order kept", func(t *testing.T) {
		t.Parallel()

		s := openTestStorage(t)

		// The source ranking isn't sorted by USD market cap
		banks := []*types.EnrichedBank{
			{Bank: types.Bank{Name: "Bank C", MarketCapUSD: 10}},
			{Bank: types.Bank{Name: "Bank A", MarketCapUSD: 300}},
			{Bank: types.Bank{Name: "Bank B", MarketCapUSD: 300}},
			{Bank: types.Bank{Name: "Bank D", MarketCapUSD: 20}},
		}

		require.NoError(t, s.SaveBanks(context.Background(), banks))

		listed, err := s.ListBanks(context.Background())
		require.NoError(t, err)

		assert.Equal(t, banks, listed)
	})

	t.Run("idempotent rerun", func(t *testing.T) {
		t.Parallel()

		s := openTestStorage(t)

		require.NoError(t, s.SaveBanks(context.Background(), testBanks()))
		require.NoError(t, s.SaveBanks(context.Background(), testBanks()))

		banks, err := s.ListBanks(context.Background())
		require.NoError(t, err)

		assert.Equal(t, testBanks(), banks)
	})

	t.Run("replaces stale rows", func(t *testing.T) {
		t.Parallel()

		s := openTestStorage(t)

		require.NoError(t, s.SaveBanks(context.Background(), testBanks()))
		require.NoError(t, s.SaveBanks(context.Background(), testBanks()[1:]))

		banks, err := s.ListBanks(context.Background())
		require.NoError(t, err)

		assert.Equal(t, testBanks()[1:], banks)
	})

	t.Run("failure keeps previous table", func(t *testing.T) {
		t.Parallel()

		s := openTestStorage(t)

		require.NoError(t, s.SaveBanks(context.Background(), testBanks()))

		// NaN binds as NULL, which violates the NOT NULL constraint
		// after the drop and create already ran
		invalid := testBanks()
		invalid[1].MarketCapEUR = math.NaN()

		err := s.SaveBanks(context.Background(), invalid)
		assert.ErrorIs(t, err, storage.ErrPersistence)

		banks, err := s.ListBanks(context.Background())
		require.NoError(t, err)

		assert.Equal(t, testBanks(), banks)
	})

	t.Run("large batch", func(t *testing.T) {
		t.Parallel()

		s := openTestStorage(t)

		banks := make([]*types.EnrichedBank, 0, batchSize*2+3)
		for i := 0; i < cap(banks); i++ {
			banks = append(banks, &types.EnrichedBank{
				Bank: types.Bank{
					Name:         "bank",
					MarketCapUSD: float64(cap(banks) - i),
				},
			})
		}

		require.NoError(t, s.SaveBanks(context.Background(), banks))

		stored, err := s.ListBanks(context.Background())
		require.NoError(t, err)

		assert.Equal(t, banks, stored)
	})

	t.Run("empty report", func(t *testing.T) {
		t.Parallel()

		s := openTestStorage(t)

		require.NoError(t, s.SaveBanks(context.Background(), nil))

		banks, err := s.ListBanks(context.Background())
		require.NoError(t, err)

		assert.Empty(t, banks)
	})
}

func TestStorage_ListBanks(t *testing.T) {
	t.Parallel()

	t.Run("missing table", func(t *testing.T) {
		t.Parallel()

		s := openTestStorage(t)

		_, err := s.ListBanks(context.Background())

		assert.ErrorIs(t, err, storage.ErrPersistence)
	})
}

func TestStorage_Query(t *testing.T) {
	t.Parallel()

	t.Run("select all", func(t *testing.T) {
		t.Parallel()

		s := openTestStorage(t)

		require.NoError(t, s.SaveBanks(context.Background(), testBanks()))

		result, err := s.Query(context.Background(), `SELECT * FROM Largest_banks`)
		require.NoError(t, err)

		assert.Equal(t, columns, result.Columns)
		assert.Equal(
			t,
			[][]string{
				{"Bank A", "432.92", "402.616", "346.336", "35910.714"},
				{"Bank B", "231.52", "215.314", "185.216", "19204.584"},
			},
			result.Rows,
		)
	})

	t.Run("aggregate", func(t *testing.T) {
		t.Parallel()

		s := openTestStorage(t)

		require.NoError(t, s.SaveBanks(context.Background(), testBanks()))

		result, err := s.Query(context.Background(), `SELECT COUNT(*) FROM Largest_banks`)
		require.NoError(t, err)

		require.Len(t, result.Rows, 1)
		assert.Equal(t, "2", result.Rows[0][0])
	})

	t.Run("invalid statement", func(t *testing.T) {
		t.Parallel()

		s := openTestStorage(t)

		_, err := s.Query(context.Background(), `SELEC nothing`)

		assert.ErrorIs(t, err, storage.ErrPersistence)
	})
}
