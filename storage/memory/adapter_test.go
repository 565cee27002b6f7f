package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/largestbanks/storage/types"
)

func TestStorage_SaveBanks(t *testing.T) {
	t.Parallel()

	t.Run("replace on save", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		first := []*types.EnrichedBank{
			{Bank: types.Bank{Name: "A", MarketCapUSD: 2}},
			{Bank: types.Bank{Name: "B", MarketCapUSD: 1}},
		}

		require.NoError(t, s.SaveBanks(context.Background(), first))
		require.NoError(t, s.SaveBanks(context.Background(), first[:1]))

		banks, err := s.ListBanks(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first[:1], banks)
		assert.Equal(t, 2, s.Saves())
	})

	t.Run("copies records", func(t *testing.T) {
		t.Parallel()

		var (
			s    = NewStorage()
			bank = &types.EnrichedBank{Bank: types.Bank{Name: "A"}}
		)

		require.NoError(t, s.SaveBanks(context.Background(), []*types.EnrichedBank{bank}))

		bank.Name = "changed"

		banks, err := s.ListBanks(context.Background())
		require.NoError(t, err)

		require.Len(t, banks, 1)
		assert.Equal(t, "A", banks[0].Name)

		banks[0].Name = "changed again"

		banks, err = s.ListBanks(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "A", banks[0].Name)
	})

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()

		banks, err := NewStorage().ListBanks(context.Background())
		require.NoError(t, err)

		assert.Empty(t, banks)
	})
}
