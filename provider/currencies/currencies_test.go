package currencies

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/flip/storage/types"
)

func TestCatalog_Default(t *testing.T) {
	t.Parallel()

	c := Default()

	require.Equal(t, 17, c.Len())

	exalted, err := c.Lookup(Exalted)
	require.NoError(t, err)

	assert.Equal(t, 6, exalted.ID)
	assert.Equal(t, 1, exalted.Tier)

	alteration, err := c.Lookup(Alteration)
	require.NoError(t, err)

	assert.Equal(t, 1, alteration.ID)
	assert.Equal(t, 3, alteration.Tier)

	// Entries are ordered by marketplace id
	list := c.List()
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestCatalog_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("unknown currency", func(t *testing.T) {
		t.Parallel()

		cur, err := Default().Lookup("Mirror of Kalandra")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownCurrency)
		assert.Equal(t, Currency{}, cur)

		var unknownErr *UnknownCurrencyError

		require.True(t, errors.As(err, &unknownErr))
		assert.Equal(t, types.Currency("Mirror of Kalandra"), unknownErr.Name)
	})

	t.Run("concurrent lookups", func(t *testing.T) {
		t.Parallel()

		var (
			c  = Default()
			wg sync.WaitGroup
		)

		for range 50 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for _, name := range c.Names() {
					cur, err := c.Lookup(name)

					assert.NoError(t, err)
					assert.Equal(t, name, cur.Name)
				}
			}()
		}

		wg.Wait()
	})
}

func TestCatalog_NewCatalog(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name        string
		entries     []Currency
		expectedErr error
	}{
		{
			"empty name",
			[]Currency{{Name: "", ID: 1, Tier: 1}},
			errEmptyName,
		},
		{
			"invalid id",
			[]Currency{{Name: Chaos, ID: 0, Tier: 1}},
			errInvalidID,
		},
		{
			"invalid tier",
			[]Currency{{Name: Chaos, ID: 4, Tier: 0}},
			errInvalidTier,
		},
		{
			"duplicate name",
			[]Currency{
				{Name: Chaos, ID: 4, Tier: 2},
				{Name: Chaos, ID: 5, Tier: 2},
			},
			errDuplicateName,
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewCatalog(testCase.entries...)

			assert.Nil(t, c)
			assert.ErrorIs(t, err, testCase.expectedErr)
		})
	}

	t.Run("non-contiguous tiers", func(t *testing.T) {
		t.Parallel()

		c, err := NewCatalog(
			Currency{Name: Exalted, ID: 6, Tier: 1},
			Currency{Name: Chaos, ID: 4, Tier: 7},
			Currency{Name: Alchemy, ID: 3, Tier: 7},
		)
		require.NoError(t, err)

		assert.Equal(t, []types.Currency{Alchemy, Chaos, Exalted}, c.Names())
	})
}

func TestCatalog_Permutations(t *testing.T) {
	t.Parallel()

	t.Run("default catalog", func(t *testing.T) {
		t.Parallel()

		var (
			c     = Default()
			pairs = c.Permutations()
			seen  = make(map[types.Pair]struct{}, len(pairs))
		)

		require.Len(t, pairs, c.Len()*(c.Len()-1))

		for _, p := range pairs {
			assert.NotEqual(t, p.Want, p.Have)

			_, dup := seen[p]
			assert.False(t, dup)

			seen[p] = struct{}{}
		}
	})

	t.Run("single entry", func(t *testing.T) {
		t.Parallel()

		c, err := NewCatalog(Currency{Name: Chaos, ID: 4, Tier: 2})
		require.NoError(t, err)

		assert.Empty(t, c.Permutations())
	})
}
