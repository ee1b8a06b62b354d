package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sig-0/flip/provider/currencies"
	"github.com/sig-0/flip/storage/types"
)

var (
	exalted    = currencies.Currency{Name: currencies.Exalted, ID: 6, Tier: 1}
	chaos      = currencies.Currency{Name: currencies.Chaos, ID: 4, Tier: 2}
	fusing     = currencies.Currency{Name: currencies.Fusing, ID: 2, Tier: 2}
	alteration = currencies.Currency{Name: currencies.Alteration, ID: 1, Tier: 3}
)

var rates = []float64{0.0001, 0.5, 0.9999, 1, 1.0001, 1.5, 12, 180.25}

func offerAt(rate float64) *types.ConversionOffer {
	return &types.ConversionOffer{
		Contact: "seller",
		Rate:    rate,
		Stock:   10,
	}
}

func TestFilter_IsViable(t *testing.T) {
	t.Parallel()

	t.Run("trading up above par is rejected", func(t *testing.T) {
		t.Parallel()

		// have is less valuable than want
		for _, tc := range []struct{ want, have currencies.Currency }{
			{exalted, chaos},
			{exalted, alteration},
			{chaos, alteration},
		} {
			for _, rate := range rates {
				viable := IsViable(tc.want, tc.have, offerAt(rate))

				assert.Equal(
					t,
					rate <= 1,
					viable,
					"want %s, have %s, rate %v",
					tc.want.Name,
					tc.have.Name,
					rate,
				)
			}
		}
	})

	t.Run("same tier is always viable", func(t *testing.T) {
		t.Parallel()

		for _, rate := range rates {
			assert.True(t, IsViable(chaos, fusing, offerAt(rate)))
			assert.True(t, IsViable(fusing, chaos, offerAt(rate)))
		}
	})

	t.Run("trading down is never blocked", func(t *testing.T) {
		t.Parallel()

		// have is more valuable than want
		for _, rate := range rates {
			assert.True(t, IsViable(chaos, exalted, offerAt(rate)))
			assert.True(t, IsViable(alteration, exalted, offerAt(rate)))
			assert.True(t, IsViable(alteration, chaos, offerAt(rate)))
		}
	})

	t.Run("rate at par", func(t *testing.T) {
		t.Parallel()

		assert.True(t, IsViable(exalted, alteration, offerAt(1)))
	})
}

func TestFilter_Offers(t *testing.T) {
	t.Parallel()

	t.Run("order preserved", func(t *testing.T) {
		t.Parallel()

		offers := []*types.ConversionOffer{
			{Contact: "a", Rate: 0.5},
			{Contact: "b", Rate: 2},
			{Contact: "c", Rate: 1},
			{Contact: "d", Rate: 3.25},
			{Contact: "e", Rate: 0.01},
		}

		viable := Offers(exalted, chaos, offers)

		var contacts []string
		for _, o := range viable {
			contacts = append(contacts, o.Contact)
		}

		assert.Equal(t, []string{"a", "c", "e"}, contacts)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, Offers(exalted, chaos, nil))
	})
}
