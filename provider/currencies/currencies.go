// Package currencies holds the static currency catalog: the marketplace
// identifier and economic tier of every supported currency.
//
// Tiers are used to filter out unrealistically good offers. A lower tier
// number denotes a more valuable currency.
package currencies

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/sig-0/flip/storage/types"
)

var (
	ErrUnknownCurrency = errors.New("unknown currency")

	errEmptyName     = errors.New("empty currency name")
	errDuplicateName = errors.New("duplicate currency name")
	errInvalidID     = errors.New("invalid marketplace id")
	errInvalidTier   = errors.New("invalid tier")
)

var (
	Alteration          types.Currency = "Alteration"
	Fusing              types.Currency = "Fusing"
	Alchemy             types.Currency = "Alchemy"
	Chaos               types.Currency = "Chaos"
	GemcuttersPrism     types.Currency = "Gemcutter's Prism"
	Exalted             types.Currency = "Exalted"
	Chromatic           types.Currency = "Chromatic"
	Jewellers           types.Currency = "Jewellers"
	Chance              types.Currency = "Chance"
	CartographersChisel types.Currency = "Cartographer's Chisel"
	Scouring            types.Currency = "Scouring"
	Regret              types.Currency = "Regret"
	Regal               types.Currency = "Regal"
	Divine              types.Currency = "Divine"
	Vaal                types.Currency = "Vaal"
	Transmutation       types.Currency = "Transmutation"
	Augmentation        types.Currency = "Augmentation"
)

// Currency is a single catalog entry
type Currency struct {
	Name types.Currency `json:"name"`
	ID   int            `json:"id"`   // marketplace identifier
	Tier int            `json:"tier"` // 1 is the most valuable
}

// UnknownCurrencyError is returned when a name is not present in the catalog
type UnknownCurrencyError struct {
	Name types.Currency
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency %q", e.Name.String())
}

func (e *UnknownCurrencyError) Is(target error) bool {
	return target == ErrUnknownCurrency
}

// Catalog is an immutable currency registry.
// It is safe for concurrent use
type Catalog struct {
	byName map[types.Currency]Currency
	sorted []Currency // by marketplace id
}

// NewCatalog creates a new catalog from the given entries
func NewCatalog(entries ...Currency) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[types.Currency]Currency, len(entries)),
		sorted: make([]Currency, 0, len(entries)),
	}

	for _, e := range entries {
		if e.Name == "" {
			return nil, errEmptyName
		}

		if e.ID <= 0 {
			return nil, fmt.Errorf("%w for %q: %d", errInvalidID, e.Name, e.ID)
		}

		if e.Tier <= 0 {
			return nil, fmt.Errorf("%w for %q: %d", errInvalidTier, e.Name, e.Tier)
		}

		if _, exists := c.byName[e.Name]; exists {
			return nil, fmt.Errorf("%w: %q", errDuplicateName, e.Name)
		}

		c.byName[e.Name] = e
		c.sorted = append(c.sorted, e)
	}

	sort.SliceStable(c.sorted, func(i, j int) bool {
		return c.sorted[i].ID < c.sorted[j].ID
	})

	return c, nil
}

// Default returns the currency.poe.trade catalog.
//
// Trading upwards in tiers with a conversion rate above 1 is treated as
// implausible, trading within a tier or downwards is fine
func Default() *Catalog {
	c, err := NewCatalog(
		Currency{Name: Alteration, ID: 1, Tier: 3},
		Currency{Name: Fusing, ID: 2, Tier: 2},
		Currency{Name: Alchemy, ID: 3, Tier: 2},
		Currency{Name: Chaos, ID: 4, Tier: 2},
		Currency{Name: GemcuttersPrism, ID: 5, Tier: 2},
		Currency{Name: Exalted, ID: 6, Tier: 1},
		Currency{Name: Chromatic, ID: 7, Tier: 2},
		Currency{Name: Jewellers, ID: 8, Tier: 2},
		Currency{Name: Chance, ID: 9, Tier: 2},
		Currency{Name: CartographersChisel, ID: 10, Tier: 2},
		Currency{Name: Scouring, ID: 11, Tier: 2},
		Currency{Name: Regret, ID: 13, Tier: 2},
		Currency{Name: Regal, ID: 14, Tier: 2},
		Currency{Name: Divine, ID: 15, Tier: 2},
		Currency{Name: Vaal, ID: 16, Tier: 2},
		Currency{Name: Transmutation, ID: 22, Tier: 3},
		Currency{Name: Augmentation, ID: 23, Tier: 3},
	)
	if err != nil {
		panic(fmt.Sprintf("invalid default catalog: %s", err))
	}

	return c
}

// Lookup fetches the catalog entry for the given name
func (c *Catalog) Lookup(name types.Currency) (Currency, error) {
	cur, ok := c.byName[name]
	if !ok {
		return Currency{}, &UnknownCurrencyError{Name: name}
	}

	return cur, nil
}

// Len returns the number of catalog entries
func (c *Catalog) Len() int {
	return len(c.sorted)
}

// List returns a copy of all entries, ordered by marketplace id
func (c *Catalog) List() []Currency {
	out := make([]Currency, len(c.sorted))
	copy(out, c.sorted)

	return out
}

// Names returns all currency names, ordered by marketplace id
func (c *Catalog) Names() []types.Currency {
	return lo.Map(c.sorted, func(cur Currency, _ int) types.Currency {
		return cur.Name
	})
}

// Permutations returns every ordered (want, have) pair of distinct currencies
func (c *Catalog) Permutations() []types.Pair {
	names := c.Names()
	if len(names) < 2 {
		return nil
	}

	out := make([]types.Pair, 0, len(names)*(len(names)-1))

	for _, want := range names {
		for _, have := range names {
			if want == have {
				continue
			}

			out = append(out, types.Pair{
				Want: want,
				Have: have,
			})
		}
	}

	return out
}
