package types

import "time"

// Currency is the catalog name of an in-game currency
type Currency string

func (c Currency) String() string {
	return string(c)
}

// Pair is a single (want, have) collection request.
// The league is shared across all pairs of a collection run
type Pair struct {
	Want Currency `json:"want"`
	Have Currency `json:"have"`
}

func (p Pair) String() string {
	return p.Want.String() + "<-" + p.Have.String()
}

// ConversionOffer is a single willingness to trade Have into Want
type ConversionOffer struct {
	Contact string   `json:"contact"`
	Want    Currency `json:"want"`
	Have    Currency `json:"have"`
	League  string   `json:"league"`
	Rate    float64  `json:"conversion_rate"` // units of Want per unit of Have, 4dp
	Stock   int64    `json:"stock"`
}

// OfferBundle is the accepted set of offers for one pair
type OfferBundle struct {
	Want   Currency           `json:"want"`
	Have   Currency           `json:"have"`
	League string             `json:"league"`
	Offers []*ConversionOffer `json:"offers"`
}

// Pair returns the pair the bundle was requested for
func (b *OfferBundle) Pair() Pair {
	return Pair{
		Want: b.Want,
		Have: b.Have,
	}
}

// PairFailure records a pair whose acquisition failed in an isolated run
type PairFailure struct {
	Want  Currency `json:"want"`
	Have  Currency `json:"have"`
	Error string   `json:"error"`
}

// Snapshot is the aggregated result of one collection run
type Snapshot struct {
	CollectedAt time.Time      `json:"collected_at"`
	ID          string         `json:"id"`
	League      string         `json:"league"`
	Bundles     []*OfferBundle `json:"bundles"`
	Failures    []PairFailure  `json:"failures,omitempty"`
}

// Bundle returns the snapshot bundle for the given pair, if any
func (s *Snapshot) Bundle(pair Pair) *OfferBundle {
	for _, b := range s.Bundles {
		if b.Want == pair.Want && b.Have == pair.Have {
			return b
		}
	}

	return nil
}

type SnapshotQuery struct {
	League string `json:"league"`
	Offset int64  `json:"offset"`
	Limit  int32  `json:"limit"`
}

// Page wraps the results for pagination
type Page[T any] struct {
	Results []T   `json:"results"`
	Total   int64 `json:"total"`
}

const (
	DefaultLimit int32 = 100
	MaxLimit     int32 = 500
)

// Window returns the normalized query offset and limit
func (q *SnapshotQuery) Window() (int64, int32) {
	offset, limit := q.Offset, q.Limit

	if offset < 0 {
		offset = 0
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	return offset, limit
}
