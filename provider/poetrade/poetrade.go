package poetrade

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/flip/filter"
	"github.com/sig-0/flip/metrics"
	"github.com/sig-0/flip/provider/currencies"
	"github.com/sig-0/flip/storage/types"
)

// DefaultURL is the currency.poe.trade marketplace base URL
const DefaultURL = "http://currency.poe.trade"

// MaxOffers is the maximum number of offers kept per pair.
// The marketplace lists the best offers first
const MaxOffers = 5

const searchPath = "/search"

// Provider fetches conversion offers from currency.poe.trade
type Provider struct {
	catalog *currencies.Catalog
	client  *http.Client
	logger  *slog.Logger
	url     string

	strict bool
}

// NewProvider creates a new instance of the currency.poe.trade provider.
// The timeout applies to every single search request
func NewProvider(
	catalog *currencies.Catalog,
	url string,
	timeout time.Duration,
	opts ...Option,
) *Provider {
	p := &Provider{
		catalog: catalog,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		url:    url,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Fetch fetches, parses and filters the offers for the given pair.
// Unknown currencies are returned as is, every other failure
// is returned as an *AcquisitionError
func (p *Provider) Fetch(ctx context.Context, league string, pair types.Pair) (*types.OfferBundle, error) {
	want, err := p.catalog.Lookup(pair.Want)
	if err != nil {
		return nil, err
	}

	have, err := p.catalog.Lookup(pair.Have)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	bundle, err := p.fetch(ctx, league, want, have)

	metrics.AcquisitionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Acquisitions.WithLabelValues(metrics.ResultFailure).Inc()

		return nil, &AcquisitionError{
			League: league,
			Pair:   pair,
			Err:    err,
		}
	}

	metrics.Acquisitions.WithLabelValues(metrics.ResultSuccess).Inc()

	return bundle, nil
}

func (p *Provider) fetch(
	ctx context.Context,
	league string,
	want, have currencies.Currency,
) (*types.OfferBundle, error) {
	searchURL, err := p.searchURL(league, want, have)
	if err != nil {
		return nil, err
	}

	// Prepare the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create new GET request: %w", err)
	}

	// Execute the request
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	// Construct document for parsing
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to construct query doc: %w", err)
	}

	offers, err := p.parseOffers(doc)
	if err != nil {
		return nil, err
	}

	if len(offers) > MaxOffers {
		offers = offers[:MaxOffers]
	}

	for _, offer := range offers {
		offer.Want = want.Name
		offer.Have = have.Name
		offer.League = league
	}

	viable := filter.Offers(want, have, offers)

	if rejected := len(offers) - len(viable); rejected > 0 {
		metrics.OffersRejected.Add(float64(rejected))

		p.logger.Debug(
			"rejected implausible offers",
			"want", want.Name,
			"have", have.Name,
			"count", rejected,
		)
	}

	return &types.OfferBundle{
		Want:   want.Name,
		Have:   have.Name,
		League: league,
		Offers: viable,
	}, nil
}

// parseOffers parses every listing fragment in the document, in page order
func (p *Provider) parseOffers(doc *goquery.Document) ([]*types.ConversionOffer, error) {
	var (
		sel      = doc.Find(offerSelector)
		offers   = make([]*types.ConversionOffer, 0, sel.Length())
		parseErr error
	)

	sel.EachWithBreak(func(i int, fragment *goquery.Selection) bool {
		offer, err := ParseOffer(fragment)
		if err != nil {
			metrics.OffersMalformed.Inc()

			if p.strict {
				parseErr = fmt.Errorf("unable to parse listing #%d: %w", i, err)

				return false
			}

			p.logger.Warn(
				"skipping malformed listing",
				"index", i,
				"err", err,
			)

			return true
		}

		if offer == nil {
			metrics.OffersInactive.Inc()

			return true
		}

		metrics.OffersParsed.Inc()

		offers = append(offers, offer)

		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	return offers, nil
}

// searchURL builds the marketplace search URL for the given pair
func (p *Provider) searchURL(league string, want, have currencies.Currency) (string, error) {
	u, err := url.Parse(p.url)
	if err != nil {
		return "", fmt.Errorf("unable to parse marketplace URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + searchPath

	q := url.Values{}
	q.Set("league", league)
	q.Set("want", strconv.Itoa(want.ID))
	q.Set("have", strconv.Itoa(have.ID))
	q.Set("online", "true")

	u.RawQuery = q.Encode()

	return u.String(), nil
}
