package config

import (
	"errors"
	"net/url"
	"time"
)

const (
	DefaultMarketplaceURL = "http://currency.poe.trade"
	DefaultLeague         = "Standard"
	DefaultInterval       = "5m"
	DefaultTimeout        = "30s"
	DefaultWorkers        = 20
)

var (
	ErrInvalidMarketplaceURL = errors.New("invalid marketplace URL")
	ErrNoLeagues             = errors.New("no leagues configured")
	ErrEmptyLeague           = errors.New("empty league name")
	ErrInvalidInterval       = errors.New("invalid collection interval")
	ErrInvalidTimeout        = errors.New("invalid request timeout")
	ErrInvalidWorkers        = errors.New("invalid worker count")
)

// Collection defines the scheduled market collection configuration
type Collection struct {
	// Run the scheduled collection alongside the read API
	Enabled bool `toml:"enabled"`

	// The marketplace base URL
	MarketplaceURL string `toml:"marketplace_url"`

	// The collection interval, per league.
	// Format should be a Go duration (ex. 5m)
	Interval string `toml:"interval"`

	// The per-request acquisition timeout.
	// Format should be a Go duration (ex. 30s)
	Timeout string `toml:"timeout"`

	// The leagues collected on every run
	Leagues []string `toml:"leagues"`

	// The number of concurrent acquisitions
	Workers int `toml:"workers"`

	// Fail acquisitions on malformed listings, instead of skipping them
	StrictParsing bool `toml:"strict_parsing"`
}

// DefaultCollectionConfig returns the default collection configuration
func DefaultCollectionConfig() *Collection {
	return &Collection{
		Enabled:        true,
		MarketplaceURL: DefaultMarketplaceURL,
		Interval:       DefaultInterval,
		Timeout:        DefaultTimeout,
		Leagues:        []string{DefaultLeague},
		Workers:        DefaultWorkers,
	}
}

// IntervalDuration returns the parsed collection interval
func (c *Collection) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Interval)

	return d
}

// TimeoutDuration returns the parsed acquisition timeout
func (c *Collection) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)

	return d
}

// ValidateCollection validates the collection configuration
func ValidateCollection(c *Collection) error {
	u, err := url.Parse(c.MarketplaceURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidMarketplaceURL
	}

	if len(c.Leagues) == 0 {
		return ErrNoLeagues
	}

	for _, league := range c.Leagues {
		if league == "" {
			return ErrEmptyLeague
		}
	}

	if d, err := time.ParseDuration(c.Interval); err != nil || d <= 0 {
		return ErrInvalidInterval
	}

	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return ErrInvalidTimeout
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	return nil
}
