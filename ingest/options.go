package ingest

import (
	"log/slog"
	"time"
)

type Option func(o *Orchestrator)

// WithLogger specifies the logger for the orchestrator
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithQueryInterval specifies query interval for the orchestrator's jobs.
// Defaults to 1s.
// This should only be modified if the registered jobs with the orchestrator
// have sparse runs (once every hour / 24hrs)
func WithQueryInterval(q time.Duration) Option {
	return func(o *Orchestrator) {
		o.queryInterval = q
	}
}

// WithRetryInterval specifies how soon a completely failed collection is retried.
// Defaults to 10s
func WithRetryInterval(r time.Duration) Option {
	return func(o *Orchestrator) {
		o.retryInterval = r
	}
}

// WithPathSearch specifies the path search to run after every collection,
// with the given search depth
func WithPathSearch(ps PathSearch, depth int) Option {
	return func(o *Orchestrator) {
		o.pathSearch = ps
		o.searchDepth = depth
	}
}

type CollectorOption func(c *Collector)

// WithCollectorLogger specifies the logger for the collector
func WithCollectorLogger(l *slog.Logger) CollectorOption {
	return func(c *Collector) {
		c.logger = l
	}
}

// WithWorkers specifies the number of concurrent acquisitions.
// Defaults to 20
func WithWorkers(n int) CollectorOption {
	return func(c *Collector) {
		c.workers = n
	}
}
