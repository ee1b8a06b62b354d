// Package metrics defines the Prometheus collectors for market-data acquisition
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flip"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// OffersParsed counts listing fragments parsed into offers
	OffersParsed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_parsed_total",
		Help:      "Listing fragments parsed into conversion offers",
	})

	// OffersInactive counts listing fragments skipped for missing stock
	OffersInactive = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_inactive_total",
		Help:      "Listing fragments skipped because they carry no stock",
	})

	// OffersMalformed counts listing fragments with unparseable fields
	OffersMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_malformed_total",
		Help:      "Listing fragments with unparseable or degenerate fields",
	})

	// OffersRejected counts offers dropped by the viability filter
	OffersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_rejected_total",
		Help:      "Offers rejected by the tier viability filter",
	})

	// Acquisitions counts marketplace acquisitions by result
	Acquisitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "acquisitions_total",
		Help:      "Marketplace acquisitions by result",
	}, []string{"result"})

	// AcquisitionDuration observes single pair acquisition latency
	AcquisitionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "acquisition_duration_seconds",
		Help:      "Latency of a single pair acquisition",
		Buckets:   prometheus.DefBuckets,
	})

	// CollectionDuration observes full collection run latency, per league
	CollectionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "collection_duration_seconds",
		Help:      "Latency of a full collection run",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	}, []string{"league"})

	// SnapshotsSaved counts persisted snapshots by result
	SnapshotsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshots_saved_total",
		Help:      "Persisted collection snapshots by result",
	}, []string{"result"})
)
