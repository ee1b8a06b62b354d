package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"

	"github.com/sig-0/flip/metrics"
	"github.com/sig-0/flip/provider/currencies"
	"github.com/sig-0/flip/storage"
	"github.com/sig-0/flip/storage/types"
)

var (
	errInvalidJob      = errors.New("invalid job")
	errInvalidInterval = errors.New("invalid interval")
)

// Orchestrator is the main scheduler for recurring league collections
type Orchestrator struct {
	storage   storage.Storage
	collector *Collector
	catalog   *currencies.Catalog
	logger    *slog.Logger

	pathSearch  PathSearch
	searchDepth int

	registeredJobs sync.Map

	q             iq.Queue[scheduledCollection]
	queryInterval time.Duration
	retryInterval time.Duration
	qMux          sync.Mutex
}

// New creates a new Orchestrator instance
func New(
	storage storage.Storage,
	collector *Collector,
	catalog *currencies.Catalog,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		storage:       storage,
		collector:     collector,
		catalog:       catalog,
		q:             iq.NewQueue[scheduledCollection](),
		queryInterval: time.Second,      // every second
		retryInterval: time.Second * 10, // TODO retry exponentially?
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Register registers a new collection job with the orchestrator.
// The job is immediately queued up for execution
func (o *Orchestrator) Register(job *Job) error {
	if job == nil || job.League == "" || len(job.Pairs) == 0 {
		return errInvalidJob
	}

	if job.Interval <= 0 {
		return errInvalidInterval
	}

	// Register the job
	id := xid.New()
	o.registeredJobs.Store(id, job)

	o.logger.Info(
		"registered new collection job",
		"league", job.League,
		"pairs", len(job.Pairs),
		"interval", job.Interval.String(),
	)

	// Schedule the job
	o.scheduleCollection(
		time.Now().UTC(),
		id,
		job,
	)

	return nil
}

// Start starts the collection orchestration service loop [BLOCKING]
func (o *Orchestrator) Start(ctx context.Context) error {
	collectorCh := make(chan *workerResponse, 100) // TODO make the size configurable

	// Start a listener for monitoring jobs
	ticker := time.NewTicker(o.queryInterval)
	defer ticker.Stop()

	// handleCollections initializes all jobs that are executable (due)
	handleCollections := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				next := o.nextCollection()
				if next == nil {
					return // nothing to schedule anymore
				}

				o.logger.Info(
					"scheduling collection",
					"league", next.job.League,
				)

				// Spawn worker
				info := &workerInfo{
					job:       next.job,
					jobID:     next.jobID,
					collector: o.collector,
					resCh:     collectorCh,
				}

				go handleJob(ctx, info)
			}
		}
	}

	// Initialize the first set of due jobs (on boot)
	handleCollections()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator service shut down")

			return nil
		case <-ticker.C:
			handleCollections()
		case response := <-collectorCh:
			now := time.Now().UTC()

			jobRaw, ok := o.registeredJobs.Load(response.jobID)
			if !ok {
				o.logger.Error(
					"unable to load registered job",
					"id", response.jobID.String(),
				)

				continue
			}

			job, _ := jobRaw.(*Job)

			snapshot := SnapshotFromResults(job.League, response.collectedAt, response.results)

			// Nothing was collected, retry the job soon
			if len(snapshot.Bundles) == 0 {
				o.logger.Error(
					"collection failed for all pairs",
					"id", response.jobID.String(),
					"league", job.League,
					"failures", len(snapshot.Failures),
				)

				o.scheduleCollection(
					now.Add(o.retryInterval),
					response.jobID,
					job,
				)

				continue
			}

			o.saveSnapshot(ctx, snapshot)
			o.searchPaths(ctx, snapshot)

			// Schedule a new collection for this job
			o.scheduleCollection(
				now.Add(job.Interval),
				response.jobID,
				job,
			)
		}
	}
}

// saveSnapshot persists the collected snapshot
func (o *Orchestrator) saveSnapshot(ctx context.Context, snapshot *types.Snapshot) {
	saveCtx, cancelFn := context.WithTimeout(ctx, time.Second*10)
	defer cancelFn()

	if err := o.storage.SaveSnapshot(saveCtx, snapshot); err != nil {
		metrics.SnapshotsSaved.WithLabelValues(metrics.ResultFailure).Inc()

		o.logger.Error(
			"unable to save snapshot",
			"id", snapshot.ID,
			"league", snapshot.League,
			"err", err,
		)

		return
	}

	metrics.SnapshotsSaved.WithLabelValues(metrics.ResultSuccess).Inc()

	o.logger.Info(
		"saved snapshot",
		"id", snapshot.ID,
		"league", snapshot.League,
		"bundles", len(snapshot.Bundles),
		"failures", len(snapshot.Failures),
		"collected_at", snapshot.CollectedAt.String(),
	)
}

// searchPaths hands the collected bundles over to the path search, if any
func (o *Orchestrator) searchPaths(ctx context.Context, snapshot *types.Snapshot) {
	if o.pathSearch == nil {
		return
	}

	if err := o.pathSearch.Search(ctx, o.catalog, snapshot.Bundles, o.searchDepth); err != nil {
		o.logger.Error(
			"path search failed",
			"id", snapshot.ID,
			"league", snapshot.League,
			"err", err,
		)
	}
}

// scheduleCollection schedules a new job run
func (o *Orchestrator) scheduleCollection(
	at time.Time,
	jobID xid.ID,
	job *Job,
) {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	future := scheduledCollection{
		at:    at,
		jobID: jobID,
		job:   job,
	}

	o.q.Push(future)
}

// nextCollection fetches the next due job run, as of the moment of calling
func (o *Orchestrator) nextCollection() *scheduledCollection {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	now := time.Now().UTC()

	// Check if anything needs to be scheduled
	if o.q.Len() == 0 {
		return nil // nothing to schedule, all jobs are running
	}

	// Check if the top element is due
	if o.q.Index(0).at.After(now) {
		return nil // nothing to schedule, latest job is in the future
	}

	// Grab the next job
	return o.q.PopFront()
}
