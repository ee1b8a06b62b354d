package ingest

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/sig-0/flip/storage/types"
)

// Job is a recurring collection of a fixed set of pairs in a single league
type Job struct {
	League   string
	Pairs    []types.Pair
	Interval time.Duration
}

// scheduledCollection is a single scheduled Job run
type scheduledCollection struct {
	at    time.Time
	job   *Job
	jobID xid.ID
}

// Less is utilized to sort scheduled collections by their due-time (latest == first)
func (a scheduledCollection) Less(b scheduledCollection) bool {
	return a.at.Before(b.at)
}

// workerInfo is the work context for the collection routine
type workerInfo struct {
	job       *Job
	collector *Collector
	resCh     chan<- *workerResponse
	jobID     xid.ID
}

// workerResponse is the collection routine response
type workerResponse struct {
	collectedAt time.Time
	results     []Result // per-pair results, in job order
	jobID       xid.ID   // the job ID
}

// handleJob runs a single collection for the job
func handleJob(
	ctx context.Context,
	info *workerInfo,
) {
	results := info.collector.CollectEach(ctx, info.job.League, info.job.Pairs)

	response := &workerResponse{
		collectedAt: time.Now().UTC(),
		results:     results,
		jobID:       info.jobID,
	}

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}
