package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/sig-0/flip/ingest"
	"github.com/sig-0/flip/provider/currencies"
	"github.com/sig-0/flip/provider/poetrade"
	"github.com/sig-0/flip/server"
	"github.com/sig-0/flip/server/config"
	"github.com/sig-0/flip/storage"
)

// collectionJobs returns one collection job per configured league,
// each covering every catalog permutation
func collectionJobs(
	catalog *currencies.Catalog,
	cfg *config.Collection,
) []*ingest.Job {
	var (
		pairs = catalog.Permutations()
		jobs  = make([]*ingest.Job, 0, len(cfg.Leagues))
	)

	for _, league := range cfg.Leagues {
		jobs = append(jobs, &ingest.Job{
			League:   league,
			Pairs:    pairs,
			Interval: cfg.IntervalDuration(),
		})
	}

	return jobs
}

// newOrchestrator creates the collection orchestrator, with all jobs registered
func newOrchestrator(
	store storage.Storage,
	catalog *currencies.Catalog,
	cfg *config.Collection,
	logger *slog.Logger,
) (*ingest.Orchestrator, error) {
	providerOpts := []poetrade.Option{
		poetrade.WithLogger(logger),
	}

	if cfg.StrictParsing {
		providerOpts = append(providerOpts, poetrade.WithStrictParsing())
	}

	var (
		provider = poetrade.NewProvider(
			catalog,
			cfg.MarketplaceURL,
			cfg.TimeoutDuration(),
			providerOpts...,
		)

		collector = ingest.NewCollector(
			provider,
			ingest.WithWorkers(cfg.Workers),
			ingest.WithCollectorLogger(logger),
		)
	)

	orchestrator := ingest.New(
		store,
		collector,
		catalog,
		ingest.WithLogger(logger),
	)

	for _, job := range collectionJobs(catalog, cfg) {
		if err := orchestrator.Register(job); err != nil {
			return nil, fmt.Errorf("unable to register job for league %q: %w", job.League, err)
		}
	}

	return orchestrator, nil
}

// run runs the read API and, if configured, the collection service,
// until the context is canceled or a termination signal is received
func run(
	ctx context.Context,
	store storage.Storage,
	cfg *config.Config,
	logger *slog.Logger,
) error {
	catalog := currencies.Default()

	// Create the server instance
	s, err := server.New(
		store,
		catalog,
		server.WithLogger(logger),
		server.WithConfig(cfg),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	// Create the collection service, if any
	var orchestrator *ingest.Orchestrator

	if cfg.CollectionEnabled() {
		orchestrator, err = newOrchestrator(store, catalog, cfg.Collection, logger)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("collection disabled, serving stored snapshots only")
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the collection service
	if orchestrator != nil {
		group.Go(func() error {
			return orchestrator.Start(gCtx)
		})
	}

	return group.Wait()
}
