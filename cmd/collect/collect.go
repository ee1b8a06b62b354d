package collect

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/flip/cmd/env"
	"github.com/sig-0/flip/cmd/logging"
	"github.com/sig-0/flip/ingest"
	"github.com/sig-0/flip/provider/currencies"
	"github.com/sig-0/flip/provider/poetrade"
	"github.com/sig-0/flip/storage/file"
	"github.com/sig-0/flip/storage/types"
)

const (
	defaultLeague  = "Standard"
	defaultPath    = "data/raw"
	defaultTimeout = time.Second * 30
)

var (
	errInvalidWorkers = errors.New("invalid worker count")
	errInvalidTimeout = errors.New("invalid request timeout")
)

// collectCfg wraps the collect configuration
type collectCfg struct {
	league   string
	path     string
	url      string
	logLevel string

	workers int
	timeout time.Duration

	partial bool
	strict  bool
}

// NewCollectCmd creates the collect subcommand
func NewCollectCmd() *ffcli.Command {
	cfg := &collectCfg{}

	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "collect",
		ShortUsage: "collect [flags]",
		LongHelp:   "Collects the offers for every currency pair once, and saves the snapshot",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *collectCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.league,
		"league",
		defaultLeague,
		"the league to collect the offers in",
	)

	fs.StringVar(
		&c.path,
		"path",
		defaultPath,
		"the directory the snapshots are saved to",
	)

	fs.StringVar(
		&c.url,
		"url",
		poetrade.DefaultURL,
		"the marketplace base URL",
	)

	fs.StringVar(
		&c.logLevel,
		"log-level",
		"info",
		"the log level (debug, info, warn, error)",
	)

	fs.IntVar(
		&c.workers,
		"workers",
		ingest.DefaultWorkers,
		"the number of concurrent marketplace requests",
	)

	fs.DurationVar(
		&c.timeout,
		"timeout",
		defaultTimeout,
		"the per-request timeout",
	)

	fs.BoolVar(
		&c.partial,
		"partial",
		false,
		"save the snapshot even if some pairs fail, recording the failures",
	)

	fs.BoolVar(
		&c.strict,
		"strict",
		false,
		"fail a pair on any malformed listing, instead of skipping the listing",
	)
}

// validate validates the collect configuration
func (c *collectCfg) validate() error {
	if c.workers <= 0 {
		return errInvalidWorkers
	}

	if c.timeout <= 0 {
		return errInvalidTimeout
	}

	return nil
}

func (c *collectCfg) exec(ctx context.Context, _ []string) error {
	logger, err := logging.New(os.Stdout, c.logLevel)
	if err != nil {
		return err
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancelFn()

	path, err := c.collect(runCtx, logger)
	if err != nil {
		return err
	}

	logger.Info("snapshot saved", "path", path)

	return nil
}

// collect runs a single collection over every catalog permutation,
// and saves the snapshot. Returns the snapshot file path
func (c *collectCfg) collect(ctx context.Context, logger *slog.Logger) (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}

	catalog := currencies.Default()

	providerOpts := []poetrade.Option{
		poetrade.WithLogger(logger),
	}

	if c.strict {
		providerOpts = append(providerOpts, poetrade.WithStrictParsing())
	}

	var (
		provider  = poetrade.NewProvider(catalog, c.url, c.timeout, providerOpts...)
		collector = ingest.NewCollector(
			provider,
			ingest.WithWorkers(c.workers),
			ingest.WithCollectorLogger(logger),
		)

		pairs = catalog.Permutations()
		store = file.NewStorage(c.path)
	)

	logger.Info(
		"starting collection",
		"league", c.league,
		"pairs", len(pairs),
		"workers", c.workers,
	)

	var (
		snapshot *types.Snapshot
		start    = time.Now().UTC()
	)

	if c.partial {
		results := collector.CollectEach(ctx, c.league, pairs)
		snapshot = ingest.SnapshotFromResults(c.league, start, results)

		if len(snapshot.Bundles) == 0 {
			return "", fmt.Errorf("unable to collect any of the %d pairs", len(pairs))
		}
	} else {
		bundles, err := collector.Collect(ctx, c.league, pairs)
		if err != nil {
			return "", fmt.Errorf("unable to collect offers: %w", err)
		}

		snapshot = ingest.NewSnapshot(c.league, start, bundles)
	}

	logger.Info(
		"collection complete",
		"bundles", len(snapshot.Bundles),
		"failures", len(snapshot.Failures),
		"took", time.Since(start).String(),
	)

	if err := store.SaveSnapshot(ctx, snapshot); err != nil {
		return "", fmt.Errorf("unable to save snapshot: %w", err)
	}

	return store.Path(snapshot)
}
