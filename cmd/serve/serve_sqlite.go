package serve

import (
	"context"
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/flip/cmd/env"
	"github.com/sig-0/flip/cmd/logging"
	"github.com/sig-0/flip/storage/sqlite"
)

const defaultSQLitePath = "data/flip.db"

type serveSQLiteCfg struct {
	rootCfg *serveCfg

	dbPath string
}

// newServeSQLiteCmd creates the serve sqlite command
func newServeSQLiteCmd(rootCfg *serveCfg) *ffcli.Command {
	cfg := &serveSQLiteCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("sqlite", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)

	fs.StringVar(
		&cfg.dbPath,
		"db-path",
		defaultSQLitePath,
		"the path to the SQLite database file",
	)

	return &ffcli.Command{
		Name:       "sqlite",
		ShortUsage: "serve sqlite [flags]",
		LongHelp:   "Serves the flip backend, using a local SQLite datastore",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveSQLiteCfg) exec(ctx context.Context, _ []string) error {
	logger, err := c.rootCfg.setup()
	if err != nil {
		return err
	}

	// Load .env
	if err = godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// Open the SQLite store
	store, err := sqlite.NewStorage(c.dbPath)
	if err != nil {
		return fmt.Errorf("unable to open SQLite store: %w", err)
	}

	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(
				"unable to gracefully close SQLite store",
				logging.Err(err),
			)
		}
	}()

	logger.Info("SQLite store opened", "path", c.dbPath)

	return run(ctx, store, c.rootCfg.config, logger)
}
