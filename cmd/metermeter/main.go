// Command metermeter scans English verse for stress and meter.
//
// Subcommands:
//
//	serve            HTTP JSON API with Prometheus metrics
//	scan [file]      analyze a file or stdin, one result per line
//	stdio            newline-delimited JSON protocol for editor subprocesses
//	lexicon import   load a lexicon file into the SQLite store
//	lexicon lookup   show how a word is pronounced
package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cours-de-latin/metermeter/internal/config"
)

var version = "dev"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	envFile      string
	logLevel     string
	lexicon      string
	extraLexicon string
	lexiconDB    string
	priors       string
	costs        string
	workers      int
}

func (o *rootOptions) overrides() config.Overrides {
	return config.Overrides{
		EnvFile:          o.envFile,
		LogLevel:         o.logLevel,
		LexiconPath:      o.lexicon,
		ExtraLexiconPath: o.extraLexicon,
		LexiconDB:        o.lexiconDB,
		PriorsPath:       o.priors,
		CostsPath:        o.costs,
		BatchWorkers:     o.workers,
	}
}

// newLogger builds the process logger. Output goes to stderr so that stdout
// stays free for scan results and the stdio protocol.
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "metermeter",
		Short:         "Resolve syllable stress and classify the meter of English verse",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.envFile, "env-file", "", "dotenv file to load (default .env)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (env LOG_LEVEL, default info)")
	pf.StringVar(&opts.lexicon, "lexicon", "", "pronunciation lexicon file, .json/.json.gz/.json.xz (env METERMETER_LEXICON_PATH)")
	pf.StringVar(&opts.extraLexicon, "extra-lexicon", "", "user lexicon merged over the main one (env METERMETER_EXTRA_LEXICON_PATH)")
	pf.StringVar(&opts.lexiconDB, "lexicon-db", "", "SQLite lexicon store; replaces the file lexicons (env METERMETER_LEXICON_DB)")
	pf.StringVar(&opts.priors, "priors", "", "function-word prior table, YAML (env METERMETER_PRIORS_PATH)")
	pf.StringVar(&opts.costs, "costs", "", "calibration overrides, YAML (env METERMETER_COSTS_PATH)")
	pf.IntVar(&opts.workers, "workers", 0, "batch concurrency (env BATCH_WORKERS, default 4)")

	root.AddCommand(
		newServeCmd(opts),
		newScanCmd(opts),
		newStdioCmd(opts),
		newLexiconCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Error().Err(err).Msg("metermeter failed")
		os.Exit(1)
	}
}
