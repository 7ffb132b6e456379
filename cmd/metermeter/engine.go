package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cours-de-latin/metermeter"
	"github.com/cours-de-latin/metermeter/internal/config"
	"github.com/cours-de-latin/metermeter/internal/lexdb"
)

// lexiconFallbacks are looked for under ~/.metermeter when no lexicon path is configured.
var lexiconFallbacks = []string{"cmudict.json.xz", "cmudict.json.gz", "cmudict.json"}

// engineFactory builds engines from the configured files. The lexicon
// database, when configured, is opened once and shared by every engine.
type engineFactory struct {
	cfg *config.Config
	log zerolog.Logger
	db  *lexdb.DB

	lexiconPath string
}

func newEngineFactory(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*engineFactory, error) {
	f := &engineFactory{cfg: cfg, log: log}
	// An explicit lexicon must exist; only an unset one falls back to ~/.metermeter.
	if explicit := strings.TrimSpace(cfg.LexiconPath); explicit != "" {
		f.lexiconPath = metermeter.ResolveLexiconPath(explicit, "")
		if f.lexiconPath == "" {
			return nil, fmt.Errorf("lexicon %s: %w", explicit, os.ErrNotExist)
		}
	} else {
		f.lexiconPath = metermeter.ResolveLexiconPath("", "", lexiconFallbacks...)
	}
	if cfg.LexiconDB != "" {
		db, err := lexdb.Open(ctx, cfg.LexiconDB, log)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	return f, nil
}

func (f *engineFactory) Close() error {
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}

// Build loads the current files into a fresh engine.
func (f *engineFactory) Build() (*metermeter.Engine, error) {
	opts := []metermeter.Option{
		metermeter.WithWorkers(f.cfg.BatchWorkers),
		metermeter.WithLogger(f.log.With().Str("component", "engine").Logger()),
	}
	if f.cfg.MaxSyllables > 0 {
		opts = append(opts, metermeter.WithMaxSyllables(f.cfg.MaxSyllables))
	}

	if f.db != nil {
		opts = append(opts, metermeter.WithPronouncer(f.db))
	} else {
		lex, err := metermeter.LoadLexicons(f.lexiconPath, f.cfg.ExtraLexiconPath)
		if err != nil {
			return nil, err
		}
		f.log.Debug().Str("lexicon", f.lexiconPath).Int("words", lex.Len()).Msg("lexicon loaded")
		opts = append(opts, metermeter.WithPronouncer(lex))
	}

	if f.cfg.PriorsPath != "" {
		pf, err := os.Open(f.cfg.PriorsPath)
		if err != nil {
			return nil, fmt.Errorf("open priors: %w", err)
		}
		priors, err := metermeter.LoadPriors(pf)
		pf.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.cfg.PriorsPath, err)
		}
		opts = append(opts, metermeter.WithPriors(priors))
	}

	if f.cfg.CostsPath != "" {
		cf, err := os.Open(f.cfg.CostsPath)
		if err != nil {
			return nil, fmt.Errorf("open costs: %w", err)
		}
		costs, err := metermeter.LoadCosts(cf, metermeter.DefaultCosts())
		cf.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.cfg.CostsPath, err)
		}
		opts = append(opts, metermeter.WithCosts(costs))
	}

	return metermeter.New(opts...)
}

// WatchPaths lists the files whose changes should trigger a rebuild.
func (f *engineFactory) WatchPaths() []string {
	var paths []string
	if f.db == nil {
		paths = append(paths, f.lexiconPath, f.cfg.ExtraLexiconPath)
	}
	return append(paths, f.cfg.PriorsPath, f.cfg.CostsPath)
}

// setup loads the configuration, the logger and the engine factory shared by the subcommands.
func setup(ctx context.Context, opts *rootOptions) (*config.Config, zerolog.Logger, *engineFactory, error) {
	cfg, err := config.Load(opts.overrides())
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("load config: %w", err)
	}
	log := newLogger(os.Stderr, cfg.LogLevel)
	f, err := newEngineFactory(ctx, cfg, log)
	if err != nil {
		return nil, log, nil, err
	}
	return cfg, log, f, nil
}
