package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/cours-de-latin/metermeter/internal/api"
	"github.com/cours-de-latin/metermeter/internal/metrics"
	"github.com/cours-de-latin/metermeter/internal/reload"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, addr, watch)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (env HTTP_ADDR, default :8080)")
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild the engine when lexicon, prior or cost files change (env WATCH_LEXICON)")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, addr string, watch bool) error {
	startTime := time.Now()
	cfg, log, factory, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer factory.Close()
	if addr != "" {
		cfg.HTTPAddr = addr
	}
	if watch {
		cfg.WatchLexicon = true
	}
	log.Info().Str("version", version).Msg("metermeter starting")

	e, err := factory.Build()
	if err != nil {
		return err
	}
	holder := reload.NewHolder(e)
	prometheus.MustRegister(metrics.NewCollector(holder))

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	watchDone := make(chan struct{})
	if cfg.WatchLexicon {
		w := reload.NewWatcher(holder, factory.Build, log, factory.WatchPaths()...)
		go func() {
			defer close(watchDone)
			if err := w.Run(watchCtx); err != nil {
				log.Error().Err(err).Msg("lexicon watcher stopped")
			}
		}()
	} else {
		close(watchDone)
	}

	srv := api.NewServer(cfg, holder, version, startTime, log.With().Str("component", "http").Logger())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			log.Error().Err(serveErr).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}
	stopWatch()
	<-watchDone

	log.Info().Msg("metermeter stopped")
	return serveErr
}
