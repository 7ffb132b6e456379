package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cours-de-latin/metermeter/internal/reload"
	"github.com/cours-de-latin/metermeter/internal/stdio"
)

func newStdioCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Answer newline-delimited JSON requests on stdin",
		Long: `Run as a long-lived editor subprocess. Each input line is a request

  {"id":1,"lines":[{"lnum":0,"text":"..."}],"context":{"dominant_meter":"iambic pentameter","strength":0.8}}

and each output line the matching response {"id":1,"results":[...]} or {"id":1,"error":"..."}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, log, factory, err := setup(ctx, opts)
			if err != nil {
				return err
			}
			defer factory.Close()
			e, err := factory.Build()
			if err != nil {
				return err
			}
			log.Debug().Msg("stdio ready")
			return stdio.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), reload.NewHolder(e), log)
		},
	}
}
