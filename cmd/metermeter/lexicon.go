package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cours-de-latin/metermeter"
)

func newLexiconCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Manage pronunciation lexicons",
	}
	cmd.AddCommand(newLexiconImportCmd(opts), newLexiconLookupCmd(opts))
	return cmd
}

func newLexiconImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Load lexicon files (.json, .json.gz, .json.xz) into the SQLite store",
		Long: `Load lexicon files into the SQLite store named by --lexicon-db.
Later files override earlier ones word by word.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, factory, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer factory.Close()
			if factory.db == nil {
				return errors.New("no lexicon database: set --lexicon-db or METERMETER_LEXICON_DB")
			}

			total := 0
			for _, path := range args {
				lex, err := metermeter.LoadLexiconFile(path)
				if err != nil {
					return err
				}
				n, err := factory.db.Import(cmd.Context(), lex)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				log.Info().Str("file", path).Int("words", n).Msg("imported")
				total += n
			}
			count, err := factory.db.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries, %d words stored\n", total, count)
			return nil
		},
	}
}

func newLexiconLookupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <word>...",
		Short: "Show the syllabifications the engine uses for words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, factory, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer factory.Close()
			e, err := factory.Build()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, word := range args {
				pr := e.Pronouncer().Pronounce(word)
				source := "lexicon"
				if !pr.Hit {
					source = "heuristic"
				}
				alts := make([]string, 0, len(pr.Syllabifications))
				for _, syl := range pr.Syllabifications {
					parts := make([]string, len(syl))
					for i, s := range syl {
						parts[i] = s.Text + "/" + s.Stress.String()
					}
					alts = append(alts, strings.Join(parts, " "))
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", word, source, strings.Join(alts, " | "))
			}
			return nil
		},
	}
}
