package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cours-de-latin/metermeter"
)

func newScanCmd(opts *rootOptions) *cobra.Command {
	var (
		format  string
		twoPass bool
		meter   string
		weight  float64
	)
	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Analyze each line of a file (or stdin)",
		Long: `Analyze each line of a file, or of standard input when no file is given.

With --format json (the default) every line produces one JSON object.
With --format text a table of meter, confidence and stress pattern is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown format %q: want json or text", format)
			}
			var prior *metermeter.Prior
			if meter != "" {
				if _, err := metermeter.ParseMeterName(meter); err != nil {
					return err
				}
				prior = &metermeter.Prior{Meter: meter, Strength: weight}
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			lines, err := readLines(in)
			if err != nil {
				return err
			}

			_, log, factory, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer factory.Close()
			e, err := factory.Build()
			if err != nil {
				return err
			}

			results, err := e.AnalyzeBatch(cmd.Context(), lines, prior)
			if err != nil {
				return err
			}
			if twoPass && prior == nil {
				if dom := metermeter.DominantMeter(results); dom.Meter != "" {
					log.Debug().Str("dominant_meter", dom.Meter).Float64("strength", dom.Strength).Msg("second pass")
					if results, err = e.AnalyzeBatch(cmd.Context(), lines, &dom); err != nil {
						return err
					}
				}
			}

			if format == "text" {
				return writeTable(cmd.OutOrStdout(), results)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			for _, a := range results {
				if err := enc.Encode(a); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or text")
	cmd.Flags().BoolVar(&twoPass, "two-pass", false, "rescan with the dominant meter of the input as a soft prior")
	cmd.Flags().StringVar(&meter, "meter", "", "soft prior meter, e.g. \"iambic pentameter\"")
	cmd.Flags().Float64Var(&weight, "prior-strength", 0.5, "strength of --meter in [0,1]")
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}

func writeTable(w io.Writer, results []metermeter.LineAnalysis) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tMETER\tCONF\tPATTERN\tTEXT")
	for i, a := range results {
		meter := a.Meter
		if meter == "" {
			meter = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\n", i+1, meter, a.Confidence, a.Pattern, a.Text)
	}
	return tw.Flush()
}
