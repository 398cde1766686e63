package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/rowsearch/internal/render"
	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

func newSearchCmd(g *globalFlags) *cobra.Command {
	var (
		tables []string
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find rows where any cell contains the term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if format == "csv" && len(tables) != 1 {
				return errors.New("csv output needs exactly one --table")
			}

			term := strings.Join(args, " ")
			results, err := a.Search(cmd.Context(), tables, term)
			if err != nil {
				return err
			}

			if output == "" {
				return writeResults(cmd.OutOrStdout(), format, results)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := writeResults(f, format, results); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&tables, "table", "t", nil, "Table to search (repeatable; default all)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write results to a file instead of stdout")
	return cmd
}

func writeResults(w io.Writer, format string, results []*types.MatchResult) error {
	switch format {
	case "text":
		for i, res := range results {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := render.Text(w, res); err != nil {
				return err
			}
		}
		return nil
	case "csv":
		for _, res := range results {
			if err := render.CSV(w, res, ','); err != nil {
				return err
			}
		}
		return nil
	case "json":
		return render.JSON(w, results)
	default:
		return fmt.Errorf("unknown format %q (want text, csv or json)", format)
	}
}
