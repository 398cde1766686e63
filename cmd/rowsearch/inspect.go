package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newInspectCmd(g *globalFlags) *cobra.Command {
	var table string
	cmd := &cobra.Command{
		Use:   "inspect --table <name>",
		Short: "List the tables or sheets behind a configured source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ins, err := a.Inspector(table)
			if err != nil {
				return err
			}
			res, err := ins.Inspect(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source: %s\n", res.Source)
			for _, t := range res.Tables {
				cols := make([]string, len(t.Columns))
				for i, c := range t.Columns {
					cols[i] = fmt.Sprintf("%s %s", c.Name, c.Type)
					if !c.Nullable {
						cols[i] += " not null"
					}
				}
				fmt.Fprintf(out, "  %s (%d rows): %s\n", t.Name, t.RowCount, strings.Join(cols, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "Configured table whose source to inspect")
	cmd.MarkFlagRequired("table")
	return cmd
}
