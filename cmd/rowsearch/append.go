package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAppendCmd(g *globalFlags) *cobra.Command {
	var (
		table string
		sets  []string
	)
	cmd := &cobra.Command{
		Use:   "append --table <name> --set Column=Value...",
		Short: "Append one row to a table and write it back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseSets(sets)
			if err != nil {
				return err
			}
			a, _, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			row, err := a.Append(cmd.Context(), table, values)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "appended 1 row to %s (%d column(s) set)\n", table, countSet(row))
			return nil
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "Table to append to")
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "Column=Value pair (repeatable)")
	cmd.MarkFlagRequired("table")
	return cmd
}

// parseSets turns Column=Value pairs into row values. An empty value is a
// null cell.
func parseSets(sets []string) (map[string]any, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("at least one --set Column=Value is required")
	}
	values := make(map[string]any, len(sets))
	for _, s := range sets {
		col, val, ok := strings.Cut(s, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid --set %q: want Column=Value", s)
		}
		if _, dup := values[col]; dup {
			return nil, fmt.Errorf("column %s set twice", col)
		}
		if val == "" {
			values[col] = nil
		} else {
			values[col] = val
		}
	}
	return values, nil
}

func countSet(row map[string]any) int {
	n := 0
	for _, v := range row {
		if v != nil {
			n++
		}
	}
	return n
}
