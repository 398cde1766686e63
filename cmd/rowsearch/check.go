package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/rowsearch/internal/check"
)

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the config and every configured table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Loaded config successfully")
			fmt.Fprintf(out, "Normalization: %s\n", cfg.Policy())
			fmt.Fprintf(out, "Tables: %d\n", len(cfg.Tables))

			reports, err := a.Check(cmd.Context())
			if err != nil {
				return err
			}
			blocked := 0
			for _, tr := range reports {
				if len(tr.Report.Issues) == 0 {
					fmt.Fprintf(out, "OK    %s\n", tr.Table)
					continue
				}
				for _, iss := range tr.Report.Issues {
					where := tr.Table
					if iss.Column != "" {
						where += "." + iss.Column
					}
					if iss.Row >= 0 {
						where += fmt.Sprintf(" row %d", iss.Row+1)
					}
					fmt.Fprintf(out, "%-5s %s: %s\n", iss.Severity, where, iss.Message)
				}
				if tr.Report.Blocking() {
					blocked++
				}
			}
			if blocked > 0 {
				return fmt.Errorf("%d table(s) have %s issues", blocked, check.SeverityBlock)
			}
			return nil
		},
	}
}
