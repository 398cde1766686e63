package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/rowsearch/internal/app"
	"github.com/alexanderjulianmartinez/rowsearch/internal/config"
	"github.com/alexanderjulianmartinez/rowsearch/internal/logging"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rowsearch error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	root := newRootCmd()
	root.SetArgs(args[1:])
	return root.Execute()
}

type globalFlags struct {
	configPath string
	logLevel   string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "rowsearch",
		Short: "Keyword search and row entry over spreadsheets and tables",
		Long: `rowsearch loads the tables listed in a config file (CSV, XLSX, MySQL or
SQLite), finds the rows where any cell contains a term, and highlights the
matching cells. It can also append a row and write the table back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "rowsearch.yaml", "Path to config.yaml")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Override log.level from the config")
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Mark matches with *...* instead of color")

	root.AddCommand(newSearchCmd(g))
	root.AddCommand(newAppendCmd(g))
	root.AddCommand(newCheckCmd(g))
	root.AddCommand(newInspectCmd(g))
	return root
}

// open loads the config and builds the app. Logs go to the command's stderr.
func (g *globalFlags) open(cmd *cobra.Command) (*app.App, *config.Config, error) {
	if g.noColor {
		color.NoColor = true
	}
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	log, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}
