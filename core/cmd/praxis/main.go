// praxis is an interactive calculator for arithmetic S-expressions.
//
// With no subcommand it runs the REPL when stdin is a terminal and evaluates
// stdin line by line otherwise.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	praxis "github.com/rphilander/praxis/core"
	"github.com/rphilander/praxis/journal"
)

type options struct {
	config  string
	history string
	journal string
	ast     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "praxis",
		Short:        "Evaluate arithmetic S-expressions",
		Version:      praxis.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			rec, err := openJournal(cfg)
			if err != nil {
				return err
			}
			if rec != nil {
				defer rec.Close()
			}
			return run(cfg, opts, rec)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.config, "config", "", "YAML config file (default $PRAXIS_CONFIG)")
	pf.StringVar(&opts.journal, "journal", "", "SQLite journal path (default from config or $PRAXIS_JOURNAL)")

	f := root.Flags()
	f.StringVar(&opts.history, "history", "", "history file (default from config or $PRAXIS_HISTORY)")
	f.BoolVar(&opts.ast, "ast", false, "print the parse tree of each line before its result")

	root.AddCommand(
		newEvalCmd(opts),
		newServeCmd(opts),
		newJournalCmd(opts),
	)
	return root
}

// loadConfig merges the config file, the environment and the command line.
func loadConfig(opts *options) (praxis.Config, error) {
	cfg, err := praxis.LoadConfig(opts.config)
	if err != nil {
		return praxis.Config{}, err
	}
	if opts.history != "" {
		cfg.HistoryFile = opts.history
	}
	if opts.journal != "" {
		cfg.Journal = opts.journal
	}
	return cfg, nil
}

// openJournal returns nil when no journal is configured.
func openJournal(cfg praxis.Config) (*journal.Journal, error) {
	if cfg.Journal == "" {
		return nil, nil
	}
	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}
