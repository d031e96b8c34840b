package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	praxis "github.com/rphilander/praxis/core"
)

func newEvalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eval EXPR...",
		Short: "Evaluate each argument as one line and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			j, err := openJournal(cfg)
			if err != nil {
				return err
			}
			if j != nil {
				defer j.Close()
			}

			s := &session{
				interp: praxis.NewInterp("<args>"),
				rec:    recorder(j),
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
			}
			for _, arg := range args {
				s.evalPrint(arg)
			}
			if s.failed > 0 {
				return fmt.Errorf("%d of %d expressions failed", s.failed, len(args))
			}
			return nil
		},
	}
}

func newServeCmd(opts *options) *cobra.Command {
	var sockPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve evaluations over a unix socket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if sockPath != "" {
				cfg.Socket = sockPath
			}
			j, err := openJournal(cfg)
			if err != nil {
				return err
			}

			core, err := praxis.NewCore(cfg.Socket, cfg.MaxTraces, recorder(j))
			if err != nil {
				if j != nil {
					j.Close()
				}
				return fmt.Errorf("failed to start core: %w", err)
			}

			// Handle shutdown signals
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigs
				log.Println("shutting down...")
				core.Shutdown()
			}()

			journalDesc := cfg.Journal
			if journalDesc == "" {
				journalDesc = "off"
			}
			log.Printf("praxis core listening (socket: %s, journal: %s)", cfg.Socket, journalDesc)
			core.Run()

			if j != nil {
				return j.Close()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sockPath, "socket", "", "unix socket path (default from config or $PRAXIS_SOCK)")
	return cmd
}

func newJournalCmd(opts *options) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List the most recent journaled evaluations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Journal == "" {
				return fmt.Errorf("no journal configured; set --journal or $PRAXIS_JOURNAL")
			}
			if n <= 0 {
				return fmt.Errorf("-n must be positive, got %d", n)
			}
			j, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Recent(n)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %.8s  %s => %s\n", e.At, e.Session, e.Input, e.Output)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", 20, "number of entries to show")
	return cmd
}
