package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

// app carries the state shared by subcommands of one invocation.
type app struct {
	configFile string
	cfg        *Config
	log        logr.Logger
	syncLog    func()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{log: logr.Discard(), syncLog: func() {}}

	root := &cobra.Command{
		Use:           "supermode",
		Short:         "Coupled supermode propagation along tapered fiber couplers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(newViper(), a.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			log, sync, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg, a.log, a.syncLog = cfg, log, sync
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) { a.syncLog() },
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (YAML or TOML)")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("store", "", "SQLite run store path")

	root.AddCommand(newPropagateCmd(a), newPairsCmd(a), newRunsCmd(a))
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
