package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/supermode/runstore"
)

func newRunsCmd(a *app) *cobra.Command {
	runs := &cobra.Command{
		Use:   "runs",
		Short: "Browse stored propagation runs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			all, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(all) == 0 {
				cmd.Println("No runs stored")
				return nil
			}
			for _, r := range all {
				cmd.Printf("%s  %s  %-6s  %s  L=%g  samples=%d\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Status, r.Method, r.Length, r.Samples)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Print a stored run and its trajectory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Printf("Run: %s\n", r.ID)
			cmd.Printf("  Created:   %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
			cmd.Printf("  Status:    %s\n", r.Status)
			cmd.Printf("  Method:    %s\n", r.Method)
			cmd.Printf("  Length:    %g\n", r.Length)
			cmd.Printf("  Max step:  %g\n", r.MaxStep)
			cmd.Printf("  Coupling:  %t\n", r.Coupling)
			if r.Error != "" {
				cmd.Printf("  Error:     %s\n", r.Error)
			}
			cmd.Println()
			return writeCSV(cmd.OutOrStdout(), nil, r.Distance, r.Amplitudes)
		},
	}

	runs.AddCommand(list, show)
	return runs
}

func (a *app) openStore() (*runstore.Store, error) {
	if a.cfg.Store == "" {
		return nil, errors.New("no run store configured, set --store or SUPERMODE_STORE")
	}
	return runstore.Open(a.cfg.Store)
}
