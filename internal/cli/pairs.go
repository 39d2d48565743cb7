package cli

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/supermode/mode"
)

func newPairsCmd(a *app) *cobra.Command {
	var input, selection string
	var names []string

	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "List mode pairs of an archived SuperSet",
		Long: `Enumerates mode pairs with --select all (every pair), pairs (compatible
pairs among --modes) or specific (compatible pairs of --modes with any mode).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, _, err := loadArchive(input, a)
			if err != nil {
				return err
			}
			sel, err := mode.ParseSelection(selection)
			if err != nil {
				return err
			}
			var ofInterest []*mode.Supermode
			for _, n := range names {
				m, err := set.Lookup(n)
				if err != nil {
					return err
				}
				ofInterest = append(ofInterest, m)
			}

			pairs, err := set.Pairs(sel, ofInterest)
			if err != nil {
				return err
			}
			for _, p := range pairs {
				cmd.Println(p.String())
			}
			cmd.Printf("Total: %d pairs\n", len(pairs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "SuperSet archive (YAML)")
	cmd.Flags().StringVar(&selection, "select", "all", "Selection: all, pairs or specific")
	cmd.Flags().StringSliceVar(&names, "modes", nil, "Mode names of interest")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
