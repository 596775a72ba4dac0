package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewListCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the available profile names",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, _, err := ra.newResolver(cmd)
			if err != nil {
				return err
			}

			names, err := r.Names(cmd.Context(), ra.Dir)
			if err != nil {
				return fmt.Errorf("list profiles: %w", err)
			}

			for _, name := range names {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), name))
			}

			return nil
		},
	}
}
