package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/kprof/pkg/version"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mustN(fmt.Fprintln(cmd.OutOrStdout(), version.Get().String()))

			return nil
		},
	}
}
