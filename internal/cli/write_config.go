package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/kprof/api/v1beta1/configs"
)

func NewWriteConfigCmd(ra *RootArgs) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "write-config",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := ra.configPath()

			err := configs.WriteDefault(path, force)
			if err != nil {
				return err //nolint:wrapcheck // Already includes the path.
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), path))

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file, keeping a backup")

	return cmd
}
