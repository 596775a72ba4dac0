package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const showExamples = `  # Show the default profile of the current directory:
  kprof show

  # Show a named profile of another project:
  kprof show internal-microservice -d ./services/api`

func NewShowCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:               "show [profile]",
		Short:             "Print a fully resolved profile",
		Example:           showExamples,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeProfiles(ra, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, cfg, err := ra.newResolver(cmd)
			if err != nil {
				return err
			}

			p, err := r.Find(cmd.Context(), profileArg(args, 0, cfg), ra.Dir)
			if err != nil {
				return fmt.Errorf("resolve profile: %w", err)
			}

			return printYAML(cmd, cfg, p)
		},
	}
}
