package cli

import (
	"fmt"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"

	"github.com/macropower/kprof/pkg/yaml"
)

const diffExamples = `  # Compare two profiles of the current directory:
  kprof diff default internal-microservice`

func NewDiffCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:     "diff <profile> <profile>",
		Short:   "Show a unified diff of two resolved profiles",
		Example: diffExamples,
		Args:    cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
			if len(args) >= 2 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}

			return profileCompletions(cmd, ra), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := ra.newResolver(cmd)
			if err != nil {
				return err
			}

			texts := make([]string, len(args))

			for i, name := range args {
				p, err := r.Find(cmd.Context(), name, ra.Dir)
				if err != nil {
					return fmt.Errorf("resolve profile: %w", err)
				}

				b, err := yaml.Marshal(p)
				if err != nil {
					return fmt.Errorf("encode profile %q: %w", name, err)
				}

				texts[i] = string(b)
			}

			mustN(fmt.Fprint(cmd.OutOrStdout(), udiff.Unified(args[0], args[1], texts[0], texts[1])))

			return nil
		},
	}
}
