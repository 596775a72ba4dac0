package cli

import (
	"github.com/spf13/cobra"

	"github.com/macropower/kprof/pkg/profile"
)

// completeProfiles completes profile names for the positional argument at
// index pos. Other positions get no completions.
func completeProfiles(ra *RootArgs, pos int) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) != pos {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		return profileCompletions(cmd, ra), cobra.ShellCompDirectiveNoFileComp
	}
}

func profileCompletions(cmd *cobra.Command, ra *RootArgs) []cobra.Completion {
	r, _, err := ra.newResolver(cmd)
	if err != nil {
		return nil
	}

	names, err := r.Names(cmd.Context(), ra.Dir)
	if err != nil {
		return nil
	}

	completions := make([]cobra.Completion, 0, len(names))
	for _, name := range names {
		p, err := r.Lookup(cmd.Context(), name, ra.Dir)
		if err != nil {
			completions = append(completions, name)
			continue
		}

		completions = append(completions, cobra.CompletionWithDesc(name, describe(p)))
	}

	return completions
}

func describe(p *profile.Profile) string {
	if p.ParentProfile != "" {
		return "inherits " + p.ParentProfile
	}

	return p.String()
}
