package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/kprof/api"
	"github.com/macropower/kprof/pkg/processor"
	"github.com/macropower/kprof/pkg/profile"
	"github.com/macropower/kprof/pkg/yaml"
)

const blendExamples = `  # Generator configuration of the default profile:
  kprof blend generator

  # Enricher configuration of a named profile with overrides:
  kprof blend enricher internal-microservice --set name.prefix=api

  # Apply overrides from a file, then from flags:
  kprof blend watcher -f overrides.yaml --set spring-boot.interval=5s`

type BlendArgs struct {
	*RootArgs

	OverrideFile string
	Set          []string
}

func (ba *BlendArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&ba.Set, "set", nil, "Override a value, as processor.key=value (repeatable)")
	cmd.Flags().StringVarP(&ba.OverrideFile, "file", "f", "", "YAML file mapping processor names to override values")

	must(cmd.MarkFlagFilename("file", "yaml", "yml"))
}

// overrides merges --set assignments over the override file.
func (ba *BlendArgs) overrides() (processor.Config, error) {
	var fromFile processor.Config

	if ba.OverrideFile != "" {
		b, err := api.ReadFile(ba.OverrideFile)
		if err != nil {
			return nil, fmt.Errorf("read overrides: %w", err)
		}

		err = yaml.Unmarshal(b, &fromFile)
		if err != nil {
			return nil, fmt.Errorf("decode overrides %s: %w", ba.OverrideFile, err)
		}
	}

	fromFlags, err := processor.FromAssignments(ba.Set)
	if err != nil {
		return nil, fmt.Errorf("parse --set: %w", err)
	}

	return processor.Merge(fromFlags, fromFile), nil
}

func NewBlendCmd(ra *RootArgs) *cobra.Command {
	ba := &BlendArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:     "blend <generator|enricher|watcher> [profile]",
		Short:   "Print the configuration of one processor kind with overrides applied",
		Example: blendExamples,
		Args:    cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return profile.AllKinds, cobra.ShellCompDirectiveNoFileComp
			case 1:
				return profileCompletions(cmd, ra), cobra.ShellCompDirectiveNoFileComp
			}

			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := profile.ParseKind(args[0])
			if err != nil {
				return fmt.Errorf("invalid argument %q: %w", args[0], err)
			}

			override, err := ba.overrides()
			if err != nil {
				return err
			}

			r, cfg, err := ra.newResolver(cmd)
			if err != nil {
				return err
			}

			blended, err := r.Blend(cmd.Context(), kind, profileArg(args, 1, cfg), ra.Dir, override)
			if err != nil {
				return fmt.Errorf("blend %s configuration: %w", kind, err)
			}

			if blended == nil {
				blended = processor.Config{}
			}

			return printYAML(cmd, cfg, blended)
		},
	}

	ba.AddFlags(cmd)

	return cmd
}
