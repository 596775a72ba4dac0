package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/kprof/api/v1beta1/configs"
	"github.com/macropower/kprof/pkg/config"
	"github.com/macropower/kprof/pkg/log"
	"github.com/macropower/kprof/pkg/profile"
	"github.com/macropower/kprof/pkg/source"
)

const (
	cmdName = "kprof"
	cmdDesc = `Resolve layered generator, enricher and watcher profiles.`
)

type RootArgs struct {
	shutdownTracing func(context.Context) error

	LogLevel      string
	LogFormat     string
	ConfigPath    string
	Dir           string
	TraceEndpoint string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the kprof configuration file")
	cmd.PersistentFlags().
		StringVarP(&ra.Dir, "dir", "d", ".", "Project directory containing a profiles.yml file")
	cmd.PersistentFlags().
		StringVar(&ra.TraceEndpoint, "trace-endpoint", "", "OTLP gRPC endpoint to export traces to")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	must(cmd.MarkPersistentFlagFilename("config", "yaml", "yml"))
	must(cmd.MarkPersistentFlagDirname("dir"))
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:                cmdName,
		Short:              cmdDesc,
		SilenceUsage:       true,
		PersistentPreRunE:  setup(args),
		PersistentPostRunE: teardown(args),
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewShowCmd(args),
		NewBlendCmd(args),
		NewListCmd(args),
		NewDiffCmd(args),
		NewValidateCmd(args),
		NewWatchCmd(args),
		NewServeMCPCmd(args),
		NewWriteConfigCmd(args),
		NewVersionCmd(),
	)

	bindEnvVars(cmd)

	for _, sub := range cmd.Commands() {
		bindEnvVars(sub)
	}

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		_, err := log.Setup(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		if ra.TraceEndpoint != "" {
			ra.shutdownTracing, err = setupTracing(cmd.Context(), ra.TraceEndpoint)
			if err != nil {
				return err
			}
		}

		return nil
	}
}

func teardown(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if ra.shutdownTracing == nil {
			return nil
		}

		err := ra.shutdownTracing(context.WithoutCancel(cmd.Context()))
		if err != nil {
			return fmt.Errorf("shutdown tracing: %w", err)
		}

		return nil
	}
}

func (ra *RootArgs) configPath() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return configs.GetPath()
}

// loadConfig reads the configuration file, falling back to defaults when it
// does not exist.
func (ra *RootArgs) loadConfig(cmd *cobra.Command) (*configs.Config, error) {
	cfg, err := config.Load(ra.configPath(), config.WithColoredErrors(isTerminal(cmd.ErrOrStderr())))
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", ra.configPath(), err)
	}

	return cfg, nil
}

func newCodec(cmd *cobra.Command, cfg *configs.Config) *profile.YAMLCodec {
	opts := []profile.CodecOpt{
		profile.WithColoredErrors(isTerminal(cmd.ErrOrStderr())),
	}
	if cfg.ShouldValidate() {
		opts = append(opts, profile.WithValidator(profile.DefaultValidator))
	}

	return profile.NewYAMLCodec(opts...)
}

// newResolver builds a resolver over the built-in profiles and the
// configured profile paths.
func (ra *RootArgs) newResolver(cmd *cobra.Command) (*profile.Resolver, *configs.Config, error) {
	cfg, err := ra.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	r := profile.NewResolver(
		source.Default(cfg.ProfilePaths...),
		profile.WithCodec(newCodec(cmd, cfg)),
	)

	return r, cfg, nil
}

// profileArg returns args[i], or the configured default profile.
func profileArg(args []string, i int, cfg *configs.Config) string {
	if len(args) > i {
		return args[i]
	}

	return cfg.Profile
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
