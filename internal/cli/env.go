package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars binds KPROF_<FLAG_NAME> environment variables to the flags of
// cmd. Flag names are uppercased with dashes replaced by underscores, so
// "log-level" reads "KPROF_LOG_LEVEL" and "dir" reads "KPROF_DIR".
//
// Arguments take precedence over environment variables, which take precedence
// over default values. Flag usage strings are updated to name the variable.
func bindEnvVars(cmd *cobra.Command) {
	cmd.LocalNonPersistentFlags().VisitAll(bindFlagToEnv)
	cmd.PersistentFlags().VisitAll(bindFlagToEnv)
}

func bindFlagToEnv(flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := flag.Value.Set(envValue)
	if err != nil {
		// Keep the default value.
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("error", err),
		)
	}
}

// flagToEnvName converts a flag name to its environment variable name,
// e.g. "trace-endpoint" -> "KPROF_TRACE_ENDPOINT".
func flagToEnvName(flagName string) string {
	envName := strings.ReplaceAll(flagName, "-", "_")
	return strings.ToUpper(cmdName + "_" + envName)
}
