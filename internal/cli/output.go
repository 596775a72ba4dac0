package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/kprof/api/v1beta1/configs"
	"github.com/macropower/kprof/pkg/yaml"
)

// printYAML writes v as YAML, highlighted with the configured theme when
// stdout is a terminal.
func printYAML(cmd *cobra.Command, cfg *configs.Config, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	return writeYAML(cmd.OutOrStdout(), cfg.Theme, string(b))
}

func writeYAML(w io.Writer, theme, content string) error {
	if isTerminal(w) {
		pretty, err := yaml.NewChromaRenderer(theme).RenderContent(content)
		if err != nil {
			slog.Debug("highlight output", slog.Any("err", err))
		} else {
			content = pretty
		}
	}

	_, err := fmt.Fprint(w, content)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
