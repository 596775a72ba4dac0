package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/kprof/api"
	"github.com/macropower/kprof/pkg/profile"
)

// ErrNoProfileFile is returned by validate when the directory has no profile file.
var ErrNoProfileFile = errors.New("no profile file found")

func NewValidateCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the profile file of a directory against the schema",
		Long: `Validate decodes the profile file of the project directory with schema
validation enabled, then resolves every profile it defines so that missing
parent profiles are reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, _, err := ra.newResolver(cmd)
			if err != nil {
				return err
			}

			path, err := api.FindFirstFile(ra.Dir, profile.FileNames(""))
			if err != nil {
				return fmt.Errorf("find profile file: %w", err)
			}
			if path == "" {
				return fmt.Errorf("%w in %s, expected one of %v", ErrNoProfileFile, ra.Dir, profile.FileNames(""))
			}

			codec := profile.NewYAMLCodec(
				profile.WithValidator(profile.DefaultValidator),
				profile.WithColoredErrors(isTerminal(cmd.ErrOrStderr())),
			)

			records, err := decodeFile(codec, path)
			if err != nil {
				return err
			}

			var errs []error

			for _, rec := range records {
				_, err := r.Find(cmd.Context(), rec.Name, ra.Dir)
				if err != nil {
					errs = append(errs, err)
				}
			}

			err = errors.Join(errs...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			slog.Debug("validated profiles", slog.String("path", path), slog.Int("count", len(records)))
			mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s: %d profiles valid\n", path, len(records)))

			return nil
		},
	}
}

func decodeFile(codec profile.Codec, path string) ([]*profile.Profile, error) {
	src := profile.FileSource(path)

	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		closeErr := rc.Close()
		if closeErr != nil {
			slog.Warn("close profile file", slog.String("path", path), slog.Any("err", closeErr))
		}
	}()

	records, err := codec.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}
