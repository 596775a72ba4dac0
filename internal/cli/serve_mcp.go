package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/kprof/pkg/mcp"
)

func NewServeMCPCmd(ra *RootArgs) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the profile tools to MCP clients",
		Long: `Serve list_profiles, find_profile and blend_configuration over MCP.
Without --address the server speaks stdio; with it, streamable HTTP.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, _, err := ra.newResolver(cmd)
			if err != nil {
				return err
			}

			s := mcp.NewServer(r, mcp.WithAddress(address), mcp.WithDefaultDir(ra.Dir))

			err = s.Serve(cmd.Context())
			if err != nil {
				return fmt.Errorf("MCP server: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Serve streamable HTTP at this address instead of stdio")

	return cmd
}
