package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListProfilesParams defines parameters for the list_profiles tool.
type ListProfilesParams struct {
	Dir string `json:"dir,omitempty" jsonschema:"the project directory holding a profiles.yml file, defaults to the server's directory"`
}

// ListProfilesResult contains the result of listing profiles.
type ListProfilesResult struct {
	Profiles []string `json:"profiles"`
	Count    int      `json:"count"`
}

func (s *Server) handleListProfiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in ListProfilesParams,
) (*mcp.CallToolResult, ListProfilesResult, error) {
	dir, err := s.dir(in.Dir)
	if err != nil {
		return nil, ListProfilesResult{}, err
	}

	names, err := s.resolver.Names(ctx, dir)
	if err != nil {
		return nil, ListProfilesResult{}, fmt.Errorf("list profiles: %w", err)
	}

	if names == nil {
		names = []string{}
	}

	out := ListProfilesResult{
		Profiles: names,
		Count:    len(names),
	}

	text := fmt.Sprintf("Found %d profiles: %s", out.Count, strings.Join(names, ", "))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, out, nil
}
