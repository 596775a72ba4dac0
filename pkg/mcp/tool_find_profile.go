package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/kprof/pkg/processor"
	"github.com/macropower/kprof/pkg/profile"
	"github.com/macropower/kprof/pkg/yaml"
)

// FindProfileParams defines parameters for the find_profile tool.
type FindProfileParams struct {
	Name string `json:"name,omitempty" jsonschema:"the profile name, defaults to 'default'"`
	Dir  string `json:"dir,omitempty"  jsonschema:"the project directory holding a profiles.yml file, defaults to the server's directory"`
}

// FindProfileResult contains a resolved profile.
type FindProfileResult struct {
	GeneratorConfig processor.Config `json:"generatorConfig"`
	EnricherConfig  processor.Config `json:"enricherConfig"`
	WatcherConfig   processor.Config `json:"watcherConfig"`
	Name            string           `json:"name"`
	ParentProfile   string           `json:"parentProfile,omitempty"`
	Suggestions     []string         `json:"suggestions,omitempty"`
	Order           int              `json:"order"`
	Found           bool             `json:"found"`
}

func (s *Server) handleFindProfile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in FindProfileParams,
) (*mcp.CallToolResult, FindProfileResult, error) {
	dir, err := s.dir(in.Dir)
	if err != nil {
		return nil, FindProfileResult{}, err
	}

	p, err := s.resolver.Find(ctx, in.Name, dir)

	// A missing profile is a normal answer; report the suggestions instead of failing.
	var nfErr *profile.NotFoundError
	if errors.As(err, &nfErr) {
		out := FindProfileResult{
			Name:            nfErr.Name,
			Suggestions:     nfErr.Suggestions,
			GeneratorConfig: processor.Config{},
			EnricherConfig:  processor.Config{},
			WatcherConfig:   processor.Config{},
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: nfErr.Error()}},
		}, out, nil
	}
	if err != nil {
		return nil, FindProfileResult{}, fmt.Errorf("find profile: %w", err)
	}

	text, err := yaml.Marshal(p)
	if err != nil {
		return nil, FindProfileResult{}, fmt.Errorf("encode profile: %w", err)
	}

	out := FindProfileResult{
		Name:            p.Name,
		Order:           p.Order,
		ParentProfile:   p.ParentProfile,
		GeneratorConfig: nonNil(p.GeneratorConfig),
		EnricherConfig:  nonNil(p.EnricherConfig),
		WatcherConfig:   nonNil(p.WatcherConfig),
		Found:           true,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
	}, out, nil
}

func nonNil(c processor.Config) processor.Config {
	if c == nil {
		return processor.Config{}
	}

	return c
}
