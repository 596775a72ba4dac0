package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/kprof/pkg/processor"
	"github.com/macropower/kprof/pkg/profile"
	"github.com/macropower/kprof/pkg/yaml"
)

// BlendConfigurationParams defines parameters for the blend_configuration tool.
type BlendConfigurationParams struct {
	Kind      string   `json:"kind"                jsonschema:"the processor kind: generator, enricher or watcher"`
	Profile   string   `json:"profile,omitempty"   jsonschema:"the profile name, defaults to 'default'"`
	Dir       string   `json:"dir,omitempty"       jsonschema:"the project directory holding a profiles.yml file, defaults to the server's directory"`
	Overrides []string `json:"overrides,omitempty" jsonschema:"overrides of the form processor.key=value, which take precedence over the profile"`
}

// BlendConfigurationResult contains the effective processor configuration.
type BlendConfigurationResult struct {
	Config  processor.Config `json:"config"`
	Kind    string           `json:"kind"`
	Profile string           `json:"profile"`
}

func (s *Server) handleBlendConfiguration(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in BlendConfigurationParams,
) (*mcp.CallToolResult, BlendConfigurationResult, error) {
	dir, err := s.dir(in.Dir)
	if err != nil {
		return nil, BlendConfigurationResult{}, err
	}

	kind, err := profile.ParseKind(in.Kind)
	if err != nil {
		return nil, BlendConfigurationResult{}, err //nolint:wrapcheck // Already descriptive.
	}

	override, err := processor.FromAssignments(in.Overrides)
	if err != nil {
		return nil, BlendConfigurationResult{}, fmt.Errorf("parse overrides: %w", err)
	}

	name := in.Profile
	if name == "" {
		name = profile.DefaultName
	}

	cfg, err := s.resolver.Blend(ctx, kind, name, dir, override)
	if err != nil {
		return nil, BlendConfigurationResult{}, fmt.Errorf("blend configuration: %w", err)
	}

	text, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, BlendConfigurationResult{}, fmt.Errorf("encode configuration: %w", err)
	}

	out := BlendConfigurationResult{
		Kind:    string(kind),
		Profile: name,
		Config:  nonNil(cfg),
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
	}, out, nil
}
