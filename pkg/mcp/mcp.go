// Package mcp serves profile resolution to MCP clients.
//
// The server exposes the list_profiles, find_profile and blend_configuration
// tools over stdio or streamable HTTP.
package mcp

const (
	name         = "kprof"
	instructions = `MCP Server 'kprof' resolves named processor profiles: bundles of generator, enricher and watcher configuration merged from built-in defaults, configured profile directories and a project directory.

When to use these tools:
- Finding out which profiles are available for a project
- Inspecting the fully merged configuration of a profile, including what it inherits from its parent
- Computing the effective configuration of one processor kind after applying overrides

REQUIRED workflow:
1. Use 'list_profiles' with the project directory to see the available profile names
2. Use 'find_profile' with an EXACT name from 'list_profiles' to inspect a profile
3. Use 'blend_configuration' to get the configuration a generator, enricher or watcher would receive

Overrides passed to 'blend_configuration' take the form "processor.key=value" and always win over profile values.
`
)
