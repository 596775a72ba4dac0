// Package processor defines the configuration handed to generator, enricher
// and watcher stages.
//
// A [Config] maps a processor name to its [Options]. Configs coming from
// several layers are combined with [Merge], which merges per option key rather
// than replacing whole processor entries.
package processor

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/invopop/jsonschema"
)

var (
	// ErrInvalidAssignment is returned when an override assignment cannot be parsed.
	ErrInvalidAssignment = errors.New("invalid assignment")

	// ErrNotScalar is returned when an option value is a mapping or sequence.
	ErrNotScalar = errors.New("value must be a scalar")
)

// Options holds the key/value settings of a single processor.
type Options map[string]string

// Config maps processor names to their [Options].
type Config map[string]Options

// Merge returns the deep merge of two configs. Processor names and option keys
// are unioned; on a key present in both, the value from higher wins.
//
// Neither input is modified. The result is nil when both inputs are empty.
func Merge(higher, lower Config) Config {
	if len(higher) == 0 && len(lower) == 0 {
		return nil
	}

	out := lower.Clone()
	if out == nil {
		out = Config{}
	}

	for name, opts := range higher {
		merged, ok := out[name]
		if !ok || merged == nil {
			merged = Options{}
		}

		maps.Copy(merged, opts)
		out[name] = merged
	}

	return out
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}

	out := make(Config, len(c))
	for name, opts := range c {
		out[name] = maps.Clone(opts)
	}

	return out
}

// Names returns the processor names in sorted order.
func (c Config) Names() []string {
	return slices.Sorted(maps.Keys(c))
}

// Get returns the value of an option of a processor.
func (c Config) Get(name, key string) (string, bool) {
	opts, ok := c[name]
	if !ok {
		return "", false
	}

	v, ok := opts[key]

	return v, ok
}

// Set sets an option of a processor, creating the processor entry if needed.
func (c Config) Set(name, key, value string) {
	opts, ok := c[name]
	if !ok || opts == nil {
		opts = Options{}
		c[name] = opts
	}

	opts[key] = value
}

// UnmarshalYAML decodes processor options from their YAML source. Scalar
// values are kept exactly as written, so "1.10" and "0x1F" are not
// normalized as numbers. A null value is stored as the empty string.
func (c *Config) UnmarshalYAML(b []byte) error {
	f, err := parser.ParseBytes(b, 0)
	if err != nil {
		return err //nolint:wrapcheck // Keep the parser's positional error.
	}

	anchors := map[string]ast.Node{}

	var body ast.Node
	if len(f.Docs) > 0 {
		body = resolveNode(f.Docs[0].Body, anchors)
	}

	if isNull(body) {
		*c = nil
		return nil
	}

	pairs, err := mappingValues(body)
	if err != nil {
		return fmt.Errorf("processor config: %w", err)
	}

	out := make(Config, len(pairs))

	for _, pair := range pairs {
		name := keyString(pair.Key)

		o := Options{}

		optsNode := resolveNode(pair.Value, anchors)
		if !isNull(optsNode) {
			optPairs, err := mappingValues(optsNode)
			if err != nil {
				return fmt.Errorf("processor %q: %w", name, err)
			}

			for _, opt := range optPairs {
				k := keyString(opt.Key)

				v, err := scalarString(resolveNode(opt.Value, anchors))
				if err != nil {
					return fmt.Errorf("processor %q option %q: %w", name, k, err)
				}

				o[k] = v
			}
		}

		out[name] = o
	}

	*c = out

	return nil
}

// resolveNode unwraps tags and anchors, recording anchors so that later
// aliases resolve to them.
func resolveNode(n ast.Node, anchors map[string]ast.Node) ast.Node {
	for {
		switch v := n.(type) {
		case *ast.TagNode:
			n = v.Value
		case *ast.AnchorNode:
			anchors[v.Name.GetToken().Value] = v.Value
			n = v.Value
		case *ast.AliasNode:
			target, ok := anchors[v.Value.GetToken().Value]
			if !ok {
				return n
			}

			n = target
		default:
			return n
		}
	}
}

func isNull(n ast.Node) bool {
	if n == nil {
		return true
	}

	_, ok := n.(*ast.NullNode)

	return ok
}

func mappingValues(n ast.Node) ([]*ast.MappingValueNode, error) {
	switch v := n.(type) {
	case *ast.MappingNode:
		return v.Values, nil
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{v}, nil
	}

	return nil, fmt.Errorf("expected a mapping, got %s", n.Type())
}

func keyString(k ast.MapKeyNode) string {
	if s, ok := k.(*ast.StringNode); ok {
		return s.Value
	}

	return k.GetToken().Value
}

func scalarString(n ast.Node) (string, error) {
	switch v := n.(type) {
	case nil, *ast.NullNode:
		return "", nil
	case *ast.StringNode:
		return v.Value, nil
	case *ast.LiteralNode:
		return v.Value.Value, nil
	case *ast.MappingNode, *ast.MappingValueNode, *ast.SequenceNode:
		return "", ErrNotScalar
	case ast.ScalarNode:
		return v.GetToken().Value, nil
	}

	return "", fmt.Errorf("%w: unsupported %s", ErrNotScalar, n.Type())
}

// ParseAssignment parses an override of the form "processor.key=value".
// The processor name may itself contain dots; the key is the part after the
// last dot before "=".
func ParseAssignment(s string) (string, string, string, error) {
	lhs, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", "", fmt.Errorf("%w %q: missing '='", ErrInvalidAssignment, s)
	}

	idx := strings.LastIndex(lhs, ".")
	if idx <= 0 || idx == len(lhs)-1 {
		return "", "", "", fmt.Errorf("%w %q: expected processor.key=value", ErrInvalidAssignment, s)
	}

	return lhs[:idx], lhs[idx+1:], value, nil
}

// FromAssignments builds a config from "processor.key=value" overrides.
func FromAssignments(assignments []string) (Config, error) {
	if len(assignments) == 0 {
		return nil, nil
	}

	c := Config{}
	for _, a := range assignments {
		name, key, value, err := ParseAssignment(a)
		if err != nil {
			return nil, err
		}

		c.Set(name, key, value)
	}

	return c, nil
}

// JSONSchema describes option values as scalars, matching what
// [Config.UnmarshalYAML] accepts.
func (Options) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		AdditionalProperties: &jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{
				{Type: "string"},
				{Type: "number"},
				{Type: "boolean"},
				{Type: "null"},
			},
		},
	}
}
