package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator generates JSON schemas for Go types using
// [github.com/invopop/jsonschema]. Field descriptions are read from the Go
// doc comments found under the given directories.
type SchemaGenerator struct {
	reflector *jsonschema.Reflector
	value     any
	base      string
	dirs      []string
}

// NewSchemaGenerator creates a [SchemaGenerator] for the type of v.
// The base is the module import path, and dirs are source directories
// relative to the module root whose comments become schema descriptions.
func NewSchemaGenerator(v any, base string, dirs ...string) *SchemaGenerator {
	return &SchemaGenerator{
		reflector: &jsonschema.Reflector{
			DoNotReference:             true,
			RequiredFromJSONSchemaTags: true,
		},
		value: v,
		base:  base,
		dirs:  dirs,
	}
}

// Generate returns the indented JSON schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	for _, dir := range g.dirs {
		err := g.reflector.AddGoComments(g.base, dir)
		if err != nil {
			return nil, fmt.Errorf("add go comments for %s: %w", dir, err)
		}
	}

	js := g.reflector.Reflect(g.value)

	b, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}
