// Package v1beta1 contains the v1beta1 API types for kprof configuration.
package v1beta1

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

// APIVersion is the current API version for all kprof configuration kinds.
const APIVersion = "kprof.macropower.dev/v1beta1"

// ValidAPIVersions contains all valid API versions.
var ValidAPIVersions = []string{APIVersion}

// ErrTypeMeta is returned when a document has an unexpected apiVersion or kind.
var ErrTypeMeta = errors.New("invalid type metadata")

// TypeMeta identifies the kind and API version of a configuration document.
type TypeMeta struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

func (tm TypeMeta) GetAPIVersion() string {
	return tm.APIVersion
}

func (tm TypeMeta) GetKind() string {
	return tm.Kind
}

// Check returns an error wrapping [ErrTypeMeta] unless the API version is one
// of [ValidAPIVersions] and the kind is one of kinds.
func (tm TypeMeta) Check(kinds ...string) error {
	if !slices.Contains(ValidAPIVersions, tm.APIVersion) {
		return fmt.Errorf("%w: apiVersion %q, expected one of %v", ErrTypeMeta, tm.APIVersion, ValidAPIVersions)
	}

	if !slices.Contains(kinds, tm.Kind) {
		return fmt.Errorf("%w: kind %q, expected one of %v", ErrTypeMeta, tm.Kind, kinds)
	}

	return nil
}

// Object is implemented by every configuration document type.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// ExtendSchemaWithEnums restricts the apiVersion and kind properties of a
// JSON schema to the given constants. It panics if either property is
// missing, since that means the schema was reflected from the wrong type.
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	addConsts(jss, "apiVersion", "API Version", apiVersions)
	addConsts(jss, "kind", "Kind", kinds)
}

func addConsts(jss *jsonschema.Schema, property, title string, values []string) {
	prop, ok := jss.Properties.Get(property)
	if !ok {
		panic(fmt.Sprintf("%s property not found in schema", property))
	}

	for _, v := range values {
		prop.OneOf = append(prop.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: v,
			Title: title,
		})
	}

	_, _ = jss.Properties.Set(property, prop)
}
