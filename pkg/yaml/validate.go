package yaml

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var schemaMessages = message.NewPrinter(language.English)

// Validator checks decoded YAML against a JSON schema using
// [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	var schema any

	err := json.Unmarshal(schemaData, &schema)
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()

	err = compiler.AddResource(url, schema)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// MustNewValidator is like [NewValidator] but panics on error. It is meant for
// schemas embedded at build time.
func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// SchemaError is a single schema violation.
type SchemaError struct {
	// Keyword is the schema keyword that failed, e.g. "required" or "type".
	// It is empty for violations that only group others.
	Keyword string
	Message string

	cause *jsonschema.ValidationError
}

func (e *SchemaError) Error() string {
	return e.Message
}

// Unwrap returns the full validation result, including every other violation.
func (e *SchemaError) Unwrap() error {
	return e.cause
}

// Validate checks data against the schema. A failure is returned as an
// [*Error] wrapping a [*SchemaError] for the deepest violation, with Path set
// to the value that caused it.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var result *jsonschema.ValidationError
	if !errors.As(err, &result) {
		return fmt.Errorf("schema validation: %w", err)
	}

	violation := deepestViolation(result)

	schemaErr := &SchemaError{
		Message: violation.ErrorKind.LocalizedString(schemaMessages),
		cause:   result,
	}
	if kw := violation.ErrorKind.KeywordPath(); len(kw) > 0 {
		schemaErr.Keyword = kw[len(kw)-1]
	}

	return NewError(schemaErr, WithPath(locationPath(violation.InstanceLocation)))
}

// deepestViolation returns the violation with the longest instance location.
// On a tie, the first one in document order wins, and a cause is preferred
// over the violation grouping it.
func deepestViolation(e *jsonschema.ValidationError) *jsonschema.ValidationError {
	deepest := e

	for _, cause := range e.Causes {
		c := deepestViolation(cause)
		if len(c.InstanceLocation) > len(deepest.InstanceLocation) ||
			(deepest == e && len(c.InstanceLocation) == len(deepest.InstanceLocation)) {
			deepest = c
		}
	}

	return deepest
}

// locationPath converts a JSON pointer instance location to a [*yaml.Path].
// Tokens that parse as non-negative integers are sequence indexes.
func locationPath(location []string) *yaml.Path {
	pb := NewPathBuilder().Root()

	for _, token := range location {
		idx, err := strconv.ParseUint(token, 10, 0)
		if err == nil {
			pb = pb.Index(uint(idx))
			continue
		}

		pb = pb.Child(token)
	}

	return pb.Build()
}
