package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	_ "embed"

	"github.com/macropower/kprof/pkg/yaml"
)

//go:generate go run ../../internal/schemagen -kind profiles -root ../.. -o profiles.v1beta1.json

var (
	//go:embed profiles.v1beta1.json
	schemaJSON []byte

	// DefaultValidator validates profile files against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/profiles.v1beta1.json", schemaJSON)
)

// Codec decodes a byte stream into profile records.
type Codec interface {
	Decode(r io.Reader) ([]*Profile, error)
}

// Validator validates decoded YAML data before it is converted to profiles.
type Validator interface {
	Validate(data any) error
}

// YAMLCodec decodes a YAML sequence of profile records.
type YAMLCodec struct {
	validator Validator
	colored   bool
}

// CodecOpt configures a [YAMLCodec].
type CodecOpt func(*YAMLCodec)

// WithValidator validates every document before decoding it.
func WithValidator(v Validator) CodecOpt {
	return func(c *YAMLCodec) {
		c.validator = v
	}
}

// WithColoredErrors enables ANSI colors in annotated error snippets.
func WithColoredErrors(colored bool) CodecOpt {
	return func(c *YAMLCodec) {
		c.colored = colored
	}
}

// NewYAMLCodec creates a [YAMLCodec].
func NewYAMLCodec(opts ...CodecOpt) *YAMLCodec {
	c := &YAMLCodec{}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Decode reads all profile records from r. An empty document yields no
// records. Errors are [*yaml.Error]s annotated with the offending source line
// where possible.
func (c *YAMLCodec) Decode(r io.Reader) ([]*Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	ew := yaml.NewErrorWrapper(yaml.WithSource(data), yaml.WithColor(c.colored))

	if c.validator != nil {
		var anyData any

		err = yaml.Unmarshal(data, &anyData)
		if err != nil {
			return nil, ew.Wrap(err)
		}

		if anyData != nil {
			err = c.validator.Validate(anyData)
			if err != nil {
				return nil, ew.Wrap(err)
			}
		}
	}

	var profiles []*Profile

	err = yaml.NewDecoder(bytes.NewReader(data)).Decode(&profiles)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, ew.Wrap(err)
	}

	return profiles, nil
}
