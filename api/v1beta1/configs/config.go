// Package configs provides the global Config configuration type for kprof.
package configs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/kprof/api"
	"github.com/macropower/kprof/api/v1beta1"
	"github.com/macropower/kprof/pkg/profile"
	"github.com/macropower/kprof/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen -kind configs -root ../../.. -o configs.v1beta1.json

// Kind is the kind of the global configuration document.
const Kind = "Configuration"

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed configs.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for global configurations.
	ValidKinds = []string{Kind}

	// DefaultValidator validates global configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/configs.v1beta1.json", schemaJSON)

	// ErrInvalidConfig is returned by [Config.Validate].
	ErrInvalidConfig = errors.New("invalid configuration")

	_ v1beta1.Object = (*Config)(nil)
)

// Config represents the global kprof configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	v1beta1.TypeMeta `json:",inline"`

	// Profile is the profile used when a command is not given one.
	Profile string `json:"profile,omitempty" jsonschema:"title=Profile,default=default"`

	// ProfilePaths are directories whose profile files are read after the
	// built-in profiles and before the project directory.
	ProfilePaths []string `json:"profilePaths,omitempty" jsonschema:"title=Profile Paths"`

	// ValidateProfiles enables JSON schema validation of profile files.
	ValidateProfiles *bool `json:"validate,omitempty" jsonschema:"title=Validate Profiles,default=true"`

	// Theme is the chroma style used to highlight YAML output.
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme,default=monokai"`
}

// New creates a new global [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes unset fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Profile == "" {
		c.Profile = profile.DefaultName
	}

	if c.ValidateProfiles == nil {
		validate := true
		c.ValidateProfiles = &validate
	}

	if c.Theme == "" {
		c.Theme = yaml.DefaultTheme
	}
}

// Validate checks values the schema cannot express.
func (c *Config) Validate() error {
	err := c.Check(ValidKinds...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if strings.TrimSpace(c.Profile) != c.Profile {
		return fmt.Errorf("%w: profile %q has surrounding whitespace", ErrInvalidConfig, c.Profile)
	}

	for i, p := range c.ProfilePaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: profilePaths[%d] is empty", ErrInvalidConfig, i)
		}
	}

	return nil
}

// ShouldValidate reports whether profile files are schema-validated.
func (c *Config) ShouldValidate() bool {
	return c.ValidateProfiles == nil || *c.ValidateProfiles
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// WriteDefault writes the embedded default config.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// GetPath returns the path to the global configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}
