package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/macropower/kprof/api"
	"github.com/macropower/kprof/api/v1beta1"
	"github.com/macropower/kprof/api/v1beta1/configs"
	"github.com/macropower/kprof/pkg/yaml"
)

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*loaderOptions)

type loaderOptions struct {
	validator Validator
	name      string
	colored   bool
}

// WithValidator sets a custom validator. A nil validator disables schema
// validation.
func WithValidator(v Validator) LoaderOpt {
	return func(o *loaderOptions) {
		o.validator = v
	}
}

// WithColoredErrors enables ANSI colors in annotated error snippets.
func WithColoredErrors(colored bool) LoaderOpt {
	return func(o *loaderOptions) {
		o.colored = colored
	}
}

// WithSourceName sets the file name shown in errors.
func WithSourceName(name string) LoaderOpt {
	return func(o *loaderOptions) {
		o.name = name
	}
}

// Loader validates and decodes a configuration document of type T.
type Loader[T v1beta1.Object] struct {
	validator Validator
	newFunc   func() T
	yamlError *yaml.ErrorWrapper
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
// The newFunc parameter is the constructor for type T (e.g., configs.New).
func NewLoaderFromBytes[T v1beta1.Object](
	data []byte,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) *Loader[T] {
	options := &loaderOptions{
		validator: defaultValidator,
	}
	for _, opt := range opts {
		opt(options)
	}

	errOpts := []yaml.ErrorOpt{
		yaml.WithSource(data),
		yaml.WithColor(options.colored),
	}
	if options.name != "" {
		errOpts = append(errOpts, yaml.WithName(options.name))
	}

	return &Loader[T]{
		data:      data,
		newFunc:   newFunc,
		validator: options.validator,
		yamlError: yaml.NewErrorWrapper(errOpts...),
	}
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile[T v1beta1.Object](
	path string,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	opts = append([]LoaderOpt{WithSourceName(path)}, opts...)

	return NewLoaderFromBytes(data, newFunc, defaultValidator, opts...), nil
}

// Validate validates the configuration data against the schema. An empty
// document is valid.
func (l *Loader[T]) Validate() error {
	var anyConfig any

	err := yaml.Unmarshal(l.data, &anyConfig)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	if l.validator == nil || anyConfig == nil {
		return nil
	}

	err = l.validator.Validate(anyConfig)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	return nil
}

// Load decodes the configuration and fills in defaults. An empty document
// yields the defaults. It does not validate against the schema; call
// [Loader.Validate] first.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Load() (T, error) {
	cfg := l.newFunc()

	err := yaml.Unmarshal(l.data, cfg)
	if err != nil {
		var zero T
		return zero, l.yamlError.Wrap(err)
	}

	cfg.EnsureDefaults()

	return cfg, nil
}

// Load reads the global configuration at path. A missing file yields the
// default configuration.
func Load(path string, opts ...LoaderOpt) (*configs.Config, error) {
	l, err := NewLoaderFromFile(path, configs.New, configs.DefaultValidator, opts...)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config file does not exist, using defaults", slog.String("path", path))
		return configs.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	err = l.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	cfg, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
