package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/macropower/kprof/pkg/processor"
)

// ErrUnknownKind is returned by [ParseKind] for unknown names.
var ErrUnknownKind = errors.New("unknown configuration kind")

// Kind selects one of the processor configurations of a [Profile].
type Kind string

const (
	KindGenerator Kind = "generator"
	KindEnricher  Kind = "enricher"
	KindWatcher   Kind = "watcher"
)

// AllKinds lists every [Kind].
var AllKinds = []string{
	string(KindGenerator),
	string(KindEnricher),
	string(KindWatcher),
}

// ParseKind returns the [Kind] with the given name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindGenerator, KindEnricher, KindWatcher:
		return k, nil
	}

	return "", fmt.Errorf("%w %q, must be one of %v", ErrUnknownKind, s, AllKinds)
}

// Extract returns the configuration of this kind from p.
// It returns nil for a nil profile or an unknown kind.
func (k Kind) Extract(p *Profile) processor.Config {
	if p == nil {
		return nil
	}

	switch k {
	case KindGenerator:
		return p.GeneratorConfig
	case KindEnricher:
		return p.EnricherConfig
	case KindWatcher:
		return p.WatcherConfig
	}

	return nil
}
