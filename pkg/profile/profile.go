package profile

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/macropower/kprof/pkg/processor"
)

// DefaultName is the name of the profile used when none is given. The
// embedded default sources always define it.
const DefaultName = "default"

// Profile is a named bundle of processor configuration.
type Profile struct {
	// Name identifies the profile. Records with the same name in different
	// sources are merged.
	Name string `json:"name" jsonschema:"title=Name,required,minLength=1"`

	// Order is the precedence of this record when merged with other records
	// of the same name. Higher values win.
	Order int `json:"order,omitempty" jsonschema:"title=Order"`

	// ParentProfile is the name of a profile to inherit configuration from.
	// The profile's own configuration takes precedence over the parent's.
	ParentProfile string `json:"parentProfile,omitempty" jsonschema:"title=Parent Profile"`

	// GeneratorConfig configures the generators, keyed by generator name.
	GeneratorConfig processor.Config `json:"generatorConfig,omitempty" jsonschema:"title=Generator Configuration"`

	// EnricherConfig configures the enrichers, keyed by enricher name.
	EnricherConfig processor.Config `json:"enricherConfig,omitempty" jsonschema:"title=Enricher Configuration"`

	// WatcherConfig configures the watchers, keyed by watcher name.
	WatcherConfig processor.Config `json:"watcherConfig,omitempty" jsonschema:"title=Watcher Configuration"`
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}

	return &Profile{
		Name:            p.Name,
		Order:           p.Order,
		ParentProfile:   p.ParentProfile,
		GeneratorConfig: p.GeneratorConfig.Clone(),
		EnricherConfig:  p.EnricherConfig.Clone(),
		WatcherConfig:   p.WatcherConfig.Clone(),
	}
}

func (p *Profile) String() string {
	if p == nil {
		return "<nil>"
	}

	if p.ParentProfile == "" {
		return fmt.Sprintf("profile %q (order %d)", p.Name, p.Order)
	}

	return fmt.Sprintf("profile %q (order %d, parent %q)", p.Name, p.Order, p.ParentProfile)
}

// Merge folds records that are already sorted highest precedence first into
// a single profile. Nil records are skipped. For every pair, the configuration
// accumulated from earlier records wins on conflicting option keys.
//
// The name and order come from the first record. The parent reference comes
// from the first record that declares one.
//
// Merge returns nil if there are no non-nil records. Inputs are not modified.
func Merge(records ...*Profile) *Profile {
	var acc *Profile

	for _, r := range records {
		if r == nil {
			continue
		}

		if acc == nil {
			acc = r.Clone()
			continue
		}

		acc = mergeInto(acc, r)
	}

	return acc
}

// mergeInto returns a new profile with the configuration of higher merged
// over lower. Identity fields are taken from higher.
func mergeInto(higher, lower *Profile) *Profile {
	parent := higher.ParentProfile
	if parent == "" {
		parent = lower.ParentProfile
	}

	return &Profile{
		Name:            higher.Name,
		Order:           higher.Order,
		ParentProfile:   parent,
		GeneratorConfig: processor.Merge(higher.GeneratorConfig, lower.GeneratorConfig),
		EnricherConfig:  processor.Merge(higher.EnricherConfig, lower.EnricherConfig),
		WatcherConfig:   processor.Merge(higher.WatcherConfig, lower.WatcherConfig),
	}
}

// CompareByPrecedence orders profiles by descending [Profile.Order], so that
// the record that should win comes first. Nil profiles sort last.
func CompareByPrecedence(a, b *Profile) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	return cmp.Compare(b.Order, a.Order)
}

// SortByPrecedence sorts records with [CompareByPrecedence]. The sort is
// stable, so records with equal order keep their discovery order.
func SortByPrecedence(records []*Profile) {
	slices.SortStableFunc(records, CompareByPrecedence)
}
