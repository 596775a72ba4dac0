package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sahilm/fuzzy"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/kprof/api"
	"github.com/macropower/kprof/pkg/log"
	"github.com/macropower/kprof/pkg/processor"
)

// maxSuggestions limits the names offered in a [NotFoundError].
const maxSuggestions = 3

// Resolver looks up profiles across the default sources and a directory.
//
// A Resolver only holds read-only collaborators; every call reads its sources
// again, so it is safe for concurrent use.
type Resolver struct {
	tracer  trace.Tracer
	sources SourceEnumerator
	codec   Codec
}

// ResolverOpt configures a [Resolver].
type ResolverOpt func(*Resolver)

// WithCodec sets the [Codec] used to decode sources.
// Defaults to a [YAMLCodec] without validation.
func WithCodec(c Codec) ResolverOpt {
	return func(r *Resolver) {
		r.codec = c
	}
}

// NewResolver creates a [Resolver] reading default profiles from sources.
func NewResolver(sources SourceEnumerator, opts ...ResolverOpt) *Resolver {
	r := &Resolver{
		tracer:  otel.Tracer("profile-resolver"),
		sources: sources,
		codec:   NewYAMLCodec(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Lookup gathers every record named name and merges them into one profile.
//
// Records are collected from the default sources tagged [DefaultsExt], then
// from the untagged default sources, then from the profile file in dir, if
// any. They are sorted by descending order, keeping discovery order for equal
// orders, and folded with [Merge].
//
// Lookup does not resolve the parent profile. It returns a [*NotFoundError]
// when no record exists, and an error wrapping [ErrLookup] when any source
// fails to read or decode.
func (r *Resolver) Lookup(ctx context.Context, name, dir string) (*Profile, error) {
	ctx, span := r.tracer.Start(ctx, "lookup", trace.WithAttributes(
		attribute.String("profile", name),
		attribute.String("dir", dir),
	))
	defer span.End()

	records, err := r.collect(ctx, name, dir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "collect records")

		return nil, err
	}

	SortByPrecedence(records)

	p := Merge(records...)
	if p == nil {
		return nil, &NotFoundError{Name: name}
	}

	log.WithContext(ctx).DebugContext(ctx, "looked up profile",
		slog.String("profile", name),
		slog.Int("records", len(records)),
	)

	return p, nil
}

func (r *Resolver) collect(ctx context.Context, name, dir string) ([]*Profile, error) {
	var records []*Profile

	for _, ext := range []string{DefaultsExt, ""} {
		sources, err := r.sources.Sources(ext)
		if err != nil {
			return nil, fmt.Errorf("%w: profile %q: list sources: %w", ErrLookup, name, err)
		}

		for _, src := range sources {
			profiles, err := r.decode(src)
			if err != nil {
				return nil, fmt.Errorf("%w: profile %q: %s: %w", ErrLookup, name, src.Name(), err)
			}

			for _, p := range profiles {
				if p != nil && p.Name == name {
					records = append(records, p)
				}
			}
		}
	}

	if dir == "" {
		return records, nil
	}

	path, err := api.FindFirstFile(dir, FileNames(""))
	if err != nil {
		return nil, fmt.Errorf("%w: profile %q: %w", ErrLookup, name, err)
	}

	if path == "" {
		return records, nil
	}

	profiles, err := r.decode(FileSource(path))
	if err != nil {
		return nil, fmt.Errorf("%w: profile %q: %s: %w", ErrLookup, name, path, err)
	}

	for _, p := range profiles {
		if p != nil && p.Name == name {
			log.WithContext(ctx).DebugContext(ctx, "found profile in directory",
				slog.String("profile", name),
				slog.String("path", path),
			)

			records = append(records, p)

			break
		}
	}

	return records, nil
}

// decode opens src, decodes it and closes it again.
func (r *Resolver) decode(src Source) ([]*Profile, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err //nolint:wrapcheck // Wrapped by the caller with the source name.
	}

	defer func() {
		err := rc.Close()
		if err != nil {
			slog.Warn("close profile source",
				slog.String("source", src.Name()),
				slog.Any("err", err),
			)
		}
	}()

	return r.codec.Decode(rc) //nolint:wrapcheck // Wrapped by the caller with the source name.
}

// ResolveParent merges the configuration of p's parent profile into a copy of
// p, with p's own options taking precedence. It returns p unchanged when p has
// no parent.
//
// The parent is looked up with [Resolver.Lookup] against the same dir. A
// parent that cannot be found yields a [*ParentNotFoundError]. The parent's own
// parent reference is not followed.
func (r *Resolver) ResolveParent(ctx context.Context, p *Profile, dir string) (*Profile, error) {
	if p == nil || p.ParentProfile == "" {
		return p, nil
	}

	ctx, span := r.tracer.Start(ctx, "resolve-parent", trace.WithAttributes(
		attribute.String("profile", p.Name),
		attribute.String("parent", p.ParentProfile),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	parent, err := r.Lookup(ctx, p.ParentProfile, dir)
	if errors.Is(err, ErrNotFound) {
		span.SetStatus(codes.Error, "parent not found")
		return nil, &ParentNotFoundError{Profile: p.Name, Parent: p.ParentProfile}
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("parent of profile %q: %w", p.Name, err)
	}

	if parent.ParentProfile != "" {
		logger.DebugContext(ctx, "not following grandparent profile",
			slog.String("profile", p.Name),
			slog.String("parent", parent.Name),
			slog.String("grandparent", parent.ParentProfile),
		)
	}

	child := p.Clone()
	child.GeneratorConfig = processor.Merge(p.GeneratorConfig, parent.GeneratorConfig)
	child.EnricherConfig = processor.Merge(p.EnricherConfig, parent.EnricherConfig)
	child.WatcherConfig = processor.Merge(p.WatcherConfig, parent.WatcherConfig)

	logger.InfoContext(ctx, "profile inherits from parent",
		slog.String("profile", p.Name),
		slog.String("parent", p.ParentProfile),
	)

	return child, nil
}

// Find resolves the named profile, including its parent. An empty name
// selects [DefaultName].
//
// A missing profile yields a [*NotFoundError] that suggests similar names.
func (r *Resolver) Find(ctx context.Context, name, dir string) (*Profile, error) {
	if name == "" {
		name = DefaultName
	}

	ctx, span := r.tracer.Start(ctx, "find", trace.WithAttributes(
		attribute.String("profile", name),
		attribute.String("dir", dir),
	))
	defer span.End()

	p, err := r.Lookup(ctx, name, dir)

	var nfErr *NotFoundError
	if errors.As(err, &nfErr) {
		nfErr.Suggestions = r.suggest(ctx, name, dir)
		span.SetStatus(codes.Error, "profile not found")

		return nil, nfErr
	}
	if err != nil {
		return nil, fmt.Errorf("look up profile '%s': %w", name, err)
	}

	p, err = r.ResolveParent(ctx, p, dir)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Blend resolves the named profile with [Resolver.Find], selects the
// configuration of the given kind, and merges override over it.
func (r *Resolver) Blend(
	ctx context.Context,
	kind Kind,
	name, dir string,
	override processor.Config,
) (processor.Config, error) {
	ctx, span := r.tracer.Start(ctx, "blend", trace.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("profile", name),
	))
	defer span.End()

	p, err := r.Find(ctx, name, dir)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return processor.Merge(override, kind.Extract(p)), nil
}

// Names returns the sorted names of all profiles defined in the default
// sources and the profile file in dir.
func (r *Resolver) Names(_ context.Context, dir string) ([]string, error) {
	var sources []Source

	for _, ext := range []string{DefaultsExt, ""} {
		s, err := r.sources.Sources(ext)
		if err != nil {
			return nil, fmt.Errorf("%w: list sources: %w", ErrLookup, err)
		}

		sources = append(sources, s...)
	}

	if dir != "" {
		path, err := api.FindFirstFile(dir, FileNames(""))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLookup, err)
		}

		if path != "" {
			sources = append(sources, FileSource(path))
		}
	}

	seen := map[string]bool{}

	var names []string

	for _, src := range sources {
		profiles, err := r.decode(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLookup, src.Name(), err)
		}

		for _, p := range profiles {
			if p == nil || seen[p.Name] {
				continue
			}

			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}

	slices.Sort(names)

	return names, nil
}

func (r *Resolver) suggest(ctx context.Context, name, dir string) []string {
	names, err := r.Names(ctx, dir)
	if err != nil {
		log.WithContext(ctx).DebugContext(ctx, "list profile names for suggestions", slog.Any("err", err))
		return nil
	}

	matches := fuzzy.Find(name, names)

	suggestions := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}

		suggestions = append(suggestions, m.Str)
	}

	if len(suggestions) == 0 {
		return nil
	}

	return suggestions
}
