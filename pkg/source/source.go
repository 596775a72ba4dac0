// Package source enumerates the default profile files that are read before a
// user's profile directory.
//
// An [FS] lists the profile files in one directory of an [fs.FS]. Several
// roots are combined with [Multi]; [Embedded] is the built-in set compiled
// into the binary.
package source

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/macropower/kprof/pkg/profile"
)

//go:embed profiles
var embedded embed.FS

// EmbeddedName labels sources from the built-in set.
const EmbeddedName = "embedded"

// FS lists profile files found in a directory of an [fs.FS].
type FS struct {
	fsys fs.FS
	dir  string
	name string
}

// FSOpt configures an [FS].
type FSOpt func(*FS)

// WithName sets the label prefixed to the names of the sources, e.g. a disk
// path or "embedded".
func WithName(name string) FSOpt {
	return func(s *FS) {
		s.name = name
	}
}

// NewFS creates an [FS] reading profile files from dir within fsys.
func NewFS(fsys fs.FS, dir string, opts ...FSOpt) *FS {
	s := &FS{
		fsys: fsys,
		dir:  dir,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Dir creates an [FS] for a directory on disk.
func Dir(dir string) *FS {
	return NewFS(os.DirFS(dir), ".", WithName(dir))
}

// Embedded returns the built-in profile set. It always defines
// [profile.DefaultName].
func Embedded() *FS {
	return NewFS(embedded, "profiles", WithName(EmbeddedName))
}

// Sources returns every existing file among [profile.FileNames] for ext, in
// that order. A missing directory yields no sources.
func (s *FS) Sources(ext string) ([]profile.Source, error) {
	var sources []profile.Source

	for _, name := range profile.FileNames(ext) {
		p := path.Join(s.dir, name)

		info, err := fs.Stat(s.fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", s.label(p), err)
		}

		if !info.Mode().IsRegular() {
			continue
		}

		sources = append(sources, &fsSource{fsys: s.fsys, path: p, name: s.label(p)})
	}

	return sources, nil
}

func (s *FS) label(p string) string {
	switch s.name {
	case "":
		return p
	case EmbeddedName:
		return s.name + ":" + p
	}

	return filepath.Join(s.name, filepath.FromSlash(p))
}

type fsSource struct {
	fsys fs.FS
	path string
	name string
}

func (s *fsSource) Name() string {
	return s.name
}

func (s *fsSource) Open() (io.ReadCloser, error) {
	f, err := s.fsys.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.name, err)
	}

	return f, nil
}

// Multi concatenates the sources of several enumerators, in order.
type Multi []profile.SourceEnumerator

// Sources implements [profile.SourceEnumerator].
func (m Multi) Sources(ext string) ([]profile.Source, error) {
	var sources []profile.Source

	for _, e := range m {
		s, err := e.Sources(ext)
		if err != nil {
			return nil, err //nolint:wrapcheck // Already names the failing source.
		}

		sources = append(sources, s...)
	}

	return sources, nil
}

// Default returns the built-in set followed by the given directories.
func Default(dirs ...string) Multi {
	m := Multi{Embedded()}
	for _, d := range dirs {
		m = append(m, Dir(d))
	}

	return m
}
