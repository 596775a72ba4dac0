package profile

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// fileNamePatterns are the accepted profile file names, in lookup order.
// The placeholder is replaced by the extension suffix, see [FileNames].
var fileNamePatterns = []string{"profiles%s.yml", "profiles%s.yaml", "profiles%s"}

// DefaultsExt is the extension tag of the default profile files, which are
// read before the untagged ones.
const DefaultsExt = "default"

// Source is a readable profile resource.
type Source interface {
	// Name identifies the source in errors and logs.
	Name() string
	// Open opens the source for reading. Callers must close the reader.
	Open() (io.ReadCloser, error)
}

// SourceEnumerator lists the default profile sources for an extension tag.
// An empty result is not an error.
type SourceEnumerator interface {
	Sources(ext string) ([]Source, error)
}

// FileNames returns the accepted profile file names for the extension tag
// ext, in lookup order. A blank ext yields "profiles.yml", "profiles.yaml"
// and "profiles"; "default" yields "profiles-default.yml" and so on.
func FileNames(ext string) []string {
	suffix := ""
	if strings.TrimSpace(ext) != "" {
		suffix = "-" + ext
	}

	names := make([]string, len(fileNamePatterns))
	for i, p := range fileNamePatterns {
		names[i] = fmt.Sprintf(p, suffix)
	}

	return names
}

// FileSource is a [Source] backed by a file on disk.
type FileSource string

func (f FileSource) Name() string {
	return string(f)
}

func (f FileSource) Open() (io.ReadCloser, error) {
	r, err := os.Open(string(f))
	if err != nil {
		return nil, fmt.Errorf("open profile file: %w", err)
	}

	return r, nil
}
