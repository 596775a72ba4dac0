package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/kprof/pkg/profile"
	"github.com/macropower/kprof/pkg/source"
	"github.com/macropower/kprof/pkg/watch"
)

const defaults = `
- name: default
  generatorConfig:
    spring-boot:
      color: blue
`

type result struct {
	p   *profile.Profile
	err error
}

func newResolver() *profile.Resolver {
	fsys := fstest.MapFS{"profiles-default.yml": {Data: []byte(defaults)}}

	return profile.NewResolver(source.NewFS(fsys, ".", source.WithName("test")))
}

func run(t *testing.T, dir, name string) <-chan result {
	t.Helper()

	w, err := watch.New(newResolver(), dir, name, watch.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	results := make(chan result, 64)
	done := make(chan error, 1)

	go func() {
		done <- w.Run(ctx, func(ctx context.Context, p *profile.Profile, err error) {
			select {
			case results <- result{p: p, err: err}:
			case <-ctx.Done():
			}
		})
	}()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
		require.NoError(t, w.Close())
	})

	return results
}

func next(t *testing.T, results <-chan result) result {
	t.Helper()

	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out waiting for resolution")
	}

	return result{}
}

func color(t *testing.T, r result) string {
	t.Helper()

	require.NoError(t, r.err)

	v, ok := r.p.GeneratorConfig.Get("spring-boot", "color")
	require.True(t, ok)

	return v
}

// waitColor skips results until one resolves the wanted color. A single write
// may produce more than one resolution.
func waitColor(t *testing.T, results <-chan result, want string) {
	t.Helper()

	deadline := time.After(5 * time.Second)

	for {
		select {
		case r := <-results:
			if r.err == nil && color(t, r) == want {
				return
			}
		case <-deadline:
			require.FailNow(t, "timed out waiting for color", want)
		}
	}
}

func TestWatcher_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "profiles.yml")

	results := run(t, dir, profile.DefaultName)

	assert.Equal(t, "blue", color(t, next(t, results)))

	write := func(c string) {
		doc := "- name: default\n  order: 1\n  generatorConfig:\n    spring-boot:\n      color: " + c + "\n"
		require.NoError(t, os.WriteFile(file, []byte(doc), 0o600))
	}

	write("red")
	waitColor(t, results, "red")

	write("green")
	waitColor(t, results, "green")

	require.NoError(t, os.Remove(file))
	waitColor(t, results, "blue")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	results := run(t, dir, profile.DefaultName)

	assert.Equal(t, "blue", color(t, next(t, results)))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o600))

	select {
	case r := <-results:
		assert.Fail(t, "unexpected resolution", "%v", r)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ReportsErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	results := run(t, dir, "missing")

	r := next(t, results)
	require.ErrorIs(t, r.err, profile.ErrNotFound)
	assert.Nil(t, r.p)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.yml"), []byte("- name: missing\n"), 0o600))

	require.Eventually(t, func() bool {
		select {
		case r := <-results:
			return r.err == nil && r.p.Name == "missing"
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestNew_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := watch.New(newResolver(), filepath.Join(t.TempDir(), "nope"), profile.DefaultName)
	require.Error(t, err)
}
