package configs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/kprof/api/v1beta1"
	"github.com/macropower/kprof/api/v1beta1/configs"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cfg := configs.New()

	assert.Equal(t, "kprof.macropower.dev/v1beta1", cfg.GetAPIVersion())
	assert.Equal(t, "Configuration", cfg.GetKind())
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, "monokai", cfg.Theme)
	assert.True(t, cfg.ShouldValidate())
	require.NoError(t, cfg.Validate())
}

func TestConfig_EnsureDefaults(t *testing.T) {
	t.Parallel()

	off := false
	cfg := &configs.Config{Profile: "minimal", ValidateProfiles: &off}

	cfg.EnsureDefaults()

	assert.Equal(t, "minimal", cfg.Profile)
	assert.False(t, cfg.ShouldValidate())
	assert.Equal(t, "monokai", cfg.Theme)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		modify func(c *configs.Config)
		errMsg string
	}{
		"defaults": {
			modify: func(*configs.Config) {},
		},
		"wrong kind": {
			modify: func(c *configs.Config) { c.Kind = "Policy" },
			errMsg: `kind "Policy"`,
		},
		"wrong api version": {
			modify: func(c *configs.Config) { c.APIVersion = "v1" },
			errMsg: `apiVersion "v1"`,
		},
		"padded profile": {
			modify: func(c *configs.Config) { c.Profile = " default" },
			errMsg: "surrounding whitespace",
		},
		"blank profile path": {
			modify: func(c *configs.Config) { c.ProfilePaths = []string{"/a", " "} },
			errMsg: "profilePaths[1] is empty",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := configs.New()
			tc.modify(cfg)

			err := cfg.Validate()
			if tc.errMsg == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, configs.ErrInvalidConfig)
			require.ErrorContains(t, err, tc.errMsg)
		})
	}

	err := (&configs.Config{TypeMeta: v1beta1.TypeMeta{Kind: "Configuration"}}).Validate()
	require.ErrorIs(t, err, v1beta1.ErrTypeMeta)
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, configs.WriteDefault(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: Configuration")

	// Writing again without force keeps the file.
	require.NoError(t, os.WriteFile(path, []byte("custom"), 0o600))
	require.NoError(t, configs.WriteDefault(path, false))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))

	require.NoError(t, configs.WriteDefault(path, true))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: Configuration")
}

//nolint:paralleltest // Sets environment variables.
func TestGetPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, "/xdg/kprof/config.yaml", configs.GetPath())
}
