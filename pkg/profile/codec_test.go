package profile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/kprof/pkg/processor"
	"github.com/macropower/kprof/pkg/profile"
	"github.com/macropower/kprof/pkg/yaml"
)

func TestYAMLCodec_Decode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		want     []*profile.Profile
		errMsg   string
		validate bool
		wantErr  bool
	}{
		"full record": {
			input: `
- name: custom
  order: 10
  parentProfile: default
  generatorConfig:
    spring-boot:
      color: red
      enabled: true
  enricherConfig:
    name:
      foo: bar
  watcherConfig:
    spring-boot:
      interval: 500
`,
			want: []*profile.Profile{{
				Name:            "custom",
				Order:           10,
				ParentProfile:   "default",
				GeneratorConfig: processor.Config{"spring-boot": {"color": "red", "enabled": "true"}},
				EnricherConfig:  processor.Config{"name": {"foo": "bar"}},
				WatcherConfig:   processor.Config{"spring-boot": {"interval": "500"}},
			}},
		},
		"option values keep their source text": {
			input: `
- name: versions
  generatorConfig:
    g: {version: 1.10, whole: 1.0, hex: 0x1F, octal: 0o17}
  enricherConfig:
    image:
      tag: 2.10
`,
			validate: true,
			want: []*profile.Profile{{
				Name: "versions",
				GeneratorConfig: processor.Config{"g": {
					"version": "1.10",
					"whole":   "1.0",
					"hex":     "0x1F",
					"octal":   "0o17",
				}},
				EnricherConfig: processor.Config{"image": {"tag": "2.10"}},
			}},
		},
		"records keep document order": {
			input: "- name: b\n- name: a\n  order: -1\n",
			want: []*profile.Profile{
				{Name: "b"},
				{Name: "a", Order: -1},
			},
		},
		"empty document": {
			input: "",
			want:  nil,
		},
		"empty list": {
			input: "[]\n",
			want:  nil,
		},
		"malformed yaml": {
			input:   "- name: a\n  order: [\n",
			wantErr: true,
		},
		"not a list": {
			input:   "name: a\n",
			wantErr: true,
		},
		"nested option value": {
			input:   "- name: a\n  generatorConfig:\n    g:\n      k:\n        nested: true\n",
			wantErr: true,
			errMsg:  "value must be a scalar",
		},
		"valid with schema": {
			input:    "- name: a\n  order: 1\n",
			validate: true,
			want:     []*profile.Profile{{Name: "a", Order: 1}},
		},
		"unknown field fails schema": {
			input:    "- name: a\n  colour: red\n",
			validate: true,
			wantErr:  true,
			errMsg:   "colour",
		},
		"missing name fails schema": {
			input:    "- order: 1\n",
			validate: true,
			wantErr:  true,
			errMsg:   "name",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var opts []profile.CodecOpt
			if tc.validate {
				opts = append(opts, profile.WithValidator(profile.DefaultValidator))
			}

			got, err := profile.NewYAMLCodec(opts...).Decode(strings.NewReader(tc.input))

			if tc.wantErr {
				require.ErrorContains(t, err, tc.errMsg)
				return
			}

			require.NoError(t, err)

			if tc.want == nil {
				assert.Empty(t, got)
				return
			}

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestYAMLCodec_Decode_ErrorPosition(t *testing.T) {
	t.Parallel()

	input := "- name: a\n- name: b\n  order: high\n"

	_, err := profile.NewYAMLCodec(profile.WithValidator(profile.DefaultValidator)).Decode(strings.NewReader(input))
	require.Error(t, err)

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	assert.Equal(t, "$[1].order", yamlErr.Path.String())
	assert.Contains(t, err.Error(), "[3:")
}
