package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/kprof/pkg/processor"
	"github.com/macropower/kprof/pkg/yaml"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		higher processor.Config
		lower  processor.Config
		want   processor.Config
	}{
		"both empty": {
			want: nil,
		},
		"only lower": {
			lower: processor.Config{"a": {"x": "1"}},
			want:  processor.Config{"a": {"x": "1"}},
		},
		"only higher": {
			higher: processor.Config{"a": {"x": "1"}},
			want:   processor.Config{"a": {"x": "1"}},
		},
		"disjoint processors": {
			higher: processor.Config{"a": {"x": "1"}},
			lower:  processor.Config{"b": {"y": "2"}},
			want:   processor.Config{"a": {"x": "1"}, "b": {"y": "2"}},
		},
		"same processor disjoint keys": {
			higher: processor.Config{"spring-boot": {"color": "red"}},
			lower:  processor.Config{"spring-boot": {"enabled": "true"}},
			want:   processor.Config{"spring-boot": {"color": "red", "enabled": "true"}},
		},
		"same processor colliding key": {
			higher: processor.Config{"spring-boot": {"color": "red", "enabled": "true"}},
			lower:  processor.Config{"spring-boot": {"color": "blue"}},
			want:   processor.Config{"spring-boot": {"color": "red", "enabled": "true"}},
		},
		"nil options on one side": {
			higher: processor.Config{"a": nil},
			lower:  processor.Config{"a": {"x": "1"}},
			want:   processor.Config{"a": {"x": "1"}},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := processor.Merge(tc.higher, tc.lower)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	higher := processor.Config{"a": {"x": "1"}}
	lower := processor.Config{"a": {"x": "0", "y": "2"}, "b": {"z": "3"}}

	got := processor.Merge(higher, lower)
	got.Set("a", "new", "v")
	got.Set("c", "k", "v")

	assert.Equal(t, processor.Config{"a": {"x": "1"}}, higher)
	assert.Equal(t, processor.Config{"a": {"x": "0", "y": "2"}, "b": {"z": "3"}}, lower)
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	var nilCfg processor.Config
	assert.Nil(t, nilCfg.Clone())

	c := processor.Config{"a": {"x": "1"}}
	cl := c.Clone()
	cl["a"]["x"] = "2"

	assert.Equal(t, "1", c["a"]["x"])
}

func TestConfig_NamesAndGet(t *testing.T) {
	t.Parallel()

	c := processor.Config{"zeta": {}, "alpha": {"k": "v"}, "mid": nil}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, c.Names())

	v, ok := c.Get("alpha", "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = c.Get("alpha", "missing")
	assert.False(t, ok)

	_, ok = c.Get("missing", "k")
	assert.False(t, ok)
}

func TestConfig_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    processor.Config
		wantErr bool
	}{
		"strings": {
			input: "spring-boot:\n  color: blue\n",
			want:  processor.Config{"spring-boot": {"color": "blue"}},
		},
		"non-string scalars": {
			input: "name:\n  enabled: true\n  extra: 1\n  ratio: 0.5\n",
			want:  processor.Config{"name": {"enabled": "true", "extra": "1", "ratio": "0.5"}},
		},
		"null value": {
			input: "name:\n  empty: null\n",
			want:  processor.Config{"name": {"empty": ""}},
		},
		"empty processor": {
			input: "name: {}\n",
			want:  processor.Config{"name": {}},
		},
		"numeric text kept as written": {
			input: "image:\n  version: 1.10\n  whole: 1.0\n  hex: 0x1F\n  octal: 0o17\n  exp: 1e3\n",
			want: processor.Config{"image": {
				"version": "1.10",
				"whole":   "1.0",
				"hex":     "0x1F",
				"octal":   "0o17",
				"exp":     "1e3",
			}},
		},
		"quoted and block strings": {
			input: "name:\n  quoted: \"1.10\"\n  single: 'a b'\n  block: |\n    line\n",
			want:  processor.Config{"name": {"quoted": "1.10", "single": "a b", "block": "line\n"}},
		},
		"flow style": {
			input: "{g: {version: 1.10, on: yes}}\n",
			want:  processor.Config{"g": {"version": "1.10", "on": "yes"}},
		},
		"null processor": {
			input: "name:\n",
			want:  processor.Config{"name": {}},
		},
		"anchors and aliases": {
			input: "a: &opts\n  k: 0.50\nb: *opts\n",
			want:  processor.Config{"a": {"k": "0.50"}, "b": {"k": "0.50"}},
		},
		"nested value": {
			input:   "name:\n  nested:\n    a: b\n",
			wantErr: true,
		},
		"sequence value": {
			input:   "name:\n  list: [a, b]\n",
			wantErr: true,
		},
		"options not a mapping": {
			input:   "name: value\n",
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got processor.Config

			err := yaml.Unmarshal([]byte(tc.input), &got)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseAssignment(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		proc    string
		key     string
		value   string
		wantErr bool
	}{
		"simple":            {input: "spring-boot.color=red", proc: "spring-boot", key: "color", value: "red"},
		"dotted processor":  {input: "fmp.service.type=NodePort", proc: "fmp.service", key: "type", value: "NodePort"},
		"empty value":       {input: "a.b=", proc: "a", key: "b", value: ""},
		"value with equals": {input: "a.b=c=d", proc: "a", key: "b", value: "c=d"},
		"missing equals":    {input: "a.b", wantErr: true},
		"missing key":       {input: "a.=x", wantErr: true},
		"missing processor": {input: ".b=x", wantErr: true},
		"no dot":            {input: "ab=x", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			proc, key, value, err := processor.ParseAssignment(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, processor.ErrInvalidAssignment)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.proc, proc)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.value, value)
		})
	}
}

func TestFromAssignments(t *testing.T) {
	t.Parallel()

	got, err := processor.FromAssignments(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = processor.FromAssignments([]string{"a.x=1", "a.y=2", "b.z=3", "a.x=4"})
	require.NoError(t, err)
	assert.Equal(t, processor.Config{"a": {"x": "4", "y": "2"}, "b": {"z": "3"}}, got)

	_, err = processor.FromAssignments([]string{"bad"})
	require.Error(t, err)
}
