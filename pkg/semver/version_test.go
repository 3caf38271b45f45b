package semver

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr bool
	}{
		{
			name:  "plain",
			input: "1.2.3",
			want:  Version{Major: 1, Minor: 2, Patch: 3},
		},
		{
			name:  "zeros",
			input: "0.0.0",
			want:  Version{},
		},
		{
			name:  "prerelease",
			input: "1.3.0-beta.1",
			want: Version{
				Major: 1, Minor: 3,
				Pre: []Identifier{{Str: "beta"}, {Num: 1, Numeric: true}},
			},
		},
		{
			name:  "prerelease with hyphen",
			input: "2.0.0-rc-1",
			want: Version{
				Major: 2,
				Pre:   []Identifier{{Str: "rc-1"}},
			},
		},
		{
			name:  "build metadata",
			input: "1.2.3+build.42",
			want:  Version{Major: 1, Minor: 2, Patch: 3, Build: "build.42"},
		},
		{
			name:  "prerelease and build",
			input: "1.2.3-alpha+001",
			want: Version{
				Major: 1, Minor: 2, Patch: 3,
				Pre:   []Identifier{{Str: "alpha"}},
				Build: "001",
			},
		},
		{name: "empty", input: "", wantErr: true},
		{name: "partial", input: "1.2", wantErr: true},
		{name: "four fields", input: "1.2.3.4", wantErr: true},
		{name: "leading v", input: "v1.2.3", wantErr: true},
		{name: "leading zero", input: "1.02.3", wantErr: true},
		{name: "leading zero in numeric prerelease", input: "1.2.3-01", wantErr: true},
		{name: "empty prerelease", input: "1.2.3-", wantErr: true},
		{name: "empty prerelease identifier", input: "1.2.3-alpha..1", wantErr: true},
		{name: "empty build", input: "1.2.3+", wantErr: true},
		{name: "whitespace", input: " 1.2.3", wantErr: true},
		{name: "non-numeric field", input: "1.a.3", wantErr: true},
		{name: "underscore in prerelease", input: "1.2.3-alpha_1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformed)

				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, tt.input, parseErr.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	// Ordered strictly ascending per semantic-version precedence; every
	// adjacent pair (and by transitivity every pair) must compare correctly.
	ordered := []string{
		"0.0.1",
		"0.9.9",
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-alpha.beta",
		"1.0.0-beta",
		"1.0.0-beta.2",
		"1.0.0-beta.11",
		"1.0.0-rc.1",
		"1.0.0",
		"1.2.2",
		"1.2.3",
		"1.3.0-beta.1",
		"1.3.0",
		"2.0.0",
		"10.0.0",
	}

	versions := make([]Version, len(ordered))
	for i, s := range ordered {
		versions[i] = MustParse(s)
	}

	for i := range versions {
		for j := range versions {
			want := 0
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			assert.Equalf(t, want, versions[i].Compare(versions[j]),
				"Compare(%s, %s)", ordered[i], ordered[j])
		}
	}
}

func TestVersion_Compare_IgnoresBuildMetadata(t *testing.T) {
	a := MustParse("1.2.3+build.1")
	b := MustParse("1.2.3+build.2")
	c := MustParse("1.2.3")

	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(c))
	assert.False(t, a.LessThan(b))
	assert.False(t, b.GreaterThan(c))
}

func TestVersion_Sort(t *testing.T) {
	input := []string{"1.3.0", "0.1.0", "1.3.0-beta.1", "1.0.0", "1.0.0-rc.2"}
	want := []string{"0.1.0", "1.0.0-rc.2", "1.0.0", "1.3.0-beta.1", "1.3.0"}

	versions := make([]Version, len(input))
	for i, s := range input {
		versions[i] = MustParse(s)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].LessThan(versions[j]) })

	got := make([]string, len(versions))
	for i, v := range versions {
		got[i] = v.String()
	}
	assert.Equal(t, want, got)
}

func TestVersion_String_RoundTrip(t *testing.T) {
	for _, s := range []string{
		"0.0.0",
		"1.2.3",
		"1.3.0-beta.1",
		"2.0.0-rc.1+sha.5114f85",
		"1.2.3+20130313144700",
	} {
		v, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())
	}
}
