package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func cRegistry(t require.TestingT) *Registry {
	reg := NewRegistry()
	require.NoError(t, reg.AddBounded("comment", `/\*`, `\*/`, false))
	require.NoError(t, reg.AddInterpolated("string", `"`, `"`, `\{`, `\}`, true))
	require.NoError(t, reg.AddKeyword("comment", `//.*$`))
	require.NoError(t, reg.AddKeywords("keyword", `\bfn\b`, `\breturn\b`))
	require.NoError(t, reg.AddKeyword("operator", `[*/+-]`))
	return reg
}

func TestAtomize_SortedByStart(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddKeyword("keyword", `\bfn\b`))
	require.NoError(t, reg.AddBounded("comment", `/\*`, `\*/`, false))

	atoms := reg.Atomize("fn /* x */ fn", 4)
	require.Equal(t, []Atom{
		{Name: "keyword", Role: RoleKeyword, Region: NoRegion, Start: 0, End: 2},
		{Name: "comment", Role: RoleStart, Region: 0, Start: 3, End: 5},
		{Name: "comment", Role: RoleEnd, Region: 0, Start: 8, End: 10},
		{Name: "keyword", Role: RoleKeyword, Region: NoRegion, Start: 11, End: 13},
	}, atoms)
}

func TestAtomize_RegistrationOrderBreaksTies(t *testing.T) {
	reg := cRegistry(t)

	atoms := reg.Atomize("/*", 4)
	require.Len(t, atoms, 3)
	require.Equal(t, RoleStart, atoms[0].Role, "comment start was registered first")
	require.Equal(t, 0, atoms[0].Start)
	require.Equal(t, "operator", atoms[1].Name)
	require.Equal(t, 0, atoms[1].Start)
	require.Equal(t, "operator", atoms[2].Name)
	require.Equal(t, 1, atoms[2].Start)
}

func TestAtomize_Escapes(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddBounded("string", `"`, `"`, true))

	tests := []struct {
		name    string
		line    string
		escaped []bool
	}{
		{name: "no escapes", line: `"a"`, escaped: []bool{false, false}},
		{name: "single backslash", line: `"a\"`, escaped: []bool{false, true}},
		{name: "double backslash", line: `"a\\"`, escaped: []bool{false, false}},
		{name: "triple backslash", line: `"a\\\"`, escaped: []bool{false, true}},
		{name: "escape at line start", line: `\"`, escaped: []bool{true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atoms := reg.Atomize(tt.line, 4)
			require.Len(t, atoms, len(tt.escaped))
			for i, want := range tt.escaped {
				require.Equal(t, want, atoms[i].Escaped, "atom %d", i)
			}
		})
	}
}

func TestAtomize_CharacterCoordinates(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddKeyword("keyword", `fn`))

	t.Run("multi-byte characters count once", func(t *testing.T) {
		atoms := reg.Atomize("你好 fn", 4)
		require.Len(t, atoms, 1)
		require.Equal(t, 3, atoms[0].Start)
		require.Equal(t, 5, atoms[0].End)
	})

	t.Run("tabs count as tab width", func(t *testing.T) {
		atoms := reg.Atomize("\tfn", 4)
		require.Len(t, atoms, 1)
		require.Equal(t, 4, atoms[0].Start)

		atoms = reg.Atomize("\t\tfn", 2)
		require.Equal(t, 4, atoms[0].Start)
	})

	t.Run("tab width below one is one", func(t *testing.T) {
		atoms := reg.Atomize("\tfn", 0)
		require.Equal(t, 1, atoms[0].Start)
	})
}

func TestAtomize_DiscardsZeroLengthMatches(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddKeyword("maybe", `x*`))

	atoms := reg.Atomize("axxb", 4)
	require.Len(t, atoms, 1)
	require.Equal(t, 1, atoms[0].Start)
	require.Equal(t, 3, atoms[0].End)
}

func TestAtomize_LastCaptureGroup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddKeyword("function", `([a-z_][A-Za-z0-9_]*)\s*\(`))

	atoms := reg.Atomize("call (", 4)
	require.Len(t, atoms, 1)
	require.Equal(t, 0, atoms[0].Start)
	require.Equal(t, 4, atoms[0].End, "only the identifier group is highlighted, not the paren")

	alt := NewRegistry()
	require.NoError(t, alt.AddKeyword("either", `x(a)|y(b)`))

	atoms = alt.Atomize("xa", 4)
	require.Len(t, atoms, 1, "falls back to the last group that participated")
	require.Equal(t, 1, atoms[0].Start)
	require.Equal(t, 2, atoms[0].End)

	atoms = alt.Atomize("yb", 4)
	require.Len(t, atoms, 1)
	require.Equal(t, 1, atoms[0].Start)
	require.Equal(t, 2, atoms[0].End)
}

func TestAtomize_EmptyInputs(t *testing.T) {
	require.Nil(t, cRegistry(t).Atomize("", 4))
	require.Nil(t, NewRegistry().Atomize("fn x", 4))
}

func TestProperty_AtomizeIdempotent(t *testing.T) {
	reg := cRegistry(t)
	rapid.Check(t, func(rt *rapid.T) {
		line := rapid.StringOfN(rapid.SampledFrom([]rune("fn /*\"{}\\\tx你")), 0, 24, -1).Draw(rt, "line")
		tabWidth := rapid.IntRange(1, 8).Draw(rt, "tabWidth")

		first := reg.Atomize(line, tabWidth)
		second := reg.Atomize(line, tabWidth)
		require.Equal(rt, first, second)

		for i := 1; i < len(first); i++ {
			require.LessOrEqual(rt, first[i-1].Start, first[i].Start, "atoms must be sorted by start")
		}
		for _, a := range first {
			require.Less(rt, a.Start, a.End, "zero-length atoms must be discarded")
		}
	})
}
