package highlight

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_AddKeyword(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddKeyword("keyword", `\bfn\b`))
	require.NoError(t, reg.AddKeywords("keyword", `\breturn\b`, `\bpub\b`))

	pats := reg.Patterns()
	require.Len(t, pats, 3)
	require.Equal(t, `\bpub\b`, pats[2].Expr.String())
	for _, p := range pats {
		require.Equal(t, RoleKeyword, p.Role)
		require.Equal(t, NoRegion, p.Region)
	}
	require.Empty(t, reg.Regions())
}

func TestRegistry_AddBounded(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddBounded("comment", `/\*`, `\*/`, false))
	require.NoError(t, reg.AddBounded("string", `"`, `"`, true))

	pats := reg.Patterns()
	require.Len(t, pats, 3, "distinct start/end yield two patterns, identical ones a single hybrid")
	require.Equal(t, RoleStart, pats[0].Role)
	require.Equal(t, RoleEnd, pats[1].Role)
	require.Equal(t, RoleHybrid, pats[2].Role)
	require.Equal(t, 0, pats[0].Region)
	require.Equal(t, 0, pats[1].Region)
	require.Equal(t, 1, pats[2].Region)

	require.Equal(t, []RegionDef{
		{Name: "comment", Escapable: false},
		{Name: "string", Escapable: true},
	}, reg.Regions())
}

func TestRegistry_AddInterpolated(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddInterpolated("string", "`", "`", `\$\{`, `\}`, true))

	pats := reg.Patterns()
	require.Len(t, pats, 3)
	require.Equal(t, RoleHybrid, pats[0].Role)
	require.Equal(t, RoleInterpStart, pats[1].Role)
	require.Equal(t, RoleInterpEnd, pats[2].Role)
	for _, p := range pats {
		require.Equal(t, 0, p.Region)
		require.Equal(t, "string", p.Name)
	}
}

func TestRegistry_InvalidPatterns(t *testing.T) {
	tests := []struct {
		name string
		add  func(r *Registry) error
	}{
		{
			name: "malformed keyword",
			add:  func(r *Registry) error { return r.AddKeyword("keyword", `(fn`) },
		},
		{
			name: "malformed bounded end",
			add:  func(r *Registry) error { return r.AddBounded("comment", `/\*`, `*/`, false) },
		},
		{
			name: "malformed inner start",
			add:  func(r *Registry) error { return r.AddInterpolated("string", `"`, `"`, `[`, `\]`, true) },
		},
		{
			name: "identical inner markers",
			add:  func(r *Registry) error { return r.AddInterpolated("string", `"`, `"`, `\|`, `\|`, true) },
		},
		{
			name: "empty name",
			add:  func(r *Registry) error { return r.AddKeyword("", `fn`) },
		},
		{
			name: "empty pattern",
			add:  func(r *Registry) error { return r.AddKeyword("keyword", ``) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			err := tt.add(reg)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidPattern), "error should match ErrInvalidPattern: %v", err)

			var perr *PatternError
			require.ErrorAs(t, err, &perr)
			require.Empty(t, reg.Patterns(), "a failed registration must not leave partial patterns")
			require.Empty(t, reg.Regions())
		})
	}
}

func TestRegistry_SealedAfterNew(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddKeyword("keyword", `fn`))
	require.False(t, reg.Sealed())

	New(reg, 4)
	require.True(t, reg.Sealed())

	err := reg.AddKeyword("keyword", `let`)
	require.ErrorIs(t, err, ErrRegistrySealed)
	require.ErrorIs(t, reg.AddBounded("comment", `/\*`, `\*/`, false), ErrRegistrySealed)
	require.ErrorIs(t, reg.AddInterpolated("s", `"`, `"`, `\{`, `\}`, true), ErrRegistrySealed)
	require.Len(t, reg.Patterns(), 1)
}

func TestRole_String(t *testing.T) {
	require.Equal(t, "keyword", RoleKeyword.String())
	require.Equal(t, "hybrid", RoleHybrid.String())
	require.Equal(t, "interp-end", RoleInterpEnd.String())
	require.Equal(t, "unknown", Role(42).String())
}
