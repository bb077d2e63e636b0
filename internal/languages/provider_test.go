package languages

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hilite/internal/highlight"
)

func newTestProvider(t *testing.T, dir string) *Provider {
	t.Helper()
	p, err := NewProvider(Config{Dir: dir})
	require.NoError(t, err)
	return p
}

func TestProvider_BundledTablesCompile(t *testing.T) {
	p := newTestProvider(t, "")
	require.Equal(t, []string{"c", "go", "javascript", "json", "python", "rust", "shell"}, p.Names())

	for _, name := range p.Names() {
		t.Run(name, func(t *testing.T) {
			reg, err := p.ForName(context.Background(), name)
			require.NoError(t, err)
			require.NotEmpty(t, reg.Patterns())

			tbl, ok := p.Table(name)
			require.True(t, ok)
			require.NotEmpty(t, tbl.Extensions)
			require.Equal(t, "bundled/"+name+".yaml", tbl.Source)
		})
	}
}

func TestProvider_ForExtension(t *testing.T) {
	p := newTestProvider(t, "")

	tests := []struct {
		ext  string
		want string
	}{
		{ext: "go", want: "go"},
		{ext: ".go", want: "go"},
		{ext: ".RS", want: "rust"},
		{ext: "py", want: "python"},
		{ext: "tsx", want: "javascript"},
		{ext: "h", want: "c"},
		{ext: "json", want: "json"},
		{ext: "bash", want: "shell"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			name, ok := p.LanguageOf(tt.ext)
			require.True(t, ok)
			require.Equal(t, tt.want, name)

			reg, err := p.ForExtension(context.Background(), tt.ext)
			require.NoError(t, err)
			want, err := p.ForName(context.Background(), tt.want)
			require.NoError(t, err)
			require.Same(t, want, reg)
		})
	}
}

func TestProvider_Unknown(t *testing.T) {
	p := newTestProvider(t, "")

	_, err := p.ForExtension(context.Background(), ".xyz")
	require.ErrorIs(t, err, ErrUnknownLanguage)

	_, err = p.ForName(context.Background(), "cobol")
	require.ErrorIs(t, err, ErrUnknownLanguage)

	_, err = p.ForPath(context.Background(), "Makefile")
	require.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestProvider_ForPath(t *testing.T) {
	p := newTestProvider(t, "")

	reg, err := p.ForPath(context.Background(), filepath.Join("src", "main.rs"))
	require.NoError(t, err)
	want, err := p.ForName(context.Background(), "Rust")
	require.NoError(t, err)
	require.Same(t, want, reg)
}

func TestProvider_RegistryIsSharedAcrossHighlighters(t *testing.T) {
	p := newTestProvider(t, "")
	ctx := context.Background()

	first, err := p.ForName(ctx, "go")
	require.NoError(t, err)
	highlight.New(first, 4)

	second, err := p.ForName(ctx, "go")
	require.NoError(t, err)
	require.Same(t, first, second)
	require.True(t, second.Sealed())
}

func TestProvider_LoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.yaml"), []byte(`
name: go
extensions: [go]
rules:
  - kind: keyword
    name: keyword
    patterns: ['\bfunc\b']
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "toml.yml"), []byte(`
name: toml
extensions: [toml]
rules:
  - kind: keyword
    name: comment
    patterns: ['#.*$']
  - kind: bounded
    name: string
    start: '"'
    end: '"'
    escapable: true
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	p := newTestProvider(t, dir)

	reg, err := p.ForName(context.Background(), "go")
	require.NoError(t, err)
	require.Len(t, reg.Patterns(), 1, "the user table replaces the bundled one")

	tbl, ok := p.Table("go")
	require.True(t, ok)
	require.Equal(t, dir+"/go.yaml", tbl.Source)

	name, ok := p.LanguageOf("toml")
	require.True(t, ok)
	require.Equal(t, "toml", name)
	require.Contains(t, p.Names(), "toml")
}

func TestProvider_LoadDirMissing(t *testing.T) {
	p := newTestProvider(t, filepath.Join(t.TempDir(), "nope"))
	require.Len(t, p.Names(), 7)
}

func TestProvider_LoadDirInvalidTable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\nrules: []\n"), 0o644))

	_, err := NewProvider(Config{Dir: dir})
	require.ErrorIs(t, err, ErrInvalidTable)
}

func TestProvider_AddReplacesCompiledRegistry(t *testing.T) {
	p := newTestProvider(t, "")
	ctx := context.Background()

	before, err := p.ForName(ctx, "json")
	require.NoError(t, err)

	require.NoError(t, p.Add(Table{
		Name:       "JSON",
		Extensions: []string{".JSON5"},
		Rules:      []Rule{{Kind: KindKeyword, Name: "number", Patterns: []string{`\d+`}}},
	}))

	after, err := p.ForName(ctx, "json")
	require.NoError(t, err)
	require.NotSame(t, before, after)
	require.Len(t, after.Patterns(), 1)

	_, ok := p.LanguageOf("json")
	require.False(t, ok, "extensions of the replaced table are dropped")
	name, ok := p.LanguageOf("json5")
	require.True(t, ok)
	require.Equal(t, "json", name)
}

func TestProvider_CompileErrorIsReported(t *testing.T) {
	p := newTestProvider(t, "")
	require.NoError(t, p.Add(Table{
		Name:  "broken",
		Rules: []Rule{{Kind: KindKeyword, Name: "keyword", Patterns: []string{`(fn`}}},
	}))

	_, err := p.ForName(context.Background(), "broken")
	require.ErrorIs(t, err, highlight.ErrInvalidPattern)
}
