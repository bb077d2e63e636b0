package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hilite/internal/languages"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/presentation"
)

const goSource = "package main\n\nfunc main() {}\n"

// isolate runs the test in an empty directory with an empty home so no
// user config is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("HILITE_DEBUG", "")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs a fresh command tree and returns its stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPrint_PlainText(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, dir, "main.go", goSource)

	out, err := execute(t, "", "--color", "never", file)
	require.NoError(t, err)
	require.Equal(t, goSource, out)
}

func TestPrint_Colored(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, dir, "main.go", goSource)

	out, err := execute(t, "", "--color", "always", file)
	require.NoError(t, err)
	require.Contains(t, out, "\x1b[")
	require.Equal(t, goSource, ansi.Strip(out))
}

func TestPrint_LineNumbers(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, dir, "main.go", goSource)

	out, err := execute(t, "", "--color", "never", "-n", file)
	require.NoError(t, err)
	require.Equal(t, "1 package main\n2 \n3 func main() {}\n", out)
}

func TestPrint_FromAndWidth(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, dir, "main.go", goSource)

	out, err := execute(t, "", "--color", "never", "--from", "8", "--width", "4", file)
	require.NoError(t, err)
	require.Equal(t, "main\n\nn() \n", out)
}

func TestPrint_NegativeWidth(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, dir, "main.go", goSource)

	_, err := execute(t, "", "--width", "-1", file)
	require.Error(t, err)
}

func TestPrint_InvalidColor(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, dir, "main.go", goSource)

	_, err := execute(t, "", "--color", "sometimes", file)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid color mode")
}

func TestPrint_Stdin(t *testing.T) {
	isolate(t)

	out, err := execute(t, "fn x\n", "--lang", "rust", "--color", "never")
	require.NoError(t, err)
	require.Equal(t, "fn x\n", out)

	out, err = execute(t, "plain\n", "--color", "never", "-")
	require.NoError(t, err)
	require.Equal(t, "plain\n", out)
}

func TestPrint_TabWidth(t *testing.T) {
	isolate(t)

	out, err := execute(t, "\tx\n", "--color", "never", "--tab-width", "2")
	require.NoError(t, err)
	require.Equal(t, "  x\n", out)

	out, err = execute(t, "\tx\n", "--color", "never")
	require.NoError(t, err)
	require.Equal(t, "    x\n", out, "the default tab width is 4")
}

func TestPrint_UnknownLanguage(t *testing.T) {
	isolate(t)

	_, err := execute(t, "x", "--lang", "cobol")
	require.ErrorIs(t, err, languages.ErrUnknownLanguage)
}

func TestPrint_UnknownExtensionIsPlain(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, dir, "notes.xyz", "func main\n")

	out, err := execute(t, "", "--color", "always", file)
	require.NoError(t, err)
	require.Equal(t, "func main\n", ansi.Strip(out))
}

func TestPrint_MissingFile(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "", filepath.Join(dir, "missing.go"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_FileIsUsed(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, filepath.Join(".hilite", "config.yaml"), "tab_width: 3\n")

	out, err := execute(t, "\tx\n", "--color", "never")
	require.NoError(t, err)
	require.Equal(t, "   x\n", out)

	explicit := writeFile(t, dir, "other.yaml", "tab_width: 1\n")
	out, err = execute(t, "\tx\n", "--color", "never", "--config", explicit)
	require.NoError(t, err)
	require.Equal(t, " x\n", out, "--config wins over the lookup path")
}

func TestConfig_Invalid(t *testing.T) {
	dir := isolate(t)
	cfg := writeFile(t, dir, "bad.yaml", "tab_width: 99\n")

	_, err := execute(t, "x", "--config", cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid configuration")

	_, err = execute(t, "x", "--theme", "bogus")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown preset")
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "", "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, "Created")
	_, err = os.Stat(filepath.Join(dir, ".hilite", "config.yaml"))
	require.NoError(t, err)

	_, err = execute(t, "", "config", "init")
	require.Error(t, err, "an existing config is not overwritten")

	custom := filepath.Join(dir, "custom", "hilite.yaml")
	_, err = execute(t, "", "config", "init", custom)
	require.NoError(t, err)
	_, err = os.Stat(custom)
	require.NoError(t, err)
}

func TestConfigTheme(t *testing.T) {
	dir := isolate(t)
	cfg := writeFile(t, dir, "config.yaml", "# mine\ntab_width: 2\n")

	out, err := execute(t, "", "--config", cfg, "config", "theme", "solarized")
	require.NoError(t, err)
	require.Contains(t, out, "solarized")

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	require.Contains(t, string(data), "# mine")
	require.Contains(t, string(data), "preset: solarized")

	out, err = execute(t, "", "--config", cfg, "config", "path")
	require.NoError(t, err)
	require.Equal(t, cfg+"\n", out)

	_, err = execute(t, "", "--config", cfg, "config", "theme", "dracula")
	require.Error(t, err)
}

func TestConfigPath_Defaults(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "config", "path")
	require.NoError(t, err)
	require.Contains(t, out, "using defaults")
}

func TestLangs(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "langs")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Equal(t, []string{"NAME", "EXTENSIONS", "SOURCE"}, strings.Fields(lines[0]))
	require.Len(t, lines, 8, "header and seven bundled tables")
	require.Contains(t, out, "bundled/go.yaml")

	out, err = execute(t, "", "langs", "--json", "--tags")
	require.NoError(t, err)
	var langs []presentation.LanguageDTO
	require.NoError(t, json.Unmarshal([]byte(out), &langs))
	require.Len(t, langs, 7)
	for _, l := range langs {
		require.NotEmpty(t, l.Tags, "language %s", l.Name)
	}
}

func TestLangs_UserDirectory(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, filepath.Join("langs", "toml.yaml"), `name: toml
extensions: [toml]
rules:
  - kind: keyword
    name: comment
    patterns: ['#.*$']
`)
	cfg := writeFile(t, dir, "config.yaml", "languages:\n  dir: "+filepath.Join(dir, "langs")+"\n")

	out, err := execute(t, "", "--config", cfg, "langs")
	require.NoError(t, err)
	require.Contains(t, out, "toml")

	file := writeFile(t, dir, "a.toml", "x = 1 # note\n")
	out, err = execute(t, "", "--config", cfg, "tokens", file)
	require.NoError(t, err)
	var lines []presentation.LineDTO
	require.NoError(t, json.Unmarshal([]byte(out), &lines))
	require.Equal(t, []presentation.RunDTO{
		{Text: "x = 1 "},
		{Text: "# note", Kind: "comment"},
	}, lines[0].Runs)
}

func TestTokens(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, dir, "main.go", goSource)

	out, err := execute(t, "", "tokens", file)
	require.NoError(t, err)

	var lines []presentation.LineDTO
	require.NoError(t, json.Unmarshal([]byte(out), &lines))
	require.Len(t, lines, 3)
	require.Equal(t, 1, lines[0].Line)
	require.Equal(t, presentation.RunDTO{Text: "package", Kind: "keyword"}, lines[0].Runs[0])
	require.Empty(t, lines[1].Runs)
	require.Equal(t, presentation.RunDTO{Text: "func", Kind: "keyword"}, lines[2].Runs[0])
}

func TestView_RequiresFile(t *testing.T) {
	isolate(t)

	_, err := execute(t, "", "view")
	require.Error(t, err)
}

func TestDebugLog(t *testing.T) {
	dir := isolate(t)
	t.Cleanup(log.Reset)
	logPath := filepath.Join(dir, "hilite.log")
	cfg := writeFile(t, dir, "config.yaml", "log:\n  path: "+logPath+"\n")

	_, err := execute(t, "fn x\n", "--config", cfg, "--debug", "--lang", "rust", "--color", "never")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "config loaded")
	require.Contains(t, string(data), "[engine]")
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")
	require.Equal(t, "1.2.3", rootCmd.Version)
}
