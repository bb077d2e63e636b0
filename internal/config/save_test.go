package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSavePreset_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sub", "config.yaml")

	require.NoError(t, SavePreset(configPath, "monochrome"))

	cfg, err := LoadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, "monochrome", cfg.Theme.Preset)
	require.Equal(t, 4, cfg.TabWidth)
}

func TestSavePreset_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	existing := `# my settings
tab_width: 2 # narrow tabs
theme:
  preset: default
  colors:
    syntax.keyword: "#FF0000"
viewer:
  watch: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(existing), 0644))

	require.NoError(t, SavePreset(configPath, "solarized"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "# my settings")
	require.Contains(t, string(data), "# narrow tabs")

	cfg, err := LoadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, "solarized", cfg.Theme.Preset)
	require.Equal(t, 2, cfg.TabWidth)
	require.True(t, cfg.Viewer.Watch)
	require.Equal(t, map[string]string{"syntax.keyword": "#FF0000"}, cfg.Theme.FlattenedColors())
}

func TestSavePreset_OnDefaultTemplate(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	require.NoError(t, SavePreset(configPath, "solarized"))

	cfg, err := LoadFile(configPath)
	require.NoError(t, err)
	want := Defaults()
	want.Theme.Preset = "solarized"
	require.Equal(t, want, cfg)
}

func TestSavePreset_RejectsUnknown(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	err := SavePreset(configPath, "dracula")
	require.Error(t, err)
	_, statErr := os.Stat(configPath)
	require.True(t, os.IsNotExist(statErr), "nothing is written for an invalid preset")
}

func TestSaveValue_AddsMissingSections(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("tab_width: 8\n"), 0644))

	require.NoError(t, SaveValue(configPath, []string{"languages", "dir"}, "/opt/langs"))

	cfg, err := LoadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.TabWidth)
	require.Equal(t, "/opt/langs", cfg.Languages.Dir)
}

func TestSaveValue_ScalarInTheWay(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("theme: dark\n"), 0644))

	err := SaveValue(configPath, []string{"theme", "preset"}, "default")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a mapping")
}

func TestSaveValue_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("theme: [unclosed\n"), 0644))

	err := SaveValue(configPath, []string{"theme", "preset"}, "default")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config")
}

func TestSaveValue_EmptyPath(t *testing.T) {
	require.Error(t, SaveValue(filepath.Join(t.TempDir(), "c.yaml"), nil, "x"))
}

func TestSaveValue_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, SavePreset(configPath, "default"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "config.yaml", entries[0].Name())
}
