// Package config provides configuration types and defaults for hilite.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/ui/styles"
)

// KeyDelimiter separates nested viper keys. It is not "." so that dotted
// color tokens like "syntax.keyword" stay single keys under theme.colors.
const KeyDelimiter = "::"

// Tab width bounds accepted by Validate.
const (
	MinTabWidth = 1
	MaxTabWidth = 16
)

// Config holds all configuration options for hilite.
type Config struct {
	TabWidth  int             `mapstructure:"tab_width"`
	Theme     ThemeConfig     `mapstructure:"theme"`
	Viewer    ViewerConfig    `mapstructure:"viewer"`
	Languages LanguagesConfig `mapstructure:"languages"`
	Log       LogConfig       `mapstructure:"log"`
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "monochrome", "solarized"
	Preset string `mapstructure:"preset"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     syntax:
	//       keyword: "#FF0000"
	// Or quoted dot notation:
	//   colors:
	//     "syntax.keyword": "#FF0000"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// Styles converts the theme section for the styles package.
func (t ThemeConfig) Styles() styles.ThemeConfig {
	return styles.ThemeConfig{
		Preset: t.Preset,
		Colors: t.FlattenedColors(),
	}
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// ViewerConfig holds options for the interactive viewer.
type ViewerConfig struct {
	LineNumbers bool `mapstructure:"line_numbers"`
	// ScrollStep is the number of columns moved per horizontal scroll.
	ScrollStep int `mapstructure:"scroll_step"`
	// Watch reloads the file when it changes on disk.
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// LanguagesConfig controls where language tables come from.
type LanguagesConfig struct {
	// Dir holds extra *.yaml tables that add to or replace the bundled ones.
	Dir      string        `mapstructure:"dir"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Debug bool   `mapstructure:"debug"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		TabWidth: 4,
		Theme: ThemeConfig{
			// Default theme uses the "default" preset
			Preset: "",
		},
		Viewer: ViewerConfig{
			LineNumbers: true,
			ScrollStep:  4,
			Watch:       false,
			Debounce:    150 * time.Millisecond,
		},
		Languages: LanguagesConfig{
			Dir:      "",
			CacheTTL: 10 * time.Minute,
		},
		Log: LogConfig{
			Path:  "debug.log",
			Debug: false,
		},
	}
}

// Key joins a nested key with KeyDelimiter.
func Key(parts ...string) string {
	return strings.Join(parts, KeyDelimiter)
}

// NewViper returns a viper instance using KeyDelimiter with every default
// registered.
func NewViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(KeyDelimiter))
	d := Defaults()
	v.SetDefault(Key("tab_width"), d.TabWidth)
	v.SetDefault(Key("theme", "preset"), d.Theme.Preset)
	v.SetDefault(Key("viewer", "line_numbers"), d.Viewer.LineNumbers)
	v.SetDefault(Key("viewer", "scroll_step"), d.Viewer.ScrollStep)
	v.SetDefault(Key("viewer", "watch"), d.Viewer.Watch)
	v.SetDefault(Key("viewer", "debounce"), d.Viewer.Debounce)
	v.SetDefault(Key("languages", "dir"), d.Languages.Dir)
	v.SetDefault(Key("languages", "cache_ttl"), d.Languages.CacheTTL)
	v.SetDefault(Key("log", "path"), d.Log.Path)
	v.SetDefault(Key("log", "debug"), d.Log.Debug)
	return v
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads the config file at path on top of the defaults.
func LoadFile(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Load(v)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.TabWidth < MinTabWidth || c.TabWidth > MaxTabWidth {
		return fmt.Errorf("tab_width %d out of range [%d, %d]", c.TabWidth, MinTabWidth, MaxTabWidth)
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	if c.Viewer.ScrollStep < 0 {
		return fmt.Errorf("viewer.scroll_step must not be negative, got %d", c.Viewer.ScrollStep)
	}
	if c.Viewer.Debounce < 0 {
		return fmt.Errorf("viewer.debounce must not be negative, got %s", c.Viewer.Debounce)
	}
	if c.Languages.CacheTTL < 0 {
		return fmt.Errorf("languages.cache_ttl must not be negative, got %s", c.Languages.CacheTTL)
	}
	return nil
}

// ValidateTheme checks the preset and every color override.
func ValidateTheme(t ThemeConfig) error {
	if t.Preset != "" {
		if _, ok := styles.Presets[t.Preset]; !ok {
			return fmt.Errorf("theme.preset: unknown preset %q (available: %s)", t.Preset, strings.Join(PresetNames(), ", "))
		}
	}
	colors := t.FlattenedColors()
	tokens := make([]string, 0, len(colors))
	for token := range colors {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	known := make(map[styles.ColorToken]bool)
	for _, token := range styles.AllTokens() {
		known[token] = true
	}
	var errs []error
	for _, token := range tokens {
		if !known[styles.ColorToken(token)] {
			errs = append(errs, fmt.Errorf("theme.colors: unknown color token %q", token))
			continue
		}
		if !styles.IsValidHexColor(colors[token]) {
			errs = append(errs, fmt.Errorf("theme.colors: invalid hex color for %s: %q", token, colors[token]))
		}
	}
	return errors.Join(errs...)
}

// PresetNames returns the names of the built-in theme presets, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(styles.Presets))
	for name := range styles.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# hilite configuration

# Number of columns a tab expands to (1-16)
tab_width: 4

# Theme configuration
# Use a preset theme or customize individual colors
theme:
  # Available presets:
  #   default     - Default hilite theme
  #   monochrome  - Grayscale, for low-color terminals
  #   solarized   - Solarized dark
  # preset: solarized
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   syntax.keyword: "#FF79C6"
  #   syntax.comment: "#6272A4"
  #   gutter: "#44475A"
  #
  # Run 'hilite langs --tags' to see which tags a language uses.

# Interactive viewer ('hilite view')
viewer:
  line_numbers: true   # Show the line-number gutter
  scroll_step: 4       # Columns moved per horizontal scroll
  watch: false         # Reload the file when it changes on disk
  debounce: 150ms      # Quiet period before a change is reloaded

# Language tables
languages:
  # Directory with extra *.yaml tables; a table named like a bundled one replaces it
  # dir: ~/.config/hilite/languages
  cache_ttl: 10m       # How long an unused compiled table is kept

# Debug logging (also enabled with --debug or HILITE_DEBUG=1)
log:
  path: debug.log
  debug: false
`
}

// WriteDefaultConfig creates a config file with default settings.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// O_EXCL keeps an existing config from being clobbered.
	f, err := os.OpenFile(configPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}
	if _, err := f.WriteString(DefaultConfigTemplate()); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// SearchPaths returns the config files looked up when no explicit path is
// given, in order.
func SearchPaths() []string {
	paths := []string{filepath.Join(".hilite", "config.yaml")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "hilite", "config.yaml"))
	}
	return paths
}

// Find returns the first existing file from SearchPaths, or "".
func Find() string {
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
