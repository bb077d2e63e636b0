package styles

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// Theme is a resolved set of colors and the styles built from them.
type Theme struct {
	name   string
	colors map[ColorToken]string
	syntax map[string]lipgloss.Style

	plain     lipgloss.Style
	gutter    lipgloss.Style
	statusBar lipgloss.Style
	errStyle  lipgloss.Style
}

// NewTheme resolves cfg.
// Order of application:
// 1. Start with default colors
// 2. Apply preset (if specified)
// 3. Apply individual color overrides
// 4. Build the styles
func NewTheme(cfg ThemeConfig) (*Theme, error) {
	colors := maps.Clone(DefaultPreset.Colors)
	name := "default"

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return nil, fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
		name = preset.Name
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return nil, fmt.Errorf("unknown color token: %s", key)
		}
		if !IsValidHexColor(value) {
			return nil, fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	t := &Theme{name: name, colors: colors}
	t.build()
	return t, nil
}

// Name returns the preset the theme started from.
func (t *Theme) Name() string { return t.name }

// Color returns the color of token, or NoColor when the theme has none.
func (t *Theme) Color(token ColorToken) lipgloss.TerminalColor {
	hex, ok := t.colors[token]
	if !ok {
		return lipgloss.NoColor{}
	}
	return lipgloss.AdaptiveColor{Light: hex, Dark: hex}
}

// Style returns the style for a highlight tag. Plain text and unknown tags
// get the primary text style.
func (t *Theme) Style(tag string) lipgloss.Style {
	if s, ok := t.syntax[tag]; ok {
		return s
	}
	return t.plain
}

// Gutter is the style of line numbers.
func (t *Theme) Gutter() lipgloss.Style { return t.gutter }

// StatusBar is the style of the viewer's status line.
func (t *Theme) StatusBar() lipgloss.Style { return t.statusBar }

// Error is the style of error messages in the status line.
func (t *Theme) Error() lipgloss.Style { return t.errStyle }

func (t *Theme) build() {
	t.plain = lipgloss.NewStyle().Foreground(t.Color(TokenTextPrimary))
	t.gutter = lipgloss.NewStyle().Foreground(t.Color(TokenGutter))
	t.statusBar = lipgloss.NewStyle().
		Foreground(t.Color(TokenStatusBarText)).
		Background(t.Color(TokenStatusBarBg)).
		Padding(0, 1)
	t.errStyle = lipgloss.NewStyle().
		Foreground(t.Color(TokenStatusError)).
		Background(t.Color(TokenStatusBarBg)).
		Bold(true)

	t.syntax = make(map[string]lipgloss.Style, len(SyntaxTokens()))
	for _, token := range SyntaxTokens() {
		s := lipgloss.NewStyle().Foreground(t.Color(token))
		switch token {
		case TokenSyntaxComment:
			s = s.Italic(true)
		case TokenSyntaxKeyword, TokenSyntaxStruct:
			s = s.Bold(true)
		}
		t.syntax[token.Tag()] = s
	}
}

var (
	currentMu sync.RWMutex
	current   = mustTheme(ThemeConfig{})
)

// ApplyTheme resolves cfg and makes it the current theme.
func ApplyTheme(cfg ThemeConfig) error {
	t, err := NewTheme(cfg)
	if err != nil {
		return err
	}
	currentMu.Lock()
	current = t
	currentMu.Unlock()
	return nil
}

// Current returns the theme installed by the last successful ApplyTheme.
func Current() *Theme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

func mustTheme(cfg ThemeConfig) *Theme {
	t, err := NewTheme(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

// IsValidHexColor accepts #RGB and #RRGGBB.
func IsValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
