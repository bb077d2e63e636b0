// Package render turns highlighted runs into terminal text.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/zjrosen/hilite/internal/highlight"
)

// ColorMode selects when escape sequences are emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Styler provides the styles runs are painted with.
type Styler interface {
	Style(tag string) lipgloss.Style
	Gutter() lipgloss.Style
}

// Lines is the part of a document the renderer reads.
type Lines interface {
	Len() int
	Runs(y int) []highlight.Run
}

// Options configures a Renderer.
type Options struct {
	Color       ColorMode
	LineNumbers bool
	// From drops that many leading display columns from every line.
	From int
	// Width, when positive, cuts every line to that many display columns.
	Width int
}

// Renderer paints runs with a Styler for one output.
type Renderer struct {
	styler Styler
	lg     *lipgloss.Renderer
	opts   Options
}

// New returns a renderer for output w. With ColorAuto the color profile is
// detected from w, so piping to a file yields plain text.
func New(w io.Writer, styler Styler, opts Options) *Renderer {
	lg := lipgloss.NewRenderer(w)
	switch opts.Color {
	case ColorAlways:
		if lg.ColorProfile() == termenv.Ascii {
			lg.SetColorProfile(termenv.TrueColor)
		}
	case ColorNever:
		lg.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{styler: styler, lg: lg, opts: opts}
}

// Profile returns the color profile in use.
func (r *Renderer) Profile() termenv.Profile { return r.lg.ColorProfile() }

// Line renders one line of runs.
func (r *Renderer) Line(runs []highlight.Run) string {
	if r.opts.From > 0 {
		runs = highlight.Trim(runs, r.opts.From)
	}
	if r.opts.Width > 0 {
		runs = clipRight(runs, r.opts.Width)
	}
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(r.styler.Style(run.Kind).Renderer(r.lg).Render(run.Text))
	}
	return b.String()
}

// Gutter renders line number n (1-based) right-aligned in width columns,
// followed by a separator space.
func (r *Renderer) Gutter(n, width int) string {
	num := strconv.Itoa(n)
	pad := max(width-runewidth.StringWidth(num), 0)
	return r.styler.Gutter().Renderer(r.lg).Render(strings.Repeat(" ", pad)+num) + " "
}

// GutterWidth is the number of digits needed to number lines lines.
func GutterWidth(lines int) int {
	return len(strconv.Itoa(max(lines, 1)))
}

// Write renders lines [from, Len) to w, one per output line.
func (r *Renderer) Write(w io.Writer, doc Lines, from int) error {
	bw := bufio.NewWriter(w)
	gw := GutterWidth(doc.Len())
	for y := max(from, 0); y < doc.Len(); y++ {
		if r.opts.LineNumbers {
			if _, err := bw.WriteString(r.Gutter(y+1, gw)); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(r.Line(doc.Runs(y))); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// clipRight keeps the first width columns of runs without padding.
func clipRight(runs []highlight.Run, width int) []highlight.Run {
	if highlight.Width(runs) <= width {
		return runs
	}
	return highlight.Compact(highlight.Window(runs, 0, width))
}
