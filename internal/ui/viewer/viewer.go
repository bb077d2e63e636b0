// Package viewer contains the full-screen pager for a highlighted document.
package viewer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/hilite/internal/document"
	"github.com/zjrosen/hilite/internal/highlight"
	"github.com/zjrosen/hilite/internal/keys"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/render"
	"github.com/zjrosen/hilite/internal/ui/styles"
)

const defaultScrollStep = 4

// LoadFunc reads the current contents of the viewed file.
type LoadFunc func(ctx context.Context) (string, error)

// FileChangedMsg signals that the viewed file changed on disk.
type FileChangedMsg struct{}

// fileLoadedMsg carries freshly read file contents back to Update.
type fileLoadedMsg struct {
	text string
	err  error
}

// Config holds the viewer's collaborators and settings.
type Config struct {
	// Name is shown in the status bar.
	Name     string
	Language string
	Doc      *document.Document
	Theme    *styles.Theme
	Renderer *render.Renderer

	LineNumbers bool
	// ScrollStep is the number of columns moved per horizontal scroll.
	ScrollStep int

	// Load, when set, enables reloading with the reload key.
	Load LoadFunc
	// Changes, when set, triggers a reload for every value received.
	Changes <-chan struct{}
}

// Model holds the viewer state.
type Model struct {
	cfg      Config
	keys     keys.KeyMap
	help     help.Model
	width    int
	height   int
	top      int
	left     int
	maxWidth int
	showHelp bool
	status   string
	err      error
}

// New creates a viewer over cfg.Doc.
func New(cfg Config) Model {
	if cfg.ScrollStep <= 0 {
		cfg.ScrollStep = defaultScrollStep
	}
	if cfg.Theme == nil {
		cfg.Theme = styles.Current()
	}
	if cfg.Renderer == nil {
		cfg.Renderer = render.New(io.Discard, cfg.Theme, render.Options{Color: render.ColorNever})
	}
	h := help.New()
	h.ShowAll = true
	return Model{
		cfg:      cfg,
		keys:     keys.Viewer,
		help:     h,
		maxWidth: cfg.Doc.Width(),
	}
}

// Init starts listening for file changes.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.cfg.Changes)
}

// Top returns the first visible line.
func (m Model) Top() int { return m.top }

// Left returns the first visible column.
func (m Model) Left() int { return m.left }

// SetSize updates the viewport dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	return m.clamp()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case FileChangedMsg:
		return m, tea.Batch(m.load(), waitForChange(m.cfg.Changes))

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			log.ErrorErr(log.CatUI, "reload failed", msg.err, "file", m.cfg.Name)
			return m, nil
		}
		stats, err := m.cfg.Doc.Sync(context.Background(), msg.text)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.maxWidth = m.cfg.Doc.Width()
		m.status = describe(stats)
		log.Debug(log.CatUI, "reloaded", "file", m.cfg.Name, "replaced", stats.Replaced,
			"inserted", stats.Inserted, "removed", stats.Removed, "rerun", stats.Rerun)
		return m.clamp(), nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help; quit still quits.
		m.showHelp = false
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	half := max(m.bodyHeight()/2, 1)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Down):
		m.top++
	case key.Matches(msg, m.keys.Up):
		m.top--
	case key.Matches(msg, m.keys.HalfDown):
		m.top += half
	case key.Matches(msg, m.keys.HalfUp):
		m.top -= half
	case key.Matches(msg, m.keys.Top):
		m.top = 0
	case key.Matches(msg, m.keys.Bottom):
		m.top = m.cfg.Doc.Len()
	case key.Matches(msg, m.keys.Right):
		m.left += m.cfg.ScrollStep
	case key.Matches(msg, m.keys.Left):
		m.left -= m.cfg.ScrollStep
	case key.Matches(msg, m.keys.Home):
		m.left = 0
	case key.Matches(msg, m.keys.LineNumbers):
		m.cfg.LineNumbers = !m.cfg.LineNumbers
	case key.Matches(msg, m.keys.Reload):
		return m, m.load()
	}
	return m.clamp(), nil
}

// View renders the viewer.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.help.View(m.keys))
	}

	var b strings.Builder
	doc := m.cfg.Doc
	gw := m.gutterWidth()
	textWidth := max(m.width-gw, 0)
	digits := render.GutterWidth(doc.Len())
	for row := range m.bodyHeight() {
		y := m.top + row
		if y < doc.Len() {
			if gw > 0 {
				b.WriteString(m.cfg.Renderer.Gutter(y+1, digits))
			}
			b.WriteString(m.cfg.Renderer.Line(highlight.Window(doc.Runs(y), m.left, textWidth)))
		} else {
			b.WriteString(strings.Repeat(" ", m.width))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.statusBar())
	return b.String()
}

func (m Model) statusBar() string {
	style := m.cfg.Theme.StatusBar()
	left := m.cfg.Name
	if m.cfg.Language != "" {
		left += " [" + m.cfg.Language + "]"
	}
	if m.err != nil {
		left += " error: " + m.err.Error()
		style = m.cfg.Theme.Error()
	} else if m.status != "" {
		left += " " + m.status
	}

	last := min(m.top+m.bodyHeight(), m.cfg.Doc.Len())
	right := fmt.Sprintf("%d-%d/%d col %d", min(m.top+1, last), last, m.cfg.Doc.Len(), m.left+1)

	inner := max(m.width-style.GetHorizontalFrameSize(), 0)
	left = styles.TruncateString(left, max(inner-runewidth.StringWidth(right)-1, 0))
	gap := max(inner-runewidth.StringWidth(left)-runewidth.StringWidth(right), 1)
	return style.MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) bodyHeight() int {
	return max(m.height-1, 0)
}

func (m Model) gutterWidth() int {
	if !m.cfg.LineNumbers {
		return 0
	}
	return render.GutterWidth(m.cfg.Doc.Len()) + 1
}

func (m Model) clamp() Model {
	maxTop := max(m.cfg.Doc.Len()-m.bodyHeight(), 0)
	m.top = min(max(m.top, 0), maxTop)
	maxLeft := max(m.maxWidth-(m.width-m.gutterWidth()), 0)
	m.left = min(max(m.left, 0), maxLeft)
	return m
}

func (m Model) load() tea.Cmd {
	if m.cfg.Load == nil {
		return nil
	}
	load := m.cfg.Load
	return func() tea.Msg {
		text, err := load(context.Background())
		return fileLoadedMsg{text: text, err: err}
	}
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return FileChangedMsg{}
	}
}

func describe(s document.Stats) string {
	switch {
	case !s.Changed():
		return "unchanged"
	case s.Rerun:
		return "reloaded"
	default:
		return fmt.Sprintf("reloaded (+%d -%d ~%d)", s.Inserted, s.Removed, s.Replaced)
	}
}

// DisplayName shortens path for the status bar.
func DisplayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return filepath.Base(path)
}
