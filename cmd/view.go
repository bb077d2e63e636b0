package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/config"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/render"
	"github.com/zjrosen/hilite/internal/ui/styles"
	"github.com/zjrosen/hilite/internal/ui/viewer"
	"github.com/zjrosen/hilite/internal/watcher"
)

func newViewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Open a file in the interactive viewer",
		Long: `Open a file in a full-screen viewer.

Keys: j/k scroll, h/l scroll sideways, g/G top and bottom, ctrl+d/ctrl+u half
a page, n toggles line numbers, r reloads, ? shows help, q quits.

With --watch the file is reloaded whenever it changes on disk; only the lines
that changed are highlighted again.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runView,
	}
	cmd.Flags().Bool("watch", false, "reload the file when it changes on disk")
	cmd.Flags().Bool("line-numbers", true, "show the line-number gutter")
	_ = a.v.BindPFlag(config.Key("viewer", "watch"), cmd.Flags().Lookup("watch"))
	_ = a.v.BindPFlag(config.Key("viewer", "line_numbers"), cmd.Flags().Lookup("line-numbers"))
	return cmd
}

func (a *app) runView(cmd *cobra.Command, args []string) error {
	file := args[0]
	doc, lang, err := a.open(cmd, file)
	if err != nil {
		return err
	}

	vcfg := viewer.Config{
		Name:        viewer.DisplayName(file),
		Language:    lang,
		Doc:         doc,
		Theme:       styles.Current(),
		Renderer:    render.New(os.Stdout, styles.Current(), render.Options{Color: render.ColorAuto}),
		LineNumbers: a.cfg.Viewer.LineNumbers,
		ScrollStep:  a.cfg.Viewer.ScrollStep,
		Load: func(context.Context) (string, error) {
			data, err := os.ReadFile(file) //nolint:gosec // G304: file is the user's argument
			return string(data), err
		},
	}

	if a.cfg.Viewer.Watch {
		w, err := watcher.New(watcher.Config{Path: file, DebounceDur: a.cfg.Viewer.Debounce})
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()
		changes, err := w.Start()
		if err != nil {
			return err
		}
		vcfg.Changes = changes
	}

	log.Debug(log.CatUI, "starting viewer", "file", file, "language", lang, "lines", doc.Len(), "watch", a.cfg.Viewer.Watch)
	p := tea.NewProgram(viewer.New(vcfg), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}
