package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/hilite/internal/config"
	"github.com/zjrosen/hilite/internal/document"
	"github.com/zjrosen/hilite/internal/highlight"
	"github.com/zjrosen/hilite/internal/languages"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/paths"
	"github.com/zjrosen/hilite/internal/render"
	"github.com/zjrosen/hilite/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var version = "dev"

var rootCmd = newRootCmd()

// app is the state shared by the commands of one invocation.
type app struct {
	cfgFile    string
	v          *viper.Viper
	cfg        config.Config
	provider   *languages.Provider
	logCleanup func()
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "hilite [file]",
		Short: "Incremental syntax highlighting for the terminal",
		Long: `Highlight source files in the terminal.

With a file argument the highlighted file is printed to stdout. Without one,
or with "-", stdin is read. The language is picked from the file extension
unless --lang is given.

Examples:
  hilite main.go
  hilite --line-numbers --width 80 main.go
  cat script.sh | hilite --lang shell
  hilite view --watch main.go`,
		Version:           version,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
		RunE:              a.runPrint,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./.hilite/config.yaml, then ~/.config/hilite/config.yaml)")
	pf.Bool("debug", false, "write a debug log (see log.path)")
	pf.StringP("lang", "l", "", "language name (default: from the file extension)")
	pf.Int("tab-width", 0, "columns a tab expands to (default from config: 4)")
	pf.String("theme", "", "theme preset (default, monochrome, solarized)")

	root.Flags().Int("from", 0, "first display column to print")
	root.Flags().IntP("width", "w", 0, "cut every line to this many display columns")
	root.Flags().String("color", string(render.ColorAuto), "when to color output: auto, always or never")
	root.Flags().BoolP("line-numbers", "n", false, "prefix lines with their number")

	// Bind flags to viper
	_ = a.v.BindPFlag(config.Key("log", "debug"), pf.Lookup("debug"))
	_ = a.v.BindPFlag(config.Key("tab_width"), pf.Lookup("tab-width"))
	_ = a.v.BindPFlag(config.Key("theme", "preset"), pf.Lookup("theme"))
	_ = a.v.BindEnv(config.Key("log", "debug"), "HILITE_DEBUG")

	root.AddCommand(newViewCmd(a), newLangsCmd(a), newTokensCmd(a), newConfigCmd(a))
	return root
}

// setup loads the configuration, starts logging and applies the theme.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.initConfig(); err != nil {
		return err
	}

	if a.cfg.Log.Debug {
		var (
			cleanup func()
			err     error
		)
		if cmd.Name() == "view" {
			// stdout belongs to the bubbletea program
			cleanup, err = log.InitWithTeaLog(a.cfg.Log.Path, "hilite")
		} else {
			cleanup, err = log.Init(a.cfg.Log.Path)
		}
		if err != nil {
			return fmt.Errorf("starting debug log: %w", err)
		}
		a.logCleanup = cleanup
		log.Info(log.CatConfig, "config loaded", "file", a.v.ConfigFileUsed(), "command", cmd.Name())
	}

	return styles.ApplyTheme(a.cfg.Theme.Styles())
}

func (a *app) teardown(*cobra.Command, []string) {
	if a.logCleanup != nil {
		a.logCleanup()
		a.logCleanup = nil
	}
}

// initConfig reads the config file, if any, and decodes it over the defaults.
func (a *app) initConfig() error {
	path := a.cfgFile
	if path == "" {
		// Config lookup order:
		// 1. .hilite/config.yaml (current directory)
		// 2. ~/.config/hilite/config.yaml (user config)
		path = config.Find()
	}
	if path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	// No config file found anywhere - continue with defaults

	cfg, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	return nil
}

// languages returns the provider, creating it on first use.
func (a *app) languages() (*languages.Provider, error) {
	if a.provider != nil {
		return a.provider, nil
	}
	p, err := languages.NewProvider(languages.Config{
		Dir:      paths.ExpandHome(a.cfg.Languages.Dir),
		CacheTTL: a.cfg.Languages.CacheTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("loading language tables: %w", err)
	}
	a.provider = p
	return p, nil
}

// registry resolves the registry for file, honoring --lang. A file whose
// extension matches no table is shown as plain text.
func (a *app) registry(ctx context.Context, cmd *cobra.Command, file string) (*highlight.Registry, string, error) {
	p, err := a.languages()
	if err != nil {
		return nil, "", err
	}

	if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
		reg, err := p.ForName(ctx, lang)
		if err != nil {
			return nil, "", err
		}
		return reg, lang, nil
	}
	if paths.IsStdin(file) {
		return highlight.NewRegistry(), "", nil
	}

	ext := paths.Ext(file)
	reg, err := p.ForExtension(ctx, ext)
	if errors.Is(err, languages.ErrUnknownLanguage) {
		log.Debug(log.CatLang, "no table for file, showing plain text", "file", file)
		return highlight.NewRegistry(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	name, _ := p.LanguageOf(ext)
	return reg, name, nil
}

// readInput returns the contents of file, or of stdin for "" and "-".
func readInput(cmd *cobra.Command, file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if paths.IsStdin(file) {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file) //nolint:gosec // G304: file is the user's argument
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", displayName(file), err)
	}
	return string(data), nil
}

// open reads file and analyses it.
func (a *app) open(cmd *cobra.Command, file string) (*document.Document, string, error) {
	text, err := readInput(cmd, file)
	if err != nil {
		return nil, "", err
	}
	reg, lang, err := a.registry(cmd.Context(), cmd, file)
	if err != nil {
		return nil, "", err
	}
	return document.New(reg, a.cfg.TabWidth, text), lang, nil
}

func (a *app) runPrint(cmd *cobra.Command, args []string) error {
	file := fileArg(args)

	colorFlag, _ := cmd.Flags().GetString("color")
	mode, err := render.ParseColorMode(colorFlag)
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetInt("from")
	width, _ := cmd.Flags().GetInt("width")
	if from < 0 || width < 0 {
		return fmt.Errorf("--from and --width must not be negative")
	}
	lineNumbers, _ := cmd.Flags().GetBool("line-numbers")

	doc, _, err := a.open(cmd, file)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	r := render.New(out, styles.Current(), render.Options{
		Color:       mode,
		LineNumbers: lineNumbers,
		From:        from,
		Width:       width,
	})
	return r.Write(out, doc, 0)
}

func fileArg(args []string) string {
	if len(args) == 0 {
		return paths.Stdin
	}
	return args[0]
}

func displayName(file string) string {
	if paths.IsStdin(file) {
		return "stdin"
	}
	return file
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
