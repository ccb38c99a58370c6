// Package main is the entry point for the lazystack application.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystack/internal/app"
	"github.com/chmouel/lazystack/internal/buildinfo"
	"github.com/chmouel/lazystack/internal/config"
	"github.com/chmouel/lazystack/internal/git"
	"github.com/chmouel/lazystack/internal/log"
	"github.com/chmouel/lazystack/internal/theme"
	urfavecli "github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// isTerminal reports whether f is attached to a terminal.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *urfavecli.App {
	return &urfavecli.App{
		Name:                 "lazystack",
		Usage:                "Browse the commits of a stacked branch and their changes",
		Version:              buildinfo.Version(),
		Writer:               stdout,
		ErrWriter:            stderr,
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Commands: []*urfavecli.Command{
			{
				Name:   "stack",
				Usage:  "Open the interactive stack view (default)",
				Action: runTUI,
			},
			{
				Name:  "list",
				Usage: "Print the stack as a plain tree",
				Flags: []urfavecli.Flag{
					&urfavecli.BoolFlag{
						Name:    "files",
						Aliases: []string{"f"},
						Usage:   "Include the files changed by each commit",
					},
				},
				Action: runList,
			},
			{
				Name:  "version",
				Usage: "Print build information",
				Action: func(c *urfavecli.Context) error {
					fmt.Fprintln(c.App.Writer, buildinfo.Get().String())
					return nil
				},
			},
		},

		Action:       runTUI,
		BashComplete: completeCommands,
	}
}

// runTUI is the default action: it launches the stack view.
func runTUI(c *urfavecli.Context) error {
	if c.Bool("show-themes") {
		printThemes(c.App.Writer)
		return nil
	}
	if !isTerminal(os.Stdout) {
		return errors.New("the stack view needs a terminal, use \"lazystack list\" for plain output")
	}

	cfg, err := setup(c)
	if err != nil {
		return err
	}
	defer closeLog(c)

	notifications := app.NewNotifications()
	svc, err := openRepository(c, cfg, notifications.Notify)
	if err != nil {
		return err
	}

	model := app.NewModel(cfg, svc, app.WithNotifications(notifications))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(c.Context))
	_, err = p.Run()
	model.Close()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}

func runList(c *urfavecli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	defer closeLog(c)

	svc, err := openRepository(c, cfg, nil)
	if err != nil {
		return err
	}
	return app.WritePlain(c.Context, c.App.Writer, cfg, svc, c.Bool("files"))
}

// setup configures the debug log and loads the configuration with the
// command-line flags applied on top.
func setup(c *urfavecli.Context) (*config.AppConfig, error) {
	debugLog := c.String("debug-log")
	if debugLog != "" {
		openLog(c, debugLog)
	}

	cfg, err := config.Load(config.Options{
		ConfigFile: c.String("config-file"),
		RepoPath:   c.String("repository"),
		Overrides:  c.StringSlice("config"),
	})
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if debugLog == "" {
		if cfg.DebugLog != "" {
			openLog(c, cfg.DebugLog)
		} else {
			// nothing configured, drop what was buffered
			_ = log.SetFile("")
		}
	}

	if name := c.String("theme"); name != "" {
		normalized := theme.Normalize(name)
		if normalized == "" {
			_ = log.Close()
			return nil, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(theme.Names(), ", "))
		}
		cfg.Theme = normalized
	}
	if base := strings.TrimSpace(c.String("base")); base != "" {
		cfg.Base = base
	}

	log.Printf("config: base=%s theme=%s file_tree=%v", cfg.Base, cfg.Theme, cfg.FileTree)
	return cfg, nil
}

func openLog(c *urfavecli.Context, path string) {
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "Error opening debug log file %q: %v\n", path, err)
	}
}

func closeLog(c *urfavecli.Context) {
	if err := log.Close(); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "Error closing debug log: %v\n", err)
	}
}

func openRepository(c *urfavecli.Context, cfg *config.AppConfig, notify git.NotifyFn) (*git.Service, error) {
	opts := []git.Option{
		git.WithGitPager(cfg.GitPager, cfg.PagerArgs(theme.Get(cfg.Theme))),
		git.WithMaxDiffChars(cfg.MaxDiffChars),
	}
	if notify != nil {
		opts = append(opts, git.WithNotify(notify))
	}
	return git.Open(c.Context, c.String("repository"), opts...)
}
