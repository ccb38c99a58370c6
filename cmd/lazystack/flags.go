package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chmouel/lazystack/internal/theme"
	urfavecli "github.com/urfave/cli/v2"
)

// globalFlags returns the flags shared by every command.
// --version is provided by urfave/cli through App.Version.
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "repository",
			Aliases: []string{"r"},
			Value:   ".",
			Usage:   "Path inside the git work tree to inspect",
		},
		&urfavecli.StringFlag{
			Name:    "base",
			Aliases: []string{"b"},
			Usage:   "Base ref of the stack (default from config, origin/master)",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=ls.key=value",
		},
		&urfavecli.BoolFlag{
			Name:  "show-themes",
			Usage: "List available themes and exit",
		},
	}
}

func printThemes(w io.Writer) {
	fmt.Fprintln(w, strings.Join(theme.Names(), "\n"))
}

// completeCommands lists the subcommands for shell completion.
func completeCommands(c *urfavecli.Context) {
	if c.NArg() > 0 {
		return
	}
	for _, cmd := range c.App.Commands {
		fmt.Fprintln(c.App.Writer, cmd.Name)
	}
}
