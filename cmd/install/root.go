// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the install command line.
package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version is the semantic version (set via -ldflags). It is sent in the
// User-Agent of GitHub requests.
var Version = "dev"

// newRootCommand builds the install command bound to app.
func newRootCommand(app *App) *cobra.Command {
	var params installParams

	root := &cobra.Command{
		Use:   "install [OPTIONS] [NAMES]...",
		Short: "Install scripts from the scripts repository",
		Long: TitleStyle.Render("install") + SubtitleStyle.Render(" - Install scripts from the scripts repository") + `

Downloads each named script from GitHub into a bin directory, marks it
executable and makes sure the directory is on your PATH.

` + SubtitleStyle.Render("Examples:") + `
  install --list                  List available scripts
  install mlab                    Install mlab system-wide
  install --user --version develop mlab
                                  Install from the develop branch for the current user
  install --dest ~/bin a b        Install two scripts into ~/bin`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Names = args
			return app.runInstall(cmd.Context(), params)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newUsageError(err)
	})

	flags := root.Flags()
	flags.StringVarP(&params.Dest, "dest", "d", "", "override destination directory")
	flags.BoolVarP(&params.List, "list", "l", false, "list available script names")
	flags.BoolVarP(&params.User, "user", "u", false, "install for current user instead of system-wide")
	flags.StringVarP(&params.Ref, "version", "v", "", "Git ref to install from (default: main)")
	flags.StringVar(&params.ConfigPath, "config", "", "config file (default is <config dir>/scripts/config.cue)")
	flags.BoolVar(&params.Verbose, "verbose", false, "debug logging and detailed error guidance")

	return root
}

// Execute runs the install command and exits with its exit code. It is
// called by main.main().
func Execute() {
	os.Exit(execute(context.Background(), NewApp(Dependencies{}), os.Args[1:]))
}

// execute runs the root command with args and returns the exit code.
func execute(ctx context.Context, app *App, args []string) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	err := fang.Execute(
		ctx,
		root,
		fang.WithoutVersion(),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
		fang.WithErrorHandler(func(_ io.Writer, _ fang.Styles, err error) {
			app.renderError(err)
		}),
		fang.WithNotifySignal(os.Interrupt),
	)
	return exitCode(err)
}
