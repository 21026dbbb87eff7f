// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"scripts-cli/internal/config"
	"scripts-cli/internal/installer"
	"scripts-cli/internal/manifest"
)

type (
	// App wires the install command. It is the composition root of the CLI:
	// cobra handlers parse flags into installParams and hand them to
	// runInstall.
	App struct {
		Config           ConfigProvider
		manifestOptions  []manifest.ClientOption
		installerOptions []installer.Option
		stdout           io.Writer
		stderr           io.Writer
		verbose          bool
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp. ManifestOptions and
	// InstallerOptions are applied after the options derived from the
	// configuration, so tests can redirect the GitHub client and fake the
	// operating system.
	Dependencies struct {
		Config           ConfigProvider
		ManifestOptions  []manifest.ClientOption
		InstallerOptions []installer.Option
		Stdout           io.Writer
		Stderr           io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// installParams are the parsed command-line inputs of one invocation.
	installParams struct {
		Names      []string
		Dest       string
		List       bool
		User       bool
		Ref        string
		ConfigPath string
		Verbose    bool
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:           deps.Config,
		manifestOptions:  deps.ManifestOptions,
		installerOptions: deps.InstallerOptions,
		stdout:           deps.Stdout,
		stderr:           deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// runInstall lists or installs scripts according to params.
func (a *App) runInstall(ctx context.Context, params installParams) error {
	a.verbose = params.Verbose
	if !params.List && len(params.Names) == 0 {
		return newUsageError(errors.New("missing script names"))
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: params.ConfigPath})
	if err != nil {
		return err
	}

	logger := newLogger(a.stderr, cfg.Log, params.Verbose)
	client, err := a.newClient(cfg, logger)
	if err != nil {
		return err
	}
	in := installer.New(client, append([]installer.Option{installer.WithLogger(logger)}, a.installerOptions...)...)

	ref := params.Ref
	if ref == "" {
		ref = cfg.Install.DefaultRef
	}

	if params.List {
		names, err := in.List(ctx, ref)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(a.stdout, name)
		}
		return nil
	}

	scope := installer.Scope(cfg.Install.Scope)
	if params.User {
		scope = installer.ScopeUser
	}
	dest := params.Dest
	if dest == "" {
		dest = cfg.Install.Dest
	}

	outcomes, err := in.Install(ctx, installer.Request{
		Names: params.Names,
		Ref:   ref,
		Dir:   dest,
		Scope: scope,
	})
	if !cfg.Log.NoLog {
		a.printOutcomes(outcomes)
	}
	return err
}

// newClient builds the GitHub client from the repository and network
// settings.
func (a *App) newClient(cfg *config.Config, logger *log.Logger) (*manifest.Client, error) {
	timeout, err := cfg.Network.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	opts := []manifest.ClientOption{
		manifest.WithRepo(cfg.Repository.Owner, cfg.Repository.Name),
		manifest.WithScriptsDir(cfg.Repository.ScriptsDir),
		manifest.WithBaseURL(cfg.Repository.APIURL),
		manifest.WithRawURL(cfg.Repository.RawURL),
		manifest.WithTimeout(timeout),
		manifest.WithToken(cfg.Network.Token),
		manifest.WithUserAgent("scripts-installer/" + Version),
		manifest.WithLogger(logger),
	}
	return manifest.NewClient(append(opts, a.manifestOptions...)...), nil
}

func (a *App) printOutcomes(outcomes []installer.Outcome) {
	for _, o := range outcomes {
		switch o.Status {
		case installer.StatusInstalled:
			fmt.Fprintf(a.stdout, "%s Installed %s to %s\n",
				SuccessStyle.Render("✓"), o.Name, PathStyle.Render(o.Target.Path()))
		case installer.StatusAlreadyPresent:
			fmt.Fprintf(a.stdout, "%s %s is already installed at %s\n",
				SubtitleStyle.Render("•"), o.Name, PathStyle.Render(o.Target.Path()))
		case installer.StatusNoMatch:
			// Reported once through the aggregated error.
		}
	}
}

// newLogger writes key/value log lines to w. NoLog hides informational lines
// and verbose shows debug lines.
func newLogger(w io.Writer, cfg config.LogConfig, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "install"})

	level, err := log.ParseLevel(cfg.Level.String())
	if err != nil {
		level = log.InfoLevel
	}
	switch {
	case verbose:
		level = log.DebugLevel
	case cfg.NoLog && level < log.WarnLevel:
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}
