// SPDX-License-Identifier: MPL-2.0

// Package installer installs scripts from the remote manifest into a local
// directory. It resolves names, downloads each script, places it through the
// direct or elevated file system, and finally makes sure the directory is on
// the user's command search path.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"

	"scripts-cli/internal/elevate"
	"scripts-cli/internal/manifest"
	"scripts-cli/internal/pathreg"
	"scripts-cli/internal/probe"
	"scripts-cli/pkg/platform"
)

type (
	// Source lists and downloads scripts. *manifest.Client implements it.
	Source interface {
		ListAvailable(ctx context.Context, ref string) ([]manifest.Entry, error)
		Download(ctx context.Context, ref string, entry manifest.Entry) (io.ReadCloser, error)
	}

	// Option configures an Installer.
	Option func(*Installer)

	// Installer carries the collaborators of an install run.
	Installer struct {
		source       Source
		privileges   elevate.Privileges
		runner       elevate.Runner
		prober       *probe.Prober
		registrar    pathreg.PathRegistrar
		newRegistrar func(pathreg.Options) pathreg.PathRegistrar
		env          Env
		goos         string
		logger       *log.Logger
	}
)

// WithPrivileges replaces the privilege checks used by the elevation policy.
func WithPrivileges(p elevate.Privileges) Option {
	return func(in *Installer) { in.privileges = p }
}

// WithRunner replaces the process runner used for elevated commands.
func WithRunner(r elevate.Runner) Option {
	return func(in *Installer) { in.runner = r }
}

// WithLookPath replaces the search path lookup used to find sudo, doas and
// script runtimes.
func WithLookPath(fn probe.LookPathFunc) Option {
	return func(in *Installer) { in.prober = probe.New(fn) }
}

// WithRegistrar replaces the search path registrar for every scope.
func WithRegistrar(r pathreg.PathRegistrar) Option {
	return func(in *Installer) { in.registrar = r }
}

// WithEnv sets the home directory and environment lookup used for default
// directories and search path checks.
func WithEnv(env Env) Option {
	return func(in *Installer) { in.env = env }
}

// WithGOOS overrides the target operating system.
func WithGOOS(goos string) Option {
	return func(in *Installer) { in.goos = goos }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(in *Installer) {
		if l != nil {
			in.logger = l
		}
	}
}

// New creates an Installer reading from src. Defaults talk to the real
// operating system.
func New(src Source, opts ...Option) *Installer {
	home, _ := os.UserHomeDir()
	in := &Installer{
		source:       src,
		privileges:   elevate.OSPrivileges{},
		runner:       elevate.ExecRunner{Stdin: true},
		prober:       probe.New(exec.LookPath),
		newRegistrar: pathreg.New,
		env:          Env{Home: home, Getenv: os.Getenv},
		goos:         runtime.GOOS,
		logger:       log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.env.Getenv == nil {
		in.env.Getenv = os.Getenv
	}
	return in
}

// registrarFor returns the search path registrar for scope. System scope
// targets machine-wide settings where the platform has them.
func (in *Installer) registrarFor(scope Scope) pathreg.PathRegistrar {
	if in.registrar != nil {
		return in.registrar
	}
	return in.newRegistrar(pathreg.Options{
		GOOS:       in.goos,
		System:     scope == ScopeSystem,
		Home:       in.env.Home,
		ShellEnv:   in.env.Getenv("SHELL"),
		ConfigHome: in.env.Getenv("XDG_CONFIG_HOME"),
		Logger:     in.logger,
	})
}

// List returns the distinct script names available at ref, in manifest order.
func (in *Installer) List(ctx context.Context, ref string) ([]string, error) {
	entries, err := in.source.ListAvailable(ctx, ref)
	if err != nil {
		return nil, err
	}
	return manifest.Names(entries), nil
}

// Install installs every name in req and returns one Outcome per name.
// Names missing from the manifest are skipped and reported together in a
// *NoMatchError once all other names are done. Network, elevation and write
// failures abort the run immediately.
func (in *Installer) Install(ctx context.Context, req Request) ([]Outcome, error) {
	if len(req.Names) == 0 {
		return nil, ErrNoNames
	}
	if req.Scope == "" {
		req.Scope = ScopeSystem
	}
	if ok, errs := req.Scope.IsValid(); !ok {
		return nil, errs[0]
	}

	dir := req.Dir
	if dir == "" {
		var err error
		if dir, err = DefaultDir(req.Scope, in.goos, in.env); err != nil {
			return nil, err
		}
	} else if !filepath.IsAbs(dir) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", dir, err)
		}
		dir = abs
	}

	entries, err := in.source.ListAvailable(ctx, req.Ref)
	if err != nil {
		return nil, err
	}

	mode := elevate.Decide(req.Scope == ScopeSystem, dir, in.privileges)
	fs, err := elevate.NewFileSystem(mode, dir, in.prober, in.runner, in.goos)
	if err != nil {
		return nil, err
	}
	in.logger.Debug("resolved destination", "dir", dir, "scope", req.Scope, "mode", mode)

	var (
		outcomes []Outcome
		missing  *NoMatchError
		kinds    []manifest.Kind
		dirReady bool
	)
	for _, name := range req.Names {
		entry, ok := manifest.Resolve(entries, name, in.goos)
		if !ok {
			if missing == nil {
				missing = &NoMatchError{Ref: req.Ref, Suggestions: map[string][]string{}}
			}
			missing.Names = append(missing.Names, name)
			if s := manifest.Suggest(entries, name); len(s) > 0 {
				missing.Suggestions[name] = s
			}
			outcomes = append(outcomes, Outcome{Name: name, Status: StatusNoMatch, Err: &NoMatchError{Names: []string{name}, Ref: req.Ref}})
			in.logger.Warn("no script found", "name", name, "ref", req.Ref)
			continue
		}

		if !dirReady {
			if err := fs.MkdirAll(ctx, dir); err != nil {
				return outcomes, err
			}
			dirReady = true
		}

		target := TargetFor(entry, dir, in.goos)
		status, err := in.installOne(ctx, fs, req.Ref, entry, target)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, Outcome{Name: name, Status: status, Target: target, Entry: entry})
		if !slices.Contains(kinds, entry.Kind) {
			kinds = append(kinds, entry.Kind)
		}
		in.logger.Debug(string(status), "name", name, "path", target.Path(), "kind", entry.Kind)
		in.warnMissingRuntime(entry)
	}

	if len(kinds) > 0 && !pathreg.OnSearchPath(in.env.Getenv("PATH"), dir) {
		if _, err := in.registrarFor(req.Scope).EnsurePath(ctx, dir, kinds); err != nil {
			return outcomes, fmt.Errorf("adding %s to the search path: %w: %w", dir, ErrPathUpdate, err)
		}
	}

	if missing != nil {
		return outcomes, missing
	}
	return outcomes, nil
}

// installOne downloads entry and places it at target unless target already
// holds identical content with the right mode.
func (in *Installer) installOne(ctx context.Context, fs elevate.FileSystem, ref string, entry manifest.Entry, target Target) (Status, error) {
	tmp, sum, err := downloadToTempFile(ctx, in.source, ref, entry)
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp) }()

	dest := target.Path()
	if existing, hashErr := fileHash(dest); hashErr == nil && existing == sum {
		if info, statErr := os.Stat(dest); statErr == nil && hasMode(info, target.Mode, in.goos) {
			return StatusAlreadyPresent, nil
		}
		if err := fs.Place(ctx, tmp, dest, target.Mode); err != nil {
			return "", err
		}
		return StatusAlreadyPresent, nil
	} else if hashErr != nil && !errors.Is(hashErr, os.ErrNotExist) {
		in.logger.Debug("cannot read existing destination, replacing it", "path", dest, "error", hashErr)
	}

	if err := fs.Place(ctx, tmp, dest, target.Mode); err != nil {
		return "", err
	}
	return StatusInstalled, nil
}

// warnMissingRuntime logs a warning when entry needs an interpreter that is
// not on the search path.
func (in *Installer) warnMissingRuntime(entry manifest.Entry) {
	var capability probe.Capability
	switch entry.Kind {
	case manifest.KindNushell:
		capability = probe.Nushell
	case manifest.KindPowerShell:
		capability = probe.PowerShell
	default:
		return
	}
	if !in.prober.Available(capability) {
		in.logger.Warn("script runtime not found; the script will not run until it is installed",
			"name", entry.Name, "runtime", entry.Kind.Runtime())
	}
}

// hasMode reports whether info carries mode. Windows has no execute bits, so
// any regular file qualifies there.
func hasMode(info os.FileInfo, mode os.FileMode, goos string) bool {
	if platform.IsWindows(goos) {
		return info.Mode().IsRegular()
	}
	return info.Mode().Perm() == mode.Perm()
}
