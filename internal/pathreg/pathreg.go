// SPDX-License-Identifier: MPL-2.0

// Package pathreg makes an install directory part of the user's command
// search path. On Unix it appends one statement to the login shell's profile;
// on Windows it edits the persistent Path environment variable in the
// registry. Both registrars are idempotent.
package pathreg

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"scripts-cli/internal/manifest"
	"scripts-cli/pkg/platform"
)

// ErrUnsupportedPlatform is returned by a registrar used on the wrong OS.
var ErrUnsupportedPlatform = errors.New("path registration is not supported on this platform")

type (
	// PathRegistrar ensures dir is on the persistent command search path.
	// kinds lists the script kinds just installed into dir; registrars that
	// care about file associations use it.
	PathRegistrar interface {
		EnsurePath(ctx context.Context, dir string, kinds []manifest.Kind) (Mutation, error)
	}

	// Mutation describes what EnsurePath touched. Target is the profile file
	// or registry key; Changed is false when it already held the entry.
	Mutation struct {
		Target  string
		Changed bool
	}

	// Options selects and configures the registrar for the running platform.
	Options struct {
		GOOS string
		// System targets machine-wide settings where the platform has them.
		System bool
		Home   string
		// ShellEnv is the value of $SHELL.
		ShellEnv string
		// ConfigHome is the value of $XDG_CONFIG_HOME.
		ConfigHome string
		Logger     *log.Logger
	}
)

// New returns the registrar for opts.GOOS.
func New(opts Options) PathRegistrar {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if platform.IsWindows(opts.GOOS) {
		return &WindowsEnvironmentRegistrar{System: opts.System, Logger: logger}
	}
	a := NewUnixProfileAppender(opts.Home, opts.ShellEnv, logger)
	a.ConfigHome = opts.ConfigHome
	return a
}

// OnSearchPath reports whether dir is an element of pathList.
func OnSearchPath(pathList, dir string) bool {
	want := filepath.Clean(dir)
	for _, p := range filepath.SplitList(pathList) {
		if p != "" && samePath(filepath.Clean(p), want) {
			return true
		}
	}
	return false
}

// prependProcessPath puts dir at the front of this process's PATH so that
// look-ups later in the same invocation find the new directory.
func prependProcessPath(dir string) {
	current := os.Getenv("PATH")
	if OnSearchPath(current, dir) {
		return
	}
	if current == "" {
		_ = os.Setenv("PATH", dir)
		return
	}
	_ = os.Setenv("PATH", dir+string(os.PathListSeparator)+current)
}

func samePath(a, b string) bool {
	if os.PathSeparator == '\\' {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// withExtensions appends the upper-cased extension of each kind missing from
// the PATHEXT list pathExt. added is false when nothing was missing.
func withExtensions(pathExt string, kinds []manifest.Kind) (extended string, added bool) {
	present := strings.Split(pathExt, ";")
	extended = pathExt
	for _, k := range kinds {
		ext := strings.ToUpper(k.Ext())
		if slices.ContainsFunc(present, func(v string) bool { return strings.EqualFold(v, ext) }) {
			continue
		}
		extended += ";" + ext
		present = append(present, ext)
		added = true
	}
	return extended, added
}
