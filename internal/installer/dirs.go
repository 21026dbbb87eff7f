// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"errors"

	"scripts-cli/pkg/platform"
)

// ErrNoHome is returned when a user install has no home directory to use.
var ErrNoHome = errors.New("cannot determine home directory for a user install")

// Env is the slice of the process environment DefaultDir consults.
type Env struct {
	Home   string
	Getenv func(string) string
}

// DefaultDir returns the install directory for scope on goos.
//
//	system: /usr/local/bin, or %ProgramFiles%\Bin on Windows
//	user:   $XDG_BIN_HOME or ~/.local/bin, or %LOCALAPPDATA%\Programs\Bin on Windows
func DefaultDir(scope Scope, goos string, env Env) (string, error) {
	if ok, errs := scope.IsValid(); !ok {
		return "", errs[0]
	}
	getenv := env.Getenv
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	if platform.IsWindows(goos) {
		if scope == ScopeSystem {
			base := getenv("ProgramFiles")
			if base == "" {
				base = `C:\Program Files`
			}
			return platform.JoinPath(goos, base, "Bin"), nil
		}
		base := getenv("LOCALAPPDATA")
		if base == "" {
			if env.Home == "" {
				return "", ErrNoHome
			}
			base = platform.JoinPath(goos, env.Home, "AppData", "Local")
		}
		return platform.JoinPath(goos, base, "Programs", "Bin"), nil
	}

	if scope == ScopeSystem {
		return "/usr/local/bin", nil
	}
	if bin := getenv("XDG_BIN_HOME"); bin != "" {
		return bin, nil
	}
	if env.Home == "" {
		return "", ErrNoHome
	}
	return platform.JoinPath(goos, env.Home, ".local", "bin"), nil
}
