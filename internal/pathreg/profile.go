// SPDX-License-Identifier: MPL-2.0

package pathreg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"

	"scripts-cli/internal/manifest"
)

// UnixProfileAppender appends a PATH statement to the profile of the user's
// login shell.
type UnixProfileAppender struct {
	Home  string
	Shell Shell
	// ConfigHome is the base directory for fish's configuration, normally
	// $XDG_CONFIG_HOME. Empty means ~/.config.
	ConfigHome string
	// NuConfigHome is the base directory for Nushell's configuration. Empty
	// means the platform's XDG config home.
	NuConfigHome string
	Logger       *log.Logger
}

// NewUnixProfileAppender creates an appender for home and the login shell
// named by shellEnv.
func NewUnixProfileAppender(home, shellEnv string, logger *log.Logger) *UnixProfileAppender {
	return &UnixProfileAppender{
		Home:   home,
		Shell:  DetectShell(shellEnv),
		Logger: logger,
	}
}

// ProfilePath returns the file the statement is written to.
func (a *UnixProfileAppender) ProfilePath() string {
	switch a.Shell {
	case ShellBash:
		return filepath.Join(a.Home, ".bashrc")
	case ShellZsh:
		return filepath.Join(a.Home, ".zshrc")
	case ShellFish:
		base := a.ConfigHome
		if base == "" {
			base = filepath.Join(a.Home, ".config")
		}
		return filepath.Join(base, "fish", "config.fish")
	case ShellNu:
		base := a.NuConfigHome
		if base == "" {
			base = xdg.ConfigHome
		}
		return filepath.Join(base, "nushell", "config.nu")
	}
	return filepath.Join(a.Home, ".profile")
}

// EnsurePath appends the PATH statement for dir unless the profile already
// contains it. The profile and its parent directories are created as needed.
func (a *UnixProfileAppender) EnsurePath(_ context.Context, dir string, _ []manifest.Kind) (Mutation, error) {
	profile := a.ProfilePath()
	mutation := Mutation{Target: profile}

	stmt, err := a.Shell.Statement(dir)
	if err != nil {
		return mutation, err
	}

	existing, err := os.ReadFile(profile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return mutation, fmt.Errorf("reading %s: %w", profile, err)
	}
	if containsLine(existing, stmt) {
		a.logger().Debug("profile already updated", "profile", profile)
		prependProcessPath(dir)
		return mutation, nil
	}

	if err := os.MkdirAll(filepath.Dir(profile), 0o755); err != nil {
		return mutation, fmt.Errorf("creating %s: %w", filepath.Dir(profile), err)
	}
	f, err := os.OpenFile(profile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return mutation, fmt.Errorf("opening %s: %w", profile, err)
	}
	if _, err := fmt.Fprintf(f, "\n%s\n%s\n", profileMarker, stmt); err != nil {
		_ = f.Close()
		return mutation, fmt.Errorf("writing %s: %w", profile, err)
	}
	if err := f.Close(); err != nil {
		return mutation, fmt.Errorf("writing %s: %w", profile, err)
	}

	mutation.Changed = true
	prependProcessPath(dir)
	a.logger().Info("added install directory to shell profile", "dir", dir, "profile", profile, "shell", a.Shell)
	return mutation, nil
}

func (a *UnixProfileAppender) logger() *log.Logger {
	if a.Logger == nil {
		return log.Default()
	}
	return a.Logger
}

func containsLine(content []byte, line string) bool {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == line {
			return true
		}
	}
	return false
}
