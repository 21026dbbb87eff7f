// SPDX-License-Identifier: MPL-2.0

//go:build windows

package pathreg

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/windows/registry"

	"scripts-cli/internal/manifest"
)

const (
	userEnvironmentKey    = `Environment`
	machineEnvironmentKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`

	defaultPathExt = ".COM;.EXE;.BAT;.CMD;.VBS;.VBE;.JS;.JSE;.WSF;.WSH;.MSC"
)

// WindowsEnvironmentRegistrar prepends the install directory to the
// persistent Path variable of the current user or of the machine.
type WindowsEnvironmentRegistrar struct {
	System bool
	Logger *log.Logger
}

// EnsurePath updates Path, and PATHEXT for script kinds Windows does not run
// natively. Values are written as REG_EXPAND_SZ.
func (r *WindowsEnvironmentRegistrar) EnsurePath(_ context.Context, dir string, kinds []manifest.Kind) (Mutation, error) {
	root, keyPath, label := registry.CURRENT_USER, userEnvironmentKey, `HKCU\`+userEnvironmentKey
	if r.System {
		root, keyPath, label = registry.LOCAL_MACHINE, machineEnvironmentKey, `HKLM\`+machineEnvironmentKey
	}
	mutation := Mutation{Target: label}

	key, err := registry.OpenKey(root, keyPath, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return mutation, fmt.Errorf("opening %s: %w", label, err)
	}
	defer func() { _ = key.Close() }()

	path, err := readString(key, "Path", "")
	if err != nil {
		return mutation, fmt.Errorf("reading %s Path: %w", label, err)
	}
	if !OnSearchPath(path, dir) {
		updated := dir
		if path != "" {
			updated = dir + ";" + path
		}
		if err := key.SetExpandStringValue("Path", updated); err != nil {
			return mutation, fmt.Errorf("writing %s Path: %w", label, err)
		}
		mutation.Changed = true
	}

	pathExt, err := readString(key, "PATHEXT", os.Getenv("PATHEXT"))
	if err != nil {
		return mutation, fmt.Errorf("reading %s PATHEXT: %w", label, err)
	}
	if pathExt == "" {
		pathExt = defaultPathExt
	}
	if extended, added := withExtensions(pathExt, kinds); added {
		if err := key.SetExpandStringValue("PATHEXT", extended); err != nil {
			return mutation, fmt.Errorf("writing %s PATHEXT: %w", label, err)
		}
		mutation.Changed = true
	}

	prependProcessPath(dir)
	if mutation.Changed {
		r.logger().Info("updated environment", "key", label, "dir", dir)
	}
	return mutation, nil
}

func (r *WindowsEnvironmentRegistrar) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

func readString(key registry.Key, name, fallback string) (string, error) {
	val, _, err := key.GetStringValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return fallback, nil
	}
	return val, err
}
