// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package pathreg

import (
	"context"

	"github.com/charmbracelet/log"

	"scripts-cli/internal/manifest"
)

// WindowsEnvironmentRegistrar edits the Windows registry and is unavailable
// on this platform.
type WindowsEnvironmentRegistrar struct {
	System bool
	Logger *log.Logger
}

// EnsurePath always fails with ErrUnsupportedPlatform.
func (r *WindowsEnvironmentRegistrar) EnsurePath(context.Context, string, []manifest.Kind) (Mutation, error) {
	return Mutation{}, ErrUnsupportedPlatform
}
