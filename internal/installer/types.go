// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"scripts-cli/internal/manifest"
	"scripts-cli/pkg/platform"
)

const (
	// ScopeSystem installs for every user of the machine.
	ScopeSystem Scope = "system"
	// ScopeUser installs for the current user only.
	ScopeUser Scope = "user"

	// StatusInstalled means the script was written to its destination.
	StatusInstalled Status = "installed"
	// StatusAlreadyPresent means the destination already held identical content.
	StatusAlreadyPresent Status = "already-present"
	// StatusNoMatch means no manifest entry carries the requested name.
	StatusNoMatch Status = "no-match"

	// ScriptMode is the permission every installed script receives.
	ScriptMode os.FileMode = 0o755
)

var (
	// ErrInvalidScope is the sentinel error wrapped by InvalidScopeError.
	ErrInvalidScope = errors.New("invalid install scope")

	// ErrNoMatch is the sentinel error wrapped by NoMatchError.
	ErrNoMatch = errors.New("no script found")

	// ErrPathUpdate wraps failures to put the install directory on the
	// search path.
	ErrPathUpdate = errors.New("search path update failed")

	// ErrNoNames is returned when Install is called without any names.
	ErrNoNames = errors.New("no script names given")
)

type (
	// Scope selects a system-wide or per-user install.
	Scope string

	// Status is the per-name result of an install.
	Status string

	// InvalidScopeError is returned when a Scope value is not recognized.
	// It wraps ErrInvalidScope for errors.Is() compatibility.
	InvalidScopeError struct {
		Value Scope
	}

	// Target is where a script lands and with which permissions.
	Target struct {
		Dir  string
		File string
		Mode os.FileMode
		goos string
	}

	// Outcome reports what happened to one requested name.
	Outcome struct {
		Name   string
		Status Status
		Target Target
		Entry  manifest.Entry
		Err    error
	}

	// Request describes one install invocation.
	Request struct {
		Names []string
		Ref   string
		// Dir overrides the default directory for Scope when non-empty.
		Dir   string
		Scope Scope
	}

	// NoMatchError lists every requested name missing from the manifest.
	// It wraps ErrNoMatch for errors.Is() compatibility.
	NoMatchError struct {
		Names []string
		Ref   string
		// Suggestions maps a missing name to close manifest names.
		Suggestions map[string][]string
	}
)

// String returns the scope name.
func (s Scope) String() string { return string(s) }

// IsValid returns whether the Scope is one of the defined scopes,
// and a list of validation errors if it is not.
func (s Scope) IsValid() (bool, []error) {
	switch s {
	case ScopeSystem, ScopeUser:
		return true, nil
	default:
		return false, []error{&InvalidScopeError{Value: s}}
	}
}

// Error implements the error interface.
func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("invalid install scope %q (valid: system, user)", e.Value)
}

// Unwrap returns ErrInvalidScope so callers can use errors.Is for programmatic detection.
func (e *InvalidScopeError) Unwrap() error { return ErrInvalidScope }

// String returns the status name.
func (s Status) String() string { return string(s) }

// Path returns the full destination path.
func (t Target) Path() string { return platform.JoinPath(t.goos, t.Dir, t.File) }

// TargetFor computes where entry is installed inside dir on goos.
func TargetFor(entry manifest.Entry, dir, goos string) Target {
	return Target{
		Dir:  dir,
		File: platform.ScriptFileName(entry.Name, entry.Kind.Ext(), goos),
		Mode: ScriptMode,
		goos: goos,
	}
}

// Error names the missing scripts in one line.
func (e *NoMatchError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	msg := "no script found named " + strings.Join(quoted, ", ")
	if e.Ref != "" {
		msg += " at ref " + e.Ref
	}
	return msg
}

// Unwrap returns ErrNoMatch.
func (e *NoMatchError) Unwrap() error { return ErrNoMatch }
