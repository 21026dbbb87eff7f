// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	// KindShell is a POSIX shell script (.sh).
	KindShell Kind = "sh"
	// KindPowerShell is a PowerShell script (.ps1).
	KindPowerShell Kind = "ps1"
	// KindNushell is a Nushell script (.nu).
	KindNushell Kind = "nu"
)

// ErrInvalidKind is the sentinel error wrapped by InvalidKindError.
var ErrInvalidKind = errors.New("invalid script kind")

type (
	// Kind identifies a script by its file extension. The kind decides which
	// interpreter must be present before the installed script can run.
	Kind string

	// InvalidKindError is returned when a Kind value is not a supported extension.
	// It wraps ErrInvalidKind for errors.Is() compatibility.
	InvalidKindError struct {
		Value Kind
	}
)

// Kinds returns every supported kind.
func Kinds() []Kind {
	return []Kind{KindShell, KindPowerShell, KindNushell}
}

// KindOf derives the kind of a repository path from its extension.
func KindOf(p string) (Kind, error) {
	k := Kind(strings.TrimPrefix(path.Ext(p), "."))
	if valid, errs := k.IsValid(); !valid {
		return "", errs[0]
	}
	return k, nil
}

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// Ext returns the file extension of the kind, including the leading dot.
func (k Kind) Ext() string { return "." + string(k) }

// IsValid returns whether the Kind is one of the supported kinds,
// and a list of validation errors if it is not.
func (k Kind) IsValid() (bool, []error) {
	switch k {
	case KindShell, KindPowerShell, KindNushell:
		return true, nil
	default:
		return false, []error{&InvalidKindError{Value: k}}
	}
}

// Runtime returns the interpreter command the kind needs at run time.
// Shell scripts return an empty string because /bin/sh is assumed.
func (k Kind) Runtime() string {
	switch k {
	case KindPowerShell:
		return "pwsh"
	case KindNushell:
		return "nu"
	case KindShell:
		return ""
	}
	return ""
}

// Error implements the error interface for InvalidKindError.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid script kind %q (valid: sh, ps1, nu)", e.Value)
}

// Unwrap returns ErrInvalidKind for errors.Is() compatibility.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }
