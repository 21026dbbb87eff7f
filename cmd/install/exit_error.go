// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
)

const (
	// ExitOK is returned when every requested script was installed or listed.
	ExitOK = 0
	// ExitFailure covers network, elevation, write and no-match failures.
	ExitFailure = 1
	// ExitUsage is returned for missing arguments and bad flags.
	ExitUsage = 2
)

// usageHint follows every usage error.
const usageHint = "Run 'install --help' for usage."

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// newUsageError wraps err so it exits with ExitUsage.
func newUsageError(err error) *ExitError {
	return &ExitError{Code: ExitUsage, Err: err}
}

// exitCode maps an error returned by the root command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
