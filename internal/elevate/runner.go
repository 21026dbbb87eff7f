// SPDX-License-Identifier: MPL-2.0

package elevate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type (
	// Runner executes one external command to completion.
	Runner interface {
		Run(ctx context.Context, name string, args ...string) error
	}

	// CommandError describes a failed external command, including its stderr.
	CommandError struct {
		Name   string
		Args   []string
		Stderr string
		Err    error
	}

	// ExecRunner runs commands with os/exec. Stdin is inherited so that sudo
	// and doas can prompt for a password on the terminal.
	ExecRunner struct {
		Stdin bool
	}
)

// Run executes name with args and captures stderr into the returned error.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if r.Stdin {
		cmd.Stdin = os.Stdin
	}
	if err := cmd.Run(); err != nil {
		return &CommandError{Name: name, Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return nil
}

// Error returns the command line and the first line of its stderr.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		first, _, _ := strings.Cut(e.Stderr, "\n")
		msg += ": " + first
	}
	return msg
}

// Unwrap returns the underlying exec error.
func (e *CommandError) Unwrap() error { return e.Err }
