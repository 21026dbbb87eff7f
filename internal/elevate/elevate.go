// SPDX-License-Identifier: MPL-2.0

package elevate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"scripts-cli/internal/probe"
	"scripts-cli/pkg/platform"
)

const (
	// ModeDirect writes with the current user's permissions.
	ModeDirect Mode = iota
	// ModeElevated writes through sudo or doas.
	ModeElevated
)

var (
	// ErrElevationUnavailable indicates elevation is required but no
	// mechanism is installed.
	ErrElevationUnavailable = errors.New("privilege elevation unavailable")

	// ErrWrite indicates the destination could not be written, even after
	// elevation.
	ErrWrite = errors.New("destination not writable")
)

type (
	// Mode selects how files reach the destination directory.
	Mode int

	// Privileges answers the two questions the elevation policy needs.
	Privileges interface {
		// IsPrivileged reports whether the process runs as root or as an
		// elevated Administrator.
		IsPrivileged() bool
		// CanWrite reports whether the current user can create files in dir,
		// or in its nearest existing ancestor when dir does not exist yet.
		CanWrite(dir string) bool
	}

	// Elevator runs commands through a resolved elevation program.
	Elevator struct {
		program string
		runner  Runner
	}

	// FileSystem creates directories and places finished files at their
	// destination.
	FileSystem interface {
		Mode() Mode
		MkdirAll(ctx context.Context, dir string) error
		// Place copies src to dest with mode. dest is replaced atomically by
		// a rename from a sibling temporary file.
		Place(ctx context.Context, src, dest string, mode os.FileMode) error
	}

	// DirectFS writes with the current user's permissions.
	DirectFS struct{}

	// ElevatedFS writes through an Elevator.
	ElevatedFS struct {
		elevator *Elevator
	}

	// WriteError describes a failed write into the destination.
	// It wraps ErrWrite for errors.Is() compatibility.
	WriteError struct {
		Path string
		Err  error
	}

	// UnavailableError is returned when elevation is required and neither sudo
	// nor doas can be used.
	UnavailableError struct {
		Dir string
		Err error
	}
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeElevated:
		return "elevated"
	}
	return "unknown"
}

// Decide applies the elevation policy: only system-wide installs into a
// directory the unprivileged user cannot write need elevation.
func Decide(system bool, dir string, privs Privileges) Mode {
	if !system || privs.IsPrivileged() || privs.CanWrite(dir) {
		return ModeDirect
	}
	return ModeElevated
}

// NewElevator resolves sudo, then doas. Windows has no supported elevation
// program; callers must run from an elevated shell instead.
func NewElevator(prober *probe.Prober, runner Runner, goos string) (*Elevator, error) {
	if platform.IsWindows(goos) {
		return nil, fmt.Errorf("%w: run from an elevated shell on Windows", ErrElevationUnavailable)
	}
	program, err := prober.Resolve(probe.Elevator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrElevationUnavailable, err)
	}
	return &Elevator{program: program, runner: runner}, nil
}

// Program returns the path of the elevation program in use.
func (e *Elevator) Program() string { return e.program }

// Run executes name with args through the elevation program.
func (e *Elevator) Run(ctx context.Context, name string, args ...string) error {
	return e.runner.Run(ctx, e.program, append([]string{name}, args...)...)
}

// NewFileSystem returns the FileSystem for mode. Elevated mode resolves the
// elevation program and fails with UnavailableError when there is none.
func NewFileSystem(mode Mode, dir string, prober *probe.Prober, runner Runner, goos string) (FileSystem, error) {
	if mode == ModeDirect {
		return DirectFS{}, nil
	}
	elevator, err := NewElevator(prober, runner, goos)
	if err != nil {
		return nil, &UnavailableError{Dir: dir, Err: err}
	}
	return &ElevatedFS{elevator: elevator}, nil
}

// Mode returns ModeDirect.
func (DirectFS) Mode() Mode { return ModeDirect }

// MkdirAll creates dir and its parents.
func (DirectFS) MkdirAll(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: dir, Err: err}
	}
	return nil
}

// Place copies src into a temporary sibling of dest, sets mode and renames
// it over dest.
func (DirectFS) Place(_ context.Context, src, dest string, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return &WriteError{Path: dest, Err: err}
	}
	tmpPath := tmp.Name()

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if copyErr := copyFile(tmp, src); copyErr != nil {
		_ = tmp.Close()
		return &WriteError{Path: dest, Err: copyErr}
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return &WriteError{Path: dest, Err: closeErr}
	}
	if chmodErr := os.Chmod(tmpPath, mode); chmodErr != nil {
		return &WriteError{Path: dest, Err: chmodErr}
	}
	if renameErr := os.Rename(tmpPath, dest); renameErr != nil {
		return &WriteError{Path: dest, Err: renameErr}
	}
	renamed = true
	return nil
}

// Mode returns ModeElevated.
func (*ElevatedFS) Mode() Mode { return ModeElevated }

// Elevator returns the elevator the file system writes through.
func (f *ElevatedFS) Elevator() *Elevator { return f.elevator }

// MkdirAll runs mkdir -p through the elevator.
func (f *ElevatedFS) MkdirAll(ctx context.Context, dir string) error {
	if err := f.elevator.Run(ctx, "mkdir", "-p", dir); err != nil {
		return &WriteError{Path: dir, Err: err}
	}
	return nil
}

// Place copies src next to dest, sets mode and moves it over dest, each step
// through the elevator.
func (f *ElevatedFS) Place(ctx context.Context, src, dest string, mode os.FileMode) error {
	tmpDest := filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+".partial")

	steps := [][]string{
		{"cp", src, tmpDest},
		{"chmod", strconv.FormatUint(uint64(mode.Perm()), 8), tmpDest},
		{"mv", "-f", tmpDest, dest},
	}
	for i, step := range steps {
		if err := f.elevator.Run(ctx, step[0], step[1:]...); err != nil {
			if i > 0 {
				_ = f.elevator.Run(ctx, "rm", "-f", tmpDest)
			}
			return &WriteError{Path: dest, Err: err}
		}
	}
	return nil
}

// Error returns the destination and the underlying failure.
func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrWrite and the underlying cause.
func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Err} }

// Error explains that elevation was needed for Dir.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s is not writable and %v", e.Dir, e.Err)
}

// Unwrap returns the underlying error, which wraps ErrElevationUnavailable.
func (e *UnavailableError) Unwrap() error { return e.Err }

// copyFile streams the file at src into dst.
func copyFile(dst io.Writer, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() { _ = in.Close() }() // read-only file handle

	if _, err := io.Copy(dst, in); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return nil
}
